package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/shift/pkg/shift/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "journal.json"))
	require.NoError(t, err)
	return s
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.Load())
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	assert.Empty(t, s.Load())
}

func TestAppend_StampsRecord(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpCopy)
	rec.Success = true
	require.NoError(t, s.Append(rec))

	records := s.Load()
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, StatusCompleted, records[0].Status)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestAppend_FailedBatchJournaled(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpCut)
	rec.Success = false
	rec.ErrorMessage = "disk full"
	require.NoError(t, s.Append(rec))

	records := s.Load()
	require.Len(t, records, 1)
	assert.Equal(t, StatusFailed, records[0].Status)
	assert.Equal(t, "disk full", records[0].ErrorMessage)
}

func TestAppend_EmptySlicesSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpCopy)
	rec.Success = true
	require.NoError(t, s.Append(rec))

	records := s.Load()
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].SourcePaths)
	assert.NotNil(t, records[0].TargetPaths)
	assert.NotNil(t, records[0].BackupPaths)
}

func TestNewest(t *testing.T) {
	s := newTestStore(t)

	first := NewRecord(types.OpCopy)
	first.Success = true
	require.NoError(t, s.Append(first))

	failed := NewRecord(types.OpCut)
	failed.Success = false
	require.NoError(t, s.Append(failed))

	second := NewRecord(types.OpCopy)
	second.Success = true
	require.NoError(t, s.Append(second))

	newest := s.Newest(StatusCompleted)
	require.NotNil(t, newest)
	assert.Equal(t, second.ID, newest.ID)

	newestFailed := s.Newest(StatusFailed)
	require.NotNil(t, newestFailed)
	assert.Equal(t, failed.ID, newestFailed.ID)

	assert.Nil(t, s.Newest(StatusUndone))
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 5; i++ {
		rec := NewRecord(types.OpCopy)
		rec.Success = true
		require.NoError(t, s.Append(rec))
		ids = append(ids, rec.ID)
	}

	records := s.List(2)
	require.Len(t, records, 2)
	assert.Equal(t, ids[4], records[0].ID)
	assert.Equal(t, ids[3], records[1].ID)

	all := s.List(0)
	assert.Len(t, all, 5)
}

func TestGet(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpRename)
	rec.Success = true
	require.NoError(t, s.Append(rec))

	found, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)

	_, err = s.Get("no-such-id")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 5; i++ {
		rec := NewRecord(types.OpCopy)
		rec.Success = true
		require.NoError(t, s.Append(rec))
		ids = append(ids, rec.ID)
	}

	require.NoError(t, s.Truncate(3))

	records := s.Load()
	require.Len(t, records, 3)
	// The oldest records are dropped.
	assert.Equal(t, ids[2], records[0].ID)
	assert.Equal(t, ids[4], records[2].ID)
}

func TestTruncate_UnderLimitIsNoop(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpCopy)
	rec.Success = true
	require.NoError(t, s.Append(rec))

	require.NoError(t, s.Truncate(10))
	assert.Len(t, s.Load(), 1)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	rec := NewRecord(types.OpCopy)
	rec.Success = true
	require.NoError(t, s.Append(rec))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Load())
}
