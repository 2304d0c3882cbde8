package mover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/shift/pkg/shift/backup"
	"github.com/jamesainslie/shift/pkg/shift/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMover(t *testing.T) *Mover {
	t.Helper()
	store, err := backup.New(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)
	return &Mover{Backups: store}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopy(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "sub", "b.txt")
	writeFile(t, src, "content")

	require.NoError(t, m.Copy(src, dst, false))

	assert.Equal(t, "content", readFile(t, dst))
	// Source stays in place.
	assert.Equal(t, "content", readFile(t, src))
}

func TestCopy_Replace(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	require.NoError(t, m.Copy(src, dst, true))
	assert.Equal(t, "new", readFile(t, dst))
}

func TestCopy_ReplaceDirectoryWithFile(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "occupied")
	writeFile(t, src, "new")
	require.NoError(t, os.Mkdir(dst, 0755))
	writeFile(t, filepath.Join(dst, "inner.txt"), "x")

	require.NoError(t, m.Copy(src, dst, true))
	assert.Equal(t, "new", readFile(t, dst))
}

func TestMove(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "sub", "b.txt")
	writeFile(t, src, "payload")

	slot, err := m.Move(src, dst, false)
	require.NoError(t, err)
	require.NotEmpty(t, slot)

	assert.Equal(t, "payload", readFile(t, dst))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	// The staged duplicate survives the move for undo.
	assert.Equal(t, "payload", readFile(t, slot))
}

func TestMove_Replace(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	slot, err := m.Move(src, dst, true)
	require.NoError(t, err)
	assert.NotEmpty(t, slot)
	assert.Equal(t, "new", readFile(t, dst))
}

func TestMove_StagingFailureLeavesSourceUntouched(t *testing.T) {
	m := newMover(t)
	src := filepath.Join(t.TempDir(), "gone.txt")

	slot, err := m.Move(src, filepath.Join(t.TempDir(), "b.txt"), false)
	assert.Error(t, err)
	assert.Empty(t, slot)
}

func TestMove_FailureRestoresSource(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "precious")

	// A destination whose parent is a regular file cannot be created.
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "x")
	dst := filepath.Join(blocker, "b.txt")

	slot, err := m.Move(src, dst, false)
	assert.Error(t, err)
	assert.NotEmpty(t, slot)

	// The source is back in place after the failed move.
	assert.Equal(t, "precious", readFile(t, src))
}

func TestMove_Directory(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "docs")
	writeFile(t, filepath.Join(src, "inner", "a.txt"), "a")

	dst := filepath.Join(dir, "moved")
	slot, err := m.Move(src, dst, false)
	require.NoError(t, err)
	require.NotEmpty(t, slot)

	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "inner", "a.txt")))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_LogsToConfiguredFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shift.log")
	require.NoError(t, logging.Init(logging.Config{Level: "debug", Path: logPath}))

	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "x")

	_, err := m.Move(src, filepath.Join(dir, "b.txt"), false)
	require.NoError(t, err)

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "moved"),
		"move not logged to the configured file, got: %q", string(data))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	lax := newMover(t)
	strict := newMover(t)
	strict.Strict = true

	// Clean post-conditions: destination present, source gone.
	writeFile(t, dst, "x")
	assert.NoError(t, lax.verify(src, dst))
	assert.NoError(t, strict.verify(src, dst))

	// Source still present after the move.
	writeFile(t, src, "x")
	assert.NoError(t, lax.verify(src, dst))
	assert.ErrorIs(t, strict.verify(src, dst), ErrVerification)

	// Destination missing after the move.
	require.NoError(t, os.Remove(src))
	require.NoError(t, os.Remove(dst))
	assert.NoError(t, lax.verify(src, dst))
	assert.ErrorIs(t, strict.verify(src, dst), ErrVerification)
}

func TestMerge_Union(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "only-src.txt"), "s")
	writeFile(t, filepath.Join(src, "sub", "a.txt"), "sa")
	writeFile(t, filepath.Join(dst, "only-dst.txt"), "d")
	writeFile(t, filepath.Join(dst, "sub", "b.txt"), "db")

	require.NoError(t, m.Merge(src, dst))

	assert.Equal(t, "s", readFile(t, filepath.Join(dst, "only-src.txt")))
	assert.Equal(t, "d", readFile(t, filepath.Join(dst, "only-dst.txt")))
	assert.Equal(t, "sa", readFile(t, filepath.Join(dst, "sub", "a.txt")))
	assert.Equal(t, "db", readFile(t, filepath.Join(dst, "sub", "b.txt")))

	// The merge source is never mutated at this layer.
	assert.Equal(t, "s", readFile(t, filepath.Join(src, "only-src.txt")))
}

func TestMerge_ConflictCreatesCopy(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "incoming")
	writeFile(t, filepath.Join(dst, "a.txt"), "existing")

	require.NoError(t, m.Merge(src, dst))

	assert.Equal(t, "existing", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "incoming", readFile(t, filepath.Join(dst, "a_copy1.txt")))
}

func TestMerge_NestedConflict(t *testing.T) {
	m := newMover(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "sub", "a.txt"), "incoming")
	writeFile(t, filepath.Join(dst, "sub", "a.txt"), "existing")

	require.NoError(t, m.Merge(src, dst))

	assert.Equal(t, "existing", readFile(t, filepath.Join(dst, "sub", "a.txt")))
	assert.Equal(t, "incoming", readFile(t, filepath.Join(dst, "sub", "a_copy1.txt")))
}
