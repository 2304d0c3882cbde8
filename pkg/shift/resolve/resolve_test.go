package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/shift/pkg/shift/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestResolve_NoConflictUnchanged(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a.txt")

	for _, policy := range []types.Policy{types.PolicySkip, types.PolicyOverwrite, types.PolicyCopy, types.PolicyMerge} {
		resolved, ok := Resolve("", target, policy, false)
		assert.True(t, ok, "policy %s", policy)
		assert.Equal(t, target, resolved, "policy %s", policy)
	}
}

func TestResolve_Skip(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a.txt")
	touch(t, target)

	_, ok := Resolve("", target, types.PolicySkip, false)
	assert.False(t, ok)
}

func TestResolve_Overwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a.txt")
	touch(t, target)

	resolved, ok := Resolve("", target, types.PolicyOverwrite, false)
	assert.True(t, ok)
	assert.Equal(t, target, resolved)
}

func TestResolve_CopySuffix(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	touch(t, target)

	resolved, ok := Resolve("", target, types.PolicyCopy, false)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a_copy1.txt"), resolved)
}

func TestResolve_CopySuffixIncrements(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, "a_copy1.txt"))
	touch(t, filepath.Join(dir, "a_copy2.txt"))

	resolved, ok := Resolve("", filepath.Join(dir, "a.txt"), types.PolicyCopy, false)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a_copy3.txt"), resolved)
}

func TestResolve_MergeOnDirUnchanged(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(target, 0755))

	resolved, ok := Resolve("", target, types.PolicyMerge, true)
	assert.True(t, ok)
	assert.Equal(t, target, resolved)
}

func TestResolve_MergeOnFileDegradesToCopy(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	touch(t, target)

	resolved, ok := Resolve("", target, types.PolicyMerge, false)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a_copy1.txt"), resolved)
}

func TestCopyName_File(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "report_copy1.pdf"), CopyName(filepath.Join(dir, "report.pdf"), false))
}

func TestCopyName_FileWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "Makefile_copy1"), CopyName(filepath.Join(dir, "Makefile"), false))
}

func TestCopyName_DirectoryKeepsDots(t *testing.T) {
	dir := t.TempDir()
	// A dotted folder name gets the suffix appended whole, not spliced
	// before the final dot.
	assert.Equal(t, filepath.Join(dir, "my.folder_copy1"), CopyName(filepath.Join(dir, "my.folder"), true))
}

func TestResolve_SymlinkTargetIsConflict(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.txt"), target))

	// A dangling symlink still occupies the path.
	_, ok := Resolve("", target, types.PolicySkip, false)
	assert.False(t, ok)
}
