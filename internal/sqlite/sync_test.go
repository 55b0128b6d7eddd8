package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// breakFile replaces path with a non-empty directory so that renaming a temp
// file over it fails, even for root.
func breakFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))
}

// repairFile undoes breakFile.
func repairFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.RemoveAll(path))
}

func TestImmediateStrategyCommitsEveryMutation(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir, nil)

	assert.False(t, b.HasChanges())
	_, err := b.CreateCategory("Work")
	require.NoError(t, err)
	assert.False(t, b.HasChanges(), "immediate strategy leaves nothing pending")
	assert.NoError(t, b.Commit(), "commit without changes is a no-op")

	lines := readLines(t, filepath.Join(tmpDir, categoriesFile))
	assert.Len(t, lines, 1)
}

func TestImmediateStrategyRollsBackFailedWrite(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir, nil)
	work, err := b.CreateCategory("Work")
	require.NoError(t, err)

	itemsPath := filepath.Join(tmpDir, itemsFile)
	breakFile(t, itemsPath)

	_, err = b.CreateItem(work, "Email")
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.False(t, b.HasChanges())

	items, err := b.ListItems(work, nil)
	require.NoError(t, err)
	assert.Empty(t, items, "the working set does not keep a change that failed to persist")

	assert.ErrorIs(t, b.DeleteCategory(work), types.ErrStorage)
	cats, err := b.ListCategories()
	require.NoError(t, err)
	assert.Len(t, cats, 1, "failed cascade delete is rolled back")

	repairFile(t, itemsPath)
	_, err = b.CreateItem(work, "Email")
	require.NoError(t, err)
}

func TestOnCloseStrategyDefersWrites(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend()
	cfg := types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      tmpDir,
		SQLiteConfig: &types.SQLiteConfig{SyncStrategy: types.SyncOnClose},
	}
	require.NoError(t, b.Attach(cfg))

	work, err := b.CreateCategory("Work")
	require.NoError(t, err)
	_, err = b.CreateItem(work, "Email")
	require.NoError(t, err)

	assert.True(t, b.HasChanges())
	assert.Empty(t, readLines(t, filepath.Join(tmpDir, categoriesFile)), "nothing written before commit")

	items, err := b.ListItems(work, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1, "uncommitted changes are visible in the working set")

	require.NoError(t, b.Commit())
	assert.False(t, b.HasChanges())
	assert.Len(t, readLines(t, filepath.Join(tmpDir, categoriesFile)), 1)
	assert.Len(t, readLines(t, filepath.Join(tmpDir, itemsFile)), 1)

	_, err = b.CreateCategory("Home")
	require.NoError(t, err)
	require.NoError(t, b.Detach(), "detach flushes pending changes")
	assert.Len(t, readLines(t, filepath.Join(tmpDir, categoriesFile)), 2)
}

func TestOnCloseCommitFailureKeepsPendingChanges(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir, &types.SQLiteConfig{SyncStrategy: types.SyncOnClose})

	catPath := filepath.Join(tmpDir, categoriesFile)
	breakFile(t, catPath)

	_, err := b.CreateCategory("Work")
	require.NoError(t, err)

	assert.ErrorIs(t, b.Commit(), types.ErrStorage)
	assert.True(t, b.HasChanges(), "failed commit keeps the changes pending")

	cats, err := b.ListCategories()
	require.NoError(t, err)
	assert.Len(t, cats, 1, "working set is left unchanged by a failed commit")

	err = b.Detach()
	assert.ErrorIs(t, err, types.ErrStorage)

	repairFile(t, catPath)
	require.NoError(t, b.Commit())
	assert.False(t, b.HasChanges())
	assert.Len(t, readLines(t, catPath), 1)
}

func TestBatchStrategyFlushesAtBatchSize(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir, &types.SQLiteConfig{SyncStrategy: types.SyncBatch, BatchSize: 3})
	catPath := filepath.Join(tmpDir, categoriesFile)

	for _, name := range []string{"A", "B"} {
		_, err := b.CreateCategory(name)
		require.NoError(t, err)
	}
	assert.True(t, b.HasChanges())
	assert.Empty(t, readLines(t, catPath))

	_, err := b.CreateCategory("C")
	require.NoError(t, err)
	assert.False(t, b.HasChanges(), "third mutation reaches the batch size")
	assert.Len(t, readLines(t, catPath), 3)
}
