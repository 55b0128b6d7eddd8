package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// attachTestBackend attaches a backend to dir and detaches it when the test
// ends.
func attachTestBackend(t *testing.T, dir string, sqliteCfg *types.SQLiteConfig, opts ...Option) *Backend {
	t.Helper()
	b := NewBackend(opts...)
	require.NoError(t, b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dir,
		SQLiteConfig: sqliteCfg,
	}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir, nil)

	for _, name := range []string{databaseFile, categoriesFile, itemsFile, lockFile} {
		_, err := os.Stat(filepath.Join(tmpDir, name))
		assert.NoError(t, err, "%s should exist after Attach", name)
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "todo-db")
	attachTestBackend(t, dataDir, nil)

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{
			name:    "empty backend",
			config:  types.Config{DataDir: t.TempDir()},
			wantErr: types.ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  types.Config{Backend: "postgres", DataDir: t.TempDir()},
			wantErr: types.ErrBackendUnknown,
		},
		{
			name: "unknown sync strategy",
			config: types.Config{
				Backend:      types.BackendSQLite,
				DataDir:      t.TempDir(),
				SQLiteConfig: &types.SQLiteConfig{SyncStrategy: "sometimes"},
			},
			wantErr: types.ErrSyncStrategyUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			assert.ErrorIs(t, b.Attach(tt.config), tt.wantErr)
			assert.NoError(t, b.Detach())
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.ListCategories()
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = b.CreateCategory("Work")
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Commit(), types.ErrDetached)
}

func TestBackend_DataDirLock(t *testing.T) {
	tmpDir := t.TempDir()
	first := NewBackend()
	require.NoError(t, first.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}))

	second := NewBackend()
	err := second.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	assert.ErrorIs(t, err, types.ErrLocked)

	require.NoError(t, first.Detach())
	require.NoError(t, second.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}),
		"lock is released by Detach")
	require.NoError(t, second.Detach())
}

func TestBackend_ReattachRebuildsFromJSONL(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	require.NoError(t, b.Attach(cfg))
	work, err := b.CreateCategory("Work")
	require.NoError(t, err)
	email, err := b.CreateItem(work, "Email")
	require.NoError(t, err)
	_, err = b.ToggleItemDone(email)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(cfg))
	defer b.Detach()

	cats, err := b.ListCategories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, work.CategoryID, cats[0].CategoryID)
	assert.Equal(t, "Work", cats[0].Name)
	assert.True(t, work.CreatedAt.Equal(cats[0].CreatedAt))

	items, err := b.ListItems(cats[0], nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Email", items[0].Title)
	assert.True(t, items[0].Done)
}

func TestBackend_LogsLifecycle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := NewBackend(WithLogger(zap.New(core)))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	_, err := b.CreateCategory("Work")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	assert.Equal(t, 1, logs.FilterMessage("store attached").Len())
	assert.Equal(t, 1, logs.FilterMessage("committed").Len())
	assert.Equal(t, 1, logs.FilterMessage("store detached").Len())
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	b := NewBackend(WithLogger(nil))
	assert.NotNil(t, b.logger)
}
