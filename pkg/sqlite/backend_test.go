package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/todo/pkg/query"
	"github.com/mesh-intelligence/todo/pkg/types"
)

func TestNewBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	store := NewBackend(WithLogger(zap.NewNop()))
	require.NoError(t, store.Attach(cfg))

	work, err := store.CreateCategory("Work")
	require.NoError(t, err)
	_, err = store.CreateItem(work, "Write report")
	require.NoError(t, err)
	_, err = store.CreateItem(work, "Call back")
	require.NoError(t, err)
	require.NoError(t, store.Detach())

	reopened := NewBackend()
	require.NoError(t, reopened.Attach(cfg))
	defer reopened.Detach()

	items, err := reopened.ListItems(work, query.Search("REPORT"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Write report", items[0].Title)
}

func TestNewBackendDetachedOperationsFail(t *testing.T) {
	store := NewBackend()
	_, err := store.ListCategories()
	assert.ErrorIs(t, err, types.ErrDetached)
}
