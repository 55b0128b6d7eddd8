package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todo/pkg/types"
)

func categoryNames(cats []*types.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "non-empty name succeeds", input: "Work"},
		{name: "name with surrounding spaces is kept as given", input: " Home "},
		{name: "empty name fails", input: "", wantErr: types.ErrEmptyName},
		{name: "blank name fails", input: "   ", wantErr: types.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := attachTestBackend(t, t.TempDir(), nil)

			cat, err := b.CreateCategory(tt.input)
			cats, listErr := b.ListCategories()
			require.NoError(t, listErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cat)
				assert.Empty(t, cats, "failed create leaves the collection unchanged")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cat.CategoryID)
			assert.Equal(t, tt.input, cat.Name)
			assert.False(t, cat.CreatedAt.IsZero())
			require.Len(t, cats, 1)
			assert.Equal(t, cat.CategoryID, cats[0].CategoryID)
		})
	}
}

func TestListCategoriesInsertionOrder(t *testing.T) {
	b := attachTestBackend(t, t.TempDir(), nil)

	for _, name := range []string{"Work", "Errands", "Home", "Errands"} {
		_, err := b.CreateCategory(name)
		require.NoError(t, err)
	}

	cats, err := b.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Errands", "Home", "Errands"}, categoryNames(cats),
		"duplicates are allowed and order is insertion order")
}

func TestGetAndFindCategories(t *testing.T) {
	b := attachTestBackend(t, t.TempDir(), nil)

	first, err := b.CreateCategory("Errands")
	require.NoError(t, err)
	_, err = b.CreateCategory("Work")
	require.NoError(t, err)
	second, err := b.CreateCategory("Errands")
	require.NoError(t, err)

	got, err := b.GetCategory(first.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Errands", got.Name)

	_, err = b.GetCategory("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.GetCategory("")
	assert.ErrorIs(t, err, types.ErrValidation)

	found, err := b.FindCategories("Errands")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.CategoryID, found[0].CategoryID)
	assert.Equal(t, second.CategoryID, found[1].CategoryID)

	none, err := b.FindCategories("Nothing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRenameCategory(t *testing.T) {
	b := attachTestBackend(t, t.TempDir(), nil)

	cat, err := b.CreateCategory("Wrok")
	require.NoError(t, err)

	renamed, err := b.RenameCategory(cat, "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", renamed.Name)
	assert.Equal(t, "Work", cat.Name, "caller's record is updated")

	stored, err := b.GetCategory(cat.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Work", stored.Name)

	_, err = b.RenameCategory(cat, "")
	assert.ErrorIs(t, err, types.ErrEmptyName)
	assert.Equal(t, "Work", cat.Name, "failed rename leaves the record alone")

	_, err = b.RenameCategory(&types.Category{CategoryID: "missing"}, "X")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.RenameCategory(nil, "X")
	assert.ErrorIs(t, err, types.ErrNoCategory)
}

func TestDeleteCategoryCascades(t *testing.T) {
	b := attachTestBackend(t, t.TempDir(), nil)

	work, err := b.CreateCategory("Work")
	require.NoError(t, err)
	home, err := b.CreateCategory("Home")
	require.NoError(t, err)
	email, err := b.CreateItem(work, "Email")
	require.NoError(t, err)
	_, err = b.CreateItem(work, "Plan")
	require.NoError(t, err)
	_, err = b.CreateItem(home, "Dishes")
	require.NoError(t, err)

	require.NoError(t, b.DeleteCategory(work))

	cats, err := b.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Home"}, categoryNames(cats))

	_, err = b.ListItems(work, nil)
	assert.ErrorIs(t, err, types.ErrNotFound, "listing a deleted category reports not found")

	_, err = b.GetItem(email.ItemID)
	assert.ErrorIs(t, err, types.ErrNotFound, "items of a deleted category are gone")

	homeItems, err := b.ListItems(home, nil)
	require.NoError(t, err)
	assert.Len(t, homeItems, 1, "other categories keep their items")

	assert.ErrorIs(t, b.DeleteCategory(work), types.ErrNotFound, "second delete reports not found")
	assert.ErrorIs(t, b.DeleteCategory(nil), types.ErrValidation)
}
