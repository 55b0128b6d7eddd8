package query

import (
	"sort"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// sortByTitle orders items by title ascending using byte-wise comparison,
// matching SQLite's default BINARY collation. Equal titles keep their
// relative order.
func sortByTitle(items []*types.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
}
