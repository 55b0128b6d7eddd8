package sqlite

import (
	"database/sql"
	"time"

	"github.com/mesh-intelligence/todo/pkg/types"
)

const selectItem = "SELECT i.item_id, i.category_id, i.title, i.done, i.created_at FROM items i"

// ListItems returns the items owned by category, narrowed by filter when it
// is non-nil. The parent is matched by ID; filter may add name matching via
// query.ByParentCategory. Results are in insertion order unless the filter
// sorts by title.
func (b *Backend) ListItems(category *types.Category, filter types.Predicate) ([]*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	id, err := category.Ref()
	if err != nil {
		return nil, err
	}
	if _, err := getCategory(b.db, id); err != nil {
		return nil, err
	}

	q := selectItem + " JOIN categories c ON c.category_id = i.category_id WHERE i.category_id = ?"
	args := []any{id}
	order := " ORDER BY i.seq"
	if filter != nil {
		clause, fargs := filter.Where()
		q += " AND (" + clause + ")"
		args = append(args, fargs...)
		if filter.SortsByTitle() {
			order = " ORDER BY i.title ASC, i.seq ASC"
		}
	}
	return queryItems(b.db, q+order, args...)
}

// GetItem returns the item with the given ID.
func (b *Backend) GetItem(id string) (*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrNoItem
	}
	return getItem(b.db, id)
}

// CreateItem appends a new, not-done item to category.
func (b *Backend) CreateItem(category *types.Category, title string) (*types.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	categoryID, err := category.Ref()
	if err != nil {
		return nil, err
	}
	if err := types.ValidateTitle(title); err != nil {
		return nil, err
	}

	item := &types.Item{
		ItemID:     generateUUID(),
		CategoryID: categoryID,
		Title:      title,
		Done:       false,
		CreatedAt:  time.Now().UTC(),
	}
	err = b.mutate("create item", fileItems, func(tx *sql.Tx) error {
		if _, err := getCategory(tx, categoryID); err != nil {
			return err
		}
		seq, err := nextSeq(tx, "items")
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO items (item_id, category_id, title, done, seq, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			item.ItemID, item.CategoryID, item.Title, item.Done, seq, formatTime(item.CreatedAt),
		); err != nil {
			return types.StorageError("insert item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RenameItem sets a new title on an existing item and updates the caller's
// record once the change is committed.
func (b *Backend) RenameItem(item *types.Item, title string) (*types.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	id, err := item.Ref()
	if err != nil {
		return nil, err
	}
	if err := types.ValidateTitle(title); err != nil {
		return nil, err
	}

	err = b.mutate("rename item", fileItems, func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE items SET title = ? WHERE item_id = ?", title, id)
		return requireAffected(res, err, "rename item")
	})
	if err != nil {
		return nil, err
	}
	item.Title = title
	return item, nil
}

// ToggleItemDone flips the stored done flag. The caller's record takes the
// stored state, so a stale copy is corrected rather than double-flipped.
func (b *Backend) ToggleItemDone(item *types.Item) (*types.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	id, err := item.Ref()
	if err != nil {
		return nil, err
	}

	var stored *types.Item
	err = b.mutate("toggle item", fileItems, func(tx *sql.Tx) error {
		current, err := getItem(tx, id)
		if err != nil {
			return err
		}
		current.Toggle()
		res, err := tx.Exec("UPDATE items SET done = ? WHERE item_id = ?", current.Done, id)
		if err := requireAffected(res, err, "toggle item"); err != nil {
			return err
		}
		stored = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	*item = *stored
	return item, nil
}

// DeleteItem removes the item.
func (b *Backend) DeleteItem(item *types.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return err
	}
	id, err := item.Ref()
	if err != nil {
		return err
	}

	return b.mutate("delete item", fileItems, func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM items WHERE item_id = ?", id)
		return requireAffected(res, err, "delete item")
	})
}

// getItem loads one item or returns ErrNotFound.
func getItem(q queryer, id string) (*types.Item, error) {
	items, err := queryItems(q, selectItem+" WHERE i.item_id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, types.ErrNotFound
	}
	return items[0], nil
}

// queryItems runs an item SELECT and hydrates the rows.
func queryItems(q queryer, query string, args ...any) ([]*types.Item, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, types.StorageError("fetch items", err)
	}
	defer rows.Close()

	results := []*types.Item{}
	for rows.Next() {
		var it types.Item
		var createdAt string
		if err := rows.Scan(&it.ItemID, &it.CategoryID, &it.Title, &it.Done, &createdAt); err != nil {
			return nil, types.StorageError("scan item", err)
		}
		it.CreatedAt = parseTime(createdAt)
		results = append(results, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageError("iterate items", err)
	}
	return results, nil
}
