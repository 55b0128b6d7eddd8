package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/todo/pkg/types"
)

const selectCategory = "SELECT category_id, name, created_at FROM categories"

// ListCategories returns every category in insertion order.
func (b *Backend) ListCategories() ([]*types.Category, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return queryCategories(b.db, selectCategory+" ORDER BY seq")
}

// GetCategory returns the category with the given ID.
func (b *Backend) GetCategory(id string) (*types.Category, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrNoCategory
	}
	return getCategory(b.db, id)
}

// FindCategories returns the categories named exactly name, in insertion
// order.
func (b *Backend) FindCategories(name string) ([]*types.Category, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return queryCategories(b.db, selectCategory+" WHERE name = ? ORDER BY seq", name)
}

// CreateCategory persists a new category at the end of the list.
func (b *Backend) CreateCategory(name string) (*types.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}

	cat := &types.Category{
		CategoryID: generateUUID(),
		Name:       name,
		CreatedAt:  time.Now().UTC(),
	}
	err := b.mutate("create category", fileCategories, func(tx *sql.Tx) error {
		seq, err := nextSeq(tx, "categories")
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO categories (category_id, name, seq, created_at) VALUES (?, ?, ?, ?)",
			cat.CategoryID, cat.Name, seq, formatTime(cat.CreatedAt),
		); err != nil {
			return types.StorageError("insert category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// RenameCategory sets a new name on an existing category and updates the
// caller's record once the change is committed.
func (b *Backend) RenameCategory(category *types.Category, name string) (*types.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	id, err := category.Ref()
	if err != nil {
		return nil, err
	}
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}

	err = b.mutate("rename category", fileCategories, func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE categories SET name = ? WHERE category_id = ?", name, id)
		return requireAffected(res, err, "rename category")
	})
	if err != nil {
		return nil, err
	}
	category.Name = name
	return category, nil
}

// DeleteCategory removes the category and every item it owns in one
// transaction.
func (b *Backend) DeleteCategory(category *types.Category) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return err
	}
	id, err := category.Ref()
	if err != nil {
		return err
	}

	return b.mutate("delete category", fileCategories|fileItems, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM items WHERE category_id = ?", id); err != nil {
			return types.StorageError("delete category items", err)
		}
		res, err := tx.Exec("DELETE FROM categories WHERE category_id = ?", id)
		return requireAffected(res, err, "delete category")
	})
}

// getCategory loads one category or returns ErrNotFound.
func getCategory(q queryer, id string) (*types.Category, error) {
	var c types.Category
	var createdAt string
	err := q.QueryRow(selectCategory+" WHERE category_id = ?", id).
		Scan(&c.CategoryID, &c.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, types.StorageError("get category", err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// queryCategories runs a category SELECT and hydrates the rows.
func queryCategories(q queryer, query string, args ...any) ([]*types.Category, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, types.StorageError("fetch categories", err)
	}
	defer rows.Close()

	results := []*types.Category{}
	for rows.Next() {
		var c types.Category
		var createdAt string
		if err := rows.Scan(&c.CategoryID, &c.Name, &createdAt); err != nil {
			return nil, types.StorageError("scan category", err)
		}
		c.CreatedAt = parseTime(createdAt)
		results = append(results, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageError("iterate categories", err)
	}
	return results, nil
}

// nextSeq returns the sequence number for a row appended to table.
func nextSeq(tx *sql.Tx, table string) (int64, error) {
	var seq int64
	if err := tx.QueryRow(fmt.Sprintf("SELECT COALESCE(MAX(seq), 0) + 1 FROM %s", table)).Scan(&seq); err != nil {
		return 0, types.StorageError("next "+table+" seq", err)
	}
	return seq, nil
}

// requireAffected converts an Exec result into ErrNotFound when no row
// changed.
func requireAffected(res sql.Result, err error, op string) error {
	if err != nil {
		return types.StorageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.StorageError(op, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
