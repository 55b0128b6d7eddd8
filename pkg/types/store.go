package types

// Store is the single source of truth for categories and items.
// Callers attach to a backend, run operations, and detach when done. A Store
// serializes its own operations; it is safe, but not designed, for
// concurrent callers.
type Store interface {
	// Attach opens the backend described by config, creating DataDir if
	// needed. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach flushes pending changes and releases backend resources.
	// Idempotent. Operations after Detach return ErrDetached.
	Detach() error

	// ListCategories returns every category in insertion order.
	ListCategories() ([]*Category, error)

	// GetCategory returns the category with the given ID or ErrNotFound.
	GetCategory(id string) (*Category, error)

	// FindCategories returns all categories named exactly name, in
	// insertion order. An empty result is not an error.
	FindCategories(name string) ([]*Category, error)

	// CreateCategory persists a new category. Returns ErrEmptyName for a
	// blank name.
	CreateCategory(name string) (*Category, error)

	// RenameCategory changes the category name and returns the updated
	// record.
	RenameCategory(category *Category, name string) (*Category, error)

	// DeleteCategory removes the category and every item it owns.
	// Returns ErrNotFound if the category no longer exists.
	DeleteCategory(category *Category) error

	// ListItems returns the items of category, ANDed with filter when it is
	// non-nil. Items are in insertion order unless filter sorts by title.
	ListItems(category *Category, filter Predicate) ([]*Item, error)

	// GetItem returns the item with the given ID or ErrNotFound.
	GetItem(id string) (*Item, error)

	// CreateItem persists a new, not-done item under category.
	CreateItem(category *Category, title string) (*Item, error)

	// RenameItem changes the item title and returns the updated record.
	RenameItem(item *Item, title string) (*Item, error)

	// ToggleItemDone flips the done flag, updates item in place, and
	// returns it.
	ToggleItemDone(item *Item) (*Item, error)

	// DeleteItem removes the item. Returns ErrNotFound if it is absent.
	DeleteItem(item *Item) error

	// Commit flushes pending changes to durable storage. It is a no-op when
	// HasChanges is false. On failure the pending changes are kept.
	Commit() error

	// HasChanges reports whether mutations are waiting for Commit.
	HasChanges() bool
}
