package sqlite

// Schema DDL. The SQLite database is a cache rebuilt from the JSONL files on
// every Attach; seq preserves insertion order.
const (
	createCategories = `CREATE TABLE categories (
    category_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    seq INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createItems = `CREATE TABLE items (
    item_id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL,
    title TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    seq INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (category_id) REFERENCES categories(category_id)
);`
)

// Index DDL for common queries.
const (
	idxCategoriesName = `CREATE INDEX idx_categories_name ON categories(name);`
	idxCategoriesSeq  = `CREATE INDEX idx_categories_seq ON categories(seq);`
	idxItemsCategory  = `CREATE INDEX idx_items_category ON items(category_id, seq);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCategories,
	createItems,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCategoriesName,
	idxCategoriesSeq,
	idxItemsCategory,
}
