package sqlite

// JSON record structures that mirror the JSONL file format. Timestamps are
// RFC 3339 strings with nanoseconds.

const (
	categoriesFile = "categories.jsonl"
	itemsFile      = "items.jsonl"
	databaseFile   = "todo.db"
	lockFile       = "todo.lock"
)

// categoryJSON represents a category in categories.jsonl.
type categoryJSON struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Seq        int64  `json:"seq"`
	CreatedAt  string `json:"created_at"`
}

// itemJSON represents an item in items.jsonl.
type itemJSON struct {
	ItemID     string `json:"item_id"`
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Done       bool   `json:"done"`
	Seq        int64  `json:"seq"`
	CreatedAt  string `json:"created_at"`
}

// fileSet records which JSONL files a mutation touched.
type fileSet uint8

const (
	fileCategories fileSet = 1 << iota
	fileItems
)
