package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// initJSONLFiles creates empty JSONL files that do not exist yet, so a new
// data directory is immediately valid.
func (b *Backend) initJSONLFiles() error {
	for _, name := range []string{categoriesFile, itemsFile} {
		path := filepath.Join(b.config.DataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

// loadAllJSONL reads categories.jsonl and items.jsonl into SQLite. Loading
// is transactional: all records load or the database stays empty. Malformed
// lines, records without an ID, and items whose category does not exist are
// skipped; skipped items mark items.jsonl as pending so the next flush
// rewrites it without them. Unknown fields are ignored.
// The caller must hold b.mu.
func (b *Backend) loadAllJSONL() error {
	categories, err := decodeRecords[categoryJSON](filepath.Join(b.config.DataDir, categoriesFile))
	if err != nil {
		return err
	}
	items, err := decodeRecords[itemJSON](filepath.Join(b.config.DataDir, itemsFile))
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	assignSeq(categories, func(c *categoryJSON) *int64 { return &c.Seq })
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.CategoryID == "" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO categories (category_id, name, seq, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(category_id) DO UPDATE SET
				name = excluded.name,
				seq = excluded.seq,
				created_at = excluded.created_at`,
			c.CategoryID, c.Name, c.Seq, c.CreatedAt); err != nil {
			return fmt.Errorf("loading category %s: %w", c.CategoryID, err)
		}
		known[c.CategoryID] = true
	}

	assignSeq(items, func(it *itemJSON) *int64 { return &it.Seq })
	dropped := 0
	for _, it := range items {
		if it.ItemID == "" || !known[it.CategoryID] {
			dropped++
			b.logger.Warn("dropping orphaned item",
				zap.String("item_id", it.ItemID),
				zap.String("category_id", it.CategoryID))
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO items (item_id, category_id, title, done, seq, created_at) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(item_id) DO UPDATE SET
				category_id = excluded.category_id,
				title = excluded.title,
				done = excluded.done,
				seq = excluded.seq,
				created_at = excluded.created_at`,
			it.ItemID, it.CategoryID, it.Title, it.Done, it.Seq, it.CreatedAt); err != nil {
			return fmt.Errorf("loading item %s: %w", it.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	if dropped > 0 {
		b.pending |= fileItems
	}
	b.logger.Debug("loaded JSONL",
		zap.Int("categories", len(known)),
		zap.Int("items", len(items)-dropped),
		zap.Int("dropped", dropped))
	return nil
}

// decodeRecords reads path and unmarshals each valid line into T. Lines
// that are not valid JSON objects for T are skipped.
func decodeRecords[T any](path string) ([]T, error) {
	raw, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, rec := range raw {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// assignSeq gives records without a positive seq the next sequence numbers
// after the highest one present, in file order, then sorts by seq.
func assignSeq[T any](records []T, seq func(*T) *int64) {
	var next int64
	for i := range records {
		if s := *seq(&records[i]); s > next {
			next = s
		}
	}
	for i := range records {
		if p := seq(&records[i]); *p <= 0 {
			next++
			*p = next
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return *seq(&records[i]) < *seq(&records[j])
	})
}

// queryer is the read surface shared by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
