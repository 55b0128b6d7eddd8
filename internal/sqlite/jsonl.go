package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// readJSONL returns each non-empty line of a JSONL file that holds valid
// JSON, in file order. Malformed lines are skipped. Lines have no length
// limit, so any record the store wrote can be read back.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if rec := bytes.TrimSpace(line); len(rec) > 0 && json.Valid(rec) {
			records = append(records, json.RawMessage(rec))
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
}

// writeJSONL replaces path with records, one per line. The data goes to a
// synced temp file in the same directory that is then renamed over path, so
// readers see either the old or the new content. The temp file is removed on
// any failure.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		w.Write(rec)
		w.WriteByte('\n')
	}
	// bufio.Writer keeps the first write error and reports it from Flush.
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeRecords is the file writer used by persist. Tests replace it to
// simulate a failing disk.
var writeRecords = writeJSONL

// persist writes the touched files from q, items first: a crash between the
// two writes can leave a category without items but never an item without
// its category.
func (b *Backend) persist(q queryer, touched fileSet) error {
	if touched&fileItems != 0 {
		records, err := snapshotItems(q)
		if err != nil {
			return types.StorageError("snapshot items", err)
		}
		if err := writeRecords(filepath.Join(b.config.DataDir, itemsFile), records); err != nil {
			return types.StorageError("write "+itemsFile, err)
		}
	}
	if touched&fileCategories != 0 {
		records, err := snapshotCategories(q)
		if err != nil {
			return types.StorageError("snapshot categories", err)
		}
		if err := writeRecords(filepath.Join(b.config.DataDir, categoriesFile), records); err != nil {
			return types.StorageError("write "+categoriesFile, err)
		}
	}
	b.logger.Debug("persisted JSONL",
		zap.Bool("categories", touched&fileCategories != 0),
		zap.Bool("items", touched&fileItems != 0))
	return nil
}

// snapshotCategories renders every category as a JSONL record in seq order.
func snapshotCategories(q queryer) ([]json.RawMessage, error) {
	rows, err := q.Query("SELECT category_id, name, seq, created_at FROM categories ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying categories for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec categoryJSON
		if err := rows.Scan(&rec.CategoryID, &rec.Name, &rec.Seq, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category for JSONL: %w", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling category for JSONL: %w", err)
		}
		records = append(records, data)
	}
	return records, rows.Err()
}

// snapshotItems renders every item as a JSONL record in seq order.
func snapshotItems(q queryer) ([]json.RawMessage, error) {
	rows, err := q.Query("SELECT item_id, category_id, title, done, seq, created_at FROM items ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying items for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec itemJSON
		if err := rows.Scan(&rec.ItemID, &rec.CategoryID, &rec.Title, &rec.Done, &rec.Seq, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item for JSONL: %w", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling item for JSONL: %w", err)
		}
		records = append(records, data)
	}
	return records, rows.Err()
}

// formatTime renders timestamps the way the JSONL files store them.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reverses formatTime. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
