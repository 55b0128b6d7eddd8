// Package sqlite implements the todo Store on SQLite. JSONL files in the
// data directory are the source of truth; the SQLite database is the working
// set and query engine, rebuilt from the files on every Attach.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/todo/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store. Every operation holds mu for its full
// duration, including the durable write.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	lock     *flock.Flock
	logger   *zap.Logger

	syncStrategy string  // immediate, on_close, or batch
	batchSize    int     // pending mutations that trigger a batch flush
	pending      fileSet // files with unflushed changes
	pendingCount int     // mutations since the last flush
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle and persistence events.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach validates config, locks the data directory, and loads the JSONL
// files into a fresh SQLite database.
// Returns ErrAlreadyAttached if already attached and ErrLocked if another
// process holds the data directory.
//
// Items dropped during loading because their category is missing are
// removed from items.jsonl right away with the immediate strategy. If that
// rewrite fails, Attach still succeeds: the failure is logged, HasChanges
// reports true, and the next Commit or Detach retries it.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := registerFold(); err != nil {
		return fmt.Errorf("register fold function: %w", err)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return types.StorageError("create data dir", err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return types.StorageError("lock data dir", err)
	}
	if !locked {
		return types.ErrLocked
	}

	db, err := openDatabase(filepath.Join(dataDir, databaseFile))
	if err != nil {
		_ = lock.Unlock()
		return err
	}

	b.db = db
	b.lock = lock
	b.config = config
	b.config.DataDir = dataDir
	b.syncStrategy = config.SQLiteConfig.GetSyncStrategy()
	b.batchSize = config.SQLiteConfig.GetBatchSize()
	b.pending = 0
	b.pendingCount = 0

	if err := b.initJSONLFiles(); err != nil {
		b.release()
		return err
	}
	if err := b.loadAllJSONL(); err != nil {
		b.release()
		return types.StorageError("load JSONL", err)
	}

	b.attached = true
	b.logger.Debug("store attached",
		zap.String("data_dir", dataDir),
		zap.String("sync_strategy", b.syncStrategy))

	// Loading may have dropped orphaned records; heal the files now unless
	// the strategy defers writes.
	if b.pending != 0 && b.syncStrategy == types.SyncImmediate {
		if err := b.flushLocked(); err != nil {
			b.logger.Error("rewrite after load failed", zap.Error(err))
		}
	}
	return nil
}

// openDatabase removes any stale database file, opens a new one limited to a
// single connection, and creates the schema.
func openDatabase(path string) (*sql.DB, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, types.StorageError("remove stale database", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, types.StorageError("open database", err)
	}
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, types.StorageError("create schema", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, types.StorageError("create index", err)
		}
	}
	return db, nil
}

// Detach flushes pending changes, closes SQLite, and releases the data
// directory lock. Detach is idempotent. If the flush fails the backend stays
// attached so the caller can retry.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	closeErr := b.release()
	b.attached = false
	b.logger.Debug("store detached", zap.String("data_dir", b.config.DataDir))
	if closeErr != nil {
		return types.StorageError("close database", closeErr)
	}
	return nil
}

// release closes the database and drops the lock.
func (b *Backend) release() error {
	var err error
	if b.db != nil {
		err = b.db.Close()
		b.db = nil
	}
	if b.lock != nil {
		if uerr := b.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
		b.lock = nil
	}
	return err
}

// Commit flushes pending changes to the JSONL files. It is a no-op when
// nothing is pending. On failure the pending changes are kept.
func (b *Backend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	return b.flushLocked()
}

// HasChanges reports whether mutations are waiting for Commit.
func (b *Backend) HasChanges() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pending != 0
}

// flushLocked writes every pending file from the working set.
// The caller must hold b.mu.
func (b *Backend) flushLocked() error {
	if b.pending == 0 {
		return nil
	}
	if err := b.persist(b.db, b.pending); err != nil {
		b.logger.Error("flush failed", zap.Error(err))
		return err
	}
	b.pending = 0
	b.pendingCount = 0
	return nil
}

// mutate runs fn in a transaction. With the immediate strategy the touched
// files are written from inside the transaction, which commits only after
// the write succeeds; any failure rolls the working set back. Deferred
// strategies commit the transaction and record the files as pending.
// The caller must hold b.mu.
func (b *Backend) mutate(op string, touched fileSet, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return types.StorageError("begin "+op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if b.syncStrategy == types.SyncImmediate {
		if err := b.persist(tx, touched); err != nil {
			b.logger.Error("commit failed, rolling back", zap.String("op", op), zap.Error(err))
			return err
		}
		if err := tx.Commit(); err != nil {
			return types.StorageError("commit "+op, err)
		}
		b.logger.Debug("committed", zap.String("op", op))
		return nil
	}

	if err := tx.Commit(); err != nil {
		return types.StorageError("commit "+op, err)
	}
	b.pending |= touched
	b.pendingCount++
	if b.syncStrategy == types.SyncBatch && b.pendingCount >= b.batchSize {
		return b.flushLocked()
	}
	return nil
}

// checkAttached returns ErrDetached unless the backend is attached.
// The caller must hold b.mu.
func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.ErrDetached
	}
	return nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
