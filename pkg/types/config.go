package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend      string        `json:"backend" yaml:"backend"`
	DataDir      string        `json:"data_dir" yaml:"data_dir"`
	SQLiteConfig *SQLiteConfig `json:"sqlite_config,omitempty" yaml:"sqlite_config,omitempty"`
}

// SQLiteConfig tunes when the SQLite backend writes its JSONL files.
type SQLiteConfig struct {
	SyncStrategy string `json:"sync_strategy,omitempty" yaml:"sync_strategy,omitempty"`
	BatchSize    int    `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Sync strategies. Immediate commits every mutation before returning;
// on_close defers until Commit or Detach; batch also flushes once
// BatchSize mutations are pending.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
	SyncBatch     = "batch"
)

// DefaultBatchSize applies when the batch strategy is chosen without a size.
const DefaultBatchSize = 10

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid    = errors.New("batch size must be positive")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownSyncStrategies = map[string]bool{
	SyncImmediate: true,
	SyncOnClose:   true,
	SyncBatch:     true,
}

// Validate checks that the Config is well-formed and returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.SQLiteConfig != nil {
		if s := c.SQLiteConfig.SyncStrategy; s != "" && !knownSyncStrategies[s] {
			return ErrSyncStrategyUnknown
		}
		if c.SQLiteConfig.BatchSize < 0 {
			return ErrBatchSizeInvalid
		}
	}
	return nil
}

// GetSyncStrategy returns the configured strategy, defaulting to immediate.
// Safe on a nil receiver.
func (s *SQLiteConfig) GetSyncStrategy() string {
	if s == nil || s.SyncStrategy == "" {
		return SyncImmediate
	}
	return s.SyncStrategy
}

// GetBatchSize returns the configured batch size or DefaultBatchSize.
// Safe on a nil receiver.
func (s *SQLiteConfig) GetBatchSize() int {
	if s == nil || s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}
