package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todo/internal/paths"
	"github.com/mesh-intelligence/todo/pkg/sqlite"
	"github.com/mesh-intelligence/todo/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeySyncStrategy = "sync_strategy"
	cfgKeyBatchSize    = "batch_size"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	SyncStrategy string `yaml:"sync_strategy"`
	BatchSize    int    `yaml:"batch_size,omitempty"`
}

// loadConfig reads config.yaml from configDir. A missing file or directory
// yields the defaults.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetDefault(cfgKeyBatchSize, types.DefaultBatchSize)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Reports whether it wrote the file.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: types.SyncImmediate,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// storeConfig assembles the backend configuration from flags and
// config.yaml. Data directory precedence is --data-dir, then data_dir in
// config.yaml, then TODO_DATA_DIR, then $(CWD)/.todo-db.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, systemError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
		SQLiteConfig: &types.SQLiteConfig{
			SyncStrategy: a.config.GetString(cfgKeySyncStrategy),
			BatchSize:    a.config.GetInt(cfgKeyBatchSize),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration in %s: %w", paths.ConfigFile(a.configDir), err)
	}
	return cfg, nil
}

// withStore attaches a backend for the duration of fn. The backend is
// detached afterwards, flushing any deferred writes; a detach failure is
// reported alongside fn's error.
func (a *app) withStore(fn func(store types.Store) error) (err error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	store := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("open data directory %s: %w", cfg.DataDir, err)
	}
	defer func() {
		err = multierr.Append(err, store.Detach())
	}()

	return fn(store)
}
