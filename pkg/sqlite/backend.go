// Package sqlite provides the public API for the SQLite todo store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/todo/internal/sqlite"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// Option configures a backend created by NewBackend.
type Option = sqlite.Option

// WithLogger routes backend lifecycle and persistence events to logger.
func WithLogger(logger *zap.Logger) Option {
	return sqlite.WithLogger(logger)
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".todo-db",
//	})
//	defer store.Detach()
func NewBackend(opts ...Option) types.Store {
	return sqlite.NewBackend(opts...)
}
