package types

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by a Store data operation matches
// exactly one of these with errors.Is. Attach and Detach may also return the
// lifecycle errors below or a Config validation error, which match none.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("entity not found")
	ErrStorage    = errors.New("storage failure")
)

// Validation errors.
var (
	ErrEmptyName  = fmt.Errorf("%w: category name must not be empty", ErrValidation)
	ErrEmptyTitle = fmt.Errorf("%w: item title must not be empty", ErrValidation)
	ErrNoCategory = fmt.Errorf("%w: category is not set", ErrValidation)
	ErrNoItem     = fmt.Errorf("%w: item is not set", ErrValidation)
)

// Lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrLocked          = errors.New("data directory is locked by another process")
)

// StorageError wraps a failure of the backing medium so that it matches
// ErrStorage and the underlying cause.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
