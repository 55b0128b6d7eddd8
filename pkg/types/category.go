package types

import (
	"strings"
	"time"
)

// Category groups items. A category owns its items: deleting it deletes
// every item whose CategoryID refers to it.
type Category struct {
	CategoryID string    `json:"category_id"` // UUID v7, generated on creation.
	Name       string    `json:"name"`        // Display name; duplicates are allowed.
	CreatedAt  time.Time `json:"created_at"`
}

// ValidateName reports ErrEmptyName when name is empty or only whitespace.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Ref returns the category ID, or ErrNoCategory when c is nil or was never
// persisted.
func (c *Category) Ref() (string, error) {
	if c == nil || c.CategoryID == "" {
		return "", ErrNoCategory
	}
	return c.CategoryID, nil
}
