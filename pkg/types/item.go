package types

import (
	"strings"
	"time"
)

// Item is a single to-do entry belonging to exactly one Category.
type Item struct {
	ItemID     string    `json:"item_id"`     // UUID v7, generated on creation.
	CategoryID string    `json:"category_id"` // Parent category; never empty once persisted.
	Title      string    `json:"title"`
	Done       bool      `json:"done"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidateTitle reports ErrEmptyTitle when title is empty or only whitespace.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Ref returns the item ID, or ErrNoItem when it is nil or was never persisted.
func (it *Item) Ref() (string, error) {
	if it == nil || it.ItemID == "" {
		return "", ErrNoItem
	}
	return it.ItemID, nil
}

// Toggle flips the done flag.
func (it *Item) Toggle() {
	it.Done = !it.Done
}
