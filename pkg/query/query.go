// Package query composes item filters for Store.ListItems. Predicates are
// pure values: building one never touches a store.
package query

import (
	"strings"

	"github.com/mesh-intelligence/todo/internal/fold"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// FoldFunction is the SQL scalar function backends must register so that
// title predicates can fold stored titles: todo_fold(text, mode).
const FoldFunction = "todo_fold"

// parentName matches items whose parent category carries a given name.
type parentName struct {
	name string
}

// ByParentCategory matches items whose parent category has the same name as
// category. Two categories sharing a name are indistinguishable here; use
// Store.ListItems scoping when identity matters. A nil category matches
// nothing.
func ByParentCategory(category *types.Category) types.Predicate {
	if category == nil {
		return never{}
	}
	return parentName{name: category.Name}
}

func (p parentName) Where() (string, []any) {
	return "c.name = ?", []any{p.name}
}

func (p parentName) Match(_ *types.Item, parent string) bool {
	return parent == p.name
}

func (p parentName) SortsByTitle() bool { return false }

// titleContains matches items whose folded title contains the folded needle.
type titleContains struct {
	needle string
	mode   fold.Mode
}

// Option adjusts TitleContains normalization.
type Option func(*titleContains)

// CaseSensitive makes TitleContains distinguish letter case.
func CaseSensitive() Option {
	return func(t *titleContains) { t.mode &^= fold.Case }
}

// DiacriticSensitive makes TitleContains distinguish accented letters.
func DiacriticSensitive() Option {
	return func(t *titleContains) { t.mode &^= fold.Diacritics }
}

// TitleContains matches items whose title contains sub, ignoring case and
// diacritics unless options say otherwise. Results filtered by it are sorted
// by title ascending.
func TitleContains(sub string, opts ...Option) types.Predicate {
	t := titleContains{mode: fold.All}
	for _, opt := range opts {
		opt(&t)
	}
	t.needle = fold.String(sub, t.mode)
	return t
}

func (t titleContains) Where() (string, []any) {
	return "instr(" + FoldFunction + "(i.title, ?), ?) > 0", []any{int64(t.mode), t.needle}
}

func (t titleContains) Match(item *types.Item, _ string) bool {
	if item == nil {
		return false
	}
	return strings.Contains(fold.String(item.Title, t.mode), t.needle)
}

func (t titleContains) SortsByTitle() bool { return true }

// and is the conjunction of two non-nil predicates.
type and struct {
	left, right types.Predicate
}

// And combines two predicates with logical AND. A nil operand is ignored;
// And(nil, nil) returns nil, meaning no filter.
func And(p1, p2 types.Predicate) types.Predicate {
	switch {
	case p1 == nil:
		return p2
	case p2 == nil:
		return p1
	}
	return and{left: p1, right: p2}
}

func (a and) Where() (string, []any) {
	lc, la := a.left.Where()
	rc, ra := a.right.Where()
	args := make([]any, 0, len(la)+len(ra))
	args = append(args, la...)
	args = append(args, ra...)
	return "(" + lc + ") AND (" + rc + ")", args
}

func (a and) Match(item *types.Item, parent string) bool {
	return a.left.Match(item, parent) && a.right.Match(item, parent)
}

func (a and) SortsByTitle() bool {
	return a.left.SortsByTitle() || a.right.SortsByTitle()
}

// never matches no item.
type never struct{}

func (never) Where() (string, []any) { return "0", nil }
func (never) Match(*types.Item, string) bool { return false }
func (never) SortsByTitle() bool { return false }

// Search returns the filter for a search box: TitleContains(text) with the
// default normalization, or nil when text is blank so the caller falls back
// to the unfiltered, insertion-ordered list.
func Search(text string) types.Predicate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return TitleContains(text)
}

// SortsByTitle reports whether p orders results by title. A nil predicate
// keeps insertion order.
func SortsByTitle(p types.Predicate) bool {
	return p != nil && p.SortsByTitle()
}

// Filter applies p to items in memory, returning the matches in the order p
// requires. parent maps a category ID to its name. A nil p returns a copy of
// items. It serves callers outside this module that hold items without a
// store, such as adapters caching a list for display.
func Filter(items []*types.Item, parent func(categoryID string) string, p types.Predicate) []*types.Item {
	out := make([]*types.Item, 0, len(items))
	for _, it := range items {
		if p == nil || p.Match(it, parent(it.CategoryID)) {
			out = append(out, it)
		}
	}
	if SortsByTitle(p) {
		sortByTitle(out)
	}
	return out
}
