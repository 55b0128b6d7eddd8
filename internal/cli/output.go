package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// errAmbiguousCategory is returned when a category name matches more than
// one category.
var errAmbiguousCategory = fmt.Errorf("%w: category name is ambiguous", types.ErrValidation)

// resolveCategory looks ref up as a category ID first and then as an exact
// name. A name shared by several categories is rejected.
func resolveCategory(store types.Store, ref string) (*types.Category, error) {
	cat, err := store.GetCategory(ref)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	matches, err := store.FindCategories(ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("category %q: %w", ref, types.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d categories, use an ID", errAmbiguousCategory, ref, len(matches))
	}
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printTable writes rows under header as aligned columns, trimming the
// padding tabwriter leaves at line ends.
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(header, "\t"))
	rules := make([]string, len(header))
	for i, h := range header {
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func printCategories(w io.Writer, cats []*types.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.CategoryID, c.Name, c.CreatedAt.Format("2006-01-02")})
	}
	printTable(w, []string{"ID", "NAME", "CREATED"}, rows)
	fmt.Fprintf(w, "Total: %d category(ies)\n", len(cats))
}

func printItems(w io.Writer, items []*types.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.ItemID, doneMark(it.Done), it.Title})
	}
	printTable(w, []string{"ID", "DONE", "TITLE"}, rows)
	fmt.Fprintf(w, "Total: %d item(s)\n", len(items))
}

func doneMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
