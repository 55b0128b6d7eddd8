package types

// Predicate filters items. Backends render it with Where; callers holding
// items in memory evaluate it with Match. Both forms must agree.
type Predicate interface {
	// Where returns a boolean SQL expression over the aliases i (items) and
	// c (the item's parent category), with ? placeholders bound by args.
	Where() (clause string, args []any)

	// Match reports whether item, whose parent category is named parentName,
	// satisfies the predicate.
	Match(item *Item, parentName string) bool

	// SortsByTitle reports whether results filtered by this predicate are
	// ordered by title ascending instead of insertion order.
	SortsByTitle() bool
}
