// Package types defines the Store and Predicate interfaces, the Category and
// Item entities, backend configuration, and the sentinel errors shared by
// every todo backend.
package types
