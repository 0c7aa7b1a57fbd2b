// Package collection narrows an already-fetched list by a free-text query and
// sums a money field over what is left.
//
// Everything here is a pure function of its inputs: no I/O, no locking, no
// failure modes. Views call Project on every keystroke.
package collection

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one entity instance held in a collection.
type Record interface {
	// RecordID returns the opaque backend identifier.
	RecordID() string
	// SearchFields returns every string-representable field value. Empty
	// strings stand for absent fields and never match.
	SearchFields() []string
}

// Field selects the numeric attribute a view totals.
type Field[T any] func(T) decimal.Decimal

// Blank reports whether query is the neutral, no-op query.
func Blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Matches reports whether any search field of r contains query,
// case-insensitively.
func Matches(r Record, query string) bool {
	return matchesLower(r, strings.ToLower(query))
}

func matchesLower(r Record, lowered string) bool {
	for _, f := range r.SearchFields() {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), lowered) {
			return true
		}
	}
	return false
}

// Filter returns the records matching query in their original order.
// A blank query returns items itself.
func Filter[T Record](items []T, query string) []T {
	if Blank(query) {
		return items
	}
	lowered := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesLower(it, lowered) {
			out = append(out, it)
		}
	}
	return out
}

// Sum adds field across items. It is zero for an empty slice or a nil field.
func Sum[T any](items []T, field Field[T]) decimal.Decimal {
	total := decimal.Zero
	if field == nil {
		return total
	}
	for _, it := range items {
		total = total.Add(field(it))
	}
	return total
}

// View is the derived state a list renders: the filtered records and their total.
type View[T Record] struct {
	Query string
	Items []T
	Total decimal.Decimal
	// Size is the length of the whole collection, before filtering.
	Size int
}

// Project filters items by query and totals field over the result.
func Project[T Record](items []T, query string, field Field[T]) View[T] {
	filtered := Filter(items, query)
	return View[T]{
		Query: query,
		Items: filtered,
		Total: Sum(filtered, field),
		Size:  len(items),
	}
}

// NoResults reports whether a non-blank query left nothing to show.
func (v View[T]) NoResults() bool {
	return len(v.Items) == 0 && !Blank(v.Query)
}

// Filtered reports whether the view is narrower than the collection.
func (v View[T]) Filtered() bool {
	return !Blank(v.Query)
}
