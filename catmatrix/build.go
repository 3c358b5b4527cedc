// SPDX-License-Identifier: MIT

package catmatrix

import (
	"fmt"
	"sort"
)

// Lookup is the read-only view of a category mapping that Build needs.
// *category.Mapping satisfies it.
type Lookup interface {
	// Categories returns every category name. Build sorts a private copy,
	// so the order returned here does not matter.
	Categories() []string

	// CategoriesOf returns the categories item belongs to; empty when the
	// item has no category.
	CategoriesOf(item string) []string
}

// Build returns the categorization matrix of sequence under lookup.
//
// Rows follow the lexicographic order of category names, columns follow
// sequence positions, and cell (c, i) is set iff sequence[i] belongs to
// category c. An item with no category leaves its column empty; the
// segmenters treat that as an unclassified position.
//
// Stage 1 (Validate): lookup non-nil; a non-empty sequence needs at least one
// category.
// Stage 2 (Prepare): sort category names and index them.
// Stage 3 (Execute): set one cell per (position, category) membership.
//
// An empty sequence yields an empty zero-row matrix and no error.
// Errors: ErrInvalidArgument (nil lookup, empty category table, or an item
// whose category is missing from the table).
// Complexity: O(C log C + Σ|categories(item)|) time, O(C·N) memory.
func Build(sequence []string, lookup Lookup) (*Matrix, error) {
	if lookup == nil {
		return nil, fmt.Errorf("nil lookup: %w", ErrInvalidArgument)
	}
	if len(sequence) == 0 {
		return &Matrix{}, nil
	}

	labels := sortedUnique(lookup.Categories())
	if len(labels) == 0 {
		return nil, fmt.Errorf("empty category table: %w", ErrInvalidArgument)
	}
	index := make(map[string]int, len(labels))
	for i, name := range labels {
		index[name] = i
	}

	m := newBlocks(labels, 1, len(sequence))
	for col, item := range sequence {
		for _, name := range lookup.CategoriesOf(item) {
			r, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("item %q lists unknown category %q: %w", item, name, ErrInvalidArgument)
			}
			m.data[r*m.c+col] = true
		}
	}

	return m, nil
}

// sortedUnique returns a sorted, duplicate-free copy of in.
func sortedUnique(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	w := 0
	for i := range out {
		if i > 0 && out[i] == out[w-1] {
			continue
		}
		out[w] = out[i]
		w++
	}

	return out[:w]
}
