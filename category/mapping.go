package category

import (
	"fmt"
	"sort"
)

// Mapping is an immutable two-way item ↔ category membership table.
//
// Invariant: item ∈ ItemsOf(c) ⇔ c ∈ CategoriesOf(item).
// A Mapping is safe for concurrent readers; nothing mutates it after New.
type Mapping struct {
	categories []string            // lexicographic order
	items      []string            // lexicographic order
	byCategory map[string][]string // category → sorted, unique items
	byItem     map[string][]string // item → sorted, unique categories
}

// New builds a Mapping from a category → items table and derives the reverse
// direction. Duplicate items inside one category are collapsed. A category may
// list no items (its matrix row will be all zero).
//
// Stage 1 (Validate): non-nil table, non-empty names.
// Stage 2 (Prepare): dedupe and sort each item list.
// Stage 3 (Finalize): invert into item → categories.
// Complexity: O(P log P) where P is the number of (item, category) pairs.
func New(table map[string][]string) (*Mapping, error) {
	if table == nil {
		return nil, ErrInvalidArgument
	}

	m := &Mapping{
		categories: make([]string, 0, len(table)),
		byCategory: make(map[string][]string, len(table)),
		byItem:     make(map[string][]string),
	}

	var (
		cat   string
		items []string
		item  string
	)
	for cat, items = range table {
		if cat == "" {
			return nil, fmt.Errorf("empty category name: %w", ErrInvalidArgument)
		}
		for _, item = range items {
			if item == "" {
				return nil, fmt.Errorf("category %q: empty item name: %w", cat, ErrInvalidArgument)
			}
		}
		m.categories = append(m.categories, cat)
		m.byCategory[cat] = uniqueSorted(items)
	}
	sort.Strings(m.categories)

	// categories are visited in sorted order, so each item's list is born sorted
	for _, cat = range m.categories {
		for _, item = range m.byCategory[cat] {
			m.byItem[item] = append(m.byItem[item], cat)
		}
	}

	m.items = make([]string, 0, len(m.byItem))
	for item = range m.byItem {
		m.items = append(m.items, item)
	}
	sort.Strings(m.items)

	return m, nil
}

// FromTables builds a Mapping from both directions at once and verifies that
// they agree: every (item, category) pair listed on one side must be listed on
// the other. Returns ErrInconsistent naming the first offending pair in
// lexicographic order.
func FromTables(byCategory, byItem map[string][]string) (*Mapping, error) {
	if byCategory == nil || byItem == nil {
		return nil, ErrInvalidArgument
	}

	m, err := New(byCategory)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(byItem))
	for item := range byItem {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		cats := uniqueSorted(byItem[item])
		got := m.byItem[item]
		if len(cats) != len(got) {
			return nil, fmt.Errorf("item %q: %w", item, ErrInconsistent)
		}
		for i := range cats {
			if cats[i] != got[i] {
				return nil, fmt.Errorf("item %q, category %q: %w", item, cats[i], ErrInconsistent)
			}
		}
	}
	// items known from byCategory but missing on the item side
	for _, item := range m.items {
		if _, ok := byItem[item]; !ok {
			return nil, fmt.Errorf("item %q missing from item table: %w", item, ErrInconsistent)
		}
	}

	return m, nil
}

// Len returns the number of categories.
func (m *Mapping) Len() int { return len(m.categories) }

// Categories returns all category names in lexicographic order.
func (m *Mapping) Categories() []string { return clone(m.categories) }

// Items returns every item listed under at least one category, sorted.
func (m *Mapping) Items() []string { return clone(m.items) }

// CategoriesOf returns the sorted categories of item; nil when the item has
// no category (the "no category" policy case of the segmenters).
func (m *Mapping) CategoriesOf(item string) []string { return clone(m.byItem[item]) }

// ItemsOf returns the sorted items of category; nil for an unknown category.
func (m *Mapping) ItemsOf(category string) []string { return clone(m.byCategory[category]) }

// Contains reports whether item belongs to at least one category.
func (m *Mapping) Contains(item string) bool { return len(m.byItem[item]) > 0 }

// Index returns the row index of category in the lexicographic order used by
// catmatrix.Build.
func (m *Mapping) Index(category string) (int, bool) {
	i := sort.SearchStrings(m.categories, category)
	if i < len(m.categories) && m.categories[i] == category {
		return i, true
	}

	return -1, false
}

// Table returns a fresh category → items copy, suitable for serialization.
func (m *Mapping) Table() map[string][]string {
	out := make(map[string][]string, len(m.byCategory))
	for cat, items := range m.byCategory {
		out[cat] = clone(items)
	}

	return out
}

// uniqueSorted returns a sorted copy of in without duplicates.
func uniqueSorted(in []string) []string {
	out := clone(in)
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

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)

	return out
}
