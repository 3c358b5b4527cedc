// Package category holds the item ↔ category lookup used to segment
// semantic-fluency response sequences.
//
// 🚀 What is a category mapping?
//
//	Every response token (an "item", e.g. an animal name) belongs to zero or
//	more categories ("pets", "farm", "african", …). Membership is boolean and
//	many-to-many; the mapping is kept in both directions:
//	  • category → sorted set of items
//	  • item     → sorted set of categories
//
// ✨ Key features:
//   - Immutable after construction: every accessor returns a fresh copy.
//   - Deterministic: Categories() is always in lexicographic order, which is
//     the row order of catmatrix.Build.
//   - Consistency check: FromTables rejects two tables that disagree.
//   - Ingestion of the classic "Category: item, item, item." text format
//     (Parse) and of YAML maps (LoadYAML).
//   - Unicode-aware normalization of item keys (Normalize) so responses and
//     table entries meet on the same string.
//
// ⚙️ Usage:
//
//	m, err := category.Parse(strings.NewReader(
//	    "Pets: dog, cat, hamster.\nFarm: cow, dog, pig.\n"))
//	if err != nil {
//	    // handle ErrMalformedLine / ErrInvalidArgument
//	}
//	m.Categories()        // [farm pets]
//	m.CategoriesOf("dog") // [farm pets]
//
// Errors (sentinel):
//   - ErrInvalidArgument — nil/empty tables, empty names.
//   - ErrInconsistent    — item and category tables disagree.
//   - ErrMalformedLine   — a text line without the "category:" prefix.
package category
