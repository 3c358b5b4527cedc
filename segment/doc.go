// Package segment partitions a response sequence into contiguous category
// clusters, the patches of a semantic-fluency run.
//
// 🚀 What is provided?
//
//	Two segmenters over a catmatrix.Matrix plus the glue the statistics
//	layer needs:
//	  • Greedy     — longest run at the cursor, O(N·R), never fails
//	  • Exhaustive — depth-first search over every cover of the unfolded
//	                 matrix, best Score wins (fewest segments first)
//	  • Enumerate  — every cover with its Score, in search order
//	  • Clusters   — per-item annotations (position, distance from end,
//	                 last flag, running counter)
//
// ✨ Invariants of every returned Solution:
//   - Segments are disjoint, ordered by start, and cover [0, N) exactly.
//   - Each segment's items all belong to its category, or the segment is a
//     single Unclassified item (no category at all).
//   - Identical input gives identical output; nothing is random.
//
// ⚙️ Usage:
//
//	m, _ := catmatrix.Build(items, mapping)
//	sol, err := segment.Exhaustive(m, items, irts,
//	    segment.WithMaxNodes(1_000_000),
//	    segment.WithTimeLimit(2*time.Second),
//	)
//	if errors.Is(err, segment.ErrSearchBudgetExceeded) {
//	    sol, err = segment.Greedy(m, items, irts)
//	}
//
// Exhaustive is exponential in the number of ambiguous items; the budget
// options keep it bounded. Greedy tie-breaks by the lowest row index, which
// is arbitrary but deterministic.
package segment
