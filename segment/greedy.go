package segment

import (
	"github.com/katalvlaran/semflu/catmatrix"
)

// Greedy segments the sequence by repeatedly committing the longest category
// run available at a cursor.
//
// Starting at cursor 0, every row with a 1 at the cursor is a candidate; the
// one whose full run (catmatrix.Bounds) is longest wins. Ties go to the lowest
// category index (m.Category), then to the lowest row. A segment from the cursor to the run's upper bound is
// committed and the cursor moves to upper+1. A column with no candidate (an
// item without category) becomes a one-item Unclassified segment.
//
// Because the run may extend to the left of the cursor (an ambiguous item
// already claimed by the previous segment), only the part at or after the
// cursor is committed. Segments are therefore disjoint, ordered by start, and
// cover every position exactly once.
//
// Greedy works on either a folded or an unfolded matrix: a synthetic row
// competes under its category's index, so both give the same segments. It ignores the budget options and never fails for valid input.
//
// Errors: ErrInvalidArgument family for bad input, or the first error
// returned by the WithOnCommit hook.
// Complexity: O(N·R) time for N items and R rows, O(N) extra memory.
func Greedy(m *catmatrix.Matrix, items []string, timings []float64, opts ...Option) (*Solution, error) {
	// Stage 1 (Validate)
	n, err := validateInputs(m, items, timings)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)

	sol := &Solution{Segments: make([]Segment, 0)}
	if n == 0 {
		return sol, nil
	}

	// Stage 2 (Execute): advance the cursor, one committed segment per step.
	var (
		cursor  = 0
		r       int
		run     catmatrix.Run
		best    catmatrix.Run
		bestRow int
		set     bool
		seg     Segment
	)
	for cursor < n {
		bestRow = -1
		for r = 0; r < m.Rows(); r++ {
			if set, _ = m.At(r, cursor); !set {
				continue
			}
			run, _ = m.Bounds(r, cursor) // cell is set: cannot fail
			if bestRow < 0 || run.Len() > best.Len() ||
				(run.Len() == best.Len() && m.Category(r) < m.Category(bestRow)) {
				bestRow, best = r, run
			}
		}

		if bestRow < 0 {
			seg = cut(m, -1, cursor, cursor, items, timings)
		} else {
			seg = cut(m, bestRow, cursor, best.Upper, items, timings)
		}
		if o.OnCommit != nil {
			if err = o.OnCommit(cursor, seg); err != nil {
				return nil, err
			}
		}
		sol.Segments = append(sol.Segments, seg)
		sol.Explored++
		cursor = seg.End + 1
	}

	return sol, nil
}
