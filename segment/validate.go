package segment

import (
	"fmt"
	"math"

	"github.com/katalvlaran/semflu/catmatrix"
)

// validateInputs checks that m, items and timings describe one sequence and
// returns its length.
//
// Priority: nil matrix → length mismatch → bad latency → empty table.
// Complexity: O(N).
func validateInputs(m *catmatrix.Matrix, items []string, timings []float64) (int, error) {
	if m == nil {
		return 0, fmt.Errorf("nil matrix: %w", ErrInvalidArgument)
	}

	n := len(items)
	if len(timings) != n {
		return 0, fmt.Errorf("%d items, %d timings: %w", n, len(timings), ErrLengthMismatch)
	}
	if n == 0 {
		return 0, nil
	}
	if m.Cols() != n {
		return 0, fmt.Errorf("%d items, %d matrix columns: %w", n, m.Cols(), ErrLengthMismatch)
	}

	for i, t := range timings {
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("timing[%d]=%v: %w", i, t, ErrBadTiming)
		}
	}

	if m.Rows() == 0 {
		return 0, fmt.Errorf("empty category table: %w", ErrInvalidArgument)
	}

	return n, nil
}

// cut copies positions [start, end] of the sequence into a Segment cut from
// row of m; row < 0 yields an Unclassified segment.
func cut(m *catmatrix.Matrix, row, start, end int, items []string, timings []float64) Segment {
	seg := Segment{
		Category: Unclassified,
		Row:      -1,
		Start:    start,
		End:      end,
		Items:    make([]string, end-start+1),
		Timings:  make([]float64, end-start+1),
	}
	copy(seg.Items, items[start:end+1])
	copy(seg.Timings, timings[start:end+1])
	if row >= 0 {
		seg.Row = row
		seg.Category = m.Category(row)
		seg.Label = m.Label(row)
	}

	return seg
}
