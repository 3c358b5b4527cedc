// SPDX-License-Identifier: MIT

package catmatrix

import "fmt"

// Unfold separates repeated runs of the same row into distinct rows.
//
// The k-th run (0-based) of input row r is moved to row r + k·m.Rows(); the
// first run stays in place. Afterwards every row holds at most one run, so
// "pick row r at column i" names exactly one interval, and a category that is
// re-entered later in the sequence appears as a separate candidate row.
//
// Implementation:
//   - Stage 1: fold every row into its run list (Runs); the input is only read.
//   - Stage 2: size the result once: Rows() × max(1, most runs in any row).
//   - Stage 3: paint each run into its target row.
//
// Behavior highlights:
//   - A matrix whose rows all have ≤1 run comes back with the same shape and
//     cells, so Unfold is idempotent.
//   - Column count, labels and Base() are preserved; Category() of a
//     synthetic row still names its original category.
//
// Errors: ErrInvalidArgument for a nil matrix.
// Complexity: O(R·N) time; O(R·K·N) memory where K is the deepest re-entry.
func Unfold(m *Matrix) (*Matrix, error) {
	if m == nil {
		return nil, fmt.Errorf("nil matrix: %w", ErrInvalidArgument)
	}

	// Stage 1: pure fold into run lists.
	runs, blocks := foldRuns(m)

	// Stage 2: one allocation for the whole result.
	out := &Matrix{
		r:      m.r * blocks,
		c:      m.c,
		base:   m.base,
		labels: m.Labels(),
		data:   make([]bool, m.r*blocks*m.c),
	}

	// Stage 3: paint runs.
	var (
		k, col, target int
		run            Run
	)
	for r := 0; r < m.r; r++ {
		for k, run = range runs[r] {
			target = r + k*m.r
			for col = run.Lower; col <= run.Upper; col++ {
				out.data[target*out.c+col] = true
			}
		}
	}

	return out, nil
}

// MaxRuns returns the largest number of runs found in any single row, i.e.
// the number of blocks Unfold will produce (at least 1).
func MaxRuns(m *Matrix) int {
	if m == nil {
		return 1
	}
	_, blocks := foldRuns(m)

	return blocks
}

// foldRuns lists the runs of every row and the largest run count (at least 1).
func foldRuns(m *Matrix) ([][]Run, int) {
	runs := make([][]Run, m.r)
	blocks := 1
	for r := 0; r < m.r; r++ {
		runs[r] = Runs(m.row(r))
		if len(runs[r]) > blocks {
			blocks = len(runs[r])
		}
	}

	return runs, blocks
}
