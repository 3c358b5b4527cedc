// SPDX-License-Identifier: MIT

package catmatrix

// Run is a maximal block of set cells in one row, both ends inclusive.
type Run struct {
	Lower int // first set column of the run
	Upper int // last set column of the run
}

// Len returns the number of columns covered by the run.
func (r Run) Len() int { return r.Upper - r.Lower + 1 }

// Contains reports whether col lies inside the run.
func (r Run) Contains(col int) bool { return col >= r.Lower && col <= r.Upper }

// Bounds returns the maximal run of set cells in row that contains pos.
//
// Post-conditions on success:
//   - row[Lower..=Upper] are all set and Lower ≤ pos ≤ Upper;
//   - Lower == 0 or row[Lower-1] is unset;
//   - Upper == len(row)-1 or row[Upper+1] is unset.
//
// A run touching the end of the row reports Upper == len(row)-1, never
// len(row).
//
// Errors:
//   - ErrOutOfRange if pos is outside [0, len(row)).
//   - ErrZeroCell   if row[pos] is unset; asking for the run of an empty cell
//     is a caller bug.
//
// Complexity: O(run length).
func Bounds(row []bool, pos int) (Run, error) {
	if pos < 0 || pos >= len(row) {
		return Run{}, ErrOutOfRange
	}
	if !row[pos] {
		return Run{}, ErrZeroCell
	}

	lower, upper := pos, pos
	for lower > 0 && row[lower-1] {
		lower--
	}
	for upper < len(row)-1 && row[upper+1] {
		upper++
	}

	return Run{Lower: lower, Upper: upper}, nil
}

// Runs folds row into its maximal runs, left to right. A row without set
// cells yields nil. Runs never mutates row.
// Complexity: O(len(row)).
func Runs(row []bool) []Run {
	var (
		out    []Run
		inside bool
		start  int
	)
	for i, v := range row {
		switch {
		case v && !inside:
			inside, start = true, i
		case !v && inside:
			inside = false
			out = append(out, Run{Lower: start, Upper: i - 1})
		}
	}
	if inside {
		out = append(out, Run{Lower: start, Upper: len(row) - 1})
	}

	return out
}
