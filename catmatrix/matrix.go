// SPDX-License-Identifier: MIT

package catmatrix

import (
	"strconv"
	"strings"
)

// Matrix is a row-major boolean matrix whose rows are labelled by category.
//
// A freshly built matrix has one row per category (Base() == Rows()). After
// Unfold the row count is a whole multiple of Base(): row r belongs to
// category r % Base() and holds that category's (r / Base())-th run.
type Matrix struct {
	r, c   int      // rows and columns
	base   int      // number of categories; r is a multiple of base
	labels []string // category names, len == base
	data   []bool   // flat backing storage, len == r*c
}

// New creates a zero matrix with one row per label and cols columns.
// Stage 1 (Validate): cols ≥ 0.
// Stage 2 (Prepare): copy labels, allocate the flat backing slice.
// Complexity: O(len(labels)·cols).
func New(labels []string, cols int) (*Matrix, error) {
	if cols < 0 {
		return nil, ErrBadShape
	}

	return newBlocks(labels, 1, cols), nil
}

// FromRows builds a matrix from explicit rows. len(rows) must be a whole
// multiple of len(labels) (one block per unfold level) and every row must
// have the same length. Mostly useful for tests and fixtures.
func FromRows(labels []string, rows [][]bool) (*Matrix, error) {
	if len(labels) == 0 {
		if len(rows) != 0 {
			return nil, ErrBadShape
		}

		return &Matrix{}, nil
	}
	if len(rows)%len(labels) != 0 {
		return nil, ErrBadShape
	}

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := newBlocks(labels, len(rows)/len(labels), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, ErrBadShape
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// newBlocks allocates a zero matrix of blocks·len(labels) rows.
func newBlocks(labels []string, blocks, cols int) *Matrix {
	base := len(labels)
	lbl := make([]string, base)
	copy(lbl, labels)

	return &Matrix{
		r:      base * blocks,
		c:      cols,
		base:   base,
		labels: lbl,
		data:   make([]bool, base*blocks*cols),
	}
}

// Rows returns the number of rows (categories × unfold blocks).
func (m *Matrix) Rows() int { return m.r }

// Cols returns the number of columns (sequence length).
func (m *Matrix) Cols() int { return m.c }

// Base returns the number of categories, i.e. the row count before Unfold.
func (m *Matrix) Base() int { return m.base }

// Labels returns the category names in row order of the first block.
func (m *Matrix) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)

	return out
}

// Category returns the category index of row, folding synthetic rows back
// onto their original category. Returns -1 for an out-of-range row.
func (m *Matrix) Category(row int) int {
	if row < 0 || row >= m.r || m.base == 0 {
		return -1
	}

	return row % m.base
}

// Label returns the category name of row, or "" for an out-of-range row.
func (m *Matrix) Label(row int) string {
	ci := m.Category(row)
	if ci < 0 {
		return ""
	}

	return m.labels[ci]
}

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Matrix) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, matrixErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At reports whether cell (row, col) is set.
// Complexity: O(1).
func (m *Matrix) At(row, col int) (bool, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return false, err
	}

	return m.data[idx], nil
}

// Set assigns v to cell (row, col).
// Complexity: O(1).
func (m *Matrix) Set(row, col int, v bool) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Row returns a copy of row r, or nil when r is out of range.
func (m *Matrix) Row(r int) []bool {
	if r < 0 || r >= m.r {
		return nil
	}
	out := make([]bool, m.c)
	copy(out, m.row(r))

	return out
}

// row returns the backing slice of row r without copying; callers in this
// module only read from it.
func (m *Matrix) row(r int) []bool {
	return m.data[r*m.c : (r+1)*m.c]
}

// Bounds returns the maximal run of row r containing col.
// See the package-level Bounds for the contract.
func (m *Matrix) Bounds(r, col int) (Run, error) {
	if _, err := m.indexOf("Bounds", r, col); err != nil {
		return Run{}, err
	}

	return Bounds(m.row(r), col)
}

// ColumnEmpty reports whether no row has column col set, i.e. the item at
// col belongs to no category. Out-of-range columns report true.
func (m *Matrix) ColumnEmpty(col int) bool {
	if col < 0 || col >= m.c {
		return true
	}
	for r := 0; r < m.r; r++ {
		if m.data[r*m.c+col] {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of m.
// Complexity: O(rows·cols).
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{r: m.r, c: m.c, base: m.base}
	out.labels = make([]string, len(m.labels))
	copy(out.labels, m.labels)
	out.data = make([]bool, len(m.data))
	copy(out.data, m.data)

	return out
}

// Equal reports whether m and o have identical shape, labels and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c || m.base != o.base {
		return false
	}
	for i := range m.labels {
		if m.labels[i] != o.labels[i] {
			return false
		}
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}

	return true
}

// String renders one "label [1 0 1]" line per row; synthetic rows carry a
// "#k" suffix with their unfold block.
func (m *Matrix) String() string {
	var b strings.Builder
	var i, j int
	for i = 0; i < m.r; i++ {
		b.WriteString(m.Label(i))
		if k := i / m.base; k > 0 {
			b.WriteString("#")
			b.WriteString(strconv.Itoa(k))
		}
		b.WriteString(" [")
		for j = 0; j < m.c; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			if m.data[i*m.c+j] {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteString("]\n")
	}

	return b.String()
}
