// SPDX-License-Identifier: MIT

package catmatrix

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the umbrella sentinel for every caller mistake in this
// package: nil inputs, empty category tables, bad indices, zero cells.
// The narrower sentinels below all wrap it, so errors.Is(err,
// ErrInvalidArgument) holds for any of them.
var ErrInvalidArgument = errors.New("catmatrix: invalid argument")

var (
	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = fmt.Errorf("catmatrix: index out of range: %w", ErrInvalidArgument)

	// ErrZeroCell indicates a run lookup at a position whose cell is 0.
	// Calling Bounds there is a programming error in the caller.
	ErrZeroCell = fmt.Errorf("catmatrix: position is not inside a run: %w", ErrInvalidArgument)

	// ErrBadShape indicates negative dimensions, ragged rows, or a row count
	// that is not a whole number of category blocks.
	ErrBadShape = fmt.Errorf("catmatrix: invalid shape: %w", ErrInvalidArgument)
)

// matrixErrorf wraps err with Matrix method context.
func matrixErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, row, col, err)
}
