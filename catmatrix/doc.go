// SPDX-License-Identifier: MIT

// Package catmatrix builds and transforms boolean categorization matrices:
// rows are categories, columns are positions in a response sequence, and
// cell (c, i) is set iff the item at position i belongs to category c.
//
// 🚀 What lives here?
//
//	The three primitives every segmenter in package segment is built on:
//	  • Build  — sequence + category lookup → Matrix (rows in lexicographic
//	             category order, so identical inputs give identical matrices)
//	  • Bounds — maximal run of set cells in one row around a position
//	  • Unfold — moves the k-th run of row r to synthetic row r + k·base so
//	             that every row holds at most one run ("re-entry" into a
//	             category becomes a structurally distinct row)
//
// ✨ Key features:
//   - Row-major flat storage, bounds-checked At/Set returning sentinels.
//   - Pure transformations: Unfold and Runs never mutate their input.
//   - Category(row) maps any synthetic row back to its category index.
//
// Quick ASCII example (categories farm, pets; sequence cow dog cat pig):
//
//	         cow dog cat pig
//	  farm [  1   1   0   1 ]
//	  pets [  0   1   1   0 ]
//
//	Bounds(farm, 1) = [0,1]; Unfold moves farm's second run (pig) to row 2.
//
// Errors (sentinel, all matching ErrInvalidArgument via errors.Is):
//   - ErrOutOfRange — row/column index outside the matrix.
//   - ErrZeroCell   — Bounds asked for a position whose cell is not set.
//   - ErrBadShape   — negative dimensions or ragged rows.
package catmatrix
