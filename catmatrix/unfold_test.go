package catmatrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/semflu/catmatrix"
)

func TestUnfold_Reentry(t *testing.T) {
	m, err := catmatrix.FromRows([]string{"a", "b"}, [][]bool{
		bits(1, 1, 0, 0, 1, 0),
		bits(0, 0, 1, 1, 0, 0),
	})
	require.NoError(t, err)

	u, err := catmatrix.Unfold(m)
	require.NoError(t, err)

	require.Equal(t, 4, u.Rows(), "one extra block of numCategories rows")
	assert.Equal(t, 6, u.Cols())
	assert.Equal(t, bits(1, 1, 0, 0, 0, 0), u.Row(0), "first run stays in place")
	assert.Equal(t, bits(0, 0, 1, 1, 0, 0), u.Row(1))
	assert.Equal(t, bits(0, 0, 0, 0, 1, 0), u.Row(2), "second run moves to row 0+2")
	assert.Equal(t, bits(0, 0, 0, 0, 0, 0), u.Row(3))

	assert.Equal(t, 0, u.Category(2), "synthetic row folds back to its category")
	assert.Equal(t, "a", u.Label(2))
	assert.Equal(t, 2, u.Base())

	// input untouched
	assert.Equal(t, bits(1, 1, 0, 0, 1, 0), m.Row(0))
}

func TestUnfold_IdempotentOnSingleRuns(t *testing.T) {
	m, err := catmatrix.FromRows([]string{"a", "b", "c"}, [][]bool{
		bits(1, 1, 0, 0),
		bits(0, 1, 1, 1),
		bits(0, 0, 0, 0),
	})
	require.NoError(t, err)

	u, err := catmatrix.Unfold(m)
	require.NoError(t, err)
	assert.Equal(t, m.Rows(), u.Rows())
	assert.True(t, m.Equal(u))

	again, err := catmatrix.Unfold(u)
	require.NoError(t, err)
	assert.True(t, u.Equal(again), "unfolding an unfolded matrix is a no-op")
}

func TestUnfold_ThreeRuns(t *testing.T) {
	m, err := catmatrix.FromRows([]string{"a", "b"}, [][]bool{
		bits(1, 0, 1, 0, 1),
		bits(0, 1, 0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, catmatrix.MaxRuns(m))

	u, err := catmatrix.Unfold(m)
	require.NoError(t, err)
	require.Equal(t, 6, u.Rows())
	assert.Equal(t, catmatrix.MaxRuns(m)*m.Rows(), u.Rows(), "MaxRuns predicts the unfold block count")
	assert.Equal(t, 1, catmatrix.MaxRuns(u))
	assert.Equal(t, 1, catmatrix.MaxRuns(nil))
	assert.Equal(t, bits(1, 0, 0, 0, 0), u.Row(0))
	assert.Equal(t, bits(0, 1, 0, 0, 0), u.Row(1))
	assert.Equal(t, bits(0, 0, 1, 0, 0), u.Row(2))
	assert.Equal(t, bits(0, 0, 0, 1, 0), u.Row(3))
	assert.Equal(t, bits(0, 0, 0, 0, 1), u.Row(4))
	assert.Equal(t, bits(0, 0, 0, 0, 0), u.Row(5))

	for r := 0; r < u.Rows(); r++ {
		assert.LessOrEqual(t, len(catmatrix.Runs(u.Row(r))), 1, "row %d must hold at most one run", r)
	}
}

// TestUnfold_PreservesColumns checks that every set cell survives exactly once.
func TestUnfold_PreservesColumns(t *testing.T) {
	m, err := catmatrix.FromRows([]string{"a", "b"}, [][]bool{
		bits(1, 1, 0, 1, 1, 0, 1),
		bits(1, 0, 1, 1, 0, 1, 1),
	})
	require.NoError(t, err)
	u, err := catmatrix.Unfold(m)
	require.NoError(t, err)

	for col := 0; col < m.Cols(); col++ {
		for cat := 0; cat < m.Base(); cat++ {
			want, _ := m.At(cat, col)
			count := 0
			for r := cat; r < u.Rows(); r += u.Base() {
				if v, _ := u.At(r, col); v {
					count++
				}
			}
			if want {
				assert.Equal(t, 1, count, "cat %d col %d", cat, col)
			} else {
				assert.Equal(t, 0, count, "cat %d col %d", cat, col)
			}
		}
	}
}

func TestUnfold_Empty(t *testing.T) {
	u, err := catmatrix.Unfold(&catmatrix.Matrix{})
	require.NoError(t, err)
	assert.Equal(t, 0, u.Rows())

	_, err = catmatrix.Unfold(nil)
	assert.ErrorIs(t, err, catmatrix.ErrInvalidArgument)
}
