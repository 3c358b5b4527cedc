package segment_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/semflu/catmatrix"
	"github.com/katalvlaran/semflu/segment"
)

var zooTable = map[string][]string{
	"farm": {"cow", "pig", "goat"},
	"pets": {"cat", "dog", "hamster"},
}

func TestGreedy_Unambiguous(t *testing.T) {
	f := newFixture(t, zooTable, "cow", "pig", "cat", "dog", "goat", "zebra", "hamster")
	sol, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)

	assertPartition(t, f, sol)
	assert.Equal(t, []string{"farm", "pets", "farm", "?", "pets"}, labels(sol))
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}, {4, 4}, {5, 5}, {6, 6}}, sol.Boundaries())
	assert.Equal(t, 4, sol.Switches())
	assert.Equal(t, 5, sol.Explored)
	assert.Zero(t, sol.Score, "greedy does not score")
}

func TestGreedy_LongestRunWins(t *testing.T) {
	// dog starts both a farm run of 1 and a pets run of 3
	f := newFixture(t, map[string][]string{
		"farm": {"dog", "cow"},
		"pets": {"dog", "cat", "hamster"},
	}, "dog", "cat", "hamster", "cow")
	sol, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)
	assert.Equal(t, []string{"pets", "farm"}, labels(sol))
	assert.Equal(t, [][2]int{{0, 2}, {3, 3}}, sol.Boundaries())
}

func TestGreedy_TieBreaksByLowestRow(t *testing.T) {
	f := newFixture(t, map[string][]string{"b": {"p", "q"}, "a": {"p", "q"}}, "p", "q")
	sol, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, labels(sol))
}

func TestGreedy_ClipsRunToCursor(t *testing.T) {
	// x belongs to both categories; the farm segment takes it, pets starts after
	f := newFixture(t, map[string][]string{
		"farm": {"a1", "a2", "x"},
		"pets": {"x", "b1", "b2", "b3"},
	}, "a1", "a2", "x", "b1", "b2", "b3")
	sol, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)

	assertPartition(t, f, sol)
	assert.Equal(t, [][2]int{{0, 2}, {3, 5}}, sol.Boundaries())
	assert.Equal(t, 1, sol.Switches())
}

func TestGreedy_MonotonicCursor(t *testing.T) {
	f := newFixture(t, map[string][]string{
		"farm":   {"horse", "goat", "pig"},
		"pets":   {"goat", "pig", "rabbit"},
		"forest": {"rabbit", "fox"},
	}, "horse", "goat", "pig", "rabbit", "fox", "unicorn", "fox")

	prev, next := -1, 0
	sol, err := segment.Greedy(f.m, f.items, f.timings, segment.WithOnCommit(func(cursor int, seg segment.Segment) error {
		assert.Greater(t, cursor, prev, "cursor must strictly increase")
		assert.Equal(t, next, cursor, "cursor resumes right after the last segment")
		assert.Equal(t, cursor, seg.Start)
		prev, next = cursor, seg.End+1

		return nil
	}))
	require.NoError(t, err)
	assertPartition(t, f, sol)
	assert.Equal(t, len(f.items), next)
	assert.LessOrEqual(t, sol.Explored, len(f.items))
}

func TestGreedy_HookAborts(t *testing.T) {
	f := newFixture(t, zooTable, "cow", "cat")
	stop := errors.New("stop")
	calls := 0
	sol, err := segment.Greedy(f.m, f.items, f.timings, segment.WithOnCommit(func(int, segment.Segment) error {
		calls++
		return stop
	}))
	assert.ErrorIs(t, err, stop)
	assert.Nil(t, sol)
	assert.Equal(t, 1, calls)
}

func TestGreedy_Deterministic(t *testing.T) {
	f := alternating(t, 9)
	a, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)
	b, err := segment.Greedy(f.m, f.items, f.timings)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGreedy_EmptyInput(t *testing.T) {
	f := newFixture(t, zooTable)
	sol, err := segment.Greedy(f.m, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, sol.Segments)
	assert.Equal(t, 0, sol.Switches())
	assert.Equal(t, 0, sol.Len())
}

func TestGreedy_InvalidInput(t *testing.T) {
	f := newFixture(t, zooTable, "cow", "cat")
	noRows, err := catmatrix.New(nil, 2)
	require.NoError(t, err)

	cases := []struct {
		name    string
		m       *catmatrix.Matrix
		items   []string
		timings []float64
		want    error
	}{
		{"nil matrix", nil, f.items, f.timings, segment.ErrInvalidArgument},
		{"short timings", f.m, f.items, []float64{1}, segment.ErrLengthMismatch},
		{"matrix width", f.m, []string{"cow"}, []float64{1}, segment.ErrLengthMismatch},
		{"negative timing", f.m, f.items, []float64{1, -1}, segment.ErrBadTiming},
		{"NaN timing", f.m, f.items, []float64{math.NaN(), 1}, segment.ErrBadTiming},
		{"infinite timing", f.m, f.items, []float64{1, math.Inf(1)}, segment.ErrBadTiming},
		{"empty table", noRows, f.items, f.timings, segment.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sol, err := segment.Greedy(tc.m, tc.items, tc.timings)
			assert.Nil(t, sol)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, segment.ErrInvalidArgument)
			assert.ErrorIs(t, err, catmatrix.ErrInvalidArgument)
		})
	}
}

func TestOptions_PanicOnNegative(t *testing.T) {
	assert.Panics(t, func() { segment.WithMaxNodes(-1) })
	assert.Panics(t, func() { segment.WithTimeLimit(-1) })
	assert.NotPanics(t, func() { segment.WithMaxNodes(0) })
}

func TestGreedy_UnfoldedMatchesFolded(t *testing.T) {
	// at position 4, a re-enters with run [3,4] and c starts [4,5]: equal
	// lengths, so category a must win in both forms
	row := func(bits ...int) []bool {
		out := make([]bool, len(bits))
		for i, b := range bits {
			out[i] = b == 1
		}

		return out
	}
	m, err := catmatrix.FromRows([]string{"a", "b", "c", "d"}, [][]bool{
		row(1, 0, 0, 1, 1, 0, 0, 0),
		row(0, 0, 1, 1, 0, 0, 0, 0),
		row(0, 0, 0, 0, 1, 1, 0, 0),
		row(0, 1, 0, 0, 0, 0, 1, 1),
	})
	require.NoError(t, err)
	u, err := catmatrix.Unfold(m)
	require.NoError(t, err)
	require.Greater(t, u.Rows(), m.Rows())

	items := []string{"i0", "i1", "i2", "i3", "i4", "i5", "i6", "i7"}
	timings := make([]float64, len(items))

	folded, err := segment.Greedy(m, items, timings)
	require.NoError(t, err)
	unfolded, err := segment.Greedy(u, items, timings)
	require.NoError(t, err)

	want := [][2]int{{0, 0}, {1, 1}, {2, 3}, {4, 4}, {5, 5}, {6, 7}}
	assert.Equal(t, want, folded.Boundaries())
	assert.Equal(t, want, unfolded.Boundaries())
	assert.Equal(t, []string{"a", "d", "b", "a", "c", "d"}, labels(folded))
	assert.Equal(t, labels(folded), labels(unfolded))
}
