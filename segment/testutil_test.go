package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/semflu/catmatrix"
	"github.com/katalvlaran/semflu/category"
	"github.com/katalvlaran/semflu/segment"
)

// fixture is one segmentation input: mapping, matrix and parallel slices.
type fixture struct {
	mapping *category.Mapping
	m       *catmatrix.Matrix
	items   []string
	timings []float64
}

// newFixture builds the matrix for seq; timing i is float64(i+1).
func newFixture(t testing.TB, table map[string][]string, seq ...string) fixture {
	t.Helper()
	mapping, err := category.New(table)
	require.NoError(t, err)
	m, err := catmatrix.Build(seq, mapping)
	require.NoError(t, err)

	timings := make([]float64, len(seq))
	for i := range timings {
		timings[i] = float64(i + 1)
	}

	return fixture{mapping: mapping, m: m, items: seq, timings: timings}
}

// alternating returns n items cycling u, v where u ∈ {a, b} and v ∈ {c, d}:
// every column offers two one-item runs, so the search tree has 2^n leaves.
func alternating(t testing.TB, n int) fixture {
	t.Helper()
	seq := make([]string, n)
	for i := range seq {
		if i%2 == 0 {
			seq[i] = "u"
		} else {
			seq[i] = "v"
		}
	}

	return newFixture(t, map[string][]string{
		"a": {"u"}, "b": {"u"},
		"c": {"v"}, "d": {"v"},
	}, seq...)
}

// labels lists segment labels, "?" for unclassified ones.
func labels(sol *segment.Solution) []string {
	out := make([]string, len(sol.Segments))
	for i, s := range sol.Segments {
		out[i] = s.Label
		if !s.Classified() {
			out[i] = "?"
		}
	}

	return out
}

// assertPartition checks the structural invariants every Solution carries.
func assertPartition(t *testing.T, f fixture, sol *segment.Solution) {
	t.Helper()
	require.NotNil(t, sol)

	next := 0
	for k, seg := range sol.Segments {
		assert.Equal(t, next, seg.Start, "segment %d must start where the previous ended", k)
		assert.GreaterOrEqual(t, seg.End, seg.Start)
		assert.Equal(t, f.items[seg.Start:seg.End+1], seg.Items)
		assert.Equal(t, f.timings[seg.Start:seg.End+1], seg.Timings)

		if seg.Classified() {
			for _, item := range seg.Items {
				assert.Contains(t, f.mapping.CategoriesOf(item), seg.Label,
					"item %q does not belong to segment category", item)
			}
		} else {
			assert.Equal(t, 1, seg.Len(), "unclassified segments hold one item")
			assert.Empty(t, f.mapping.CategoriesOf(seg.Items[0]))
		}
		next = seg.End + 1
	}
	assert.Equal(t, len(f.items), next, "segments must cover the whole sequence")
	assert.Equal(t, len(f.items), sol.Len())
}
