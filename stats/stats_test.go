package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/semflu/catmatrix"
	"github.com/katalvlaran/semflu/category"
	"github.com/katalvlaran/semflu/segment"
	"github.com/katalvlaran/semflu/stats"
)

// segmented greedily segments cow pig | cat dog hamster | zebra | goat with
// IRTs 1..7.
func segmented(t *testing.T) *segment.Solution {
	t.Helper()
	mapping, err := category.New(map[string][]string{
		"farm": {"cow", "pig", "goat"},
		"pets": {"cat", "dog", "hamster"},
	})
	require.NoError(t, err)

	items := []string{"cow", "pig", "cat", "dog", "hamster", "zebra", "goat"}
	irts := []float64{1, 2, 3, 4, 5, 6, 7}
	m, err := catmatrix.Build(items, mapping)
	require.NoError(t, err)
	sol, err := segment.Greedy(m, items, irts)
	require.NoError(t, err)
	require.Equal(t, 4, len(sol.Segments))

	return sol
}

func TestItems(t *testing.T) {
	rows := stats.Items("s1", segmented(t))
	require.Len(t, rows, 7)

	assert.Equal(t, stats.ItemRow{
		RunID: "s1", Entry: "cat", IRT: 3, Patch: 2, PatchItem: 1, FromEnd: 3,
		Last: false, Counter: 3, MeanIRT: 4, Category: "pets",
	}, rows[2])
	assert.Equal(t, stats.ItemRow{
		RunID: "s1", Entry: "zebra", IRT: 6, Patch: 3, PatchItem: 1, FromEnd: 1,
		Last: true, Counter: 6, MeanIRT: 4, Category: "",
	}, rows[5])

	for i, r := range rows {
		assert.Equal(t, i+1, r.Counter)
		assert.InDelta(t, 4.0, r.MeanIRT, 1e-12)
	}
}

func TestItems_Empty(t *testing.T) {
	assert.Empty(t, stats.Items("s", nil))
	assert.Empty(t, stats.Items("s", &segment.Solution{}))
}

func TestSummarize_DefaultSkipsUnclassified(t *testing.T) {
	s := stats.Summarize("s1", segmented(t))

	assert.Equal(t, "s1", s.RunID)
	assert.Equal(t, 7, s.Length)
	assert.Equal(t, 3, s.Clusters)
	assert.Equal(t, 2, s.Switches)
	assert.Equal(t, 1, s.Unclassified)
	assert.InDelta(t, 2.0, s.MeanClusterSize, 1e-12) // (2+3+1)/3
	assert.Equal(t, 3, s.MaxClusterSize)
	assert.InDelta(t, 4.0, s.MeanIRT, 1e-12)
	assert.InDelta(t, 5.0, s.MeanSwitchIRT, 1e-12)   // cat 3, goat 7
	assert.InDelta(t, 11.0/3, s.MeanWithinIRT, 1e-12) // pig 2, dog 4, hamster 5
}

func TestSummarize_WithUnclassified(t *testing.T) {
	s := stats.Summarize("s1", segmented(t), stats.WithUnclassified(true))

	assert.Equal(t, 4, s.Clusters)
	assert.Equal(t, 3, s.Switches)
	assert.InDelta(t, 7.0/4, s.MeanClusterSize, 1e-12)
	assert.InDelta(t, 16.0/3, s.MeanSwitchIRT, 1e-12) // cat 3, zebra 6, goat 7
}

func TestSummarize_Empty(t *testing.T) {
	s := stats.Summarize("empty", &segment.Solution{})
	assert.Equal(t, stats.Summary{RunID: "empty"}, s)
}

func TestDescribe(t *testing.T) {
	c := stats.Describe([]stats.Summary{
		{Length: 2, Switches: 0, MeanClusterSize: 2},
		{Length: 4, Switches: 1, MeanClusterSize: 2},
		{Length: 6, Switches: 3, MeanClusterSize: 1.5},
	})

	assert.Equal(t, 3, c.Runs)
	assert.InDelta(t, 4.0, c.MeanLength, 1e-12)
	assert.InDelta(t, 1.632993161855452, c.StdLength, 1e-12) // sqrt(8/3)
	assert.Equal(t, 2, c.MinLength)
	assert.Equal(t, 6, c.MaxLength)
	assert.InDelta(t, 4.0/3, c.MeanSwitches, 1e-12)
	assert.InDelta(t, 5.5/3, c.MeanClusterSize, 1e-12)

	assert.Equal(t, stats.Corpus{}, stats.Describe(nil))
}
