package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/semflu/category"
)

// zooTable is a small mapping with one ambiguous item ("dog").
func zooTable() map[string][]string {
	return map[string][]string{
		"pets": {"dog", "cat", "hamster"},
		"farm": {"cow", "pig", "dog"},
	}
}

func TestNew_BothDirections(t *testing.T) {
	m, err := category.New(zooTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"farm", "pets"}, m.Categories(), "categories must be lexicographic")
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"farm", "pets"}, m.CategoriesOf("dog"))
	assert.Equal(t, []string{"pets"}, m.CategoriesOf("cat"))
	assert.Equal(t, []string{"cow", "dog", "pig"}, m.ItemsOf("farm"))
	assert.Equal(t, []string{"cat", "cow", "dog", "hamster", "pig"}, m.Items())
	assert.Nil(t, m.CategoriesOf("unicorn"), "unknown item has no category")
	assert.False(t, m.Contains("unicorn"))
	assert.True(t, m.Contains("pig"))
}

func TestNew_Dedupes(t *testing.T) {
	m, err := category.New(map[string][]string{"pets": {"dog", "dog", "cat"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, m.ItemsOf("pets"))
	assert.Equal(t, []string{"pets"}, m.CategoriesOf("dog"))
}

func TestNew_EmptyCategoryAllowed(t *testing.T) {
	m, err := category.New(map[string][]string{"pets": {"dog"}, "void": nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"pets", "void"}, m.Categories())
	assert.Empty(t, m.ItemsOf("void"))
}

func TestNew_InvalidArguments(t *testing.T) {
	_, err := category.New(nil)
	assert.ErrorIs(t, err, category.ErrInvalidArgument, "nil table")

	_, err = category.New(map[string][]string{"": {"dog"}})
	assert.ErrorIs(t, err, category.ErrInvalidArgument, "empty category name")

	_, err = category.New(map[string][]string{"pets": {""}})
	assert.ErrorIs(t, err, category.ErrInvalidArgument, "empty item name")
}

func TestMapping_AccessorsReturnCopies(t *testing.T) {
	m, err := category.New(zooTable())
	require.NoError(t, err)

	cats := m.Categories()
	cats[0] = "mutated"
	assert.Equal(t, []string{"farm", "pets"}, m.Categories(), "caller must not mutate the mapping")

	of := m.CategoriesOf("dog")
	of[0] = "mutated"
	assert.Equal(t, []string{"farm", "pets"}, m.CategoriesOf("dog"))
}

func TestMapping_Index(t *testing.T) {
	m, err := category.New(zooTable())
	require.NoError(t, err)

	i, ok := m.Index("pets")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = m.Index("birds")
	assert.False(t, ok)
}

func TestFromTables_Consistent(t *testing.T) {
	byItem := map[string][]string{
		"dog":     {"pets", "farm"},
		"cat":     {"pets"},
		"hamster": {"pets"},
		"cow":     {"farm"},
		"pig":     {"farm"},
	}
	m, err := category.FromTables(zooTable(), byItem)
	require.NoError(t, err)
	assert.Equal(t, []string{"farm", "pets"}, m.CategoriesOf("dog"))
}

func TestFromTables_Inconsistent(t *testing.T) {
	cases := map[string]map[string][]string{
		"missing pair": {
			"dog": {"pets"}, "cat": {"pets"}, "hamster": {"pets"}, "cow": {"farm"}, "pig": {"farm"},
		},
		"extra pair": {
			"dog": {"pets", "farm", "wild"}, "cat": {"pets"}, "hamster": {"pets"}, "cow": {"farm"}, "pig": {"farm"},
		},
		"missing item": {
			"dog": {"pets", "farm"}, "cat": {"pets"}, "cow": {"farm"}, "pig": {"farm"},
		},
	}
	for name, byItem := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := category.FromTables(zooTable(), byItem)
			assert.ErrorIs(t, err, category.ErrInconsistent)
		})
	}

	_, err := category.FromTables(zooTable(), nil)
	assert.ErrorIs(t, err, category.ErrInvalidArgument)
}

func TestMapping_Table(t *testing.T) {
	m, err := category.New(zooTable())
	require.NoError(t, err)

	tbl := m.Table()
	assert.Equal(t, []string{"cow", "dog", "pig"}, tbl["farm"])
	tbl["farm"][0] = "mutated"
	assert.Equal(t, []string{"cow", "dog", "pig"}, m.ItemsOf("farm"))
}
