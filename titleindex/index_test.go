package titleindex

import (
	"testing"

	"github.com/hupe1980/linkweave/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("ResolvesNormalizedTitles", func(t *testing.T) {
		docs := []model.Document{
			{ID: 1, Title: "Alan Turing"},
			{ID: 2, Title: "Turing machine"},
		}
		idx, rep := Build(docs, nil)

		id, ok := idx.Resolve("alan_Turing")
		require.True(t, ok)
		assert.Equal(t, model.ID(1), id)

		id, ok = idx.Resolve("Turing_machine#Definition")
		require.True(t, ok)
		assert.Equal(t, model.ID(2), id)

		_, ok = idx.Resolve("turing Machine")
		assert.False(t, ok, "only the first rune is case-insensitive")

		assert.Equal(t, 2, rep.Titles)
		assert.Equal(t, 2, idx.Len())
		assert.Empty(t, rep.Collisions)
	})

	t.Run("CollisionLowestIDWins", func(t *testing.T) {
		docs := []model.Document{
			{ID: 9, Title: "Mercury"},
			{ID: 3, Title: "mercury"},
		}
		idx, rep := Build(docs, nil)

		id, ok := idx.Resolve("Mercury")
		require.True(t, ok)
		assert.Equal(t, model.ID(3), id)
		require.Len(t, rep.Collisions, 1)
		assert.Equal(t, Collision{Key: "Mercury", Kept: 3, Dropped: 9}, rep.Collisions[0])

		title, ok := idx.Title(9)
		require.True(t, ok)
		assert.Equal(t, "Mercury", title)
	})

	t.Run("RedirectsAndChains", func(t *testing.T) {
		docs := []model.Document{
			{ID: 1, Title: "United Kingdom"},
			{ID: 2, Title: "England"},
		}
		redirects := []model.Redirect{
			{Title: "GB", Target: "UK"}, // chain, listed before its target alias
			{Title: "UK", Target: "United_Kingdom"},
			{Title: "England", Target: "United Kingdom"}, // collides with a title
			{Title: "Atlantis", Target: "Lost city"},     // dangling
		}
		idx, rep := Build(docs, redirects)

		for _, alias := range []string{"UK", "GB", "united Kingdom"} {
			id, ok := idx.Resolve(alias)
			require.True(t, ok, alias)
			assert.Equal(t, model.ID(1), id, alias)
		}

		id, ok := idx.Resolve("England")
		require.True(t, ok)
		assert.Equal(t, model.ID(2), id)

		assert.Equal(t, 2, rep.Aliases)
		assert.Equal(t, 1, rep.DanglingRedirects)
		require.Len(t, rep.Collisions, 1)
		assert.True(t, rep.Collisions[0].Alias)
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		idx, rep := Build([]model.Document{{ID: 1, Title: " _ "}}, nil)
		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, 1, rep.EmptyTitles)
		_, ok := idx.Resolve("")
		assert.False(t, ok)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		idx, _ := Build([]model.Document{{ID: 7, Title: "Turing Machine"}}, nil, WithCaseInsensitive())
		id, ok := idx.Resolve("turing machine")
		require.True(t, ok)
		assert.Equal(t, model.ID(7), id)
	})

	t.Run("Empty", func(t *testing.T) {
		idx, rep := Build(nil, nil)
		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, Report{}, rep)
	})
}
