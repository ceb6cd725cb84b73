package assemble

import (
	"testing"

	"github.com/hupe1980/linkweave/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLinks(t *testing.T) {
	text := "See [the planet](Mercury_(planet)), [[Venus]], [[Mars|red one]], " +
		"[site](https://example.com/a_(b)), [x](doc:42), [](Caf%C3%A9) and [[Earth|]]."

	links := ScanLinks(text)
	require.Len(t, links, 7)

	tests := []struct {
		label, target string
		wiki          bool
		kind          Kind
	}{
		{"the planet", "Mercury_(planet)", false, Internal},
		{"Venus", "Venus", true, Internal},
		{"red one", "Mars", true, Internal},
		{"site", "https://example.com/a_(b)", false, External},
		{"x", "doc:42", false, DocReference},
		{"Café", "Caf%C3%A9", false, Internal},
		{"Earth", "Earth", true, Internal},
	}
	for i, tt := range tests {
		l := links[i]
		assert.Equal(t, tt.label, l.Label, "link %d", i)
		assert.Equal(t, tt.target, l.Target, "link %d", i)
		assert.Equal(t, tt.wiki, l.Wiki, "link %d", i)
		assert.Equal(t, tt.kind, l.Kind(), "link %d", i)
		assert.Equal(t, text[l.Start:l.End], l.Raw)
	}

	id, ok := links[4].ReferenceID()
	require.True(t, ok)
	assert.Equal(t, model.ID(42), id)
	assert.Equal(t, "Café", links[5].Title())

	assert.Nil(t, ScanLinks("no links [here] or (there)"))
}

func TestScanLinksWithSpaces(t *testing.T) {
	text := "see [Mercury](Mercury (planet)) and [x]( Some Title ), [y](<Other Title>) then (aside)."

	links := ScanLinks(text)
	require.Len(t, links, 3)
	assert.Equal(t, "Mercury (planet)", links[0].Target)
	assert.Equal(t, "[Mercury](Mercury (planet))", links[0].Raw)
	assert.Equal(t, "Some Title", links[1].Target)
	assert.Equal(t, "Other Title", links[2].Target)
	assert.Equal(t, "[y](<Other Title>)", links[2].Raw)

	assert.Len(t, ScanLinks("[a](b) and later (c)"), 1)
	assert.Equal(t, "b", ScanLinks("[a](b) and later (c)")[0].Target)
	assert.Nil(t, ScanLinks("[a](broken\nline)"))
}

func TestRewriteLinks(t *testing.T) {
	got := rewriteLinks("a [b](c) d [[e|f]] g", func(l Link) string {
		return "<" + l.Label + ">"
	})
	assert.Equal(t, "a <b> d <f> g", got)

	plain := "nothing to do"
	assert.Equal(t, plain, rewriteLinks(plain, func(Link) string { return "" }))
}

func TestReference(t *testing.T) {
	assert.Equal(t, "[Mars](doc:7)", Reference("Mars", 7))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, 0, WhitespaceTokens(""))
	assert.Equal(t, 0, WhitespaceTokens(" \n\t "))
	assert.Equal(t, 3, WhitespaceTokens("  one two three "))
	assert.Equal(t, 0, ApproxTokens(""))
	assert.Equal(t, 1, ApproxTokens("abc"))
	assert.Equal(t, 2, ApproxTokens("abcdefgh"))
	assert.Equal(t, 3, ApproxTokens("abcdefghi"))
}
