package anchor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-reader-backend/internal/content"
)

func TestCreate_CharRange(t *testing.T) {
	d := fixtureDoc()
	c, err := Create(d, Selection{Start: 13, End: 24})
	require.NoError(t, err)

	assert.Equal(t, CharRange{Start: 13, End: 24}, c.Anchor)
	assert.Nil(t, c.Paragraphs)
	assert.Equal(t, TextPayload{Text: "Sand is new", Prefix: "Sand is old.", Suffix: "."}, c.Payload)
}

func TestCreate_Paragraphs(t *testing.T) {
	d := fixtureDoc()
	cases := []struct {
		start, end int
		want       Anchor
	}{
		{25, 50, ParagraphRange{Start: 2, End: 2}},
		{0, 50, ParagraphRange{Start: 1, End: 2}},
		{25, 78, ParagraphRange{Start: 2, End: 3}},
		{26, 50, CharRange{Start: 26, End: 50}},
		{25, 49, CharRange{Start: 25, End: 49}},
		{50, 55, CharRange{Start: 50, End: 55}},
	}
	for _, c := range cases {
		got, err := Create(d, Selection{Start: c.start, End: c.end})
		require.NoError(t, err)
		assert.Equal(t, c.want, got.Anchor, "[%d,%d)", c.start, c.end)
		require.NotNil(t, got.Range)
	}
}

func TestCreate_IgnoresEdgeWhitespace(t *testing.T) {
	d := Render(content.ParseBlocks("One two.\n\nThree four."))
	// trailing space on the first run puts whitespace between paragraphs
	d2 := Render([]content.Block{
		{Kind: content.BlockParagraph, Inlines: []content.Inline{{Text: "One two. "}}},
		{Kind: content.BlockParagraph, Inlines: []content.Inline{{Text: "Three four."}}},
	})
	c, err := Create(d2, Selection{Start: 8, End: 20})
	require.NoError(t, err)
	assert.Equal(t, ParagraphRange{Start: 2, End: 2}, c.Anchor)

	c, err = Create(d, Selection{Start: 0, End: 8})
	require.NoError(t, err)
	assert.Equal(t, ParagraphRange{Start: 1, End: 1}, c.Anchor)
}

func TestCreate_Errors(t *testing.T) {
	d := fixtureDoc()
	_, err := Create(d, Selection{Start: 0, End: 1})
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = Create(d, Selection{Start: 4, End: 5})
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = Create(d, Selection{Start: 70, End: 100})
	assert.ErrorIs(t, err, ErrSelectionOutOfRange)
	_, err = Create(d, Selection{Text: " x "})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCreate_TextOnly(t *testing.T) {
	c, err := Create(fixtureDoc(), Selection{Text: "  sand \n made "})
	require.NoError(t, err)
	assert.Equal(t, TextPayload{Text: "sand made"}, c.Anchor)
	assert.Nil(t, c.Range)
}

func TestCreate_TruncatesText(t *testing.T) {
	d := Render(content.ParseBlocks(strings.Repeat("abcd ", 60)))
	c, err := Create(d, Selection{Start: 0, End: d.Len()})
	require.NoError(t, err)
	assert.Equal(t, MaxSelectionRunes, utf8.RuneCountInString(c.Payload.Text))
	assert.Equal(t, ParagraphRange{Start: 1, End: 1}, c.Anchor)
}

func TestCreate_ContextTrimsPartialWords(t *testing.T) {
	d := Render(content.ParseBlocks("The quick brown fox jumps over the lazy dog near sand."))
	text := d.Text()

	at := strings.Index(text, "sand")
	c, err := Create(d, Selection{Start: at, End: at + 4})
	require.NoError(t, err)
	assert.Equal(t, "over the lazy dog near", c.Payload.Prefix)
	assert.Equal(t, ".", c.Payload.Suffix)

	c, err = Create(d, Selection{Start: 0, End: 3})
	require.NoError(t, err)
	assert.Equal(t, "", c.Payload.Prefix)
	assert.Equal(t, "quick brown fox jumps over", c.Payload.Suffix)
}

func TestCreateResolveRoundTrip(t *testing.T) {
	d := fixtureDoc()
	r := NewResolver()
	for _, sel := range []Selection{{Start: 13, End: 24}, {Start: 25, End: 50}, {Start: 34, End: 43}, {Start: 55, End: 62}} {
		c, err := Create(d, sel)
		require.NoError(t, err)

		for _, a := range []Anchor{c.Anchor, c.Payload} {
			res := r.Resolve(d, Parse(Encode(a)))
			require.True(t, res.Resolved, "%T for %+v", a, sel)
			assert.Equal(t, c.Payload.Text, normalizeWhitespace(res.Ranges[0].Text), "%T for %+v", a, sel)
		}
	}
}
