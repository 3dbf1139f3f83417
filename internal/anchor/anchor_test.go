package anchor

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/search"
)

// Rendered text:
//
//	[0,25)  "Sand is old. Sand is new."   paragraph 1 (3 runs)
//	[25,50) "Glass is sand made clear."   paragraph 2
//	[50,55) "Aside"                       heading
//	[55,78) "A third paragraph here."     paragraph 3
const fixture = "Sand is old. Sand is *new*.\n\nGlass is sand made clear.\n\n---\n\n## Aside\n\nA third paragraph here."

func fixtureDoc() *Document {
	return Render(content.ParseBlocks(fixture))
}

func TestRender(t *testing.T) {
	d := fixtureDoc()
	require.Equal(t, 78, d.Len())
	assert.Equal(t, "Sand is old. Sand is new.Glass is sand made clear.AsideA third paragraph here.", d.Text())
	assert.Len(t, d.Spans(), 6)
	assert.Equal(t, []Paragraph{
		{Index: 1, Block: 0, Start: 0, End: 25},
		{Index: 2, Block: 1, Start: 25, End: 50},
		{Index: 3, Block: 4, Start: 55, End: 78},
	}, d.Paragraphs())

	p, ok := d.ParagraphAt(52)
	assert.False(t, ok, "heading text is not a paragraph: %+v", p)
	p, ok = d.ParagraphAt(25)
	require.True(t, ok)
	assert.Equal(t, 2, p.Index)
	_, ok = d.Paragraph(4)
	assert.False(t, ok)
}

func TestRender_Fresh(t *testing.T) {
	a, b := fixtureDoc(), fixtureDoc()
	assert.Equal(t, a.Paragraphs(), b.Paragraphs())
	assert.Empty(t, Render(nil).Text())
}

func TestLocate(t *testing.T) {
	d := fixtureDoc()

	pos, ok := d.locate(21, false)
	require.True(t, ok)
	assert.Equal(t, Position{Node: Node{Block: 0, Inline: 1}, Offset: 0}, pos)

	pos, ok = d.locate(21, true)
	require.True(t, ok)
	assert.Equal(t, Position{Node: Node{Block: 0, Inline: 0}, Offset: 21}, pos)

	pos, ok = d.locate(78, false)
	require.True(t, ok)
	assert.Equal(t, Position{Node: Node{Block: 4, Inline: 0}, Offset: 23}, pos)

	_, ok = d.locate(79, true)
	assert.False(t, ok)
	_, ok = Render(nil).locate(0, false)
	assert.False(t, ok)
}

func TestSegments(t *testing.T) {
	d := fixtureDoc()
	assert.Equal(t, []Segment{
		{Node: Node{Block: 0, Inline: 0}, From: 13, To: 21},
		{Node: Node{Block: 0, Inline: 1}, From: 0, To: 3},
		{Node: Node{Block: 0, Inline: 2}, From: 0, To: 1},
	}, d.Segments(13, 25))
	assert.Nil(t, d.Segments(5, 5))
	assert.Nil(t, d.Segments(70, 90))
}

// ---------- reference encoding ----------

func TestParse_Precedence(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Anchor
	}{
		{"paragraph wins", "p=3-1&r=0-4&hl=sand&q=sand", ParagraphRange{Start: 1, End: 3}},
		{"single paragraph", "p=2", ParagraphRange{Start: 2, End: 2}},
		{"bad paragraph falls to range", "p=0&r=5-a", CharRange{Start: 5, End: 10}},
		{"bad range falls to payload", "r=a-5&hl=+sand+&hlp=Glass+is&hls=made", TextPayload{Text: "sand", Prefix: "Glass is", Suffix: "made"}},
		{"range needs two parts", "r=1-2-3&q=sand", QueryOnly{Query: "sand", Mode: search.ModeContains}},
		{"occurrence", "q=sand&occ=2&mode=fuzzy&case=1", QueryOccurrence{Query: "sand", Occurrence: 2, Mode: search.ModeFuzzy, CaseSensitive: true}},
		{"bad occurrence", "q=sand&occ=0&mode=bogus", QueryOnly{Query: "sand", Mode: search.ModeContains}},
		{"nothing", "essay=sand&section=2&hl=+++", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := url.ParseQuery(c.query)
			require.NoError(t, err)
			assert.Equal(t, c.want, Parse(v))
		})
	}
}

func TestEncode(t *testing.T) {
	cases := []struct {
		a    Anchor
		want string
	}{
		{ParagraphRange{Start: 2, End: 2}, "p=2"},
		{ParagraphRange{Start: 3, End: 1}, "p=1-3"},
		{CharRange{Start: 35, End: 36}, "r=z-10"},
		{TextPayload{Text: "sand", Prefix: "abc", Suffix: "made clear"}, "hl=sand&hls=made+clear"},
		{QueryOccurrence{Query: "sand", Occurrence: 2, Mode: search.ModeFuzzy, CaseSensitive: true}, "case=1&mode=fuzzy&occ=2&q=sand"},
		{QueryOnly{Query: "sand", Mode: search.ModeContains}, "q=sand"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Encode(c.a).Encode(), "%T", c.a)
	}
	assert.Empty(t, Encode(nil))
}

func TestEncodeParseRoundTrip(t *testing.T) {
	for _, a := range []Anchor{
		ParagraphRange{Start: 1, End: 4},
		CharRange{Start: 0, End: 1296},
		TextPayload{Text: "sand made", Prefix: "Glass is", Suffix: "clear now"},
		QueryOccurrence{Query: "sand dunes", Occurrence: 7, Mode: search.ModeExactPhrase},
		QueryOnly{Query: "sand", Mode: search.ModeFuzzy, CaseSensitive: true},
	} {
		assert.Equal(t, a, Parse(Encode(a)), "%T", a)
	}
}

func TestReference(t *testing.T) {
	ref := Reference{EssaySlug: "sand", SectionNumber: 3, Anchor: ParagraphRange{Start: 1, End: 2}}
	assert.Equal(t, "https://reader.test/section.html?essay=sand&p=1-2&section=3", ref.URL("https://reader.test/section.html?old=1#frag"))

	short := Reference{EssaySlug: "sand", SectionNumber: 1, Anchor: TextPayload{Text: "sand made"}}
	assert.Equal(t, "/section?essay=sand&hl=sand+made&section=1#:~:text=sand%20made", short.URL("/section"))

	v, _ := url.ParseQuery("essay=+sand+&section=3&p=2")
	got := ParseReference(v)
	assert.Equal(t, Reference{EssaySlug: "sand", SectionNumber: 3, Anchor: ParagraphRange{Start: 2, End: 2}}, got)

	v, _ = url.ParseQuery("section=-1")
	assert.Equal(t, Reference{}, ParseReference(v))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "paragraph", KindParagraph.String())
	assert.Equal(t, "query_only", KindQuery.String())
	assert.Equal(t, "unknown", Kind(42).String())
	b, err := KindText.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}
