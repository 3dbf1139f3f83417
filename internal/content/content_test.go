package content

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlocks(t *testing.T) {
	raw := "# Title\n## Sub\n\nFirst line\nsecond   *line*\n\n---\n\n#### Deep\nLast."
	blocks := ParseBlocks(raw)
	require.Len(t, blocks, 6)

	assert.Equal(t, Block{Kind: BlockHeading, Level: 1, Inlines: []Inline{{Text: "Title"}}}, blocks[0])
	assert.Equal(t, 2, blocks[1].Level)
	assert.Equal(t, BlockParagraph, blocks[2].Kind)
	assert.Equal(t, "First line second line", blocks[2].Text())
	assert.Equal(t, []Inline{{Text: "First line second "}, {Text: "line", Emphasis: true}}, blocks[2].Inlines)
	assert.Equal(t, BlockRule, blocks[3].Kind)
	assert.Equal(t, 3, blocks[4].Level, "levels are capped at 3")
	assert.Equal(t, "Last.", blocks[5].Text())

	content := RemoveLeadingHeadings(blocks)
	require.Len(t, content, 4)
	assert.Equal(t, BlockParagraph, content[0].Kind)
	assert.Equal(t, "First line second line", FirstParagraph(blocks))
}

func TestRemoveLeadingHeadings_OnlyHeadings(t *testing.T) {
	blocks := ParseBlocks("# Part One\n\n## Interlude")
	require.Len(t, blocks, 2)
	assert.Equal(t, blocks, RemoveLeadingHeadings(blocks))

	assert.Empty(t, RemoveLeadingHeadings(nil))

	sec := NewSection(&Essay{Slug: "sand"}, 1, 0, "# Part One")
	require.Len(t, sec.ContentBlocks, 1)
	assert.Equal(t, "Part One", sec.ContentBlocks[0].Text())
}

func TestParseBlocks_HashWithoutSpaceIsText(t *testing.T) {
	blocks := ParseBlocks("#hashtag stays")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockParagraph, blocks[0].Kind)
}

func TestSearchableText(t *testing.T) {
	raw := "# Heading\n\nSand  and *silicon*.\n---\nMore\ttext."
	assert.Equal(t, "Heading Sand and silicon. More text.", SearchableText(raw))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "line\nnext", DecodeText([]byte("line\r\nnext")))
	assert.Equal(t, "café", DecodeText([]byte("café")))
	assert.Equal(t, "café", DecodeText([]byte("caf\xe9")), "windows-1252 fallback")
}

func TestRomanAndLabels(t *testing.T) {
	cases := map[int]string{1: "I", 4: "IV", 9: "IX", 14: "XIV", 40: "XL", 1994: "MCMXCIV", 0: ""}
	for n, want := range cases {
		assert.Equal(t, want, Roman(n), "n=%d", n)
	}
	assert.Equal(t, "Section IV", SectionLabel(4))
	assert.Equal(t, "Section 0", SectionLabel(0))

	e := &Essay{SectionMeta: map[int]SectionMeta{2: {Title: "Silicon", Subtitle: "Glass"}}}
	assert.Equal(t, SectionDisplay{Label: "Section II", Title: "Silicon", Subtitle: "Glass", SearchLabel: "Section II | Silicon"}, Display(e, 2))
	assert.Equal(t, SectionDisplay{Label: "Section III", Title: "Section III", SearchLabel: "Section III"}, Display(e, 3))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, EstimateReadMinutes(0))
	assert.Equal(t, 1, EstimateReadMinutes(300))
	assert.Equal(t, 2, EstimateReadMinutes(330))
	assert.Equal(t, 3, CountWords("  one two\nthree "))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "abc...", Excerpt("abc def", 4))
}

func TestParseRegistry_JSON(t *testing.T) {
	data := []byte(`{"essays":[
		{"slug":"etching-god-into-sand","summary":" s ","section_order":[2,"1",2,-3,"x"],
		 "section_meta":{"1":{"title":" Sand "},"zero":{"title":"x"},"3":{}}},
		{"title":"no slug"},
		{"slug":"draft","published":false,"source_dir":"drafts"}
	]}`)
	essays, err := ParseRegistry("essays.json", data)
	require.NoError(t, err)
	require.Len(t, essays, 2)

	e := essays[0]
	assert.Equal(t, "etching-god-into-sand", e.ID)
	assert.Equal(t, "Etching God Into Sand", e.Title)
	assert.Equal(t, "s", e.Summary)
	assert.Equal(t, DefaultSourceDir, e.SourceDir)
	assert.Equal(t, []int{2, 1}, e.SectionOrder)
	assert.Equal(t, map[int]SectionMeta{1: {Title: "Sand"}}, e.SectionMeta)
	assert.True(t, e.Published)

	assert.False(t, essays[1].Published)
	assert.Equal(t, "drafts", essays[1].SourceDir)
}

func TestParseRegistry_YAML(t *testing.T) {
	data := []byte(`
essays:
  - slug: glass
    title: Glass
    section_order: [1, 2]
    section_meta:
      "2": {title: Lens, subtitle: Focus}
`)
	essays, err := ParseRegistry("essays.yaml", data)
	require.NoError(t, err)
	require.Len(t, essays, 1)
	assert.Equal(t, []int{1, 2}, essays[0].SectionOrder)
	assert.Equal(t, SectionMeta{Title: "Lens", Subtitle: "Focus"}, essays[0].SectionMeta[2])
}

func TestParseRegistry_Empty(t *testing.T) {
	_, err := ParseRegistry("essays.json", []byte(`{"essays":[]}`))
	require.Error(t, err)
	_, err = ParseRegistry("essays.json", []byte(`not json`))
	require.Error(t, err)
}

func TestFileSource_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"essays.json": {Data: []byte(`{"essays":[
			{"slug":"sand","section_order":[2,1],"section_meta":{"1":{"title":"Grains"}}},
			{"slug":"draft","published":false,"section_order":[1]}
		]}`)},
		"raw/1.txt": {Data: []byte("# One\r\n\r\nSand is *old*.\r\n")},
		"raw/2.txt": {Data: []byte("Two words.")},
	}
	src := &FileSource{FS: fsys}
	essays, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, essays, 2)

	sand := essays[0]
	require.Len(t, sand.Sections, 2)
	assert.Equal(t, 2, sand.Sections[0].Number)
	assert.Equal(t, 0, sand.Sections[0].Order)

	one, ok := sand.Section(1)
	require.True(t, ok)
	assert.Equal(t, "One Sand is old.", one.PlainText)
	assert.Equal(t, "Section I | Grains", one.SearchLabel)
	require.Len(t, one.ContentBlocks, 1)
	assert.Equal(t, "Sand is old.", one.ContentBlocks[0].Text())
	assert.Equal(t, 4, one.WordCount)
	assert.Equal(t, 1, one.ReadMinutes)
	assert.Equal(t, 6, sand.TotalWords())

	_, ok = sand.Section(7)
	assert.False(t, ok)
	assert.Empty(t, essays[1].Sections, "unpublished essays are not loaded")
}

func TestFileSource_Errors(t *testing.T) {
	_, err := (&FileSource{FS: fstest.MapFS{}}).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoRegistry)

	missing := fstest.MapFS{"essays.json": {Data: []byte(`{"essays":[{"slug":"a","section_order":[1]}]}`)}}
	_, err = (&FileSource{FS: missing}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSourceFunc(t *testing.T) {
	want := []Essay{{Slug: "x"}}
	got, err := SourceFunc(func(context.Context) ([]Essay, error) { return want, nil }).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
