package content

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 220

var (
	headingRE     = regexp.MustCompile(`^(#{1,6})\s+`)
	headingLineRE = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	ruleLineRE    = regexp.MustCompile(`(?m)^\s*---\s*$`)
	emphasisRE    = regexp.MustCompile(`\*([^*\n]+)\*`)

	titleCaser = cases.Title(language.English)
)

// ParseBlocks splits raw section text into headings (# to ###### capped at
// level 3), horizontal rules (---) and paragraphs separated by blank lines.
// Paragraph lines are joined with single spaces.
func ParseBlocks(raw string) []Block {
	var (
		blocks []Block
		para   []string
	)
	flush := func() {
		if len(para) == 0 {
			return
		}
		text := normalizeWhitespace(strings.Join(para, " "))
		blocks = append(blocks, Block{Kind: BlockParagraph, Inlines: ParseInlines(text)})
		para = para[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case headingRE.MatchString(trimmed):
			flush()
			m := headingRE.FindStringSubmatch(trimmed)
			level := min(len(m[1]), 3)
			text := strings.TrimSpace(trimmed[len(m[0]):])
			blocks = append(blocks, Block{Kind: BlockHeading, Level: level, Inlines: ParseInlines(text)})
		case trimmed == "---":
			flush()
			blocks = append(blocks, Block{Kind: BlockRule})
		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return blocks
}

// ParseInlines splits text into plain and *emphasis* runs. Markers are
// dropped; empty runs are not emitted.
func ParseInlines(text string) []Inline {
	var out []Inline
	last := 0
	for _, m := range emphasisRE.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, Inline{Text: text[last:m[0]]})
		}
		out = append(out, Inline{Text: text[m[2]:m[3]], Emphasis: true})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Inline{Text: text[last:]})
	}
	return out
}

// SearchableText is the view search runs against: heading markers removed,
// rules turned into spaces, emphasis markers removed, whitespace collapsed.
func SearchableText(raw string) string {
	s := headingLineRE.ReplaceAllString(raw, "")
	s = ruleLineRE.ReplaceAllString(s, " ")
	s = emphasisRE.ReplaceAllString(s, "$1")
	return normalizeWhitespace(s)
}

// RemoveLeadingHeadings drops the headings that open a section; the reader
// shows the section title separately. A section that is nothing but
// headings keeps them all.
func RemoveLeadingHeadings(blocks []Block) []Block {
	i := 0
	for i < len(blocks) && blocks[i].Kind == BlockHeading {
		i++
	}
	if i == len(blocks) {
		return blocks
	}
	return blocks[i:]
}

// FirstParagraph returns the text of the first paragraph block, or "".
func FirstParagraph(blocks []Block) string {
	for _, b := range blocks {
		if b.Kind == BlockParagraph {
			return b.Text()
		}
	}
	return ""
}

// Excerpt shortens text to at most max runes, appending "..." when cut.
func Excerpt(text string, max int) string {
	if max <= 0 {
		max = 180
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return strings.TrimRight(string(r[:max]), " \t\n") + "..."
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadMinutes rounds words/WordsPerMinute, never below one minute.
func EstimateReadMinutes(words int) int {
	return max(1, int(math.Round(float64(words)/WordsPerMinute)))
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman renders n as a Roman numeral; n <= 0 yields "".
func Roman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// SectionLabel returns "Section <Roman>".
func SectionLabel(number int) string {
	if roman := Roman(number); roman != "" {
		return "Section " + roman
	}
	return "Section " + strconv.Itoa(number)
}

// SectionDisplay holds the labels shown for a section.
type SectionDisplay struct {
	Label       string
	Title       string
	Subtitle    string
	SearchLabel string
}

// Display resolves the labels of a section from the essay's metadata. The
// title falls back to the label; the search label is "Label | Title" when a
// title is registered.
func Display(e *Essay, number int) SectionDisplay {
	label := SectionLabel(number)
	var meta SectionMeta
	if e != nil && e.SectionMeta != nil {
		meta = e.SectionMeta[number]
	}
	d := SectionDisplay{Label: label, Title: label, Subtitle: meta.Subtitle, SearchLabel: label}
	if meta.Title != "" {
		d.Title = meta.Title
		d.SearchLabel = label + " | " + meta.Title
	}
	return d
}

// titleFromSlug turns "etching-god-into-sand" into "Etching God Into Sand".
func titleFromSlug(slug string) string {
	return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
