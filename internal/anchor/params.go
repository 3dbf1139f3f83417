package anchor

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/utils"
)

// Reference parameter names.
const (
	ParamEssay      = "essay"
	ParamSection    = "section"
	ParamParagraph  = "p"
	ParamRange      = "r"
	ParamText       = "hl"
	ParamPrefix     = "hlp"
	ParamSuffix     = "hls"
	ParamQuery      = search.ParamQuery
	ParamOccurrence = "occ"
	ParamMode       = search.ParamMode
	ParamCase       = search.ParamCase
)

const (
	// MinContextRunes is the shortest prefix/suffix worth encoding.
	MinContextRunes = 4
	// MaxFragmentRunes bounds the text copied into a #:~:text= fragment.
	MaxFragmentRunes = 120
)

// Parse reads the anchor carried by reference parameters. When several
// variants are present the highest-precedence well-formed one is returned;
// malformed values are skipped. It returns nil when no variant is usable.
func Parse(v url.Values) Anchor {
	if a, ok := parseParagraph(v.Get(ParamParagraph)); ok {
		return a
	}
	if a, ok := parseRange(v.Get(ParamRange)); ok {
		return a
	}
	if text := strings.TrimSpace(v.Get(ParamText)); text != "" {
		return TextPayload{
			Text:   text,
			Prefix: strings.TrimSpace(v.Get(ParamPrefix)),
			Suffix: strings.TrimSpace(v.Get(ParamSuffix)),
		}
	}
	q := strings.TrimSpace(v.Get(ParamQuery))
	if q == "" {
		return nil
	}
	mode := search.ParseMode(v.Get(ParamMode))
	cs := search.ParseBool(v.Get(ParamCase))
	if occ, ok := utils.PositiveInt(v.Get(ParamOccurrence)); ok {
		return QueryOccurrence{Query: q, Occurrence: occ, Mode: mode, CaseSensitive: cs}
	}
	return QueryOnly{Query: q, Mode: mode, CaseSensitive: cs}
}

// parseParagraph accepts "<n>" or "<a>-<b>" with positive decimals.
func parseParagraph(s string) (ParagraphRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParagraphRange{}, false
	}
	first, rest, hasEnd := strings.Cut(s, "-")
	start, err := strconv.Atoi(first)
	if err != nil || start <= 0 {
		return ParagraphRange{}, false
	}
	end := start
	if hasEnd {
		if end, err = strconv.Atoi(rest); err != nil || end <= 0 {
			return ParagraphRange{}, false
		}
	}
	return NewParagraphRange(start, end), true
}

// parseRange accepts "<start>-<end>" in base 36 with 0 <= start < end.
func parseRange(s string) (CharRange, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return CharRange{}, false
	}
	start, err1 := strconv.ParseInt(parts[0], 36, 64)
	end, err2 := strconv.ParseInt(parts[1], 36, 64)
	if err1 != nil || err2 != nil || start < 0 || end <= start {
		return CharRange{}, false
	}
	return CharRange{Start: int(start), End: int(end)}, true
}

// Encode writes a's parameters into a new url.Values.
func Encode(a Anchor) url.Values {
	v := url.Values{}
	EncodeInto(v, a)
	return v
}

// EncodeInto writes a's parameters into v. A nil anchor writes nothing.
func EncodeInto(v url.Values, a Anchor) {
	switch a := a.(type) {
	case ParagraphRange:
		a = NewParagraphRange(a.Start, a.End)
		if a.Start == a.End {
			v.Set(ParamParagraph, strconv.Itoa(a.Start))
		} else {
			v.Set(ParamParagraph, strconv.Itoa(a.Start)+"-"+strconv.Itoa(a.End))
		}
	case CharRange:
		v.Set(ParamRange, strconv.FormatInt(int64(a.Start), 36)+"-"+strconv.FormatInt(int64(a.End), 36))
	case TextPayload:
		v.Set(ParamText, a.Text)
		if utf8.RuneCountInString(a.Prefix) >= MinContextRunes {
			v.Set(ParamPrefix, a.Prefix)
		}
		if utf8.RuneCountInString(a.Suffix) >= MinContextRunes {
			v.Set(ParamSuffix, a.Suffix)
		}
	case QueryOccurrence:
		v.Set(ParamQuery, a.Query)
		v.Set(ParamOccurrence, strconv.Itoa(a.Occurrence))
		encodeSearchFlags(v, a.Mode, a.CaseSensitive)
	case QueryOnly:
		v.Set(ParamQuery, a.Query)
		encodeSearchFlags(v, a.Mode, a.CaseSensitive)
	}
}

func encodeSearchFlags(v url.Values, mode search.Mode, caseSensitive bool) {
	if m := search.ParseMode(string(mode)); m != search.ModeContains {
		v.Set(ParamMode, string(m))
	}
	if caseSensitive {
		v.Set(ParamCase, "1")
	}
}

// ----------------------------------------------------------------------------
// Reference

// Reference points at a section and, optionally, a passage inside it.
type Reference struct {
	EssaySlug     string
	SectionNumber int
	Anchor        Anchor
}

// ParseReference reads a Reference from link parameters. A missing or
// non-positive section yields SectionNumber 0.
func ParseReference(v url.Values) Reference {
	r := Reference{EssaySlug: strings.TrimSpace(v.Get(ParamEssay)), Anchor: Parse(v)}
	r.SectionNumber, _ = utils.PositiveInt(v.Get(ParamSection))
	return r
}

// Values encodes the reference as link parameters.
func (r Reference) Values() url.Values {
	v := url.Values{}
	if r.EssaySlug != "" {
		v.Set(ParamEssay, r.EssaySlug)
	}
	if r.SectionNumber > 0 {
		v.Set(ParamSection, strconv.Itoa(r.SectionNumber))
	}
	EncodeInto(v, r.Anchor)
	return v
}

// URL builds a shareable link on base, replacing its query. Short text
// payloads also get a "#:~:text=" fragment so browsers can scroll to the
// passage without the reader.
func (r Reference) URL(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{Path: base}
	}
	u.RawQuery = r.Values().Encode()
	u.Fragment, u.RawFragment = "", ""
	s := u.String()
	if p, ok := r.Anchor.(TextPayload); ok && utf8.RuneCountInString(p.Text) <= MaxFragmentRunes {
		s += "#:~:text=" + encodeComponent(p.Text)
	}
	return s
}

// encodeComponent percent-encodes s for use inside a URL fragment, with
// spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
