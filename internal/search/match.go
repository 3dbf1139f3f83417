package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Mode selects how a query is matched.
type Mode string

const (
	ModeContains    Mode = "contains"
	ModeExactPhrase Mode = "exact_phrase"
	ModeFuzzy       Mode = "fuzzy"
)

// Modes lists the supported modes; the first is the default.
var Modes = []Mode{ModeContains, ModeExactPhrase, ModeFuzzy}

// ParseMode maps s to a Mode, defaulting to ModeContains.
func ParseMode(s string) Mode {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModeContains, ModeExactPhrase, ModeFuzzy:
		return m
	}
	return ModeContains
}

const (
	ScoreContains    = 200
	ScoreExactPhrase = 300
	ScoreFuzzyBase   = 130
	FuzzyPenalty     = 15

	minFuzzyLen = 3
)

// Occurrence is one match of a query in a text.
type Occurrence struct {
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	MatchedText string `json:"matched_text"`
	Score       int    `json:"score"`
}

// FindOccurrences returns every occurrence of query in text, ordered by
// offset. The query is trimmed; an empty query matches nothing.
func FindOccurrences(text, query string, mode Mode, caseSensitive bool) []Occurrence {
	m := compileMatcher(query, mode, caseSensitive)
	if m == nil {
		return nil
	}
	return m.find(NewText(text))
}

// Find is FindOccurrences over a prepared Text.
func (t Text) Find(query string, mode Mode, caseSensitive bool) []Occurrence {
	m := compileMatcher(query, mode, caseSensitive)
	if m == nil {
		return nil
	}
	return m.find(t)
}

// matcher holds the per-query state so a search compiles the query once
// and applies it to every document.
type matcher struct {
	mode          Mode
	caseSensitive bool
	needle        string         // contains
	re            *regexp.Regexp // exact_phrase
	words         []string       // fuzzy
}

func compileMatcher(query string, mode Mode, caseSensitive bool) *matcher {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	m := &matcher{mode: ParseMode(string(mode)), caseSensitive: caseSensitive}
	switch m.mode {
	case ModeExactPhrase:
		words := strings.Fields(q)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		expr := `\b` + strings.Join(words, `\s+`) + `\b`
		if !caseSensitive {
			expr = `(?i)` + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil
		}
		m.re = re
	case ModeFuzzy:
		if utf8.RuneCountInString(q) < minFuzzyLen {
			return nil
		}
		seen := map[string]struct{}{}
		for _, w := range Tokenize(q) {
			if len(w.Lower) < minFuzzyLen {
				continue
			}
			if _, dup := seen[w.Lower]; dup {
				continue
			}
			seen[w.Lower] = struct{}{}
			m.words = append(m.words, w.Lower)
		}
		if len(m.words) == 0 {
			return nil
		}
	default:
		m.needle = q
		if !caseSensitive {
			m.needle = FoldCase(q)
		}
	}
	return m
}

func (m *matcher) find(t Text) []Occurrence {
	switch m.mode {
	case ModeExactPhrase:
		return m.findPhrase(t)
	case ModeFuzzy:
		return m.findFuzzy(t)
	default:
		return m.findContains(t)
	}
}

func (m *matcher) findContains(t Text) []Occurrence {
	hay := t.Plain
	if !m.caseSensitive {
		hay = t.Lower
	}
	var out []Occurrence
	step := max(len(m.needle), 1)
	for from := 0; from <= len(hay); {
		i := strings.Index(hay[from:], m.needle)
		if i < 0 {
			break
		}
		at := from + i
		end := at + len(m.needle)
		out = append(out, Occurrence{Offset: at, Length: len(m.needle), MatchedText: t.Plain[at:end], Score: ScoreContains})
		from = at + step
	}
	return out
}

func (m *matcher) findPhrase(t Text) []Occurrence {
	var out []Occurrence
	for _, loc := range m.re.FindAllStringIndex(t.Plain, -1) {
		if loc[1] == loc[0] {
			continue
		}
		out = append(out, Occurrence{
			Offset:      loc[0],
			Length:      loc[1] - loc[0],
			MatchedText: t.Plain[loc[0]:loc[1]],
			Score:       ScoreExactPhrase,
		})
	}
	return out
}

// findFuzzy compares every token against every query word that shares its
// first and last letter and is within one byte of its length.
func (m *matcher) findFuzzy(t Text) []Occurrence {
	var out []Occurrence
	for _, tok := range t.Tokens {
		w := tok.Lower
		if len(w) < minFuzzyLen {
			continue
		}
		best := -1
		for _, q := range m.words {
			if abs(len(w)-len(q)) > 1 || w[0] != q[0] || w[len(w)-1] != q[len(q)-1] {
				continue
			}
			d := levenshtein(w, q)
			if d <= fuzzyThreshold(max(len(w), len(q))) && (best < 0 || d < best) {
				best = d
			}
		}
		if best < 0 {
			continue
		}
		out = append(out, Occurrence{
			Offset:      tok.Offset,
			Length:      len(tok.Raw),
			MatchedText: tok.Raw,
			Score:       ScoreFuzzyBase - FuzzyPenalty*best,
		})
	}
	return out
}

func fuzzyThreshold(n int) int {
	if n <= 8 {
		return 2
	}
	return 3
}

// levenshtein is the edit distance between a and b using two rolling rows.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
