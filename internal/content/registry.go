package content

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSourceDir is where section files live when an entry names none.
const DefaultSourceDir = "raw"

// RegistryNames are tried in order when a FileSource has no explicit registry.
var RegistryNames = []string{"essays.json", "essays.yaml", "essays.yml", "data/essays.json", "data/essays.yaml"}

type registryFile struct {
	Essays []registryEntry `json:"essays" yaml:"essays"`
}

type registryEntry struct {
	ID           string                 `json:"id" yaml:"id"`
	Slug         string                 `json:"slug" yaml:"slug"`
	Title        string                 `json:"title" yaml:"title"`
	Summary      string                 `json:"summary" yaml:"summary"`
	SourceDir    string                 `json:"source_dir" yaml:"source_dir"`
	SectionOrder []any                  `json:"section_order" yaml:"section_order"`
	SectionMeta  map[string]SectionMeta `json:"section_meta" yaml:"section_meta"`
	Published    *bool                  `json:"published" yaml:"published"`
}

// ParseRegistry decodes a registry document. name selects the format by
// extension (.yaml/.yml, anything else is JSON). Entries without a slug are
// dropped; an empty result is an error.
func ParseRegistry(name string, data []byte) ([]Essay, error) {
	var f registryFile
	var err error
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", name, err)
	}

	essays := make([]Essay, 0, len(f.Essays))
	for _, entry := range f.Essays {
		if e, ok := entry.normalize(); ok {
			essays = append(essays, e)
		}
	}
	if len(essays) == 0 {
		return nil, fmt.Errorf("registry %s: no essays available", name)
	}
	return essays, nil
}

func (r registryEntry) normalize() (Essay, bool) {
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		return Essay{}, false
	}
	e := Essay{
		ID:           strings.TrimSpace(r.ID),
		Slug:         slug,
		Title:        strings.TrimSpace(r.Title),
		Summary:      strings.TrimSpace(r.Summary),
		SourceDir:    strings.TrimSpace(r.SourceDir),
		SectionOrder: normalizeSectionOrder(r.SectionOrder),
		SectionMeta:  map[int]SectionMeta{},
		Published:    r.Published == nil || *r.Published,
	}
	if e.ID == "" {
		e.ID = slug
	}
	if e.Title == "" {
		e.Title = titleFromSlug(slug)
	}
	if e.SourceDir == "" {
		e.SourceDir = DefaultSourceDir
	}
	for key, meta := range r.SectionMeta {
		n, ok := parseSectionNumber(key)
		if !ok {
			continue
		}
		meta.Title = strings.TrimSpace(meta.Title)
		meta.Subtitle = strings.TrimSpace(meta.Subtitle)
		if meta.Title == "" && meta.Subtitle == "" {
			continue
		}
		e.SectionMeta[n] = meta
	}
	return e, true
}

// normalizeSectionOrder keeps positive section numbers, first occurrence wins.
func normalizeSectionOrder(values []any) []int {
	seen := make(map[int]struct{}, len(values))
	order := make([]int, 0, len(values))
	for _, v := range values {
		n, ok := parseSectionNumber(v)
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		order = append(order, n)
	}
	return order
}

func parseSectionNumber(v any) (int, bool) {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case uint64:
		n = int(x)
	case float64:
		n = int(x)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	return n, n > 0
}
