package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// FileSource reads the registry and section text files from a directory
// tree. Section n of an essay lives at <source_dir>/<n>.txt.
type FileSource struct {
	FS       fs.FS
	Registry string // optional; RegistryNames are tried when empty

	// Concurrency bounds parallel section reads; <= 0 means 8.
	Concurrency int
}

// NewFileSource returns a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{FS: os.DirFS(dir)}
}

// Essays reads and normalizes the registry without loading sections.
func (s *FileSource) Essays() ([]Essay, error) {
	names := RegistryNames
	if s.Registry != "" {
		names = []string{s.Registry}
	}
	for _, name := range names {
		data, err := fs.ReadFile(s.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read registry %s: %w", name, err)
		}
		return ParseRegistry(name, data)
	}
	return nil, ErrNoRegistry
}

// Load implements Source. Sections of published essays are read in
// parallel; the first failure cancels the rest.
func (s *FileSource) Load(ctx context.Context) ([]Essay, error) {
	essays, err := s.Essays()
	if err != nil {
		return nil, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range essays {
		e := &essays[i]
		if !e.Published {
			continue
		}
		e.Sections = make([]Section, len(e.SectionOrder))
		for order, number := range e.SectionOrder {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				raw, err := s.readSection(e, number)
				if err != nil {
					return err
				}
				e.Sections[order] = NewSection(e, number, order, raw)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return essays, nil
}

func (s *FileSource) readSection(e *Essay, number int) (string, error) {
	name := path.Join(e.SourceDir, strconv.Itoa(number)+".txt")
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return "", fmt.Errorf("load %s section %d: %w", e.Slug, number, err)
	}
	return DecodeText(data), nil
}
