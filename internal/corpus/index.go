// Package corpus enumerates the document corpus and extracts the structural
// facts downstream checks consume: headings, internal references, and
// external URL occurrences, all with 1-based line numbers.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vporoshin/docdecay/internal/model"
)

// Index scans a corpus root for markdown documents.
type Index struct {
	root          string
	excludeDirs   map[string]struct{}
	contextWindow int

	// Logf receives skip warnings; nil means silent.
	Logf func(format string, args ...any)
}

// NewIndex creates an index over root. Directories whose name appears in
// excludeDirs are not descended into.
func NewIndex(root string, cfg model.CorpusConfig) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", abs)
	}

	excl := make(map[string]struct{}, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		excl[d] = struct{}{}
	}
	window := cfg.ContextWindow
	if window <= 0 {
		window = 100
	}
	return &Index{root: abs, excludeDirs: excl, contextWindow: window}, nil
}

// Root returns the absolute corpus root.
func (ix *Index) Root() string { return ix.root }

// Files returns the corpus-relative paths of all markdown documents, sorted.
func (ix *Index) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ix.logf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, excluded := ix.excludeDirs[d.Name()]; excluded && path != ix.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			rel, relErr := filepath.Rel(ix.root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Scan reads every document and extracts its structure. Documents that cannot
// be read or are not valid UTF-8 are logged and skipped; they never abort the
// scan.
func (ix *Index) Scan() ([]model.Document, error) {
	files, err := ix.Files()
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(files))
	for _, rel := range files {
		doc, err := ix.Read(rel)
		if err != nil {
			ix.logf("skipping %s: %v", rel, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Read extracts one document by corpus-relative path.
func (ix *Index) Read(rel string) (model.Document, error) {
	raw, err := os.ReadFile(filepath.Join(ix.root, filepath.FromSlash(rel)))
	if err != nil {
		return model.Document{}, fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(raw) {
		return model.Document{}, fmt.Errorf("document %s is not valid UTF-8", rel)
	}

	lines := strings.Split(string(raw), "\n")
	return model.Document{
		Path:     rel,
		Headings: extractHeadings(lines),
		Internal: extractInternal(lines),
		External: extractURLs(lines, ix.contextWindow),
	}, nil
}

// DedupURLs folds URL occurrences across documents into canonical entries.
// Location lists preserve discovery order; merging never drops a location, so
// running it twice over an unchanged corpus is idempotent.
func DedupURLs(docs []model.Document) []model.URLEntry {
	order := make([]string, 0)
	byURL := make(map[string]*model.URLEntry)

	for _, doc := range docs {
		for _, ref := range doc.External {
			entry, ok := byURL[ref.URL]
			if !ok {
				entry = &model.URLEntry{URL: ref.URL}
				byURL[ref.URL] = entry
				order = append(order, ref.URL)
			}
			entry.Locations = append(entry.Locations, model.Location{
				File:     doc.Path,
				Line:     ref.Line,
				LinkText: ref.LinkText,
			})
		}
	}

	entries := make([]model.URLEntry, 0, len(order))
	for _, u := range order {
		entries = append(entries, *byURL[u])
	}
	return entries
}

func (ix *Index) logf(format string, args ...any) {
	if ix.Logf != nil {
		ix.Logf(format, args...)
	}
}
