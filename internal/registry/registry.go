// Package registry persists the fact registry: fact records built by
// scanning the corpus and merged so human review is never lost, plus
// recorded snapshots of tracked binary documents.
package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vporoshin/docdecay/internal/model"
)

const fileHeader = `# Fact Registry
#
# facts: each entry is one verifiable fact found in the corpus.
#   Run "docdecay registry build --merge" to refresh it from the documents.
#   Review each entry and set verification_method to: manual, automated, or
#   pdf_text_check. Entries with verification_method: unreviewed still need
#   human review.
#   Categories: urls, pricing, latency, session_limits, dates, contacts, regulatory
#
# pdfs: recorded (length, hash) snapshots of tracked binary documents,
#   used by the link check for change detection.
#

`

// PDFRecord is the recorded state of one tracked binary document.
type PDFRecord struct {
	URL           string `yaml:"url" json:"url"`
	ContentHash   string `yaml:"content_hash" json:"content_hash"`
	ContentLength int64  `yaml:"content_length" json:"content_length"`
}

// File is the on-disk registry: the fact list plus PDF snapshots.
type File struct {
	Facts []model.Fact `yaml:"facts"`
	PDFs  []PDFRecord  `yaml:"pdfs,omitempty"`
}

// Load reads a registry file. A missing file is not an error: it returns an
// empty registry so a first run can build one.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &file, nil
}

// Save writes the registry with facts sorted by category then id, replacing
// the file in one write.
func Save(path string, file *File) error {
	sorted := *file
	sorted.Facts = make([]model.Fact, len(file.Facts))
	copy(sorted.Facts, file.Facts)
	sort.Slice(sorted.Facts, func(i, j int) bool {
		if sorted.Facts[i].Category != sorted.Facts[j].Category {
			return sorted.Facts[i].Category < sorted.Facts[j].Category
		}
		return sorted.Facts[i].ID < sorted.Facts[j].ID
	})

	body, err := yaml.Marshal(&sorted)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), body...), 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Snapshots indexes the PDF records by URL. Records without a hash are
// dropped: they cannot support change detection yet.
func (f *File) Snapshots() map[string]PDFRecord {
	out := make(map[string]PDFRecord, len(f.PDFs))
	for _, rec := range f.PDFs {
		if rec.URL != "" && rec.ContentHash != "" {
			out[rec.URL] = rec
		}
	}
	return out
}
