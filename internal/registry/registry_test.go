package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vporoshin/docdecay/internal/model"
)

func TestLoad_MissingFile(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "fact_registry.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(file.Facts) != 0 || len(file.PDFs) != 0 {
		t.Errorf("expected empty registry, got %+v", file)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fact_registry.yaml")
	if err := os.WriteFile(path, []byte("facts: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fact_registry.yaml")

	in := &File{
		Facts: []model.Fact{
			{
				ID:                 "pricing-fees-12",
				Category:           "pricing",
				Value:              "50",
				Unit:               "EUR",
				File:               "chapters/fees.md",
				Line:               12,
				SourceURL:          "https://example.com/fees",
				EffectiveDate:      "2026-01-01",
				VerificationMethod: model.MethodAutomated,
			},
			{
				ID:                 "dates-fees-3",
				Category:           "dates",
				Value:              "March 2026",
				File:               "chapters/fees.md",
				Line:               3,
				VerificationMethod: model.MethodUnreviewed,
			},
		},
		PDFs: []PDFRecord{
			{URL: "https://example.com/doc.pdf", ContentHash: "abc123", ContentLength: 4096},
		},
	}

	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# Fact Registry") {
		t.Error("saved registry missing the explanatory header")
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Facts) != 2 || len(out.PDFs) != 1 {
		t.Fatalf("round trip lost entries: %+v", out)
	}

	// Save sorts by category then id; dates sorts before pricing.
	if out.Facts[0].ID != "dates-fees-3" || out.Facts[1].ID != "pricing-fees-12" {
		t.Errorf("facts not sorted by category/id: %q, %q", out.Facts[0].ID, out.Facts[1].ID)
	}
	if out.Facts[1].VerificationMethod != model.MethodAutomated {
		t.Errorf("verification method lost: %+v", out.Facts[1])
	}
	if out.PDFs[0].ContentLength != 4096 {
		t.Errorf("pdf record lost: %+v", out.PDFs[0])
	}
}

func TestSave_DoesNotReorderCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fact_registry.yaml")
	facts := []model.Fact{
		{ID: "pricing-a-1", Category: "pricing"},
		{ID: "dates-a-2", Category: "dates"},
	}
	if err := Save(path, &File{Facts: facts}); err != nil {
		t.Fatal(err)
	}
	if facts[0].ID != "pricing-a-1" {
		t.Error("Save mutated the caller's slice order")
	}
}

func TestSnapshots_DropsHashless(t *testing.T) {
	file := &File{
		PDFs: []PDFRecord{
			{URL: "https://example.com/a.pdf", ContentHash: "aaa", ContentLength: 100},
			{URL: "https://example.com/b.pdf", ContentLength: 200},
			{ContentHash: "ccc", ContentLength: 300},
		},
	}

	snaps := file.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 usable snapshot, got %d", len(snaps))
	}
	rec, ok := snaps["https://example.com/a.pdf"]
	if !ok || rec.ContentHash != "aaa" {
		t.Errorf("unexpected snapshot map: %+v", snaps)
	}
}
