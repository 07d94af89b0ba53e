package fetch

import (
	"strings"
	"testing"

	"github.com/vporoshin/docdecay/internal/model"
)

func testDetector() *SoftDetector {
	return NewSoftDetector(model.SoftConfig{
		Patterns:        []string{"Page Not Found", "404 error"},
		ApprovedDomains: []string{"example.org"},
		GenericTitles:   []string{"Welcome to Example"},
		HomeRedirect:    true,
		BinaryLanding:   true,
		MetaRefresh:     true,
	})
}

func TestErrorPhraseAnyDomain(t *testing.T) {
	d := testDetector()
	body := []byte("<html><body><h1>PAGE NOT FOUND</h1></body></html>")

	soft, signal := d.Detect("https://unapproved.test/deep/path", "https://unapproved.test/deep/path", body)
	if !soft {
		t.Fatal("expected soft failure on error phrase")
	}
	if !strings.Contains(signal, "error phrase") {
		t.Errorf("signal = %q", signal)
	}
}

func TestStructuralSignalsApprovedOnly(t *testing.T) {
	d := testDetector()
	body := []byte(`<html><head><meta http-equiv="refresh" content="0;url=/"></head></html>`)

	if soft, _ := d.Detect("https://unapproved.test/some/deep/page", "https://unapproved.test/some/deep/page", body); soft {
		t.Error("meta refresh must not fire for an unapproved domain")
	}
	if soft, _ := d.Detect("https://example.org/some/deep/page", "https://example.org/some/deep/page", body); !soft {
		t.Error("meta refresh should fire for an approved domain")
	}
	if soft, _ := d.Detect("https://docs.example.org/some/deep/page", "https://docs.example.org/some/deep/page", body); !soft {
		t.Error("subdomain of an approved domain should count")
	}
}

func TestHomeRedirect(t *testing.T) {
	d := testDetector()
	body := []byte("<html><body>welcome</body></html>")

	soft, signal := d.Detect("https://example.org/publications/report-2024.html", "https://example.org/", body)
	if !soft {
		t.Fatal("deep link collapsing to root should be soft")
	}
	if !strings.Contains(signal, "redirected") {
		t.Errorf("signal = %q", signal)
	}

	// Short paths never trigger: a redirect from /a to / is unremarkable.
	if soft, _ := d.Detect("https://example.org/a", "https://example.org/", body); soft {
		t.Error("short path must not trigger home redirect")
	}

	// Redirect to a language root counts like the bare root.
	if soft, _ := d.Detect("https://example.org/publications/report.html", "https://example.org/en/", body); !soft {
		t.Error("language root counts as home")
	}
}

func TestBinaryLanding(t *testing.T) {
	d := testDetector()
	landing := []byte(`<html><head><title>Welcome to Example</title></head><body>News and more.</body></html>`)

	soft, signal := d.Detect("https://example.org/resource/blob/123/report.pdf", "https://example.org/resource/blob/123/report.pdf", landing)
	if !soft {
		t.Fatal("pdf URL answering a generic landing page should be soft")
	}
	if !strings.Contains(signal, "landing page") {
		t.Errorf("signal = %q", signal)
	}

	// A page that at least mentions a download is given the benefit of the doubt.
	withDownload := []byte(`<html><head><title>Welcome to Example</title></head><body>Download the PDF below.</body></html>`)
	if soft, _ := d.Detect("https://example.org/files/report.pdf", "https://example.org/files/report.pdf", withDownload); soft {
		t.Error("landing page mentioning the document must not be soft")
	}

	// Non-binary URLs skip the landing check entirely.
	if soft, _ := d.Detect("https://example.org/about/company-history", "https://example.org/about/company-history", landing); soft {
		t.Error("landing check must only fire for binary-shaped URLs")
	}
}

func TestCleanPageIsNotSoft(t *testing.T) {
	d := testDetector()
	body := []byte(`<html><head><title>Annual Report 2024</title></head><body>Figures within.</body></html>`)

	if soft, _ := d.Detect("https://example.org/reports/annual-2024", "https://example.org/reports/annual-2024", body); soft {
		t.Error("ordinary page flagged as soft failure")
	}
}
