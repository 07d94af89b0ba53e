package facts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vporoshin/docdecay/internal/fetch"
	"github.com/vporoshin/docdecay/internal/model"
)

func testEngine(t *testing.T, pdfEnabled bool) *Engine {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.HTTP.RequestsPerSecond = 1000
	client := fetch.NewClient(cfg.HTTP, cfg.Retry, nil, 0)
	e := NewEngine(client, NewPDFExtractor(pdfEnabled), cfg.Facts)
	e.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }
	return e
}

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVerifyHTMLVerified(t *testing.T) {
	server := htmlServer(t, `<html><script>var x = 999;</script><body>The monthly fee is EUR 1,250 per session.</body></html>`)

	detail := testEngine(t, false).Verify(context.Background(), model.Fact{
		ID: "pricing-fees-3", Category: "pricing", Value: "1,250",
		SourceURL: server.URL, VerificationMethod: model.MethodAutomated,
	})

	if detail.Status != model.FactVerified {
		t.Errorf("status = %q (%s), want VERIFIED", detail.Status, detail.Note)
	}
}

func TestVerifyHTMLScriptTextIgnored(t *testing.T) {
	// The value appears only inside a script tag; stripped before matching.
	server := htmlServer(t, `<html><script>fee = "7777";</script><body>Pricing moved.</body></html>`)

	detail := testEngine(t, false).Verify(context.Background(), model.Fact{
		ID: "pricing-fees-4", Value: "7777",
		SourceURL: server.URL, VerificationMethod: model.MethodAutomated,
	})

	if detail.Status != model.FactNotFoundInSource {
		t.Errorf("status = %q, want NOT_FOUND_IN_SOURCE", detail.Status)
	}
}

func TestVerifyHTMLChangedMixedValue(t *testing.T) {
	server := htmlServer(t, `<html><body>The charge is EUR 54 per month.</body></html>`)

	detail := testEngine(t, false).Verify(context.Background(), model.Fact{
		ID: "pricing-fees-5", Category: "pricing", Value: "50 EUR",
		SourceURL: server.URL, VerificationMethod: model.MethodAutomated,
	})

	if detail.Status != model.FactChanged {
		t.Fatalf("status = %q (%s), want CHANGED", detail.Status, detail.Note)
	}
	if detail.ValueInSource != "54" {
		t.Errorf("value in source = %q, want 54", detail.ValueInSource)
	}
}

func TestVerifyManualNeverFetches(t *testing.T) {
	detail := testEngine(t, false).Verify(context.Background(), model.Fact{
		ID: "dates-rules-9", Value: "whatever",
		SourceURL:          "http://127.0.0.1:1/unreachable",
		VerificationMethod: model.MethodManual,
	})

	if detail.Status != model.FactUnverifiableAuto {
		t.Errorf("status = %q, want UNVERIFIABLE_AUTO", detail.Status)
	}
	if detail.Note != "Manual verification required" {
		t.Errorf("note = %q", detail.Note)
	}
}

func TestVerifyPDFCapabilityUnavailable(t *testing.T) {
	detail := testEngine(t, false).Verify(context.Background(), model.Fact{
		ID: "regulatory-rts-2", Value: "RTS 25",
		SourceURL:          "https://example.org/doc.pdf",
		VerificationMethod: model.MethodPDFTextCheck,
		PDFTextExtractable: true,
	})

	if detail.Status != model.FactUnverifiablePDF {
		t.Errorf("status = %q, want UNVERIFIABLE_PDF", detail.Status)
	}
}

func TestVerifyPDFNotExtractable(t *testing.T) {
	detail := testEngine(t, true).Verify(context.Background(), model.Fact{
		ID: "regulatory-rts-3", Value: "RTS 25",
		SourceURL:          "https://example.org/doc.pdf",
		VerificationMethod: model.MethodPDFTextCheck,
		PDFTextExtractable: false,
	})

	if detail.Status != model.FactUnverifiableAuto {
		t.Errorf("status = %q, want UNVERIFIABLE_AUTO", detail.Status)
	}
}

func TestVerifyUnreachableSourceIsUnverifiable(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.HTTP.RequestsPerSecond = 1000
	cfg.Retry.MaxRetries = 1
	client := fetch.NewClient(cfg.HTTP, cfg.Retry, nil, 0)
	e := NewEngine(client, NewPDFExtractor(false), cfg.Facts)

	detail := e.Verify(context.Background(), model.Fact{
		ID: "pricing-fees-7", Value: "1,250",
		SourceURL:          "http://127.0.0.1:1/down",
		VerificationMethod: model.MethodAutomated,
	})

	if detail.Status != model.FactUnverifiableAuto {
		t.Errorf("status = %q, network failure must downgrade to unverifiable", detail.Status)
	}
}

func TestRunCountsByStatus(t *testing.T) {
	server := htmlServer(t, `<html><body>fee of 85 applies</body></html>`)

	e := testEngine(t, false)
	report := e.Run(context.Background(), []model.Fact{
		{ID: "a", Value: "85", SourceURL: server.URL, VerificationMethod: model.MethodAutomated},
		{ID: "b", Value: "note", VerificationMethod: model.MethodManual},
		{ID: "c", Value: "x", EffectiveDate: "2024-01-01", VerificationMethod: model.MethodAutomated},
	})

	if report.TotalFacts != 3 {
		t.Errorf("total = %d", report.TotalFacts)
	}
	if report.Counts[model.FactVerified] != 1 {
		t.Errorf("verified = %d", report.Counts[model.FactVerified])
	}
	if report.Counts[model.FactUnverifiableAuto] != 1 {
		t.Errorf("unverifiable = %d", report.Counts[model.FactUnverifiableAuto])
	}
	if report.Counts[model.FactStale] != 1 {
		t.Errorf("stale = %d", report.Counts[model.FactStale])
	}
	if report.Severity() != model.SeverityWarn {
		t.Errorf("severity = %v, stale means warn", report.Severity())
	}
}
