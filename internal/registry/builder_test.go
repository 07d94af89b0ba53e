package registry

import (
	"testing"

	"github.com/vporoshin/docdecay/internal/model"
)

func TestScanLinesCategories(t *testing.T) {
	b := &Builder{}
	lines := []string{
		"Connection fee is EUR 1,250 per month.",
		"Round trip latency stays below 85 µs at the gateway.",
		"Throughput cap: 10,000 msg/sec per session.",
		"Effective 2024-03-01 under MiFID II.",
		"Contact market-ops@exchange.example for onboarding.",
		"See https://exchange.example/fees for details.",
	}

	facts := b.ScanLines("docs/fees.md", lines)

	// First fact per category; later lines may legitimately hit the same
	// category again (e.g. "msg/sec" also contains a latency-shaped "ms").
	got := make(map[string]model.Fact)
	for _, f := range facts {
		if _, ok := got[f.Category]; !ok {
			got[f.Category] = f
		}
	}

	pricing, ok := got["pricing"]
	if !ok {
		t.Fatal("pricing fact not extracted")
	}
	if pricing.Value != "1,250" || pricing.Unit != "EUR" {
		t.Errorf("pricing = %q %q", pricing.Value, pricing.Unit)
	}
	if pricing.ID != "pricing-fees-1" {
		t.Errorf("id = %q, want pricing-fees-1", pricing.ID)
	}
	if pricing.VerificationMethod != model.MethodUnreviewed {
		t.Errorf("method = %q", pricing.VerificationMethod)
	}

	if latency := got["latency"]; latency.Value != "85" || latency.Unit != "µs" {
		t.Errorf("latency = %q %q", latency.Value, latency.Unit)
	}
	if limits := got["session_limits"]; limits.Value != "10,000" || limits.Unit != "msg/sec" {
		t.Errorf("session_limits = %q %q", limits.Value, limits.Unit)
	}
	if _, ok := got["dates"]; !ok {
		t.Error("date fact not extracted")
	}
	if _, ok := got["regulatory"]; !ok {
		t.Error("regulatory fact not extracted")
	}
	if contacts := got["contacts"]; contacts.Value != "market-ops@exchange.example" {
		t.Errorf("contacts = %q", contacts.Value)
	}
	if urls := got["urls"]; urls.Value != "https://exchange.example/fees" {
		t.Errorf("urls = %q", urls.Value)
	}
}

func TestDedupURLFacts(t *testing.T) {
	facts := []model.Fact{
		{ID: "urls-a-1", Category: "urls", Value: "https://x.example/doc", File: "a.md", Line: 1},
		{ID: "pricing-a-2", Category: "pricing", Value: "50", File: "a.md", Line: 2},
		{ID: "urls-b-9", Category: "urls", Value: "https://x.example/doc", File: "b.md", Line: 9},
		{ID: "urls-b-12", Category: "urls", Value: "https://x.example/doc", File: "b.md", Line: 12},
	}

	out := DedupURLs(facts)
	if len(out) != 2 {
		t.Fatalf("entries = %d, want 2", len(out))
	}

	var url model.Fact
	for _, f := range out {
		if f.Category == "urls" {
			url = f
		}
	}
	if url.ID != "urls-a-1" {
		t.Errorf("first occurrence must keep its id, got %q", url.ID)
	}
	if len(url.Locations) != 3 {
		t.Fatalf("locations = %d, want all three occurrences", len(url.Locations))
	}
	if url.Locations[0].File != "a.md" || url.Locations[2].Line != 12 {
		t.Errorf("locations out of order: %+v", url.Locations)
	}
}

func TestMergePreservesReview(t *testing.T) {
	existing := []model.Fact{
		{ID: "pricing-fees-3", Category: "pricing", Value: "50", VerificationMethod: model.MethodManual, Notes: "confirmed by ops"},
		{ID: "dates-fees-8", Category: "dates", Value: "2023-01-01", VerificationMethod: model.MethodUnreviewed},
		{ID: "latency-gone-4", Category: "latency", Value: "85", VerificationMethod: model.MethodAutomated},
	}
	candidates := []model.Fact{
		{ID: "pricing-fees-3", Category: "pricing", Value: "75", VerificationMethod: model.MethodUnreviewed},
		{ID: "dates-fees-8", Category: "dates", Value: "2024-06-01", VerificationMethod: model.MethodUnreviewed},
		{ID: "contacts-fees-20", Category: "contacts", Value: "ops@x.example", VerificationMethod: model.MethodUnreviewed},
	}

	merged := Merge(existing, candidates)

	byID := make(map[string]model.Fact)
	for _, f := range merged {
		byID[f.ID] = f
	}

	if got := byID["pricing-fees-3"]; got.Value != "50" || got.VerificationMethod != model.MethodManual {
		t.Errorf("manual entry rewritten: %+v", got)
	}
	if got := byID["dates-fees-8"]; got.Value != "2024-06-01" || got.Notes != "Updated from: 2023-01-01" {
		t.Errorf("unreviewed entry not refreshed: %+v", got)
	}
	if _, ok := byID["contacts-fees-20"]; !ok {
		t.Error("new candidate dropped")
	}
	if _, ok := byID["latency-gone-4"]; !ok {
		t.Error("vanished reviewed entry must be retained")
	}
	if len(merged) != 4 {
		t.Errorf("merged = %d entries, want 4", len(merged))
	}
}
