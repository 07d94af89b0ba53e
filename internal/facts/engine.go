package facts

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vporoshin/docdecay/internal/fetch"
	"github.com/vporoshin/docdecay/internal/model"
)

// Engine verifies registry facts: staleness first, then drift against the
// declared source, dispatched on the verification method.
type Engine struct {
	client    *fetch.Client
	pdf       PDFExtractor
	matcher   matcher
	staleDays int
	deadline  int

	// now is injectable for date tests.
	now func() time.Time

	// Logf receives progress lines in verbose mode. Nil disables it.
	Logf func(format string, args ...any)
}

// NewEngine builds the engine from the facts config section.
func NewEngine(client *fetch.Client, pdf PDFExtractor, cfg model.FactsConfig) *Engine {
	tolerance := cfg.NumericTolerance
	if tolerance <= 0 {
		tolerance = 0.10
	}
	staleDays := cfg.StaleAfterDays
	if staleDays <= 0 {
		staleDays = 365
	}
	deadline := cfg.DeadlineWindow
	if deadline <= 0 {
		deadline = 30
	}
	return &Engine{
		client:    client,
		pdf:       pdf,
		matcher:   matcher{tolerance: tolerance},
		staleDays: staleDays,
		deadline:  deadline,
		now:       time.Now,
	}
}

// Run verifies every fact and builds the fact report.
func (e *Engine) Run(ctx context.Context, facts []model.Fact) *model.FactReport {
	report := &model.FactReport{
		Timestamp:  time.Now().UTC(),
		TotalFacts: len(facts),
		Counts:     make(map[model.FactStatus]int),
	}

	for _, fact := range facts {
		e.logf("checking fact: %s (%s)", fact.ID, fact.Category)
		detail := e.Verify(ctx, fact)
		report.Counts[detail.Status]++
		report.Details = append(report.Details, detail)
	}
	return report
}

// Verify classifies one fact. Staleness rules run first and win over any
// source check; then the verification method picks the drift path.
func (e *Engine) Verify(ctx context.Context, fact model.Fact) model.FactDetail {
	detail := model.FactDetail{
		ID:          fact.ID,
		Category:    fact.Category,
		ValueInRepo: fact.Value,
		SourceURL:   fact.SourceURL,
		File:        fact.File,
		Line:        fact.Line,
	}

	if stale := checkStaleness(fact, e.now(), e.staleDays, e.deadline); stale.status != "" {
		detail.Status = stale.status
		detail.Note = stale.note
		detail.DaysUntil = stale.daysUntil
		return detail
	}

	switch fact.VerificationMethod {
	case model.MethodManual:
		detail.Status = model.FactUnverifiableAuto
		detail.Note = "Manual verification required"

	case model.MethodAutomated:
		e.verifyHTML(ctx, fact, &detail)

	case model.MethodPDFTextCheck:
		e.verifyPDF(ctx, fact, &detail)

	case model.MethodUnreviewed:
		detail.Status = model.FactUnverifiableAuto
		detail.Note = "Entry not reviewed yet"

	default:
		detail.Status = model.FactUnverifiableAuto
		detail.Note = fmt.Sprintf("Unknown verification method: %s", fact.VerificationMethod)
	}
	return detail
}

func (e *Engine) verifyHTML(ctx context.Context, fact model.Fact, detail *model.FactDetail) {
	res := e.client.Get(ctx, fact.SourceURL)
	if res.Err != nil {
		detail.Status = model.FactUnverifiableAuto
		detail.Note = "Error fetching source: " + res.ErrDetail
		return
	}
	if res.StatusCode != http.StatusOK {
		detail.Status = model.FactUnverifiableAuto
		detail.Note = fmt.Sprintf("HTTP %d", res.StatusCode)
		return
	}

	text, err := visibleText(res.Body)
	if err != nil {
		detail.Status = model.FactUnverifiableAuto
		detail.Note = "Error parsing source: " + err.Error()
		return
	}

	e.judge(fact, text, "source", detail)
}

func (e *Engine) verifyPDF(ctx context.Context, fact model.Fact, detail *model.FactDetail) {
	if !e.pdf.Available() {
		detail.Status = model.FactUnverifiablePDF
		detail.Note = "PDF text extraction not available"
		return
	}
	if !fact.PDFTextExtractable {
		detail.Status = model.FactUnverifiableAuto
		detail.Note = "PDF text extraction not enabled for this fact"
		return
	}

	res := e.client.Get(ctx, fact.SourceURL)
	if res.Err != nil {
		detail.Status = model.FactUnverifiablePDF
		detail.Note = "Error fetching PDF: " + res.ErrDetail
		return
	}
	if res.StatusCode != http.StatusOK {
		detail.Status = model.FactUnverifiablePDF
		detail.Note = fmt.Sprintf("HTTP %d", res.StatusCode)
		return
	}

	text, err := e.pdf.ExtractText(res.Body)
	if err != nil {
		detail.Status = model.FactUnverifiablePDF
		detail.Note = "PDF extraction error: " + err.Error()
		return
	}
	if len(text) == 0 {
		detail.Status = model.FactUnverifiablePDF
		detail.Note = "PDF text extraction failed (empty result)"
		return
	}

	e.judge(fact, text, "PDF", detail)
}

// judge applies the shared match ladder to extracted source text.
func (e *Engine) judge(fact model.Fact, text, sourceName string, detail *model.FactDetail) {
	if e.matcher.found(fact.Value, text) {
		detail.Status = model.FactVerified
		detail.ValueInSource = fact.Value
		detail.Note = "Value found in " + sourceName
		e.logf("  %s: VERIFIED", fact.ID)
		return
	}

	if similar, ok := e.matcher.findSimilar(fact.Value, text); ok {
		detail.Status = model.FactChanged
		detail.ValueInSource = similar
		detail.Note = fmt.Sprintf("Found different value in %s: %s", sourceName, similar)
		e.logf("  %s: CHANGED (found: %s)", fact.ID, similar)
		return
	}

	detail.Status = model.FactNotFoundInSource
	detail.Note = "Value not found in " + sourceName
	e.logf("  %s: NOT_FOUND_IN_SOURCE", fact.ID)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}
