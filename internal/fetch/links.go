package fetch

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/worker"
)

// PDFSnapshot is the recorded state of a tracked binary document.
type PDFSnapshot struct {
	Length int64
	Hash   string
}

// LinkChecker runs the external link audit: every unique URL is fetched
// once, classified, and failures are reported with all their occurrence
// locations. URLs with a recorded PDF snapshot go through change detection
// instead of a plain fetch.
type LinkChecker struct {
	client  *Client
	soft    *SoftDetector
	workers int
	pdfs    map[string]PDFSnapshot

	// Logf receives progress lines in verbose mode. Nil disables it.
	Logf func(format string, args ...any)
}

// NewLinkChecker wires a checker. pdfs may be nil when no registry exists.
func NewLinkChecker(client *Client, soft *SoftDetector, workers int, pdfs map[string]PDFSnapshot) *LinkChecker {
	if workers <= 0 {
		workers = 1
	}
	return &LinkChecker{client: client, soft: soft, workers: workers, pdfs: pdfs}
}

type linkOutcome struct {
	class    model.OutcomeClass
	detail   string
	finalURL string
	oldHash  string
	newHash  string
}

// Run checks every deduplicated URL entry and builds the link report.
func (lc *LinkChecker) Run(ctx context.Context, entries []model.URLEntry) *model.LinkReport {
	report := &model.LinkReport{
		Timestamp:  time.Now().UTC(),
		UniqueURLs: len(entries),
		Counts:     make(map[model.OutcomeClass]int),
	}

	urls := make([]string, len(entries))
	byURL := make(map[string]model.URLEntry, len(entries))
	for i, e := range entries {
		urls[i] = e.URL
		byURL[e.URL] = e
		report.TotalURLs += len(e.Locations)
	}

	outcomes := worker.CheckAll(ctx, urls, lc.workers, lc.checkOne)

	for i, out := range outcomes {
		entry := byURL[urls[i]]
		report.Counts[out.class]++

		finding := model.LinkFinding{
			URL:             entry.URL,
			Outcome:         out.class,
			Locations:       entry.Locations,
			ErrorDetail:     out.detail,
			FinalURL:        out.finalURL,
			OldHash:         out.oldHash,
			NewHash:         out.newHash,
			SuggestedAction: SuggestedAction(out.class),
		}

		switch out.class {
		case model.OutcomeOK:
		case model.OutcomeMovedDocument:
			report.PDFUpdates = append(report.PDFUpdates, finding)
		default:
			report.Failures = append(report.Failures, finding)
		}
	}

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].URL < report.Failures[j].URL
	})
	sort.Slice(report.PDFUpdates, func(i, j int) bool {
		return report.PDFUpdates[i].URL < report.PDFUpdates[j].URL
	})
	return report
}

func (lc *LinkChecker) checkOne(ctx context.Context, rawURL string) linkOutcome {
	if snap, ok := lc.pdfs[rawURL]; ok && snap.Hash != "" {
		return lc.checkPDF(ctx, rawURL, snap)
	}

	res := lc.client.Get(ctx, rawURL)
	if res.Err == nil && res.StatusCode == http.StatusOK && lc.soft != nil && htmlish(res.ContentType) {
		soft, signal := lc.soft.Detect(res.URL, res.FinalURL, res.Body)
		if soft {
			res.SoftFailure = true
			res.ErrDetail = signal
		}
	}

	class := Classify(res)
	lc.logf("%-18s %s", class, rawURL)
	return linkOutcome{class: class, detail: res.ErrDetail, finalURL: res.FinalURL}
}

func (lc *LinkChecker) checkPDF(ctx context.Context, rawURL string, snap PDFSnapshot) linkOutcome {
	change := lc.client.CheckBinary(ctx, rawURL, snap.Length, snap.Hash)
	if change.ErrDetail != "" {
		// Fall back to a plain fetch so an unreachable PDF is still
		// classified like any other link.
		res := lc.client.Get(ctx, rawURL)
		class := Classify(res)
		lc.logf("%-18s %s", class, rawURL)
		return linkOutcome{class: class, detail: res.ErrDetail, finalURL: res.FinalURL}
	}

	if change.Changed {
		lc.logf("%-18s %s", model.OutcomeMovedDocument, rawURL)
		return linkOutcome{
			class:   model.OutcomeMovedDocument,
			oldHash: snap.Hash,
			newHash: change.NewHash,
		}
	}

	lc.logf("%-18s %s", model.OutcomeOK, rawURL)
	return linkOutcome{class: model.OutcomeOK}
}

func (lc *LinkChecker) logf(format string, args ...any) {
	if lc.Logf != nil {
		lc.Logf(format, args...)
	}
}

// htmlish reports whether a content type could carry an HTML error page.
// Missing content types pass: misconfigured servers often omit them.
func htmlish(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.Contains(ct, "xhtml")
}
