package model

import "time"

// Severity maps a report onto the process exit-status convention:
// 0 = pass, 1 = warnings only, 2 = action required.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityWarn
	SeverityAction
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARNINGS"
	case SeverityAction:
		return "ACTION REQUIRED"
	default:
		return "PASS"
	}
}

// Max returns the more severe of two severities.
func (s Severity) Max(other Severity) Severity {
	if other > s {
		return other
	}
	return s
}

// LinkReport is the result of checking every external URL of the corpus.
type LinkReport struct {
	Timestamp  time.Time            `json:"timestamp"`
	TotalURLs  int                  `json:"total_urls"`  // Occurrences
	UniqueURLs int                  `json:"unique_urls"` // After dedup
	Counts     map[OutcomeClass]int `json:"results"`
	Failures   []LinkFinding        `json:"failures"`
	PDFUpdates []LinkFinding        `json:"pdf_updates"`
}

// Severity reports action when any hard failure exists, warn for
// redirects and moved documents only.
func (r *LinkReport) Severity() Severity {
	hard := 0
	for class, n := range r.Counts {
		switch class {
		case OutcomeOK, OutcomeRedirect, OutcomeRedirectResolved, OutcomeMovedDocument:
		default:
			hard += n
		}
	}
	if hard > 0 {
		return SeverityAction
	}
	if r.Counts[OutcomeRedirect] > 0 || r.Counts[OutcomeRedirectResolved] > 0 || r.Counts[OutcomeMovedDocument] > 0 {
		return SeverityWarn
	}
	return SeverityPass
}

// RefFailure is one broken internal reference.
type RefFailure struct {
	SourceFile      string   `json:"source_file"`
	Line            int      `json:"line"`
	Target          string   `json:"target"`
	ResolvedPath    string   `json:"resolved_path,omitempty"`
	Error           string   `json:"error"`
	Suggestions     []string `json:"suggestions,omitempty"`
	SuggestedAction string   `json:"suggested_action"`
}

// TOCCoverage summarizes validation of the root table-of-contents document.
type TOCCoverage struct {
	TotalLinks int `json:"total_toc_links"`
	Valid      int `json:"valid"`
	Broken     int `json:"broken"`
}

// BackLinks summarizes the per-file back-reference check.
type BackLinks struct {
	WithBackLink    int      `json:"chapters_with_back_link"`
	WithoutBackLink int      `json:"chapters_without_back_link"`
	MissingIn       []string `json:"missing_in,omitempty"`
}

// CrossrefReport is the result of internal reference validation.
type CrossrefReport struct {
	Timestamp     time.Time    `json:"timestamp"`
	TotalLinks    int          `json:"total_internal_links"`
	Valid         int          `json:"valid"`
	Broken        int          `json:"broken"`
	OrphanedFiles []string     `json:"orphaned_files"`
	Failures      []RefFailure `json:"failures"`
	TOC           TOCCoverage  `json:"toc_coverage"`
	BackLinks     BackLinks    `json:"back_links"`
}

func (r *CrossrefReport) Severity() Severity {
	if r.Broken > 0 || r.TOC.Broken > 0 || len(r.OrphanedFiles) > 0 {
		return SeverityAction
	}
	if r.BackLinks.WithoutBackLink > 0 {
		return SeverityWarn
	}
	return SeverityPass
}

// FactReport is the result of verifying every registry fact.
type FactReport struct {
	Timestamp  time.Time          `json:"timestamp"`
	TotalFacts int                `json:"total_facts"`
	Counts     map[FactStatus]int `json:"counts"`
	Details    []FactDetail       `json:"details"`
}

func (r *FactReport) Severity() Severity {
	if r.Counts[FactChanged] > 0 || r.Counts[FactNotFoundInSource] > 0 {
		return SeverityAction
	}
	if r.Counts[FactStale] > 0 || r.Counts[FactApproachingDeadline] > 0 || r.Counts[FactNeedsUpdate] > 0 {
		return SeverityWarn
	}
	return SeverityPass
}

// NewItem is a previously unseen listing entry found by the source monitor.
type NewItem struct {
	Source             string   `json:"source"`
	Title              string   `json:"title"`
	Date               string   `json:"date,omitempty"`
	URL                string   `json:"url"`
	MatchedKeywords    []string `json:"matched_keywords,omitempty"`
	PotentiallyAffects []string `json:"potentially_affects,omitempty"`
	IsRelevant         bool     `json:"is_relevant"`
}

// ScrapeFailure records one source that produced no items this run.
type ScrapeFailure struct {
	Source              string `json:"source"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	Escalated           bool   `json:"escalated"`
	Note                string `json:"note"`
}

// MonitorReport is the result of one monitoring pass over all sources.
type MonitorReport struct {
	Timestamp        time.Time       `json:"timestamp"`
	SourcesChecked   int             `json:"total_sources_checked"`
	SourcesSucceeded int             `json:"sources_succeeded"`
	SourcesFailed    int             `json:"sources_failed"`
	NewItems         []NewItem       `json:"new_items"`
	NewRelevant      int             `json:"new_relevant"`
	ScrapeFailures   []ScrapeFailure `json:"scraping_failures"`
}

func (r *MonitorReport) Severity() Severity {
	for _, f := range r.ScrapeFailures {
		if f.Escalated {
			return SeverityAction
		}
	}
	if r.NewRelevant > 0 || r.SourcesFailed > 0 {
		return SeverityWarn
	}
	return SeverityPass
}

// SourceState is the persisted per-source monitor record.
type SourceState struct {
	LastChecked         string   `json:"last_checked,omitempty"`
	SeenTitles          []string `json:"seen_titles"`
	ConsecutiveFailures int      `json:"consecutive_failure_count"`
}

// AuditReport bundles the per-component reports of one full run.
type AuditReport struct {
	Timestamp time.Time       `json:"timestamp"`
	Links     *LinkReport     `json:"links,omitempty"`
	Crossrefs *CrossrefReport `json:"crossrefs,omitempty"`
	Facts     *FactReport     `json:"facts,omitempty"`
	Monitor   *MonitorReport  `json:"monitor,omitempty"`
	Digest    string          `json:"digest,omitempty"` // Optional LLM prose, never affects Severity
}

// Severity folds the component severities; a missing component contributes
// nothing.
func (r *AuditReport) Severity() Severity {
	s := SeverityPass
	if r.Links != nil {
		s = s.Max(r.Links.Severity())
	}
	if r.Crossrefs != nil {
		s = s.Max(r.Crossrefs.Severity())
	}
	if r.Facts != nil {
		s = s.Max(r.Facts.Severity())
	}
	if r.Monitor != nil {
		s = s.Max(r.Monitor.Severity())
	}
	return s
}
