package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vporoshin/docdecay/internal/fetch"
	"github.com/vporoshin/docdecay/internal/model"
)

// Monitor checks every configured source for new listing items. State is
// read once at construction and written once via SaveState after a run.
type Monitor struct {
	client    *fetch.Client
	cfg       model.MonitorConfig
	state     map[string]*model.SourceState
	threshold int

	// now is injectable for state-timestamp tests.
	now func() time.Time

	// Logf receives progress lines in verbose mode. Nil disables it.
	Logf func(format string, args ...any)
}

// New builds a monitor and loads its persisted state.
func New(client *fetch.Client, cfg model.MonitorConfig) *Monitor {
	threshold := cfg.EscalationThreshold
	if threshold <= 0 {
		threshold = 3
	}
	return &Monitor{
		client:    client,
		cfg:       cfg,
		state:     loadState(cfg.StateDir),
		threshold: threshold,
		now:       time.Now,
	}
}

// Run checks all sources and builds the monitor report. Call SaveState
// afterwards to persist the updated seen-sets and failure counters.
func (m *Monitor) Run(ctx context.Context) *model.MonitorReport {
	report := &model.MonitorReport{
		Timestamp:      time.Now().UTC(),
		SourcesChecked: len(m.cfg.Sources),
	}

	for _, source := range m.cfg.Sources {
		m.logf("checking source: %s", source.Name)

		state, ok := m.state[source.Name]
		if !ok {
			state = &model.SourceState{}
			m.state[source.Name] = state
		}

		items := m.fetchSource(ctx, source)
		if len(items) == 0 {
			state.ConsecutiveFailures++
			report.SourcesFailed++
			report.ScrapeFailures = append(report.ScrapeFailures, m.failureRecord(source.Name, state))
			continue
		}

		state.ConsecutiveFailures = 0
		state.LastChecked = m.now().Format(time.RFC3339)
		report.SourcesSucceeded++

		m.collectNew(source.Name, items, state, report)
	}

	return report
}

// SaveState persists the per-source state updated by Run.
func (m *Monitor) SaveState() error {
	return saveState(m.cfg.StateDir, m.state)
}

// fetchSource scrapes one source, falling back to its feed when the HTML
// strategies find nothing.
func (m *Monitor) fetchSource(ctx context.Context, source model.MonitorSource) []Item {
	if source.URL == "" {
		m.logf("no URL configured for source: %s", source.Name)
		return nil
	}

	res := m.client.Get(ctx, source.URL)
	if res.Err != nil || res.StatusCode != http.StatusOK {
		m.logf("fetch failed for %s: %s", source.Name, res.ErrDetail)
		return nil
	}

	items := parseListing(res.Body, source.URL)
	if len(items) == 0 && m.cfg.FeedFallback {
		m.logf("attempting feed fallback for %s", source.Name)
		items = m.tryFeeds(ctx, source.URL)
	}
	return items
}

func (m *Monitor) failureRecord(name string, state *model.SourceState) model.ScrapeFailure {
	escalated := state.ConsecutiveFailures >= m.threshold
	note := fmt.Sprintf("Failed %d time(s) - will escalate at %d", state.ConsecutiveFailures, m.threshold)
	if escalated {
		note = fmt.Sprintf("ESCALATED: %d+ consecutive failures - manual review required", m.threshold)
	}
	return model.ScrapeFailure{
		Source:              name,
		ConsecutiveFailures: state.ConsecutiveFailures,
		Escalated:           escalated,
		Note:                note,
	}
}

// collectNew diffs item titles against the source's seen-set and scores the
// unseen ones. Every new title joins the seen-set whether relevant or not.
func (m *Monitor) collectNew(sourceName string, items []Item, state *model.SourceState, report *model.MonitorReport) {
	seen := make(map[string]struct{}, len(state.SeenTitles))
	for _, title := range state.SeenTitles {
		seen[title] = struct{}{}
	}

	for _, item := range items {
		if item.Title == "" {
			continue
		}
		if _, known := seen[item.Title]; known {
			continue
		}
		seen[item.Title] = struct{}{}
		state.SeenTitles = append(state.SeenTitles, item.Title)

		keywords, affected := m.matchKeywords(item.Title)
		newItem := model.NewItem{
			Source:             sourceName,
			Title:              item.Title,
			Date:               item.Date,
			URL:                item.URL,
			MatchedKeywords:    keywords,
			PotentiallyAffects: affected,
			IsRelevant:         len(keywords) > 0,
		}
		report.NewItems = append(report.NewItems, newItem)
		if newItem.IsRelevant {
			report.NewRelevant++
		}
	}
}

// matchKeywords scores a title against the configured keyword categories
// and resolves the union of potentially affected documents.
func (m *Monitor) matchKeywords(title string) ([]string, []string) {
	titleLower := strings.ToLower(title)

	categories := make([]string, 0, len(m.cfg.Keywords))
	for category := range m.cfg.Keywords {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var matched []string
	affected := make(map[string]struct{})
	for _, category := range categories {
		for _, keyword := range m.cfg.Keywords[category] {
			if !strings.Contains(titleLower, strings.ToLower(keyword)) {
				continue
			}
			matched = append(matched, keyword)
			for _, file := range m.cfg.KeywordToFiles[keyword] {
				affected[file] = struct{}{}
			}
		}
	}

	files := make([]string, 0, len(affected))
	for f := range affected {
		files = append(files, f)
	}
	sort.Strings(files)
	return matched, files
}

func (m *Monitor) logf(format string, args ...any) {
	if m.Logf != nil {
		m.Logf(format, args...)
	}
}
