package registry

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/vporoshin/docdecay/internal/model"
)

// categoryPattern is one extraction rule. Rules run per line, in order, so
// the registry builder's category precedence is a reviewable list.
type categoryPattern struct {
	category string
	re       *regexp.Regexp
}

const monthAlt = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`

var extractionPatterns = []categoryPattern{
	{"urls", regexp.MustCompile(`https?://[^\s\)>\]]+`)},
	{"pricing", regexp.MustCompile(`(?i)(?:EUR\s*[\d,.]+|[\d,.]+\s*EUR)`)},
	{"latency", regexp.MustCompile(`(?i)[\d,.]+\s*(?:ns|µs|us|ms|microsecond|nanosecond|millisecond)s?`)},
	{"session_limits", regexp.MustCompile(`(?i)[\d,.]+\s*(?:msg/sec|req/sec|TPS|sessions|partitions|messages|orders)`)},
	{"dates", regexp.MustCompile(`(?i)(?:\d{4}[-/]\d{2}[-/]\d{2}|Q[1-4]\s*\d{4}|\d{1,2}\s*` + monthAlt + `\s*\d{4}|` + monthAlt + `\s*\d{4})`)},
	{"contacts", regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)},
	{"regulatory", regexp.MustCompile(`(?i)(?:MiFID|MiFIR|RTS|MAR|EMIR|HFT Act|BaFin)\s*[\dIVX/.\-]+`)},
}

const factContextChars = 50

// Builder extracts fact candidates from corpus documents.
type Builder struct {
	// Logf receives progress lines in verbose mode. Nil disables it.
	Logf func(format string, args ...any)
}

// ScanLines extracts fact candidates from one document's raw lines. IDs are
// derived as category-filestem-line, so they survive rescans as long as the
// fact stays on its line.
func (b *Builder) ScanLines(relPath string, lines []string) []model.Fact {
	stem := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))

	var facts []model.Fact
	for i, line := range lines {
		lineNum := i + 1
		for _, cp := range extractionPatterns {
			for _, loc := range cp.re.FindAllStringIndex(line, -1) {
				raw := strings.TrimSpace(line[loc[0]:loc[1]])
				value, unit := extractUnit(raw, cp.category)

				facts = append(facts, model.Fact{
					ID:                 fmt.Sprintf("%s-%s-%d", cp.category, stem, lineNum),
					Category:           cp.category,
					Value:              value,
					Unit:               unit,
					File:               relPath,
					Line:               lineNum,
					Context:            matchContext(line, loc[0], loc[1]),
					VerificationMethod: model.MethodUnreviewed,
				})
			}
		}
	}
	return facts
}

var leadingNumberRe = regexp.MustCompile(`[\d,.]+`)
var numberUnitRe = regexp.MustCompile(`(?i)^([\d,.]+)\s*(.+)$`)

// extractUnit splits a raw match into value and unit for the categories
// that carry one.
func extractUnit(raw, category string) (string, string) {
	switch category {
	case "pricing":
		if num := leadingNumberRe.FindString(raw); num != "" {
			return num, "EUR"
		}
		return raw, "EUR"
	case "latency":
		if m := numberUnitRe.FindStringSubmatch(raw); m != nil {
			return m[1], strings.ToLower(strings.TrimSpace(m[2]))
		}
		return raw, ""
	case "session_limits":
		if m := numberUnitRe.FindStringSubmatch(raw); m != nil {
			return m[1], strings.TrimSpace(m[2])
		}
		return raw, ""
	}
	return raw, ""
}

func matchContext(line string, start, end int) string {
	from := start - factContextChars
	if from < 0 {
		from = 0
	}
	to := end + factContextChars
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

// DedupURLs folds repeated URL facts into one entry per URL carrying every
// occurrence location. The first occurrence keeps its id and metadata.
func DedupURLs(facts []model.Fact) []model.Fact {
	var out []model.Fact
	index := make(map[string]int)

	for _, f := range facts {
		if f.Category != "urls" {
			out = append(out, f)
			continue
		}

		if at, seen := index[f.Value]; seen {
			first := &out[at]
			if len(first.Locations) == 0 {
				first.Locations = []model.Location{{File: first.File, Line: first.Line}}
			}
			first.Locations = append(first.Locations, model.Location{File: f.File, Line: f.Line})
			continue
		}
		index[f.Value] = len(out)
		out = append(out, f)
	}
	return out
}

// Merge folds freshly scanned candidates into an existing registry. Reviewed
// entries (any method other than unreviewed) are preserved verbatim.
// Unreviewed entries are replaced by their fresh candidate, with a note
// recording the prior value when it changed. Existing entries whose id no
// longer appears in the scan are retained, so review work never vanishes
// with a moved line.
func Merge(existing, candidates []model.Fact) []model.Fact {
	byID := make(map[string]model.Fact, len(existing))
	order := make([]string, 0, len(existing))
	for _, f := range existing {
		if _, dup := byID[f.ID]; !dup {
			order = append(order, f.ID)
		}
		byID[f.ID] = f
	}

	consumed := make(map[string]struct{})
	var merged []model.Fact

	for _, cand := range candidates {
		_, done := consumed[cand.ID]
		old, known := byID[cand.ID]
		if !known || done {
			merged = append(merged, cand)
			continue
		}
		consumed[cand.ID] = struct{}{}

		if old.VerificationMethod != model.MethodUnreviewed {
			merged = append(merged, old)
			continue
		}
		if old.Value != cand.Value {
			cand.Notes = "Updated from: " + old.Value
		}
		merged = append(merged, cand)
	}

	for _, id := range order {
		if _, done := consumed[id]; !done {
			merged = append(merged, byID[id])
		}
	}
	return merged
}
