// Package facts evaluates registry facts for temporal staleness and for
// drift against their declared external sources.
package facts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vporoshin/docdecay/internal/model"
)

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthYearRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)
	quarterRe   = regexp.MustCompile(`\bQ([1-4])\s+(\d{4})\b`)
)

// stalenessResult carries a terminal staleness classification. A zero
// status means the fact is not date-constrained and verification proceeds.
type stalenessResult struct {
	status    model.FactStatus
	note      string
	daysUntil *int
}

// checkStaleness applies the date rules in priority order: effective_date
// age first, then a date parsed out of the value itself. The effective_date
// check wins even when the value holds an imminent future date.
func checkStaleness(fact model.Fact, now time.Time, staleAfterDays, deadlineWindow int) stalenessResult {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if fact.EffectiveDate != "" {
		if eff, err := time.Parse("2006-01-02", fact.EffectiveDate); err == nil {
			age := int(today.Sub(eff).Hours() / 24)
			if age > staleAfterDays {
				return stalenessResult{
					status: model.FactStale,
					note:   fmt.Sprintf("Effective date is %d days old (>12 months)", age),
				}
			}
		}
		// An unparsable effective_date is ignored, as is a fresh one.
	}

	if date, ok := dateFromValue(fact.Value, today); ok {
		diff := int(date.Sub(today).Hours() / 24)
		switch {
		case diff > 0 && diff <= deadlineWindow:
			return stalenessResult{
				status:    model.FactApproachingDeadline,
				note:      fmt.Sprintf("Deadline approaching in %d days", diff),
				daysUntil: &diff,
			}
		case diff < 0:
			return stalenessResult{
				status:    model.FactNeedsUpdate,
				note:      fmt.Sprintf("Date has passed %d days ago", -diff),
				daysUntil: &diff,
			}
		}
	}

	return stalenessResult{}
}

// dateFromValue parses a date out of a fact value, trying ISO, "Month YYYY"
// and "Q[1-4] YYYY" in that order. Quarters map to the first day of the
// quarter's first month.
func dateFromValue(value string, _ time.Time) (time.Time, bool) {
	if m := isoDateRe.FindString(value); m != "" {
		if d, err := time.Parse("2006-01-02", m); err == nil {
			return d, true
		}
	}

	if m := monthYearRe.FindStringSubmatch(value); m != nil {
		// time.Parse is case-sensitive on month names; normalize first.
		month := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
		if d, err := time.Parse("January 2006", month+" "+m[2]); err == nil {
			return d, true
		}
	}

	if m := quarterRe.FindStringSubmatch(value); m != nil {
		quarter, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		month := time.Month((quarter-1)*3 + 1)
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}
