package facts

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	formattingRe    = regexp.MustCompile(`[,.\s]`)
	bareIntRe       = regexp.MustCompile(`^-?\d+$`)
	groupedNumberRe = regexp.MustCompile(`\b(\d{1,3}(?:[,.\s]\d{3})*(?:[,.\s]\d+)?)\b`)
	simpleIntRe     = regexp.MustCompile(`\b(\d+)\b`)
	currencyRe      = regexp.MustCompile(`(?:EUR|USD|€|\$)\s*(\d{1,3}(?:[,.\s]\d{3})*)`)
	similarNumberRe = regexp.MustCompile(`\b(\d{1,3}(?:[,.\s]\d{3})*)\b`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]`)
	embeddedIntRe   = regexp.MustCompile(`\d+`)
)

// matcher holds the tolerance so the match ladder is testable with
// non-default values.
type matcher struct {
	tolerance float64
}

// found walks the match ladder: exact case-insensitive substring, tolerant
// numeric match for purely numeric values, then a punctuation-insensitive
// comparison.
func (m matcher) found(value, text string) bool {
	if value == "" {
		return false
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(value)) {
		return true
	}

	if isNumeric(value) {
		return m.fuzzyNumeric(value, text)
	}

	valueClean := formattingRe.ReplaceAllString(value, "")
	textClean := formattingRe.ReplaceAllString(text, "")
	return strings.Contains(strings.ToLower(textClean), strings.ToLower(valueClean))
}

// isNumeric reports whether a value is a bare number once grouping and
// decimal punctuation are stripped.
func isNumeric(value string) bool {
	return bareIntRe.MatchString(formattingRe.ReplaceAllString(value, ""))
}

// fuzzyNumeric scans the text for numeric tokens, with and without thousand
// separators and with currency prefixes, and accepts any within tolerance.
func (m matcher) fuzzyNumeric(value, text string) bool {
	want, err := parseNumber(value)
	if err != nil {
		return false
	}
	maxDiff := want * m.tolerance

	for _, re := range []*regexp.Regexp{groupedNumberRe, simpleIntRe, currencyRe} {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			got, err := parseNumber(match[1])
			if err != nil {
				continue
			}
			diff := got - want
			if diff < 0 {
				diff = -diff
			}
			if diff <= maxDiff {
				return true
			}
		}
	}
	return false
}

// findSimilar looks for a "similar but different" value once the match
// ladder failed, to report drift rather than a bare not-found.
//
// Numbers within half to double the original magnitude are candidates. For
// a purely numeric fact a candidate must also differ by more than the
// tolerance (anything closer would have matched already); for a mixed value
// like "50 EUR" the tolerant ladder never ran, so any differing in-band
// number counts. Textual facts fall back to sentence overlap.
func (m matcher) findSimilar(value, text string) (string, bool) {
	number, mixed := numericComponent(value)
	if number != "" {
		want, err := parseNumber(number)
		if err == nil && want != 0 {
			for _, match := range similarNumberRe.FindAllStringSubmatch(text, -1) {
				got, err := parseNumber(match[1])
				if err != nil {
					continue
				}
				ratio := got / want
				if ratio < 0.5 || ratio > 2.0 {
					continue
				}
				diff := got - want
				if diff < 0 {
					diff = -diff
				}
				if mixed && diff > 0 {
					return match[1], true
				}
				if !mixed && diff > want*m.tolerance {
					return match[1], true
				}
			}
		}
	}

	words := wordSet(value)
	if len(words) > 2 {
		for _, sentence := range sentenceSplitRe.Split(text, -1) {
			overlap := 0
			for w := range wordSet(sentence) {
				if _, ok := words[w]; ok {
					overlap++
				}
			}
			if float64(overlap) >= float64(len(words))*0.6 {
				candidate := strings.TrimSpace(sentence)
				if len(candidate) > 100 {
					candidate = candidate[:100]
				}
				return candidate, true
			}
		}
	}

	return "", false
}

// numericComponent returns the number carried by a value and whether the
// value is mixed (number plus unit or other text) rather than purely
// numeric.
func numericComponent(value string) (string, bool) {
	if isNumeric(value) {
		return value, false
	}
	if num := embeddedIntRe.FindString(formattingRe.ReplaceAllString(value, "")); num != "" {
		return num, true
	}
	return "", false
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(formattingRe.ReplaceAllString(s, ""), 64)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
