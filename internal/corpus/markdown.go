package corpus

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vporoshin/docdecay/internal/model"
)

var (
	mdLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bareURLRe = regexp.MustCompile(`https?://[^\s<>\[\]]+`)
	headingRe = regexp.MustCompile(`^#+\s+(.+)$`)
)

// truncateContext trims a line and bounds it to window bytes, cutting on a
// rune boundary so the context stays valid UTF-8.
func truncateContext(line string, window int) string {
	ctx := strings.TrimSpace(line)
	if window <= 3 || len(ctx) <= window {
		return ctx
	}
	cut := window - 3
	for cut > 0 && !utf8.RuneStart(ctx[cut]) {
		cut--
	}
	return ctx[:cut] + "..."
}

// extractHeadings returns every ATX heading with its 1-based line number.
func extractHeadings(lines []string) []model.Heading {
	var headings []model.Heading
	for i, line := range lines {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		headings = append(headings, model.Heading{Text: m[1], Line: i + 1})
	}
	return headings
}

// extractURLs returns every external URL occurrence on each line: explicit
// markdown links first, then bare URLs found after markdown-link spans are
// removed, so a linked URL is never captured twice on the same line.
func extractURLs(lines []string, window int) []model.URLRef {
	var refs []model.URLRef
	for i, line := range lines {
		context := truncateContext(line, window)

		for _, m := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			target := m[2]
			if strings.HasPrefix(target, "#") || !strings.HasPrefix(target, "http") {
				continue
			}
			refs = append(refs, model.URLRef{
				URL:      target,
				Line:     i + 1,
				LinkText: m[1],
				Context:  context,
			})
		}

		stripped := mdLinkRe.ReplaceAllString(line, "")
		for _, raw := range bareURLRe.FindAllString(stripped, -1) {
			refs = append(refs, model.URLRef{
				URL:      raw,
				Line:     i + 1,
				LinkText: raw,
				Context:  context,
			})
		}
	}
	return refs
}

// extractInternal returns every internal markdown link. Pure-anchor links get
// an empty target path (same file); only .md targets are considered.
func extractInternal(lines []string) []model.InternalRef {
	var refs []model.InternalRef
	for i, line := range lines {
		for _, m := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			text, target := m[1], m[2]
			if strings.HasPrefix(target, "http") {
				continue
			}
			if strings.HasPrefix(target, "#") {
				refs = append(refs, model.InternalRef{
					TargetPath: "",
					Anchor:     target[1:],
					Line:       i + 1,
					LinkText:   text,
				})
				continue
			}

			path, anchor := target, ""
			if idx := strings.Index(target, "#"); idx >= 0 {
				path, anchor = target[:idx], target[idx+1:]
			}
			if !strings.HasSuffix(path, ".md") {
				continue
			}
			refs = append(refs, model.InternalRef{
				TargetPath: path,
				Anchor:     anchor,
				Line:       i + 1,
				LinkText:   text,
			})
		}
	}
	return refs
}
