// Package crossref validates internal references: file targets, heading
// anchors, table-of-contents coverage, orphaned files and back-links.
package crossref

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vporoshin/docdecay/internal/model"
)

var (
	anchorStripRe = regexp.MustCompile("[*`\\[\\]()]")
	anchorSpaceRe = regexp.MustCompile(`\s+`)
	anchorDropRe  = regexp.MustCompile(`[^a-z0-9\-_]`)
)

// CanonicalAnchor turns a heading into its anchor the way GitHub renders
// it: formatting characters stripped, lowercased, runs of whitespace
// collapsed to a single hyphen, everything outside [a-z0-9-_] dropped.
func CanonicalAnchor(text string) string {
	s := anchorStripRe.ReplaceAllString(text, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = anchorSpaceRe.ReplaceAllString(s, "-")
	return anchorDropRe.ReplaceAllString(s, "")
}

// AnchorSet is the set of anchors a document answers to.
type AnchorSet map[string]struct{}

// NewAnchorSet derives the valid anchors from a document's headings. When a
// heading repeats, the first occurrence keeps the bare anchor and the n-th
// repeat gets an "-<n>" suffix, so both forms stay valid.
func NewAnchorSet(headings []model.Heading) AnchorSet {
	counts := make(map[string]int)
	set := make(AnchorSet)
	for _, h := range headings {
		base := CanonicalAnchor(h.Text)
		if base == "" {
			continue
		}
		n := counts[base]
		counts[base] = n + 1
		if n == 0 {
			set[base] = struct{}{}
		} else {
			set[fmt.Sprintf("%s-%d", base, n)] = struct{}{}
		}
	}
	return set
}

// Has reports whether anchor is valid, comparing case-insensitively since
// authors frequently write fragments with the heading's original casing.
func (s AnchorSet) Has(anchor string) bool {
	_, ok := s[strings.ToLower(anchor)]
	return ok
}

// Suggest returns up to three valid anchors sharing hyphen-separated tokens
// with the wanted one, best match first.
func (s AnchorSet) Suggest(want string) []string {
	wantTokens := make(map[string]struct{})
	for _, tok := range strings.Split(strings.ToLower(want), "-") {
		if tok != "" {
			wantTokens[tok] = struct{}{}
		}
	}
	if len(wantTokens) == 0 {
		return nil
	}

	type scored struct {
		anchor string
		shared int
	}
	var candidates []scored
	for anchor := range s {
		shared := 0
		for _, tok := range strings.Split(anchor, "-") {
			if _, ok := wantTokens[tok]; ok {
				shared++
			}
		}
		if shared > 0 {
			candidates = append(candidates, scored{anchor, shared})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].shared != candidates[j].shared {
			return candidates[i].shared > candidates[j].shared
		}
		return candidates[i].anchor < candidates[j].anchor
	})

	if len(candidates) == 0 {
		return nil
	}
	out := make([]string, 0, 3)
	for _, c := range candidates {
		out = append(out, c.anchor)
		if len(out) == 3 {
			break
		}
	}
	return out
}
