package fetch

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vporoshin/docdecay/internal/model"
)

// SoftDetector recognizes 200 answers that are really error or landing
// pages. Rules are evaluated in a fixed order; the first hit wins. The
// generic phrase patterns apply to every domain, the structural signals
// only to approved domains, where false positives were vetted by hand.
type SoftDetector struct {
	patterns        []string
	approvedDomains []string
	genericTitles   []string
	homeRedirect    bool
	binaryLanding   bool
	metaRefresh     bool
}

// NewSoftDetector builds a detector from the soft_failure config section.
func NewSoftDetector(cfg model.SoftConfig) *SoftDetector {
	d := &SoftDetector{
		approvedDomains: cfg.ApprovedDomains,
		genericTitles:   cfg.GenericTitles,
		homeRedirect:    cfg.HomeRedirect,
		binaryLanding:   cfg.BinaryLanding,
		metaRefresh:     cfg.MetaRefresh,
	}
	for _, p := range cfg.Patterns {
		d.patterns = append(d.patterns, strings.ToLower(p))
	}
	return d
}

// Detect reports whether a 200 answer is a soft failure, and which signal
// fired. Call it only for HTML-ish GET responses.
func (d *SoftDetector) Detect(requestURL, finalURL string, body []byte) (bool, string) {
	lower := strings.ToLower(string(body))

	for _, p := range d.patterns {
		if strings.Contains(lower, p) {
			return true, "error phrase: " + p
		}
	}

	if !d.approved(requestURL) {
		return false, ""
	}

	if d.homeRedirect && redirectedHome(requestURL, finalURL) {
		return true, "deep link redirected to site root"
	}

	if d.metaRefresh && strings.Contains(lower, `<meta http-equiv="refresh"`) {
		return true, "meta refresh page"
	}

	if d.binaryLanding && binaryShaped(requestURL) {
		if hit, title := d.landingPage(body); hit {
			return true, "document link answers landing page: " + title
		}
	}

	return false, ""
}

// approved reports whether the URL's host matches an approved domain, by
// exact match or as a subdomain.
func (d *SoftDetector) approved(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range d.approvedDomains {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// redirectedHome fires when a deep path collapses to the site root (or a
// bare language root), the usual shape of "content removed, have our
// homepage instead".
func redirectedHome(requestURL, finalURL string) bool {
	req, err := url.Parse(requestURL)
	if err != nil {
		return false
	}
	fin, err := url.Parse(finalURL)
	if err != nil {
		return false
	}
	if len(req.Path) <= 10 {
		return false
	}
	switch fin.Path {
	case "", "/", "/en/", "/de/":
		return fin.Host != "" && req.Path != fin.Path
	}
	return false
}

// binaryShaped reports whether the URL looks like it should serve a binary
// document rather than a page.
func binaryShaped(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, "/resource/blob/") {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}

// landingPage reports whether an HTML body is a generic landing page: its
// title matches a configured generic title and the text never mentions the
// document it was supposed to be.
func (d *SoftDetector) landingPage(body []byte) (bool, string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false, ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	titleLower := strings.ToLower(title)
	generic := false
	for _, g := range d.genericTitles {
		if g != "" && strings.Contains(titleLower, strings.ToLower(g)) {
			generic = true
			break
		}
	}
	if !generic {
		return false, ""
	}

	text := strings.ToLower(doc.Find("body").Text())
	for _, word := range []string{"pdf", "document", "download"} {
		if strings.Contains(text, word) {
			return false, ""
		}
	}
	return true, title
}
