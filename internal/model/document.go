package model

// Document is a single markdown file of the corpus, identified by its
// corpus-relative path. It is immutable once read for a run.
type Document struct {
	Path     string        `json:"path"`     // Corpus-relative, forward slashes
	Headings []Heading     `json:"headings"` // In order of appearance
	Internal []InternalRef `json:"internal"` // Internal links in line order
	External []URLRef      `json:"external"` // External URLs in line order
}

// Heading is a raw heading occurrence before anchor canonicalization.
type Heading struct {
	Text string `json:"text"` // Heading text without the leading # markers
	Line int    `json:"line"` // 1-based line number
}

// InternalRef is a reference from one document to another (or to an anchor
// in the same document when TargetPath is empty).
type InternalRef struct {
	TargetPath string `json:"target_path"`      // As written, possibly relative; "" means same file
	Anchor     string `json:"anchor,omitempty"` // Fragment without '#', "" if none
	Line       int    `json:"line"`
	LinkText   string `json:"link_text"`
}

// URLRef is an occurrence of an external URL inside a document.
type URLRef struct {
	URL      string `json:"url"`
	Line     int    `json:"line"`
	LinkText string `json:"link_text"` // Equal to URL for bare occurrences
	Context  string `json:"context"`   // Trimmed line, bounded window
}

// Location points at one occurrence of a deduplicated URL.
type Location struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	LinkText string `json:"link_text,omitempty"`
}

// URLEntry is the canonical record for one external URL after global
// deduplication. It owns every occurrence location; merging entries for the
// same URL must union the location lists, never drop one.
type URLEntry struct {
	URL       string     `json:"url"`
	Locations []Location `json:"locations"`
}
