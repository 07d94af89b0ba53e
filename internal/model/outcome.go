package model

import "time"

// OutcomeClass is the terminal classification of one URL check. The order of
// checks that produces it is fixed; see fetch.Classify.
type OutcomeClass string

const (
	OutcomeOK               OutcomeClass = "OK"
	OutcomeRedirectResolved OutcomeClass = "REDIRECT_RESOLVED" // 200 reached after following redirects
	OutcomeRedirect         OutcomeClass = "REDIRECT"          // Bare 3xx answer
	OutcomeMovedDocument    OutcomeClass = "MOVED_DOCUMENT"    // Binary resource content changed
	OutcomeNotFound         OutcomeClass = "NOT_FOUND"         // HTTP 404
	OutcomeSoftNotFound     OutcomeClass = "SOFT_NOT_FOUND"    // 200 that is really an error page
	OutcomeServerError      OutcomeClass = "SERVER_ERROR"      // HTTP >= 500
	OutcomeTimeout          OutcomeClass = "TIMEOUT"           // Transport timeout
	OutcomeDomainError      OutcomeClass = "DOMAIN_ERROR"      // DNS resolution failure
	OutcomeConnectionError  OutcomeClass = "CONNECTION_ERROR"  // Other transport failure
	OutcomeUnclassified     OutcomeClass = "UNCLASSIFIED"      // Any other status code
)

// FetchResult is the raw outcome of a single fetch, before classification.
type FetchResult struct {
	URL           string        `json:"url"`
	StatusCode    int           `json:"status_code"`
	FinalURL      string        `json:"final_url"`
	ContentType   string        `json:"content_type,omitempty"`
	ContentLength int64         `json:"content_length"`
	ContentHash   string        `json:"content_hash,omitempty"` // sha256 hex of full body, GET only
	Elapsed       time.Duration `json:"-"`
	ElapsedMS     float64       `json:"elapsed_ms"`
	Err           error         `json:"-"`
	ErrDetail     string        `json:"error,omitempty"`
	SoftFailure   bool          `json:"is_soft_failure"`
	Body          []byte        `json:"-"` // Full body for GET, capped by config
}

// ChangeResult is the outcome of binary change detection against a previously
// recorded (length, hash) pair.
type ChangeResult struct {
	URL           string `json:"url"`
	Changed       bool   `json:"changed"`
	StatusCode    int    `json:"status_code"`
	NewLength     int64  `json:"new_content_length"`
	NewHash       string `json:"new_hash,omitempty"`
	ErrDetail     string `json:"error,omitempty"`
	HashCompared  bool   `json:"hash_compared"` // False when the length short-circuit fired
}

// LinkFinding is one non-OK URL with all of its occurrence locations and a
// suggested remediation.
type LinkFinding struct {
	URL             string       `json:"url"`
	Outcome         OutcomeClass `json:"status"`
	Locations       []Location   `json:"locations"`
	ErrorDetail     string       `json:"error_detail,omitempty"`
	FinalURL        string       `json:"final_url,omitempty"`
	OldHash         string       `json:"old_hash,omitempty"`
	NewHash         string       `json:"new_hash,omitempty"`
	SuggestedAction string       `json:"suggested_action"`
}
