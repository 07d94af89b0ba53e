package model

// VerificationMethod says how a fact can be re-checked. It is a closed set:
// the staleness engine switches exhaustively over these values.
type VerificationMethod string

const (
	MethodUnreviewed   VerificationMethod = "unreviewed"     // Fresh extraction, no human review yet
	MethodManual       VerificationMethod = "manual"         // Human-only, no network call
	MethodAutomated    VerificationMethod = "automated"      // Text search against HTML source
	MethodPDFTextCheck VerificationMethod = "pdf_text_check" // Text search against PDF source
)

// Fact is one long-lived registry entry. Entries with a verification method
// other than unreviewed carry human review and are never silently replaced.
type Fact struct {
	ID                 string             `yaml:"id" json:"id"`
	Category           string             `yaml:"category" json:"category"`
	Value              string             `yaml:"value" json:"value"`
	Unit               string             `yaml:"unit,omitempty" json:"unit,omitempty"`
	File               string             `yaml:"file" json:"file"`
	Line               int                `yaml:"line" json:"line"`
	Context            string             `yaml:"context,omitempty" json:"context,omitempty"`
	SourceURL          string             `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	SourceDocument     string             `yaml:"source_document,omitempty" json:"source_document,omitempty"`
	EffectiveDate      string             `yaml:"effective_date,omitempty" json:"effective_date,omitempty"` // YYYY-MM-DD
	LastVerified       string             `yaml:"last_verified,omitempty" json:"last_verified,omitempty"`
	VerificationMethod VerificationMethod `yaml:"verification_method" json:"verification_method"`
	PDFTextExtractable bool               `yaml:"pdf_text_extractable,omitempty" json:"pdf_text_extractable,omitempty"`
	Notes              string             `yaml:"notes,omitempty" json:"notes,omitempty"`
	Locations          []Location         `yaml:"locations,omitempty" json:"locations,omitempty"` // URL facts only, after dedup
}

// FactStatus classifies the outcome of verifying one fact.
type FactStatus string

const (
	FactVerified            FactStatus = "VERIFIED"
	FactChanged             FactStatus = "CHANGED"
	FactNotFoundInSource    FactStatus = "NOT_FOUND_IN_SOURCE"
	FactStale               FactStatus = "STALE"
	FactApproachingDeadline FactStatus = "APPROACHING_DEADLINE"
	FactNeedsUpdate         FactStatus = "NEEDS_UPDATE"
	FactUnverifiableAuto    FactStatus = "UNVERIFIABLE_AUTO"
	FactUnverifiablePDF     FactStatus = "UNVERIFIABLE_PDF"
)

// FactDetail is the per-fact verification result.
type FactDetail struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Status        FactStatus `json:"status"`
	ValueInRepo   string     `json:"value_in_repo"`
	ValueInSource string     `json:"value_in_source,omitempty"`
	SourceURL     string     `json:"source_url,omitempty"`
	File          string     `json:"file"`
	Line          int        `json:"line"`
	Note          string     `json:"note,omitempty"`
	DaysUntil     *int       `json:"days_until,omitempty"` // Negative when the date has passed
}
