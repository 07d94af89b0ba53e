// Package llm generates an optional prose digest of an audit report. The
// digest is presentation only: it never influences severities, counts or
// exit codes.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vporoshin/docdecay/internal/model"
)

// Provider defines the interface for digest backends.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Digest generates a short prose summary of the audit report
	Digest(ctx context.Context, req DigestRequest) (*DigestResponse, error)
}

// DigestRequest contains the input for digest generation.
type DigestRequest struct {
	// Report is the audit report to summarize
	Report *model.AuditReport

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// DigestResponse contains the generated digest.
type DigestResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds digest provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// ConfigFromModel converts the main configuration's LLM section.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// NewProvider creates a digest provider from configuration. An empty
// provider name disables the digest and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown digest provider: %s (supported: openai)", config.Provider)
	}
}

// BuildPrompt renders the report facts the model is allowed to talk about.
// Only counts and identifiers from the report go into the prompt, so the
// digest cannot invent findings that are not in the data.
func BuildPrompt(report *model.AuditReport) string {
	var sb strings.Builder
	sb.WriteString("Summarize this documentation audit for a maintainer. ")
	sb.WriteString("Mention only findings listed below. Be concise.\n\n")
	sb.WriteString(fmt.Sprintf("Overall severity: %s\n", report.Severity()))

	if r := report.Links; r != nil {
		sb.WriteString(fmt.Sprintf("\nExternal links: %d unique URLs checked.\n", r.UniqueURLs))
		for class, n := range r.Counts {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", class, n))
		}
		for _, f := range r.Failures {
			sb.WriteString(fmt.Sprintf("  failure: %s (%s)\n", f.URL, f.Outcome))
		}
	}
	if r := report.Crossrefs; r != nil {
		sb.WriteString(fmt.Sprintf("\nInternal references: %d checked, %d broken, %d orphaned files, %d chapters without back-link.\n",
			r.TotalLinks, r.Broken, len(r.OrphanedFiles), r.BackLinks.WithoutBackLink))
	}
	if r := report.Facts; r != nil {
		sb.WriteString(fmt.Sprintf("\nFacts: %d evaluated.\n", r.TotalFacts))
		for status, n := range r.Counts {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", status, n))
		}
	}
	if r := report.Monitor; r != nil {
		sb.WriteString(fmt.Sprintf("\nSource monitor: %d sources, %d new items (%d relevant), %d scrape failures.\n",
			r.SourcesChecked, len(r.NewItems), r.NewRelevant, len(r.ScrapeFailures)))
	}
	return sb.String()
}
