package model

import "time"

// Config is the full runtime configuration. Values resolve through viper:
// flags > DOCDECAY_* env vars > config file > DefaultConfig.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Soft    SoftConfig    `yaml:"soft_failure" mapstructure:"soft_failure"`
	Corpus  CorpusConfig  `yaml:"corpus" mapstructure:"corpus"`
	Facts   FactsConfig   `yaml:"facts" mapstructure:"facts"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// HTTPConfig shapes every outbound request.
type HTTPConfig struct {
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per host
	MaxRedirects      int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	InsecureTLS       bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	Workers           int           `yaml:"workers" mapstructure:"workers"` // Concurrent URL checks
}

// RetryConfig controls transport-error retries. Delay before attempt n is
// Base * Multiplier^n.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
	Base       time.Duration `yaml:"backoff_base" mapstructure:"backoff_base"`
	Multiplier float64       `yaml:"backoff_multiplier" mapstructure:"backoff_multiplier"`
}

// SoftConfig gates the soft-failure heuristics. Patterns apply to any domain;
// the site-specific signals only run for approved domains.
type SoftConfig struct {
	Patterns        []string `yaml:"patterns" mapstructure:"patterns"`
	ApprovedDomains []string `yaml:"approved_domains" mapstructure:"approved_domains"`
	GenericTitles   []string `yaml:"generic_titles" mapstructure:"generic_titles"`
	HomeRedirect    bool     `yaml:"home_redirect" mapstructure:"home_redirect"`
	BinaryLanding   bool     `yaml:"binary_landing" mapstructure:"binary_landing"`
	MetaRefresh     bool     `yaml:"meta_refresh" mapstructure:"meta_refresh"`
}

// CorpusConfig locates and filters the document corpus.
type CorpusConfig struct {
	Root          string   `yaml:"root" mapstructure:"root"`
	ExcludeDirs   []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`
	TOCFile       string   `yaml:"toc_file" mapstructure:"toc_file"`
	OrphanExempt  []string `yaml:"orphan_exempt" mapstructure:"orphan_exempt"`
	ContextWindow int      `yaml:"context_window" mapstructure:"context_window"`
}

// FactsConfig tunes the staleness and drift engine.
type FactsConfig struct {
	RegistryPath     string  `yaml:"registry_path" mapstructure:"registry_path"`
	StaleAfterDays   int     `yaml:"stale_after_days" mapstructure:"stale_after_days"`
	DeadlineWindow   int     `yaml:"deadline_window_days" mapstructure:"deadline_window_days"`
	NumericTolerance float64 `yaml:"numeric_tolerance" mapstructure:"numeric_tolerance"`
	PDFExtraction    bool    `yaml:"pdf_extraction" mapstructure:"pdf_extraction"`
}

// MonitorSource is one external listing page to watch.
type MonitorSource struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// MonitorConfig drives the source monitor.
type MonitorConfig struct {
	Sources             []MonitorSource     `yaml:"sources" mapstructure:"sources"`
	Keywords            map[string][]string `yaml:"keywords" mapstructure:"keywords"`
	KeywordToFiles      map[string][]string `yaml:"keyword_to_files" mapstructure:"keyword_to_files"`
	StateDir            string              `yaml:"state_dir" mapstructure:"state_dir"`
	EscalationThreshold int                 `yaml:"escalation_threshold" mapstructure:"escalation_threshold"`
	FeedFallback        bool                `yaml:"feed_fallback" mapstructure:"feed_fallback"`
}

// CacheConfig controls the per-run fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LLMConfig configures the optional report digest. Empty provider disables it.
type LLMConfig struct {
	Provider  string        `yaml:"provider,omitempty" mapstructure:"provider"`
	Model     string        `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"-"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls result files and verbosity.
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults, matching the documented
// configuration surface.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			UserAgent:         "docdecay/0.3 (+https://github.com/vporoshin/docdecay)",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 2,
			MaxRedirects:      5,
			Workers:           1,
		},
		Retry: RetryConfig{
			MaxRetries: 3,
			Base:       time.Second,
			Multiplier: 4,
		},
		Soft: SoftConfig{
			Patterns: []string{
				"page not found",
				"404 error",
				"the page you requested could not be found",
				"this page is no longer available",
			},
			HomeRedirect:  true,
			BinaryLanding: true,
			MetaRefresh:   true,
		},
		Corpus: CorpusConfig{
			Root:        ".",
			ExcludeDirs: []string{".git", "node_modules", "scripts", ".github", "reports"},
			TOCFile:     "TABLE_OF_CONTENTS.md",
			OrphanExempt: []string{
				"README.md", "CONTRIBUTING.md", "LICENSE.md", "LICENSE",
				"SOURCES.md", "AGENTS.md",
			},
			ContextWindow: 100,
		},
		Facts: FactsConfig{
			RegistryPath:     "fact_registry.yaml",
			StaleAfterDays:   365,
			DeadlineWindow:   30,
			NumericTolerance: 0.10,
			PDFExtraction:    true,
		},
		Monitor: MonitorConfig{
			StateDir:            ".docdecay-state",
			EscalationThreshold: 3,
			FeedFallback:        true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		LLM: LLMConfig{
			Timeout:   60 * time.Second,
			MaxTokens: 1024,
		},
		Output: OutputConfig{
			Dir: "reports",
		},
	}
}
