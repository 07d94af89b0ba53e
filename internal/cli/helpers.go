package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/vporoshin/docdecay/internal/cache"
	"github.com/vporoshin/docdecay/internal/fetch"
	"github.com/vporoshin/docdecay/internal/model"
)

// loadConfig resolves the effective configuration: defaults, then config
// file values, then DOCDECAY_* environment, then flags already bound to
// viper.
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// newFetchClient builds the shared HTTP client with the configured cache
// backend. A disabled cache hands the client a nil store.
func newFetchClient(cfg model.Config) *fetch.Client {
	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
		}
	}
	return fetch.NewClient(cfg.HTTP, cfg.Retry, store, cfg.Cache.TTL)
}

// logf writes progress lines to stderr in verbose mode. It is handed to the
// checker components as their Logf hook.
func logf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// corpusPath resolves a registry or state path against the corpus root
// unless it is already absolute.
func corpusPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// writeReport serializes one check result under the output directory.
func writeReport(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(raw, '\n'), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
