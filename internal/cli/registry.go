package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/corpus"
	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/registry"
)

var registryMerge bool

// registryCmd represents the registry command
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the fact registry",
}

// registryBuildCmd represents the registry build command
var registryBuildCmd = &cobra.Command{
	Use:   "build [corpus-dir]",
	Short: "Extract fact candidates from the corpus into the registry",
	Long: `Build scans every corpus document with per-category extraction
patterns (pricing, latency, limits, dates, contacts, regulatory identifiers,
URLs) and writes the candidates to the fact registry.

With --merge (the default), entries a human has already reviewed are kept
verbatim; only unreviewed entries are refreshed, and entries whose source
line vanished are retained for manual cleanup.

Example:
  docdecay registry build ./docs
  docdecay registry build ./docs --merge=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegistryBuild,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryBuildCmd)
	registryBuildCmd.Flags().BoolVar(&registryMerge, "merge", true, "merge with the existing registry instead of overwriting")
}

func runRegistryBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCorpusArg(&cfg, args)

	ix, err := corpus.NewIndex(cfg.Corpus.Root, cfg.Corpus)
	if err != nil {
		return err
	}
	ix.Logf = logf

	files, err := ix.Files()
	if err != nil {
		return err
	}

	builder := &registry.Builder{Logf: logf}
	var candidates []model.Fact
	for _, rel := range files {
		raw, err := os.ReadFile(filepath.Join(ix.Root(), filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		candidates = append(candidates, builder.ScanLines(rel, strings.Split(string(raw), "\n"))...)
	}
	candidates = registry.DedupURLs(candidates)

	regPath := corpusPath(ix.Root(), cfg.Facts.RegistryPath)
	out := &registry.File{Facts: candidates}

	if registryMerge {
		existing, err := registry.Load(regPath)
		if err != nil {
			return err
		}
		out.Facts = registry.Merge(existing.Facts, candidates)
		out.PDFs = existing.PDFs
	}

	if err := registry.Save(regPath, out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scanned %d documents, extracted %d candidates\n", len(files), len(candidates))
	fmt.Fprintf(os.Stderr, "Registry: %s (%d facts)\n", regPath, len(out.Facts))
	return nil
}
