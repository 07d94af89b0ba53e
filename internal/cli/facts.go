package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/corpus"
	"github.com/vporoshin/docdecay/internal/facts"
	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/registry"
)

var factsOutputDir string

var factStatusOrder = []model.FactStatus{
	model.FactChanged,
	model.FactNotFoundInSource,
	model.FactStale,
	model.FactApproachingDeadline,
	model.FactNeedsUpdate,
	model.FactUnverifiableAuto,
	model.FactUnverifiablePDF,
	model.FactVerified,
}

// factsCmd represents the facts command
var factsCmd = &cobra.Command{
	Use:   "facts [corpus-dir]",
	Short: "Verify registered facts for staleness and drift",
	Long: `Facts verifies every entry of the fact registry: date-bearing values
are checked for staleness and approaching deadlines, and facts with an
automated verification method are searched for in their live source. A value
that is gone or replaced by a similar one is reported as drift.

Example:
  docdecay facts ./docs
  docdecay facts ./docs --output-dir ./reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)
	factsCmd.Flags().StringVar(&factsOutputDir, "output-dir", "", "report directory (default from config)")
}

func runFacts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCorpusArg(&cfg, args)
	if factsOutputDir != "" {
		cfg.Output.Dir = factsOutputDir
	}

	report, err := checkFacts(context.Background(), cfg)
	if err != nil {
		return err
	}

	path, err := writeReport(cfg.Output.Dir, "fact_report.json", report)
	if err != nil {
		return err
	}

	printFactSummary(report, path)
	return severityErr(report.Severity())
}

// checkFacts verifies the fact registry of the configured corpus. It is
// shared with the audit command.
func checkFacts(ctx context.Context, cfg model.Config) (*model.FactReport, error) {
	ix, err := corpus.NewIndex(cfg.Corpus.Root, cfg.Corpus)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(corpusPath(ix.Root(), cfg.Facts.RegistryPath))
	if err != nil {
		return nil, err
	}

	client := newFetchClient(cfg)
	pdf := facts.NewPDFExtractor(cfg.Facts.PDFExtraction)
	engine := facts.NewEngine(client, pdf, cfg.Facts)
	engine.Logf = logf

	return engine.Run(ctx, reg.Facts), nil
}

func printFactSummary(report *model.FactReport, path string) {
	fmt.Fprintf(os.Stderr, "Verified %d facts\n", report.TotalFacts)
	for _, status := range factStatusOrder {
		if n := report.Counts[status]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-22s %d\n", status, n)
		}
	}
	fmt.Fprintf(os.Stderr, "Report: %s\n", path)
	fmt.Fprintf(os.Stderr, "Status: %s\n", report.Severity())
}
