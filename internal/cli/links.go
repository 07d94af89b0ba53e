package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/corpus"
	"github.com/vporoshin/docdecay/internal/fetch"
	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/registry"
)

var linksOutputDir string

// outcomeOrder fixes the summary print order; worst classes first.
var outcomeOrder = []model.OutcomeClass{
	model.OutcomeNotFound,
	model.OutcomeSoftNotFound,
	model.OutcomeServerError,
	model.OutcomeTimeout,
	model.OutcomeDomainError,
	model.OutcomeConnectionError,
	model.OutcomeUnclassified,
	model.OutcomeMovedDocument,
	model.OutcomeRedirect,
	model.OutcomeRedirectResolved,
	model.OutcomeOK,
}

// linksCmd represents the links command
var linksCmd = &cobra.Command{
	Use:   "links [corpus-dir]",
	Short: "Check every external URL referenced by the corpus",
	Long: `Links collects every external URL across the corpus, deduplicates
occurrences, and checks each unique URL once: HTTP status, soft-404
heuristics for pages that answer 200 with an error body, and content change
detection for PDFs with a registered hash.

Example:
  docdecay links ./docs
  docdecay links ./docs --output-dir ./reports -v`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.Flags().StringVar(&linksOutputDir, "output-dir", "", "report directory (default from config)")
}

func runLinks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCorpusArg(&cfg, args)
	if linksOutputDir != "" {
		cfg.Output.Dir = linksOutputDir
	}

	report, err := checkLinks(context.Background(), cfg)
	if err != nil {
		return err
	}

	path, err := writeReport(cfg.Output.Dir, "link_report.json", report)
	if err != nil {
		return err
	}

	printLinkSummary(report, path)
	return severityErr(report.Severity())
}

// checkLinks runs the external link check over the configured corpus. It is
// shared with the audit command.
func checkLinks(ctx context.Context, cfg model.Config) (*model.LinkReport, error) {
	ix, err := corpus.NewIndex(cfg.Corpus.Root, cfg.Corpus)
	if err != nil {
		return nil, err
	}
	ix.Logf = logf

	docs, err := ix.Scan()
	if err != nil {
		return nil, err
	}
	entries := corpus.DedupURLs(docs)

	// Registered PDF snapshots feed binary change detection.
	reg, err := registry.Load(corpusPath(ix.Root(), cfg.Facts.RegistryPath))
	if err != nil {
		return nil, err
	}
	pdfs := make(map[string]fetch.PDFSnapshot)
	for url, rec := range reg.Snapshots() {
		pdfs[url] = fetch.PDFSnapshot{Length: rec.ContentLength, Hash: rec.ContentHash}
	}

	client := newFetchClient(cfg)
	soft := fetch.NewSoftDetector(cfg.Soft)
	checker := fetch.NewLinkChecker(client, soft, cfg.HTTP.Workers, pdfs)
	checker.Logf = logf

	return checker.Run(ctx, entries), nil
}

func printLinkSummary(report *model.LinkReport, path string) {
	fmt.Fprintf(os.Stderr, "Checked %d unique URLs (%d occurrences)\n", report.UniqueURLs, report.TotalURLs)
	for _, class := range outcomeOrder {
		if n := report.Counts[class]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-18s %d\n", class, n)
		}
	}
	fmt.Fprintf(os.Stderr, "Report: %s\n", path)
	fmt.Fprintf(os.Stderr, "Status: %s\n", report.Severity())
}

// applyCorpusArg lets a positional argument override the configured corpus
// root.
func applyCorpusArg(cfg *model.Config, args []string) {
	if len(args) > 0 {
		cfg.Corpus.Root = args[0]
	}
}
