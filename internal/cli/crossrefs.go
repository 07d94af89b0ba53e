package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/corpus"
	"github.com/vporoshin/docdecay/internal/crossref"
	"github.com/vporoshin/docdecay/internal/model"
)

var crossrefsOutputDir string

// crossrefsCmd represents the crossrefs command
var crossrefsCmd = &cobra.Command{
	Use:   "crossrefs [corpus-dir]",
	Short: "Validate internal references, anchors, and corpus connectivity",
	Long: `Crossrefs resolves every internal markdown reference against the
corpus: target files must exist, anchors must match a heading, the table of
contents must cover the corpus, orphaned files are flagged, and chapters are
expected to link back to the table of contents.

Example:
  docdecay crossrefs ./docs
  docdecay crossrefs ./docs --output-dir ./reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrossrefs,
}

func init() {
	rootCmd.AddCommand(crossrefsCmd)
	crossrefsCmd.Flags().StringVar(&crossrefsOutputDir, "output-dir", "", "report directory (default from config)")
}

func runCrossrefs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCorpusArg(&cfg, args)
	if crossrefsOutputDir != "" {
		cfg.Output.Dir = crossrefsOutputDir
	}

	report, err := checkCrossrefs(cfg)
	if err != nil {
		return err
	}

	path, err := writeReport(cfg.Output.Dir, "crossref_report.json", report)
	if err != nil {
		return err
	}

	printCrossrefSummary(report, path)
	return severityErr(report.Severity())
}

// checkCrossrefs runs internal reference validation over the configured
// corpus. It is shared with the audit command.
func checkCrossrefs(cfg model.Config) (*model.CrossrefReport, error) {
	ix, err := corpus.NewIndex(cfg.Corpus.Root, cfg.Corpus)
	if err != nil {
		return nil, err
	}
	ix.Logf = logf

	docs, err := ix.Scan()
	if err != nil {
		return nil, err
	}

	checker := crossref.New(cfg.Corpus)
	checker.Logf = logf
	return checker.Run(docs), nil
}

func printCrossrefSummary(report *model.CrossrefReport, path string) {
	fmt.Fprintf(os.Stderr, "Internal links: %d valid, %d broken\n", report.Valid, report.Broken)
	fmt.Fprintf(os.Stderr, "TOC links:      %d valid, %d broken\n", report.TOC.Valid, report.TOC.Broken)
	if n := len(report.OrphanedFiles); n > 0 {
		fmt.Fprintf(os.Stderr, "Orphaned files: %d\n", n)
	}
	if report.BackLinks.WithoutBackLink > 0 {
		fmt.Fprintf(os.Stderr, "Chapters without a back link: %d\n", report.BackLinks.WithoutBackLink)
	}
	fmt.Fprintf(os.Stderr, "Report: %s\n", path)
	fmt.Fprintf(os.Stderr, "Status: %s\n", report.Severity())
}
