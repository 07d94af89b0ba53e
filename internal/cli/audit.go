package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/llm"
	"github.com/vporoshin/docdecay/internal/model"
)

var (
	auditOutputDir string
	auditTimeout   time.Duration
	auditDigest    bool
	skipLinks      bool
	skipCrossrefs  bool
	skipFacts      bool
	skipMonitor    bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit [corpus-dir]",
	Short: "Run every decay check and produce a combined report",
	Long: `Audit runs all checks over the corpus: external links, internal
cross-references, fact verification, and source monitoring. Each component
writes its own JSON report under the output directory, plus a combined audit
report. The exit status reflects the worst component: 0 pass, 1 warnings,
2 action required.

Example:
  docdecay audit ./docs
  docdecay audit ./docs --output-dir ./reports --skip-monitor
  docdecay audit ./docs --digest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditOutputDir, "output-dir", "", "report directory (default from config)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 30*time.Minute, "overall audit timeout")
	auditCmd.Flags().BoolVar(&auditDigest, "digest", false, "append an LLM prose digest to the audit report")

	auditCmd.Flags().BoolVar(&skipLinks, "skip-links", false, "skip the external link check")
	auditCmd.Flags().BoolVar(&skipCrossrefs, "skip-crossrefs", false, "skip internal reference validation")
	auditCmd.Flags().BoolVar(&skipFacts, "skip-facts", false, "skip fact verification")
	auditCmd.Flags().BoolVar(&skipMonitor, "skip-monitor", false, "skip source monitoring")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCorpusArg(&cfg, args)
	if auditOutputDir != "" {
		cfg.Output.Dir = auditOutputDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	report := &model.AuditReport{Timestamp: time.Now().UTC()}

	if !skipLinks {
		fmt.Fprintln(os.Stderr, "── External links ──")
		links, err := checkLinks(ctx, cfg)
		if err != nil {
			return err
		}
		path, err := writeReport(cfg.Output.Dir, "link_report.json", links)
		if err != nil {
			return err
		}
		printLinkSummary(links, path)
		report.Links = links
	}

	if !skipCrossrefs {
		fmt.Fprintln(os.Stderr, "── Internal references ──")
		crossrefs, err := checkCrossrefs(cfg)
		if err != nil {
			return err
		}
		path, err := writeReport(cfg.Output.Dir, "crossref_report.json", crossrefs)
		if err != nil {
			return err
		}
		printCrossrefSummary(crossrefs, path)
		report.Crossrefs = crossrefs
	}

	if !skipFacts {
		fmt.Fprintln(os.Stderr, "── Facts ──")
		facts, err := checkFacts(ctx, cfg)
		if err != nil {
			return err
		}
		path, err := writeReport(cfg.Output.Dir, "fact_report.json", facts)
		if err != nil {
			return err
		}
		printFactSummary(facts, path)
		report.Facts = facts
	}

	if !skipMonitor {
		fmt.Fprintln(os.Stderr, "── Sources ──")
		mon, err := checkSources(ctx, cfg)
		if err != nil {
			return err
		}
		path, err := writeReport(cfg.Output.Dir, "monitor_report.json", mon)
		if err != nil {
			return err
		}
		printMonitorSummary(mon, path)
		report.Monitor = mon
	}

	// The digest is prose on top of the finished report. It never changes a
	// count, classification, or the exit status; a digest failure is a
	// warning on stderr, not an audit failure.
	if auditDigest {
		if summary, err := buildDigest(ctx, cfg, report); err != nil {
			fmt.Fprintf(os.Stderr, "Digest skipped: %v\n", err)
		} else {
			report.Digest = summary
		}
	}

	path, err := writeReport(cfg.Output.Dir, "audit_report.json", report)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "───────────────────")
	fmt.Fprintf(os.Stderr, "Audit report: %s\n", path)
	fmt.Fprintf(os.Stderr, "Overall: %s\n", report.Severity())
	return severityErr(report.Severity())
}

func buildDigest(ctx context.Context, cfg model.Config, report *model.AuditReport) (string, error) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return "", err
	}

	resp, err := provider.Digest(ctx, llm.DigestRequest{
		Report:    report,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	logf("digest generated by %s (%d tokens)", resp.Model, resp.TokensUsed)
	return resp.Summary, nil
}
