package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vporoshin/docdecay/internal/model"
	"github.com/vporoshin/docdecay/internal/monitor"
)

var monitorOutputDir string

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch external sources for new publications",
	Long: `Monitor scrapes each configured source listing page, diffs the found
titles against the persisted seen set, and flags new items whose title
matches a configured keyword as potentially affecting corpus documents.
Sources that stop yielding items escalate after repeated failures.

Example:
  docdecay monitor
  docdecay monitor --output-dir ./reports -v`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().StringVar(&monitorOutputDir, "output-dir", "", "report directory (default from config)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if monitorOutputDir != "" {
		cfg.Output.Dir = monitorOutputDir
	}

	report, err := checkSources(context.Background(), cfg)
	if err != nil {
		return err
	}

	path, err := writeReport(cfg.Output.Dir, "monitor_report.json", report)
	if err != nil {
		return err
	}

	printMonitorSummary(report, path)
	return severityErr(report.Severity())
}

// checkSources runs one monitoring pass and persists the seen state. It is
// shared with the audit command.
func checkSources(ctx context.Context, cfg model.Config) (*model.MonitorReport, error) {
	client := newFetchClient(cfg)
	m := monitor.New(client, cfg.Monitor)
	m.Logf = logf

	report := m.Run(ctx)
	if err := m.SaveState(); err != nil {
		return nil, fmt.Errorf("persist monitor state: %w", err)
	}
	return report, nil
}

func printMonitorSummary(report *model.MonitorReport, path string) {
	fmt.Fprintf(os.Stderr, "Sources: %d checked, %d succeeded, %d failed\n",
		report.SourcesChecked, report.SourcesSucceeded, report.SourcesFailed)
	fmt.Fprintf(os.Stderr, "New items: %d (%d relevant)\n", len(report.NewItems), report.NewRelevant)
	for _, f := range report.ScrapeFailures {
		if f.Escalated {
			fmt.Fprintf(os.Stderr, "  ESCALATED: %s (%d consecutive failures)\n", f.Source, f.ConsecutiveFailures)
		}
	}
	fmt.Fprintf(os.Stderr, "Report: %s\n", path)
	fmt.Fprintf(os.Stderr, "Status: %s\n", report.Severity())
}
