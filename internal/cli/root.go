package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vporoshin/docdecay/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docdecay",
	Short: "Docdecay - documentation decay auditor",
	Long: `Docdecay audits a markdown documentation corpus for decay:

- external links that are broken, soft-404, or silently redirected
- internal cross-references and anchors that no longer resolve
- registered facts (prices, limits, dates) that drifted from their sources
- external publication sources that stopped answering or published new items

Docdecay reports findings; it never edits the corpus.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitError carries a non-pass audit severity out of a command so main can
// turn it into the documented exit status without treating it as a fatal
// error. Fatal errors stay plain errors and exit 2.
type ExitError struct {
	Severity model.Severity
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("finished with status %s", e.Severity)
}

// Code maps the severity onto the exit-status convention.
func (e *ExitError) Code() int { return int(e.Severity) }

// severityErr converts a report severity into the command result. Pass is
// a nil error so cobra prints nothing.
func severityErr(s model.Severity) error {
	if s == model.SeverityPass {
		return nil
	}
	return &ExitError{Severity: s}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Docdecay.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("docdecay v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.docdecay/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.docdecay")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DOCDECAY_*
	viper.SetEnvPrefix("DOCDECAY")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
