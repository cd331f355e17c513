package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/home"
	"github.com/jackzampolin/texthunter/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "texthunter",
	Short: "Hunt and extract text patterns from PDF text",
	Long: `TextHunter scans text already extracted from PDF documents for a
user-supplied regular expression and reports every match with its page,
surrounding context and metadata parsed from the file name.

It can also:
  - Infer a regular expression from a handful of example strings
  - Export match records to an Excel workbook`,
	Version: version.GitRelease,
}

// getHome resolves the home directory from --home at runtime.
func getHome() (*home.Dir, error) {
	return home.New(homeDir)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.texthunter/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "texthunter home directory (default: ~/.texthunter)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level override: debug, info, warn or error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
