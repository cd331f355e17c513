package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/version"
)

// VersionInfo is the structured form of the version command output.
type VersionInfo struct {
	Release string `json:"release" yaml:"release"`
	Go      string `json:"go" yaml:"go"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("output") {
			return api.Output(VersionInfo{
				Release: version.GitRelease,
				Go:      version.GoInfo,
				Commit:  version.GitCommit,
				Date:    version.GitCommitDate,
			})
		}
		fmt.Printf("texthunter %s\n", version.GitRelease)
		fmt.Printf("  Go:     %s\n", version.GoInfo)
		fmt.Printf("  Commit: %s\n", version.GitCommit)
		fmt.Printf("  Date:   %s\n", version.GitCommitDate)
		return nil
	},
}
