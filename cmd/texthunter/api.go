package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running TextHunter server via HTTP.

These commands require a running server (texthunter serve).
Use --server to specify a custom server URL.

Examples:
  texthunter api health                                 # Check server health
  texthunter api extract -c corpus.json -p 'PRJ-\d+'   # Preview matches
  texthunter api guess-regex 123-AB 456-CD              # Infer a pattern
  texthunter api settings list                          # Show effective config`,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configuration settings commands",
}

var (
	waitTimeout  time.Duration
	waitInterval time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the server to become healthy",
	Long: `Poll /health until the server answers or the timeout elapses.

Useful in scripts right after starting "texthunter serve".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attempts := uint(waitTimeout / waitInterval)
		if attempts == 0 {
			attempts = 1
		}
		client := api.NewClient(getServerURL())
		if err := client.WaitReady(cmd.Context(), attempts, waitInterval); err != nil {
			return fmt.Errorf("server at %s not ready: %w", getServerURL(), err)
		}
		fmt.Println("Server is ready")
		return nil
	},
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 30*time.Second, "How long to wait")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", time.Second, "Delay between attempts")
	apiCmd.AddCommand(waitCmd)

	settings := map[string]bool{}
	for _, ep := range endpoints.SettingsCommands() {
		settingsCmd.AddCommand(ep.Command(getServerURL))
		_, path, _ := ep.Route()
		settings[path] = true
	}

	for _, ep := range endpoints.All(endpoints.Config{GetHome: getHome}) {
		if _, path, _ := ep.Route(); settings[path] {
			continue
		}
		apiCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(apiCmd)
}
