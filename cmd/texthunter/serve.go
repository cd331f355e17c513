package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/config"
	"github.com/jackzampolin/texthunter/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TextHunter server",
	Long: `Start the TextHunter HTTP server.

Configuration is read from --config, ./config.yaml or
~/.texthunter/config.yaml and reloaded when the file changes.

The server provides:
  - /health            - Basic server health check
  - /api/extract       - Preview regex matches over a text corpus
  - /api/extract-all   - Every regex match, for export
  - /api/guess-regex   - Infer a regex from examples
  - /api/export        - Render matches to an Excel workbook
  - /metrics           - Prometheus metrics
  - /swagger.json      - OpenAPI document

Examples:
  texthunter serve                    # Start on the configured port (8000)
  texthunter serve --port 3000        # Start on custom port
  texthunter serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get home directory
		h, err := getHome()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}

		level := cm.Get().Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		slogLevel, err := config.ParseLevel(level)
		if err != nil {
			return err
		}

		// Set up logger
		levelVar := new(slog.LevelVar)
		levelVar.Set(slogLevel)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: levelVar,
		}))
		cm.SetLogger(logger)

		if file := cm.ConfigFile(); file != "" {
			logger.Info("loaded config", "file", file)
			cm.WatchConfig()
		}
		// Follow logging.level on reload unless pinned by --log-level.
		cm.OnChange(func(c *config.Config) {
			if logLevel != "" {
				return
			}
			if lvl, err := config.ParseLevel(c.Logging.Level); err == nil {
				levelVar.Set(lvl)
			}
		})

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port)")

	rootCmd.AddCommand(serveCmd)
}
