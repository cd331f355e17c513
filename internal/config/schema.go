package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerCfg     `mapstructure:"server" yaml:"server"`
	Extraction ExtractionCfg `mapstructure:"extraction" yaml:"extraction"`
	Export     ExportCfg     `mapstructure:"export" yaml:"export"`
	Logging    LoggingCfg    `mapstructure:"logging" yaml:"logging"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        string   `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"` // Allowed browser origins
}

// ExtractionCfg tunes the matcher.
type ExtractionCfg struct {
	ContextChars int           `mapstructure:"context_chars" yaml:"context_chars"` // Characters kept on each side of a match; 0 keeps only the match
	PreviewLimit int           `mapstructure:"preview_limit" yaml:"preview_limit"` // Matches returned by /api/extract
	MatchTimeout time.Duration `mapstructure:"match_timeout" yaml:"match_timeout"` // Per-evaluation regex budget, 0 = none
}

// ExportCfg configures spreadsheet export.
type ExportCfg struct {
	SheetName      string `mapstructure:"sheet_name" yaml:"sheet_name"`
	IncludeContext bool   `mapstructure:"include_context" yaml:"include_context"` // Default when a request omits it
	MaxColumnWidth int    `mapstructure:"max_column_width" yaml:"max_column_width"`
}

// LoggingCfg configures the slog handler.
type LoggingCfg struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8000",
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
				"http://127.0.0.1:5173",
			},
		},
		Extraction: ExtractionCfg{
			ContextChars: 20,
			PreviewLimit: 10,
			MatchTimeout: 5 * time.Second,
		},
		Export: ExportCfg{
			SheetName:      "Extraction Results",
			IncludeContext: true,
			MaxColumnWidth: 50,
		},
		Logging: LoggingCfg{
			Level: "info",
		},
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.Extraction.ContextChars < 0 {
		return fmt.Errorf("extraction.context_chars must be non-negative")
	}
	if c.Extraction.PreviewLimit <= 0 {
		return fmt.Errorf("extraction.preview_limit must be positive")
	}
	if c.Extraction.MatchTimeout < 0 {
		return fmt.Errorf("extraction.match_timeout must be non-negative")
	}
	if c.Export.MaxColumnWidth <= 0 {
		return fmt.Errorf("export.max_column_width must be positive")
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a configured level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level: unknown level %q", level)
	}
}

// Entries flattens the configuration into dotted keys, e.g.
// "extraction.preview_limit". Durations are rendered as strings.
func (c *Config) Entries() map[string]any {
	return map[string]any{
		"server.host":              c.Server.Host,
		"server.port":              c.Server.Port,
		"server.cors_origins":      c.Server.CORSOrigins,
		"extraction.context_chars": c.Extraction.ContextChars,
		"extraction.preview_limit": c.Extraction.PreviewLimit,
		"extraction.match_timeout": c.Extraction.MatchTimeout.String(),
		"export.sheet_name":        c.Export.SheetName,
		"export.include_context":   c.Export.IncludeContext,
		"export.max_column_width":  c.Export.MaxColumnWidth,
		"logging.level":            c.Logging.Level,
	}
}
