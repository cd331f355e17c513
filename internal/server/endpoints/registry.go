package endpoints

import (
	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/home"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// GetHome resolves the local home directory for CLI downloads.
	GetHome func() (*home.Dir, error)
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&InfoEndpoint{},
		&HealthEndpoint{},
		&HealthEndpoint{Path: "/api/health", Alias: true},

		// Extraction endpoints
		&ExtractEndpoint{},
		&ExtractAllEndpoint{},
		&GuessRegexEndpoint{},
		&ExportEndpoint{GetHome: cfg.GetHome},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
	}
}

// SettingsCommands returns endpoints for settings operations.
// This groups settings-related commands under "settings" subcommand.
func SettingsCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
	}
}
