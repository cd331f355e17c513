package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status" yaml:"status"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// HealthEndpoint handles GET /health and its /api/health alias.
type HealthEndpoint struct {
	// Path defaults to /health.
	Path string
	// Alias hides the CLI command for secondary routes.
	Alias bool
}

func (e *HealthEndpoint) path() string {
	if e.Path == "" {
		return "/health"
	}
	return e.Path
}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", e.path(), e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Reports that the server is up
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
//	@Router			/api/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	use := "health"
	if e.Alias {
		use = "api-health"
	}
	return &cobra.Command{
		Use:    use,
		Short:  "Check server health",
		Hidden: e.Alias,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(ctx, e.path(), &resp); err != nil {
				return err
			}
			fmt.Printf("Status:    %s\n", resp.Status)
			fmt.Printf("Timestamp: %s\n", resp.Timestamp)
			return nil
		},
	}
}

// InfoResponse describes the running service.
type InfoResponse struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Docs    string `json:"docs" yaml:"docs"`
}

// InfoEndpoint handles GET /.
type InfoEndpoint struct{}

func (e *InfoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{$}", e.handler
}

func (e *InfoEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Service info
//	@Description	Name, version and the location of the API docs
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	InfoResponse
//	@Router			/ [get]
func (e *InfoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:    "TextHunter API",
		Version: version.GitRelease,
		Docs:    "/swagger.json",
	})
}

func (e *InfoEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server name and version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp InfoResponse
			if err := client.Get(ctx, "/", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error" yaml:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
