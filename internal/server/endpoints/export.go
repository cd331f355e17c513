package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/export"
	"github.com/jackzampolin/texthunter/internal/home"
	"github.com/jackzampolin/texthunter/internal/matcher"
	"github.com/jackzampolin/texthunter/internal/schema"
	"github.com/jackzampolin/texthunter/internal/svcctx"
)

// ExportRequest is the request body for POST /api/export.
type ExportRequest struct {
	Matches []matcher.Match `json:"matches"`
	// IncludeContext defaults to export.include_context from config.
	IncludeContext *bool `json:"include_context,omitempty"`
}

// ExportEndpoint handles POST /api/export.
type ExportEndpoint struct {
	// GetHome resolves the local home directory for CLI downloads.
	GetHome func() (*home.Dir, error)
}

func (e *ExportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/export", e.handler
}

func (e *ExportEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export matches
//	@Description	Render match records into an Excel workbook and stream it as an attachment
//	@Tags			export
//	@Accept			json
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			request	body		ExportRequest	true	"Matches to export"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/export [post]
func (e *ExportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)
	cfg := svcctx.ConfigFrom(ctx)

	var req ExportRequest
	if err := decodeBody(w, r, schema.ExportRequest, &req); err != nil {
		writeErr(ctx, w, "export", err)
		return
	}
	logger.Info("export requested", "matches", len(req.Matches))

	if len(req.Matches) == 0 {
		logger.Warn("export requested with no matches")
		writeError(w, http.StatusBadRequest, "No matches to export")
		return
	}

	includeContext := cfg.Export.IncludeContext
	if req.IncludeContext != nil {
		includeContext = *req.IncludeContext
	}

	var buf bytes.Buffer
	err := export.Write(&buf, req.Matches, export.Options{
		IncludeContext: includeContext,
		SheetName:      cfg.Export.SheetName,
		MaxColumnWidth: cfg.Export.MaxColumnWidth,
		ContextChars:   contextRadius(cfg.Extraction.ContextChars),
	})
	if err != nil {
		writeErr(ctx, w, "export", err)
		return
	}

	filename := export.Filename(time.Now())
	svcctx.MetricsFrom(ctx).RecordExport(includeContext)
	logger.Info("excel file generated", "filename", filename, "bytes", buf.Len())

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (e *ExportEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		matchesFile string
		outPath     string
		noContext   bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matches to an Excel workbook",
		Long: `Export matches to an Excel workbook.

The matches file is either a JSON array of match records or the output of
"texthunter api extract --all -o json". Without --out the workbook is saved
under the texthunter home exports directory.`,
		Example: `  texthunter api extract -c corpus.json -p 'PRJ-\d+' --all -o json > matches.json
  texthunter api export -m matches.json --out results.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			matches, err := loadMatches(matchesFile)
			if err != nil {
				return err
			}
			req := ExportRequest{Matches: matches}
			if noContext {
				f := false
				req.IncludeContext = &f
			}

			var buf bytes.Buffer
			name, err := api.NewClient(getServerURL()).Download(ctx, "/api/export", req, &buf)
			if err != nil {
				return err
			}

			dest, err := e.destination(outPath, name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
			fmt.Printf("Exported %d matches to %s\n", len(matches), dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&matchesFile, "matches", "m", "", "JSON file with match records")
	cmd.Flags().StringVar(&outPath, "out", "", "Output .xlsx path (default: home exports directory)")
	cmd.Flags().BoolVar(&noContext, "no-context", false, "Omit the context column")
	cmd.MarkFlagRequired("matches")
	return cmd
}

// destination picks where a downloaded workbook is written.
func (e *ExportEndpoint) destination(outPath, serverName string) (string, error) {
	if outPath != "" {
		return outPath, nil
	}
	if serverName == "" {
		serverName = export.Filename(time.Now())
	}
	if e.GetHome == nil {
		return serverName, nil
	}
	h, err := e.GetHome()
	if err != nil {
		return "", err
	}
	if err := h.EnsureExists(); err != nil {
		return "", err
	}
	return h.ExportPath(serverName), nil
}

// loadMatches reads either a bare match array or an object with a
// "matches" field.
func loadMatches(path string) ([]matcher.Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}

	var matches []matcher.Match
	if err := json.Unmarshal(data, &matches); err == nil {
		return matches, nil
	}

	var wrapped struct {
		Matches []matcher.Match `json:"matches"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse matches %s: %w", path, err)
	}
	if wrapped.Matches == nil {
		return nil, errors.New("matches file contains no \"matches\" array")
	}
	return wrapped.Matches, nil
}
