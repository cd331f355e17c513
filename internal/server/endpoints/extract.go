package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/matcher"
	"github.com/jackzampolin/texthunter/internal/metrics"
	"github.com/jackzampolin/texthunter/internal/schema"
	"github.com/jackzampolin/texthunter/internal/svcctx"
)

// ExtractionRequest is the request body for both extraction endpoints.
type ExtractionRequest struct {
	Filenames           []string       `json:"filenames" yaml:"filenames"`
	FileIdentifierRegex *string        `json:"file_identifier_regex" yaml:"file_identifier_regex"`
	KeywordRegex        string         `json:"keyword_regex" yaml:"keyword_regex"`
	TextContent         matcher.Corpus `json:"text_content" swaggertype:"object"`
}

// ExtractionResponse is the preview returned by POST /api/extract.
type ExtractionResponse struct {
	Matches      []matcher.Match `json:"matches" yaml:"matches"`
	TotalCount   int             `json:"total_count" yaml:"total_count"`
	PreviewCount int             `json:"preview_count" yaml:"preview_count"`
}

// ExtractAllResponse is the full result returned by POST /api/extract-all.
type ExtractAllResponse struct {
	Matches    []matcher.Match `json:"matches" yaml:"matches"`
	TotalCount int             `json:"total_count" yaml:"total_count"`
}

// runExtraction scans the request corpus, keeping at most limit matches
// (all when limit < 0) while counting every one.
func runExtraction(ctx context.Context, req *ExtractionRequest, limit int) ([]matcher.Match, int, error) {
	cfg := svcctx.ConfigFrom(ctx)
	logger := svcctx.LoggerFrom(ctx)
	m := svcctx.MetricsFrom(ctx)

	opts := matcher.Options{
		ContextChars: contextRadius(cfg.Extraction.ContextChars),
		Timeout:      cfg.Extraction.MatchTimeout,
		Logger:       logger,
	}
	if req.FileIdentifierRegex != nil {
		opts.FileIdentifierPattern = *req.FileIdentifierRegex
	}

	logger.Info("extraction requested",
		"files", len(req.Filenames),
		"corpus_files", req.TextContent.Len(),
		"pattern", req.KeywordRegex)
	logger.Debug("file identifier regex", "pattern", opts.FileIdentifierPattern)

	start := time.Now()
	it, err := matcher.Extract(&req.TextContent, req.KeywordRegex, opts)
	if err != nil {
		m.RecordExtraction(metrics.ResultInvalidInput, 0, 0, time.Since(start))
		return nil, 0, err
	}

	kept, total, err := matcher.Collect(ctx, it, limit)
	if err != nil {
		if ctx.Err() == nil {
			m.RecordExtraction(metrics.ResultTimeout, req.TextContent.PageCount(), total, time.Since(start))
		}
		return nil, 0, err
	}

	m.RecordExtraction(metrics.ResultOK, req.TextContent.PageCount(), total, time.Since(start))
	return kept, total, nil
}

// contextRadius maps the configured radius onto matcher.Options, where
// zero selects the default.
func contextRadius(n int) int {
	if n == 0 {
		return matcher.NoContext
	}
	return n
}

// ExtractEndpoint handles POST /api/extract.
type ExtractEndpoint struct{}

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract", e.handler
}

func (e *ExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Preview extraction
//	@Description	Run the keyword regex over every page and return the first matches
//	@Tags			extraction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExtractionRequest	true	"Corpus and patterns"
//	@Success		200		{object}	ExtractionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/extract [post]
func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExtractionRequest
	if err := decodeBody(w, r, schema.ExtractionRequest, &req); err != nil {
		writeErr(ctx, w, "extraction", err)
		return
	}

	limit := svcctx.ConfigFrom(ctx).Extraction.PreviewLimit
	preview, total, err := runExtraction(ctx, &req, limit)
	if err != nil {
		writeErr(ctx, w, "extraction", err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractionResponse{
		Matches:      preview,
		TotalCount:   total,
		PreviewCount: len(preview),
	})
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		corpusFile  string
		pattern     string
		filePattern string
		all         bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract regex matches from a text corpus",
		Long: `Extract regex matches from a text corpus.

The corpus file is a JSON object mapping filename to page number to text:

  {"2024_SiteA_report.pdf": {"1": "page one text", "2": "page two text"}}

By default only a preview is returned; use --all for every match.`,
		Example: `  texthunter api extract -c corpus.json -p 'PRJ-\d+'
  texthunter api extract -c corpus.json -p 'PRJ-\d+' -f '(\d{4})_(\w+)' --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := loadExtractionRequest(corpusFile, pattern, filePattern)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			if all {
				var resp ExtractAllResponse
				if err := client.Post(ctx, "/api/extract-all", req, &resp); err != nil {
					return err
				}
				return api.Output(resp)
			}

			var resp ExtractionResponse
			if err := client.Post(ctx, "/api/extract", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&corpusFile, "corpus", "c", "", "JSON corpus file (filename -> page -> text)")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Keyword regex")
	cmd.Flags().StringVarP(&filePattern, "file-pattern", "f", "", "File identifier regex (group 1: project id, group 2: sheet no)")
	cmd.Flags().BoolVar(&all, "all", false, "Return every match instead of a preview")
	cmd.MarkFlagRequired("corpus")
	cmd.MarkFlagRequired("pattern")
	return cmd
}

// loadExtractionRequest builds a request from a corpus file on disk.
func loadExtractionRequest(corpusFile, pattern, filePattern string) (*ExtractionRequest, error) {
	data, err := os.ReadFile(corpusFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	req := &ExtractionRequest{KeywordRegex: pattern}
	if err := json.Unmarshal(data, &req.TextContent); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", corpusFile, err)
	}
	for _, f := range req.TextContent.Files() {
		req.Filenames = append(req.Filenames, f.Name)
	}
	if req.Filenames == nil {
		req.Filenames = []string{}
	}
	if filePattern != "" {
		req.FileIdentifierRegex = &filePattern
	}
	return req, nil
}

// ExtractAllEndpoint handles POST /api/extract-all.
type ExtractAllEndpoint struct{}

func (e *ExtractAllEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract-all", e.handler
}

func (e *ExtractAllEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Full extraction
//	@Description	Run the keyword regex over every page and return all matches, for export
//	@Tags			extraction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExtractionRequest	true	"Corpus and patterns"
//	@Success		200		{object}	ExtractAllResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/extract-all [post]
func (e *ExtractAllEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExtractionRequest
	if err := decodeBody(w, r, schema.ExtractionRequest, &req); err != nil {
		writeErr(ctx, w, "extraction", err)
		return
	}

	matches, total, err := runExtraction(ctx, &req, -1)
	if err != nil {
		writeErr(ctx, w, "extraction", err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractAllResponse{
		Matches:    matches,
		TotalCount: total,
	})
}

// Command is hidden; use "extract --all".
func (e *ExtractAllEndpoint) Command(getServerURL func() string) *cobra.Command {
	var corpusFile, pattern, filePattern string
	cmd := &cobra.Command{
		Use:    "extract-all",
		Short:  "Extract every regex match from a text corpus",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadExtractionRequest(corpusFile, pattern, filePattern)
			if err != nil {
				return err
			}
			var resp ExtractAllResponse
			if err := api.NewClient(getServerURL()).Post(cmd.Context(), "/api/extract-all", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&corpusFile, "corpus", "c", "", "JSON corpus file (filename -> page -> text)")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Keyword regex")
	cmd.Flags().StringVarP(&filePattern, "file-pattern", "f", "", "File identifier regex")
	cmd.MarkFlagRequired("corpus")
	cmd.MarkFlagRequired("pattern")
	return cmd
}
