package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/texthunter/internal/api"
	"github.com/jackzampolin/texthunter/internal/inferrer"
	"github.com/jackzampolin/texthunter/internal/schema"
	"github.com/jackzampolin/texthunter/internal/svcctx"
)

// GuessRegexRequest is the request body for POST /api/guess-regex.
type GuessRegexRequest struct {
	Examples []string `json:"examples" yaml:"examples"`
}

// GuessRegexResponse carries the inferred pattern and whether each example
// matches it.
type GuessRegexResponse struct {
	Pattern     string          `json:"pattern" yaml:"pattern"`
	Explanation string          `json:"explanation" yaml:"explanation"`
	Strategy    string          `json:"strategy" yaml:"strategy"`
	TestResults map[string]bool `json:"test_results" yaml:"test_results"`
}

// GuessRegexEndpoint handles POST /api/guess-regex.
type GuessRegexEndpoint struct{}

func (e *GuessRegexEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/guess-regex", e.handler
}

func (e *GuessRegexEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Infer a regex
//	@Description	Generate a regex from at least two example strings
//	@Tags			regex
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GuessRegexRequest	true	"Example strings"
//	@Success		200		{object}	GuessRegexResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/guess-regex [post]
func (e *GuessRegexEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)

	var req GuessRegexRequest
	if err := decodeBody(w, r, schema.GuessRegexRequest, &req); err != nil {
		writeErr(ctx, w, "regex inference", err)
		return
	}
	logger.Info("regex guess requested", "examples", len(req.Examples))
	logger.Debug("regex guess examples", "examples", req.Examples)

	result, err := inferrer.Infer(req.Examples)
	if err != nil {
		writeErr(ctx, w, "regex inference", err)
		return
	}

	results, err := inferrer.Test(result.Pattern, req.Examples)
	if err != nil {
		writeErr(ctx, w, "regex inference", err)
		return
	}

	svcctx.MetricsFrom(ctx).RecordInference(string(result.Strategy))
	logger.Info("generated pattern", "pattern", result.Pattern, "strategy", result.Strategy)
	logger.Debug("pattern test results", "results", results)

	writeJSON(w, http.StatusOK, GuessRegexResponse{
		Pattern:     result.Pattern,
		Explanation: result.Explanation,
		Strategy:    string(result.Strategy),
		TestResults: results,
	})
}

func (e *GuessRegexEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:     "guess-regex EXAMPLE EXAMPLE [EXAMPLE...]",
		Short:   "Infer a regex from example strings",
		Example: `  texthunter api guess-regex '123"-AB-456' '789"-CD-012'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())

			var resp GuessRegexResponse
			if err := client.Post(ctx, "/api/guess-regex", GuessRegexRequest{Examples: args}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
