package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jackzampolin/texthunter/internal/export"
	"github.com/jackzampolin/texthunter/internal/inferrer"
	"github.com/jackzampolin/texthunter/internal/matcher"
	"github.com/jackzampolin/texthunter/internal/schema"
	"github.com/jackzampolin/texthunter/internal/svcctx"
)

// statusClientClosedRequest is the non-standard status recorded when the
// client goes away before the response is written.
const statusClientClosedRequest = 499

// maxBodyBytes caps request bodies; corpora of a few hundred PDFs fit easily.
const maxBodyBytes = 64 << 20

// decodeBody reads the request body, validates it against the named schema
// and decodes it into v.
func decodeBody(w http.ResponseWriter, r *http.Request, schemaName string, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &schema.ValidationError{Schema: schemaName, Msg: fmt.Sprintf("failed to read request body: %v", err)}
	}
	if err := schema.Validate(schemaName, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &schema.ValidationError{Schema: schemaName, Msg: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		patternErr *matcher.PatternError
		timeoutErr *matcher.MatchTimeoutError
		inputErr   *inferrer.ValidationError
		schemaErr  *schema.ValidationError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.As(err, &patternErr),
		errors.As(err, &inputErr),
		errors.As(err, &schemaErr),
		errors.Is(err, export.ErrNoMatches):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeErr logs err and writes it with the mapped status code.
func writeErr(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	logger := svcctx.LoggerFrom(ctx)
	if status == statusClientClosedRequest {
		logger.Info(op+" abandoned by client", "error", err)
		w.WriteHeader(status)
		return
	}
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", "error", err)
	} else {
		logger.Warn(op+" rejected", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}
