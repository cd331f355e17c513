package svcctx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackzampolin/texthunter/internal/config"
)

func TestServicesFrom_Empty(t *testing.T) {
	ctx := context.Background()

	if ServicesFrom(ctx) != nil {
		t.Error("expected nil services")
	}
	if HomeFrom(ctx) != nil {
		t.Error("expected nil home")
	}
	if MetricsFrom(ctx) != nil {
		t.Error("expected nil metrics")
	}
	if LoggerFrom(ctx) == nil {
		t.Error("expected default logger")
	}
	if got := ConfigFrom(ctx).Extraction.PreviewLimit; got != config.DefaultConfig().Extraction.PreviewLimit {
		t.Errorf("expected default preview limit, got %d", got)
	}
}

func TestLoggerFrom_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithServices(context.Background(), &Services{Logger: logger})
	ctx = WithRequestID(ctx, "req-123")

	if got := RequestIDFrom(ctx); got != "req-123" {
		t.Fatalf("RequestIDFrom() = %q", got)
	}

	LoggerFrom(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Errorf("log line missing request id: %s", buf.String())
	}
}
