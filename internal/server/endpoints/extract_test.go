package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jackzampolin/texthunter/internal/metrics"
	"github.com/jackzampolin/texthunter/internal/svcctx"
)

func extractionBody(t *testing.T, corpus map[string]map[string]string, pattern string, filePattern *string) string {
	t.Helper()
	names := make([]string, 0, len(corpus))
	for name := range corpus {
		names = append(names, name)
	}
	body, err := json.Marshal(map[string]any{
		"filenames":             names,
		"file_identifier_regex": filePattern,
		"keyword_regex":         pattern,
		"text_content":          corpus,
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestExtractEndpoint(t *testing.T) {
	svc := newServices(t, "")
	body := extractionBody(t, map[string]map[string]string{
		"doc1.pdf": {"1": "Project ABC-123 and DEF-456"},
	}, `[A-Z]{3}-\d{3}`, nil)

	rec := serve(t, svc, &ExtractEndpoint{}, "/api/extract", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decode[ExtractionResponse](t, rec)
	if resp.TotalCount != 2 || resp.PreviewCount != 2 || len(resp.Matches) != 2 {
		t.Fatalf("got total=%d preview=%d len=%d", resp.TotalCount, resp.PreviewCount, len(resp.Matches))
	}
	first := resp.Matches[0]
	if first.SourceFile != "doc1.pdf" || first.Page != 1 || first.MatchFound != "ABC-123" {
		t.Errorf("first match = %+v", first)
	}
	if first.ProjectID != nil || first.SheetNo != nil {
		t.Errorf("expected nil metadata without a file identifier, got %+v", first)
	}
	if !strings.Contains(first.Context, "ABC-123") {
		t.Errorf("context %q does not contain the match", first.Context)
	}
	if resp.Matches[1].MatchFound != "DEF-456" {
		t.Errorf("second match = %q", resp.Matches[1].MatchFound)
	}

	// Absent metadata is serialized as null.
	if !strings.Contains(rec.Body.String(), `"project_id":null`) {
		t.Errorf("body does not carry null project_id: %s", rec.Body.String())
	}

	if got := testutil.ToFloat64(svc.Metrics.ExtractionsTotal.WithLabelValues(metrics.ResultOK)); got != 1 {
		t.Errorf("extractions ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(svc.Metrics.MatchesTotal); got != 2 {
		t.Errorf("matches = %v, want 2", got)
	}
}

func TestExtractEndpoint_PreviewLimit(t *testing.T) {
	svc := newServices(t, "extraction:\n  preview_limit: 2\n")
	body := extractionBody(t, map[string]map[string]string{
		"a.pdf": {"1": "X1 X2 X3", "2": "X4"},
		"b.pdf": {"1": "X5"},
	}, `X\d`, nil)

	t.Run("preview", func(t *testing.T) {
		rec := serve(t, svc, &ExtractEndpoint{}, "/api/extract", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		resp := decode[ExtractionResponse](t, rec)
		if resp.TotalCount != 5 {
			t.Errorf("TotalCount = %d, want 5", resp.TotalCount)
		}
		if resp.PreviewCount != 2 || len(resp.Matches) != 2 {
			t.Errorf("preview = %d/%d, want 2", resp.PreviewCount, len(resp.Matches))
		}
	})

	t.Run("all", func(t *testing.T) {
		rec := serve(t, svc, &ExtractAllEndpoint{}, "/api/extract-all", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		resp := decode[ExtractAllResponse](t, rec)
		if resp.TotalCount != 5 || len(resp.Matches) != 5 {
			t.Fatalf("total=%d len=%d, want 5", resp.TotalCount, len(resp.Matches))
		}
		var got []string
		for _, m := range resp.Matches {
			got = append(got, m.MatchFound)
		}
		if strings.Join(got, ",") != "X1,X2,X3,X4,X5" {
			t.Errorf("order = %v", got)
		}
	})
}

func TestExtractEndpoint_FileIdentifier(t *testing.T) {
	svc := newServices(t, "")
	filePattern := `(\d{4})_(\w+)_`
	body := extractionBody(t, map[string]map[string]string{
		"2024_SiteA_report.pdf": {"3": "tag PRJ-7"},
	}, `PRJ-\d+`, &filePattern)

	rec := serve(t, svc, &ExtractAllEndpoint{}, "/api/extract-all", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[ExtractAllResponse](t, rec)
	if len(resp.Matches) != 1 {
		t.Fatalf("len = %d, want 1", len(resp.Matches))
	}
	m := resp.Matches[0]
	if m.ProjectID == nil || *m.ProjectID != "2024" {
		t.Errorf("ProjectID = %v, want 2024", m.ProjectID)
	}
	if m.SheetNo == nil || *m.SheetNo != "SiteA" {
		t.Errorf("SheetNo = %v, want SiteA", m.SheetNo)
	}
	if m.Page != 3 {
		t.Errorf("Page = %d, want 3", m.Page)
	}
}

func TestExtractEndpoint_PythonNamedGroups(t *testing.T) {
	svc := newServices(t, "")
	filePattern := `(?P<project>\d{4})_(?P<sheet>[^_]+)_`
	body := extractionBody(t, map[string]map[string]string{
		"2024_SiteA_report.pdf": {"1": "PRJ-1 PRJ-22"},
	}, `(?P<kind>PRJ)-\d+`, &filePattern)

	rec := serve(t, svc, &ExtractAllEndpoint{}, "/api/extract-all", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[ExtractAllResponse](t, rec)
	if resp.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", resp.TotalCount)
	}
	m := resp.Matches[1]
	if m.MatchFound != "PRJ-22" {
		t.Errorf("MatchFound = %q, want PRJ-22", m.MatchFound)
	}
	if m.ProjectID == nil || *m.ProjectID != "2024" || m.SheetNo == nil || *m.SheetNo != "SiteA" {
		t.Errorf("metadata = %v/%v, want 2024/SiteA", m.ProjectID, m.SheetNo)
	}
}

func TestExtractEndpoint_ZeroContext(t *testing.T) {
	svc := newServices(t, "extraction:\n  context_chars: 0\n")
	body := extractionBody(t, map[string]map[string]string{
		"a.pdf": {"1": "before TAG-1 after"},
	}, `TAG-\d`, nil)

	rec := serve(t, svc, &ExtractEndpoint{}, "/api/extract", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[ExtractionResponse](t, rec)
	if len(resp.Matches) != 1 {
		t.Fatalf("len = %d, want 1", len(resp.Matches))
	}
	if got := resp.Matches[0].Context; got != "...TAG-1..." {
		t.Errorf("Context = %q, want only the match", got)
	}
}

func TestExtractEndpoint_ClientGone(t *testing.T) {
	svc := newServices(t, "")
	body := extractionBody(t, map[string]map[string]string{
		"a.pdf": {"1": "X1 X2 X3"},
	}, `X\d`, nil)

	ctx, cancel := context.WithCancel(svcctx.WithServices(context.Background(), svc))
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	(&ExtractEndpoint{}).handler(rec, req)

	if rec.Code != statusClientClosedRequest {
		t.Fatalf("status = %d, want %d", rec.Code, statusClientClosedRequest)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected no body, got %s", rec.Body.String())
	}
	if got := testutil.ToFloat64(svc.Metrics.ExtractionsTotal.WithLabelValues(metrics.ResultOK)); got != 0 {
		t.Errorf("extractions ok = %v, want 0", got)
	}
}

func TestExtractEndpoint_Errors(t *testing.T) {
	bad := "[unclosed"
	tests := []struct {
		name       string
		cfg        string
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "invalid keyword regex",
			body:       extractionBody(t, map[string]map[string]string{"a.pdf": {"1": "x"}}, "[unclosed", nil),
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid keyword regex",
		},
		{
			name:       "invalid file identifier regex",
			body:       extractionBody(t, map[string]map[string]string{"a.pdf": {"1": "x"}}, "x", &bad),
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid file identifier regex",
		},
		{
			name:       "missing keyword",
			body:       `{"filenames":[],"text_content":{}}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "keyword_regex",
		},
		{
			name:       "non-numeric page",
			body:       `{"filenames":["a.pdf"],"keyword_regex":"x","text_content":{"a.pdf":{"first":"x"}}}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "text_content",
		},
		{
			name:       "malformed json",
			body:       `{"filenames":`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid JSON",
		},
		{
			name:       "catastrophic backtracking",
			cfg:        "extraction:\n  match_timeout: 1ms\n",
			body:       extractionBody(t, map[string]map[string]string{"a.pdf": {"1": strings.Repeat("a", 40) + "c"}}, `(a+)+b`, nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantErr:    "a.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newServices(t, tt.cfg)
			rec := serve(t, svc, &ExtractEndpoint{}, "/api/extract", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			resp := decode[ErrorResponse](t, rec)
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("error %q does not contain %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestExtractEndpoint_EmptyCorpus(t *testing.T) {
	svc := newServices(t, "")
	rec := serve(t, svc, &ExtractEndpoint{}, "/api/extract", `{"filenames":[],"keyword_regex":"x","text_content":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"matches":[]`) {
		t.Errorf("expected empty match list, got %s", rec.Body.String())
	}
}

func TestLoadExtractionRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	corpus := `{"b.pdf": {"2": "two", "1": "one"}, "a.pdf": {"1": "x"}}`
	if err := os.WriteFile(path, []byte(corpus), 0644); err != nil {
		t.Fatal(err)
	}

	req, err := loadExtractionRequest(path, `\w+`, `(\w)`)
	if err != nil {
		t.Fatalf("loadExtractionRequest() error = %v", err)
	}
	if strings.Join(req.Filenames, ",") != "b.pdf,a.pdf" {
		t.Errorf("Filenames = %v, want document order", req.Filenames)
	}
	if req.FileIdentifierRegex == nil || *req.FileIdentifierRegex != `(\w)` {
		t.Errorf("FileIdentifierRegex = %v", req.FileIdentifierRegex)
	}
	if req.TextContent.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", req.TextContent.PageCount())
	}

	if _, err := loadExtractionRequest(filepath.Join(t.TempDir(), "missing.json"), "x", ""); err == nil {
		t.Error("expected error for missing corpus file")
	}
}
