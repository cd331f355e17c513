package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/guess-regex" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int{"count": len(body["examples"])})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var resp struct {
		Count int `json:"count"`
	}
	err := client.Post(context.Background(), "/api/guess-regex", map[string][]string{"examples": {"a", "b"}}, &resp)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
}

func TestClient_ServerError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"json error", `{"error":"invalid keyword regex"}`, "server error (400): invalid keyword regex"},
		{"plain body", "boom", "server error (400): boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).Get(context.Background(), "/x", nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename=extraction_results_20240101_120000.xlsx")
		w.Write([]byte("PK-bytes"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	name, err := NewClient(server.URL).Download(context.Background(), "/api/export", map[string]any{}, &buf)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if name != "extraction_results_20240101_120000.xlsx" {
		t.Errorf("filename = %q", name)
	}
	if buf.String() != "PK-bytes" {
		t.Errorf("body = %q", buf.String())
	}
}

func TestClient_DownloadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No matches to export"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	_, err := NewClient(server.URL).Download(context.Background(), "/api/export", map[string]any{}, &buf)
	if err == nil || !strings.Contains(err.Error(), "No matches to export") {
		t.Errorf("error = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("error body should not be written to the output")
	}
}

func TestClient_WaitReady(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).WaitReady(context.Background(), 5, time.Millisecond)
	if err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClient_WaitReady_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewClient(server.URL).WaitReady(context.Background(), 2, time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOutputTo(t *testing.T) {
	data := map[string]any{"pattern": `\d+`}

	var jsonBuf bytes.Buffer
	if err := OutputTo(&jsonBuf, OutputFormatJSON, data); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(jsonBuf.String(), `"pattern": "\\d+"`) {
		t.Errorf("json output = %s", jsonBuf.String())
	}

	var yamlBuf bytes.Buffer
	if err := OutputTo(&yamlBuf, OutputFormatYAML, data); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(yamlBuf.String(), "pattern:") {
		t.Errorf("yaml output = %s", yamlBuf.String())
	}

	if err := OutputTo(&yamlBuf, OutputFormat("xml"), data); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOutputToFile(t *testing.T) {
	SetOutputFormat("json")
	defer SetOutputFormat("yaml")

	if GetOutputFormat() != OutputFormatJSON {
		t.Fatalf("GetOutputFormat() = %s", GetOutputFormat())
	}

	path := filepath.Join(t.TempDir(), "spec.json")
	if err := OutputToFile(map[string]string{"swagger": "2.0"}, path); err != nil {
		t.Fatalf("OutputToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"swagger": "2.0"`) {
		t.Errorf("file contents = %s", data)
	}
}
