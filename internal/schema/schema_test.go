package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(schemas) != 3 {
		t.Fatalf("expected 3 schemas, got %d", len(schemas))
	}

	for i := 1; i < len(schemas); i++ {
		if schemas[i-1].Name > schemas[i].Name {
			t.Errorf("schemas not sorted: %s before %s", schemas[i-1].Name, schemas[i].Name)
		}
	}

	for _, s := range schemas {
		if len(s.Source) == 0 {
			t.Errorf("schema %s has empty source", s.Name)
		}
	}
}

func TestGet(t *testing.T) {
	t.Run("existing schema", func(t *testing.T) {
		s, err := Get(ExtractionRequest)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", ExtractionRequest, err)
		}
		if !strings.Contains(string(s.Source), "keyword_regex") {
			t.Error("extraction schema doesn't mention keyword_regex")
		}
	})

	t.Run("non-existent schema", func(t *testing.T) {
		if _, err := Get("NonExistent"); err == nil {
			t.Error("expected error for non-existent schema")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		body    string
		wantErr string
	}{
		{
			name:   "valid extraction",
			schema: ExtractionRequest,
			body:   `{"filenames":["a.pdf"],"keyword_regex":"\\d+","text_content":{"a.pdf":{"1":"x 12"}}}`,
		},
		{
			name:   "null file identifier",
			schema: ExtractionRequest,
			body:   `{"filenames":[],"file_identifier_regex":null,"keyword_regex":"x","text_content":{}}`,
		},
		{
			name:    "missing keyword",
			schema:  ExtractionRequest,
			body:    `{"filenames":[],"text_content":{}}`,
			wantErr: "keyword_regex",
		},
		{
			name:    "non-numeric page key",
			schema:  ExtractionRequest,
			body:    `{"filenames":[],"keyword_regex":"x","text_content":{"a.pdf":{"one":"x"}}}`,
			wantErr: "/text_content/a.pdf",
		},
		{
			name:    "page text not a string",
			schema:  ExtractionRequest,
			body:    `{"filenames":[],"keyword_regex":"x","text_content":{"a.pdf":{"1":5}}}`,
			wantErr: "/text_content/a.pdf/1",
		},
		{
			name:   "valid guess",
			schema: GuessRegexRequest,
			body:   `{"examples":["A-1","B-2"]}`,
		},
		{
			name:    "examples not strings",
			schema:  GuessRegexRequest,
			body:    `{"examples":[1,2]}`,
			wantErr: "/examples/0",
		},
		{
			name:   "valid export",
			schema: ExportRequest,
			body:   `{"matches":[{"source_file":"a.pdf","project_id":null,"sheet_no":"S1","page":1,"match_found":"x","context":"x"}],"include_context":false}`,
		},
		{
			name:    "export page zero",
			schema:  ExportRequest,
			body:    `{"matches":[{"source_file":"a.pdf","page":0,"match_found":"x","context":"x"}]}`,
			wantErr: "/matches/0/page",
		},
		{
			name:    "malformed json",
			schema:  ExportRequest,
			body:    `{"matches":`,
			wantErr: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, []byte(tt.body))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !strings.Contains(ve.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", ve.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for unknown schema")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Error("unknown schema should not be a ValidationError")
	}
}
