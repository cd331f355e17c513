// Package schema holds the JSON Schemas for request bodies and validates
// payloads against them before they are decoded.
package schema

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names.
const (
	ExtractionRequest = "extraction_request"
	GuessRegexRequest = "guess_regex_request"
	ExportRequest     = "export_request"
)

// Schema is a named JSON Schema document.
type Schema struct {
	Name   string // e.g. "extraction_request"
	Source []byte // raw JSON Schema document
}

var registry = []string{
	ExtractionRequest,
	GuessRegexRequest,
	ExportRequest,
}

// All returns every registered schema sorted by name.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, name := range registry {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}

	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, n := range registry {
		if n != name {
			continue
		}
		content, err := schemaFS.ReadFile(filename(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		return &Schema{Name: name, Source: content}, nil
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func filename(name string) string {
	return "schemas/" + name + ".json"
}
