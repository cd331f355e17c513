package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError reports a request body that does not satisfy its schema.
type ValidationError struct {
	Schema string
	Msg    string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// compileAll compiles every embedded schema exactly once.
func compileAll() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		schemas, err := All()
		if err != nil {
			compileErr = err
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		for _, s := range schemas {
			if err := compiler.AddResource(s.Name+".json", bytes.NewReader(s.Source)); err != nil {
				compileErr = fmt.Errorf("failed to load schema %s: %w", s.Name, err)
				return
			}
		}

		out := make(map[string]*jsonschema.Schema, len(schemas))
		for _, s := range schemas {
			sch, err := compiler.Compile(s.Name + ".json")
			if err != nil {
				compileErr = fmt.Errorf("failed to compile schema %s: %w", s.Name, err)
				return
			}
			out[s.Name] = sch
		}
		compiled = out
	})
	return compiled, compileErr
}

// Validate checks a raw JSON body against the named schema. Malformed JSON
// and schema violations are both reported as *ValidationError.
func Validate(name string, body []byte) error {
	schemas, err := compileAll()
	if err != nil {
		return err
	}
	sch, ok := schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Schema: name, Msg: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if dec.More() {
		return &ValidationError{Schema: name, Msg: "invalid JSON: trailing data after request body"}
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Schema: name, Msg: describe(ve)}
		}
		return fmt.Errorf("failed to validate against %s: %w", name, err)
	}
	return nil
}

// describe flattens the leaf causes of a validation failure into one line.
func describe(ve *jsonschema.ValidationError) string {
	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(leaves, "; ")
}
