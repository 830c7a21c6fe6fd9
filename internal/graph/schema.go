package graph

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const mindmapSchemaURL = "https://mindgraph.local/mindmap.schema.json"

//go:embed mindmap.schema.json
var mindmapSchemaJSON string

var (
	schemaOnce       sync.Once
	mindmapSchema    *jsonschema.Schema
	mindmapSchemaErr error
)

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(mindmapSchemaURL, strings.NewReader(mindmapSchemaJSON)); err != nil {
			mindmapSchemaErr = err
			return
		}
		mindmapSchema, mindmapSchemaErr = compiler.Compile(mindmapSchemaURL)
	})
	return mindmapSchema, mindmapSchemaErr
}

// ValidateJSON checks an encoded mindmap against the wire contract.
func ValidateJSON(raw []byte) error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile mindmap schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize mindmap for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("mindmap schema validation failed: %w", err)
	}
	return nil
}

// Validate encodes m and checks it against the wire contract.
func (m *Mindmap) Validate() error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal mindmap for schema validation: %w", err)
	}
	return ValidateJSON(raw)
}
