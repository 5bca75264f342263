package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()

	if schema.Schema != "https://json-schema.org/draft/2020-12/schema" {
		t.Errorf("Schema = %s, want draft/2020-12", schema.Schema)
	}
	if schema.Type != "object" {
		t.Errorf("Type = %s, want object", schema.Type)
	}

	for _, prop := range []string{"root", "logging", "batch", "compiler", "merge", "render", "publish", "resilience", "watch"} {
		if _, ok := schema.Properties[prop]; !ok {
			t.Errorf("missing property: %s", prop)
		}
	}

	batch := schema.Properties["batch"]
	if got := batch.Properties["pages"].Default; got != 10 {
		t.Errorf("batch.pages default = %v, want 10", got)
	}
	backend := schema.Properties["compiler"].Properties["backend"]
	if len(backend.Enum) != 2 {
		t.Errorf("compiler.backend enum = %v", backend.Enum)
	}
}

func TestSchemaJSON(t *testing.T) {
	out, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("SchemaJSON() produced invalid JSON: %v", err)
	}
	if decoded["title"] != "Worksheet Configuration" {
		t.Errorf("title = %v", decoded["title"])
	}
}
