package llm

import "testing"

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string", "description": "stem"},
						"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"answer":   map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
						"marks":    map[string]any{"type": "integer"},
					},
					"required": []any{"question", "options", "answer"},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	questions := schema.Properties["questions"]
	if questions == nil || questions.Type != "ARRAY" {
		t.Fatalf("questions = %+v", questions)
	}
	item := questions.Items
	if item.Type != "OBJECT" || len(item.Properties) != 4 {
		t.Fatalf("item = %+v", item)
	}
	if item.Properties["question"].Description != "stem" {
		t.Errorf("description lost")
	}
	if item.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options items = %s", item.Properties["options"].Items.Type)
	}
	if len(item.Properties["answer"].Enum) != 4 {
		t.Errorf("answer enum = %v", item.Properties["answer"].Enum)
	}
	if item.Properties["marks"].Type != "INTEGER" {
		t.Errorf("marks = %s", item.Properties["marks"].Type)
	}
	if len(item.Required) != 3 || len(schema.Required) != 1 {
		t.Errorf("required = %v / %v", item.Required, schema.Required)
	}
}
