package questiongen

import "github.com/jeeace/jeeace/internal/llm"

// BatchSchema defines the JSON schema for a batch of generated MCQs.
var BatchSchema = &llm.Schema{
	Name:        "jee-mcq-batch",
	Description: "A batch of JEE multiple-choice questions, each with four options and one correct letter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question stem. Inline math in $...$, display math in $$...$$",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly four option texts, in A-D order, without the letter prefix",
						},
						"answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "Letter of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Short worked solution",
						},
					},
					"required":             []any{"question", "options", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}
