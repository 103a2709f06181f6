package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, mode schemaMode, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
		mode:   mode,
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

var answerSchema = &Schema{
	Name:        "mcq-answer",
	Description: "single answer letter",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"answer": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}}},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	p := newTestOpenAIProvider(t, schemaStrict, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"answer":"C"}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a JEE physics tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Pick an answer."}},
		Schema:    answerSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"answer":"C"}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestOpenAIProvider_SchemaModes(t *testing.T) {
	tests := []struct {
		name         string
		mode         schemaMode
		wantFormat   string
		wantInSystem bool
	}{
		{"strict", schemaStrict, "json_schema", false},
		{"in prompt", schemaInPrompt, "json_object", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got openai.ChatCompletionRequest
			p := newTestOpenAIProvider(t, tt.mode, func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode request: %v", err)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(chatCompletion(`{"answer":"A"}`, "stop"))
			})

			_, err := p.Generate(context.Background(), Request{
				System:   "sys",
				Messages: []Message{{Role: RoleUser, Content: "go"}},
				Schema:   answerSchema,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ResponseFormat == nil || string(got.ResponseFormat.Type) != tt.wantFormat {
				t.Fatalf("response_format = %+v, want %s", got.ResponseFormat, tt.wantFormat)
			}
			system := got.Messages[0].Content
			if strings.Contains(system, `"enum"`) != tt.wantInSystem {
				t.Errorf("schema in system prompt = %v, want %v: %q", !tt.wantInSystem, tt.wantInSystem, system)
			}
			if !strings.HasPrefix(system, "sys") {
				t.Errorf("system prompt lost: %q", system)
			}
		})
	}
}

func TestOpenAIProvider_InvalidJSONAgainstSchema(t *testing.T) {
	p := newTestOpenAIProvider(t, schemaInPrompt, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"answer":"E"}`, "stop"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "go"}},
		Schema:   answerSchema,
	})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, schemaStrict, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"answ`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "go"}},
		Schema:   answerSchema,
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var unavail *ErrProviderUnavailable
			return errors.As(err, &unavail)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, schemaStrict, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func TestCompatProviders(t *testing.T) {
	groq, err := NewGroqProvider(CompatConfig{APIKey: "gsk-test", Model: "llama-70b"})
	if err != nil {
		t.Fatalf("groq: %v", err)
	}
	if groq.ModelID() != "llama-3.3-70b-versatile" {
		t.Errorf("groq model = %q", groq.ModelID())
	}
	if groq.mode != schemaInPrompt {
		t.Error("groq should embed schema in prompt")
	}

	or, err := NewOpenRouterProvider(CompatConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("openrouter: %v", err)
	}
	if or.ModelID() != "anthropic/claude-3-haiku" || or.mode != schemaStrict {
		t.Errorf("openrouter = %q mode %d", or.ModelID(), or.mode)
	}

	if _, err := NewGroqProvider(CompatConfig{}); err == nil {
		t.Error("expected error for missing groq key")
	}
}
