package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// schemaMode selects how a Request.Schema is conveyed to the API.
type schemaMode int

const (
	// schemaStrict uses the json_schema response format.
	schemaStrict schemaMode = iota
	// schemaInPrompt asks for a json_object and embeds the schema in the
	// system prompt, for endpoints without json_schema support.
	schemaInPrompt
)

// OpenAIProvider talks to the Chat Completions API of OpenAI or of a
// compatible endpoint (Groq, OpenRouter) selected by BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	mode   schemaMode
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(oc),
		model:  resolveModel(ProviderOpenAI, cfg.Model),
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Schema != nil && p.mode == schemaInPrompt {
		system, err := schemaPrompt(req.System, req.Schema)
		if err != nil {
			return nil, err
		}
		req.System = system
	}
	format, err := p.responseFormat(req.Schema)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            chatMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		ResponseFormat:      format,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(apiErr.HTTPStatusCode, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no choices in completion")}
	}

	c := completion{
		content: json.RawMessage(resp.Choices[0].Message.Content),
		stop:    StopEnd,
		usage:   Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens},
		model:   resp.Model,
	}
	if resp.Choices[0].FinishReason == openai.FinishReasonLength {
		c.stop = StopMaxTokens
	}
	return finish(req, c)
}

// responseFormat is nil for free text, a json_object for schemaInPrompt
// endpoints and a strict json_schema otherwise.
func (p *OpenAIProvider) responseFormat(schema *Schema) (*openai.ChatCompletionResponseFormat, error) {
	switch {
	case schema == nil:
		return nil, nil
	case p.mode == schemaInPrompt:
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}, nil
	}
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   schema.Name,
			Schema: json.RawMessage(def),
			Strict: true,
		},
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// schemaPrompt appends the JSON schema to a system prompt.
func schemaPrompt(system string, schema *Schema) (string, error) {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	var b strings.Builder
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a single JSON object that conforms to this JSON Schema")
	if schema.Description != "" {
		b.WriteString(" (" + schema.Description + ")")
	}
	b.WriteString(":\n")
	b.Write(def)
	return b.String(), nil
}

func chatMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
