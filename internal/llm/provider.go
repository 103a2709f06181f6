package llm

import (
	"context"
	"encoding/json"
)

// Provider is a chat model behind one of the supported SDKs.
type Provider interface {
	// Generate runs one completion. When req.Schema is set the provider
	// uses its native structured output and Content holds JSON that has
	// been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the concrete model requests are sent to.
	ModelID() string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema for structured output. Name doubles as
// the cache key for the compiled schema and as the tool or format name
// sent to the provider, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a completion request. A zero Temperature is deterministic.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Ask builds a single-turn request.
func Ask(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// StopReason is why a provider stopped generating.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Response is a completion. Content is the validated JSON document for
// structured requests and the model's text otherwise; some providers
// return that text as a JSON string.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Decode unmarshals a structured response into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Text returns the response as plain text, unwrapping a JSON string.
func (r *Response) Text() string {
	var s string
	if json.Unmarshal(r.Content, &s) == nil {
		return s
	}
	return string(r.Content)
}
