package llm

import (
	"encoding/json"
	"net/http"
)

// modelAliases maps short model names accepted in configuration to the
// provider's model ids, per provider.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-haiku":  "claude-haiku-4-5",
		"claude-sonnet": "claude-sonnet-4-5",
	},
	ProviderOpenAI: {
		"gpt-mini": "gpt-4o-mini",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.5-flash",
		"gemini-pro":   "gemini-2.5-pro",
	},
	ProviderGroq: {
		"llama-8b":  "llama-3.1-8b-instant",
		"llama-70b": "llama-3.3-70b-versatile",
	},
}

// resolveModel expands an alias for provider; other names pass through as
// model ids.
func resolveModel(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}

// completion is what an adapter extracted from its SDK's response.
type completion struct {
	content json.RawMessage
	stop    StopReason
	usage   Usage
	model   string
}

// finish turns a completion into a Response. Structured output that hit
// the token limit is rejected; otherwise it is unfenced and validated
// against the request schema.
func finish(req Request, c completion) (*Response, error) {
	if req.Schema != nil {
		if c.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: c.content}
		}
		c.content = trimJSON(c.content)
		if err := validateResponse(req.Schema, c.content); err != nil {
			return nil, err
		}
	}
	if c.stop == "" {
		c.stop = StopEnd
	}
	return &Response{
		Content:    c.content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// statusError classifies an SDK error by its HTTP status. Everything but
// a 429 is treated as the provider being unavailable.
func statusError(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
