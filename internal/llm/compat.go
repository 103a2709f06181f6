package llm

import "fmt"

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultGroqBaseURL       = "https://api.groq.com/openai/v1"
)

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// OpenRouter speaks the OpenAI protocol with json_schema support.
func NewOpenRouterProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	return newCompatProvider(ProviderOpenRouter, cfg, defaultOpenRouterBaseURL, schemaStrict)
}

// NewGroqProvider creates a provider targeting Groq's OpenAI-compatible
// endpoint. Groq models only honor json_object output, so schemas travel
// in the system prompt and are validated on return.
func NewGroqProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	return newCompatProvider(ProviderGroq, cfg, defaultGroqBaseURL, schemaInPrompt)
}

func newCompatProvider(name string, cfg CompatConfig, defaultBaseURL string, mode schemaMode) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(name, cfg.Model),
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	p.mode = mode
	return p, nil
}
