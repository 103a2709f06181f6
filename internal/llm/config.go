package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderGroq       = "groq"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter CompatConfig
	Groq       CompatConfig
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// CompatConfig configures an OpenAI-compatible endpoint such as OpenRouter
// or Groq. An empty BaseURL selects the provider's public endpoint.
type CompatConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGroq,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: CompatConfig{Model: "google/gemini-2.0-flash-exp"},
		Groq:       CompatConfig{Model: "llama-3.1-8b-instant"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 2 * time.Second,
			MaxWait:     15 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envBinding ties an environment variable to a config field.
type envBinding struct {
	name string
	dst  *string
}

func (c *Config) envBindings() []envBinding {
	return []envBinding{
		{"JEEACE_LLM_PROVIDER", &c.Provider},
		{"JEEACE_ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"JEEACE_ANTHROPIC_MODEL", &c.Anthropic.Model},
		{"JEEACE_OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"JEEACE_OPENAI_MODEL", &c.OpenAI.Model},
		{"JEEACE_OPENAI_BASE_URL", &c.OpenAI.BaseURL},
		{"JEEACE_GEMINI_API_KEY", &c.Gemini.APIKey},
		{"JEEACE_GEMINI_MODEL", &c.Gemini.Model},
		{"JEEACE_OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
		{"JEEACE_OPENROUTER_MODEL", &c.OpenRouter.Model},
		{"JEEACE_GROQ_API_KEY", &c.Groq.APIKey},
		{"JEEACE_GROQ_MODEL", &c.Groq.Model},
		{"JEEACE_GROQ_BASE_URL", &c.Groq.BaseURL},
	}
}

// ConfigFromEnv builds a Config from JEEACE_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range cfg.envBindings() {
		if v := os.Getenv(b.name); v != "" {
			*b.dst = v
		}
	}
	return cfg
}

// DiscoverConfig probes the conventional *_API_KEY variables in priority
// order (Groq, Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config
// for the first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	probes := []struct {
		env      string
		provider string
		dst      *string
	}{
		{"GROQ_API_KEY", ProviderGroq, &cfg.Groq.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.dst = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve returns ConfigFromEnv when JEEACE_LLM_PROVIDER is set and
// otherwise falls back to DiscoverConfig.
func Resolve() (Config, error) {
	if os.Getenv("JEEACE_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		return cfg, cfg.Validate()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	return Config{}, fmt.Errorf("no LLM provider configured: set JEEACE_LLM_PROVIDER or one of GROQ_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderGroq:
		key = c.Groq.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("JEEACE_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
