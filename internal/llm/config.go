package llm

import (
	"fmt"
	"os"
	"time"
)

// Supported provider names.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single LLM request, including retries.
	// Plan generation over a large document is slow, so the default is generous.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Override for proxies and tests.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the defaults studyforge ships with.
// Requests are fail-fast: one attempt, no retry.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 3 * time.Minute,
	}
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// discoveryOrder lists the standard API key env vars per provider, in
// priority order. API_KEY is treated as a Gemini key.
var discoveryOrder = []struct {
	provider string
	envs     []string
}{
	{ProviderGemini, []string{"GEMINI_API_KEY", "API_KEY"}},
	{ProviderOpenAI, []string{"OPENAI_API_KEY"}},
	{ProviderAnthropic, []string{"ANTHROPIC_API_KEY"}},
	{ProviderOpenRouter, []string{"OPENROUTER_API_KEY"}},
}

// DiscoverConfig probes standard API key env vars and fills in the first
// credential found on top of base. The selected provider's own variables
// are tried first, then Gemini → OpenAI → Anthropic → OpenRouter.
// Returns (base, false) if none is found.
func DiscoverConfig(base Config) (Config, bool) {
	for _, d := range discoveryOrder {
		if d.provider != base.Provider {
			continue
		}
		if k := firstEnv(d.envs...); k != "" {
			return base.withKey(d.provider, k), true
		}
	}
	for _, d := range discoveryOrder {
		if k := firstEnv(d.envs...); k != "" {
			return base.withKey(d.provider, k), true
		}
	}
	return base, false
}

func (c Config) withKey(provider, key string) Config {
	c.Provider = provider
	switch provider {
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
	return c
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
// A missing key yields an error wrapping ErrNotConfigured.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("STUDYFORGE_%s_API_KEY is required for the %s provider: %w",
				envName(c.Provider), c.Provider, ErrNotConfigured)
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func envName(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI"
	case ProviderOpenRouter:
		return "OPENROUTER"
	case ProviderAnthropic:
		return "ANTHROPIC"
	default:
		return "GEMINI"
	}
}
