package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/store"
)

// NewProvider creates a Provider from configuration.
// The base provider is wrapped as: caller → timeout → retry → logging → base.
// eventRepo and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if logger != nil {
		logger.Info("llm provider ready",
			zap.String("provider", cfg.Provider),
			zap.String("model", base.ModelID()),
			zap.Int("max_attempts", cfg.Retry.MaxAttempts),
			zap.Duration("timeout", cfg.Timeout))
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}
