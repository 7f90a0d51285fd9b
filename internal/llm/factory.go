package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/wordiz/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → events → base. Every attempt is logged as its own event.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		base = WithEvents(base, events, log)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv builds a provider from WORDIZ_ variables when any are
// set, otherwise from the first vendor API key DiscoverConfig finds.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo, log *slog.Logger) (Provider, error) {
	cfg, ok := ConfigFromEnv(), Configured()
	if !ok {
		cfg, ok = DiscoverConfig()
	}
	if !ok {
		return nil, ErrNotConfigured
	}
	return NewProvider(ctx, cfg, events, log)
}
