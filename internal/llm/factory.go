package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/speakup/internal/store"
)

type providerCtor func(ctx context.Context, cfg Config) (Provider, error)

var providerCtors = map[string]providerCtor{
	"anthropic": func(_ context.Context, cfg Config) (Provider, error) {
		return NewAnthropicProvider(cfg.Anthropic)
	},
	"openai": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	},
	"gemini": func(ctx context.Context, cfg Config) (Provider, error) {
		return NewGeminiProvider(ctx, cfg.Gemini)
	},
	"openrouter": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenRouterProvider(cfg.OpenRouter)
	},
}

type speechCtor func(ctx context.Context, cfg Config) (SpeechProvider, error)

var speechCtors = map[string]speechCtor{
	"gemini": func(ctx context.Context, cfg Config) (SpeechProvider, error) {
		return NewGeminiSpeechProvider(ctx, cfg.Gemini)
	},
	"openai": func(_ context.Context, cfg Config) (SpeechProvider, error) {
		return NewOpenAISpeechProvider(cfg.OpenAI)
	},
}

// NewProvider builds the text provider named by cfg.Provider. Calls are
// retried and every attempt is recorded in events.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	ctor, ok := providerCtors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	p, err := ctor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithAudit(p, cfg.Provider, events), cfg.Retry), nil
}

// NewSpeechProvider builds the text-to-speech backend chosen by
// cfg.ResolvedSpeechProvider, wrapped the same way as NewProvider.
func NewSpeechProvider(ctx context.Context, cfg Config, events store.EventRepo) (SpeechProvider, error) {
	name := cfg.ResolvedSpeechProvider()
	switch name {
	case "mock":
		return NewMockSpeechProvider(), nil
	case "":
		return nil, fmt.Errorf("no speech provider available for %q; set a Gemini or OpenAI key", cfg.Provider)
	}
	ctor, ok := speechCtors[name]
	if !ok {
		return nil, fmt.Errorf("unknown speech provider %q", name)
	}
	p, err := ctor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s speech provider: %w", name, err)
	}
	return WithSpeechRetry(WithSpeechAudit(p, name, events), cfg.Retry), nil
}
