package llm

import "errors"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider reaches OpenRouter through its OpenAI-compatible
// API. Model ids such as "google/gemini-2.5-flash" pass through untouched.
// OpenRouter has no transcription endpoint, so audio is refused.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return &OpenAIProvider{
		client: newOpenAIClient(cfg.APIKey, baseURL),
		name:   "openrouter",
		model:  cfg.Model,
	}, nil
}
