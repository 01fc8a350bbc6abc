package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the AI backends. It is the "llm" section
// of the YAML config file.
type Config struct {
	// Provider answers analysis and phrase requests: anthropic, openai,
	// gemini, openrouter or mock.
	Provider string `yaml:"provider"`

	// SpeechProvider reads sentences aloud: gemini, openai or mock. Empty
	// follows Provider when it can speak.
	SpeechProvider string `yaml:"speech_provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one request, retries included.
	Timeout time.Duration `yaml:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// BaseURL points the client at an OpenAI-compatible server.
	BaseURL            string `yaml:"base_url"`
	TranscriptionModel string `yaml:"transcription_model"`
	SpeechModel        string `yaml:"speech_model"`
	Voice              string `yaml:"voice"`
}

type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	SpeechModel string `yaml:"speech_model"`
	Voice       string `yaml:"voice"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig shapes the backoff between attempts at a failed request.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI: OpenAIConfig{
			Model:              "gpt-4o-mini",
			TranscriptionModel: "whisper-1",
			SpeechModel:        "tts-1",
			Voice:              "alloy",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-flash",
			SpeechModel: "gemini-tts",
			Voice:       "Kore",
		},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: time.Minute,
	}
}

// ConfigFromEnv is DefaultConfig with ApplyEnv applied.
func ConfigFromEnv() Config {
	c := DefaultConfig()
	c.ApplyEnv()
	return c
}

// ApplyEnv overrides c with any SPEAKUP_* variables that are set.
func (c *Config) ApplyEnv() {
	for key, dst := range map[string]*string{
		"SPEAKUP_LLM_PROVIDER":       &c.Provider,
		"SPEAKUP_SPEECH_PROVIDER":    &c.SpeechProvider,
		"SPEAKUP_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"SPEAKUP_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"SPEAKUP_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"SPEAKUP_OPENAI_MODEL":       &c.OpenAI.Model,
		"SPEAKUP_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"SPEAKUP_OPENAI_VOICE":       &c.OpenAI.Voice,
		"SPEAKUP_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"SPEAKUP_GEMINI_MODEL":       &c.Gemini.Model,
		"SPEAKUP_GEMINI_VOICE":       &c.Gemini.Voice,
		"SPEAKUP_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"SPEAKUP_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("SPEAKUP_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// keyed lists the providers that need an API key, in discovery priority.
var keyed = []struct {
	name string
	env  string // standard variable the vendor SDKs read
	key  func(*Config) *string
}{
	{"gemini", "GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"openai", "OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"anthropic", "ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"openrouter", "OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// HasCredentials reports whether the selected provider can be built.
func (c Config) HasCredentials() bool {
	return c.Validate() == nil
}

// DiscoverKeys fills empty keys from the vendors' standard variables. If
// the selected provider still lacks a key, the first provider that has
// one takes over.
func (c *Config) DiscoverKeys() {
	for _, k := range keyed {
		if dst := k.key(c); *dst == "" {
			*dst = os.Getenv(k.env)
		}
	}
	if c.HasCredentials() {
		return
	}
	for _, k := range keyed {
		if *k.key(c) != "" {
			c.Provider = k.name
			return
		}
	}
}

// ResolvedSpeechProvider returns the speech backend to use, or "" when
// nothing configured can speak.
func (c Config) ResolvedSpeechProvider() string {
	if c.SpeechProvider != "" {
		return c.SpeechProvider
	}
	switch c.Provider {
	case "gemini", "openai", "mock":
		return c.Provider
	}
	if c.Gemini.APIKey != "" {
		return "gemini"
	}
	if c.OpenAI.APIKey != "" {
		return "openai"
	}
	return ""
}

// Validate reports an unknown provider or a missing key for the selected one.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	for _, k := range keyed {
		if k.name != c.Provider {
			continue
		}
		if *k.key(&c) == "" {
			return fmt.Errorf("%s needs an API key: set %s or SPEAKUP_%s", k.name, k.env, k.env)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
