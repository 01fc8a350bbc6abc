package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/speakup/internal/llm"
)

// PhraseGenerator suggests a new practice sentence. Failures are
// *GenerationError; callers keep their previous target.
type PhraseGenerator interface {
	GeneratePhrase(ctx context.Context, d Difficulty) (string, error)
}

// LLMPhraseGenerator implements PhraseGenerator with any text LLM.
type LLMPhraseGenerator struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMPhraseGenerator creates a generator backed by provider.
func NewLLMPhraseGenerator(provider llm.Provider, cfg Config) *LLMPhraseGenerator {
	return &LLMPhraseGenerator{provider: provider, cfg: cfg}
}

type phraseOutput struct {
	Phrase string `json:"phrase"`
}

func (g *LLMPhraseGenerator) GeneratePhrase(ctx context.Context, d Difficulty) (string, error) {
	if !d.Valid() {
		d = DefaultDifficulty
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePhrase)
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, llm.Request{
		Instructions: phraseSystemPrompt,
		Prompt:       buildPhraseUserMessage(d),
		Schema:       PhraseSchema,
		MaxTokens:    g.cfg.PhraseMaxTokens,
		Temperature:  g.cfg.PhraseTemperature,
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	var out phraseOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &GenerationError{Err: fmt.Errorf("parse phrase response: %w", err)}
	}

	phrase := strings.Trim(strings.TrimSpace(out.Phrase), `"`)
	if phrase == "" {
		return "", &GenerationError{Err: errors.New("empty phrase")}
	}
	return phrase, nil
}
