package speech

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/llm"
)

// Synthesizer turns text into a playable clip. Failures are *SynthesisError.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*audio.Clip, error)
}

// LLMSynthesizer implements Synthesizer with a speech model.
type LLMSynthesizer struct {
	provider llm.SpeechProvider
	cfg      Config
}

// NewLLMSynthesizer creates a synthesizer backed by provider.
func NewLLMSynthesizer(provider llm.SpeechProvider, cfg Config) *LLMSynthesizer {
	return &LLMSynthesizer{provider: provider, cfg: cfg}
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Clip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &SynthesisError{Err: errors.New("nothing to say")}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSpeech)
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.provider.Synthesize(ctx, llm.SpeechRequest{Text: text})
	if err != nil {
		return nil, &SynthesisError{Text: text, Err: err}
	}

	clip := &audio.Clip{Data: resp.Audio, MIMEType: resp.MIMEType}
	if clip.Empty() {
		return nil, &SynthesisError{Text: text, Err: errors.New("empty audio")}
	}
	return clip, nil
}
