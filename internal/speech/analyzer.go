package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/llm"
)

// Analyzer scores a recording against a target sentence. Every failure is
// returned as *AnalysisError.
type Analyzer interface {
	Analyze(ctx context.Context, target string, clip *audio.Clip, d Difficulty) (*AnalysisResult, error)
}

// LLMAnalyzer implements Analyzer with a multimodal LLM.
type LLMAnalyzer struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMAnalyzer creates an analyzer backed by provider.
func NewLLMAnalyzer(provider llm.Provider, cfg Config) *LLMAnalyzer {
	return &LLMAnalyzer{provider: provider, cfg: cfg}
}

type analysisOutput struct {
	AccuracyScore      *int     `json:"accuracy_score"`
	Transcription      *string  `json:"transcription"`
	MispronouncedWords []string `json:"mispronounced_words"`
	Feedback           *string  `json:"feedback"`
	Tips               *string  `json:"tips"`
	IsPerfect          bool     `json:"is_perfect"`
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, target string, clip *audio.Clip, d Difficulty) (*AnalysisResult, error) {
	if clip.Empty() {
		return nil, &AnalysisError{Err: errors.New("recording is empty")}
	}
	if !d.Valid() {
		d = DefaultDifficulty
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAnalysis)
	ctx, cancel := withTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	req := llm.Request{
		Instructions: analysisSystemPrompt,
		Prompt:       buildAnalysisUserMessage(target, d),
		Audio:        &llm.Attachment{Data: clip.Data, MIMEType: clip.MIMEType},
		Schema:       AnalysisSchema,
		MaxTokens:    a.cfg.AnalysisMaxTokens,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	result, err := parseAnalysis(resp.Content)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	return result, nil
}

// parseAnalysis decodes and checks a response. Missing fields and
// out-of-range scores are rejected even if the provider skipped schema
// validation.
func parseAnalysis(raw json.RawMessage) (*AnalysisResult, error) {
	var out analysisOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	var missing []string
	if out.AccuracyScore == nil {
		missing = append(missing, "accuracy_score")
	}
	if out.Transcription == nil {
		missing = append(missing, "transcription")
	}
	if out.Feedback == nil {
		missing = append(missing, "feedback")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("analysis response missing %s", strings.Join(missing, ", "))
	}

	score := *out.AccuracyScore
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("accuracy score %d out of range", score)
	}

	words := make([]string, 0, len(out.MispronouncedWords))
	for _, w := range out.MispronouncedWords {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}

	result := &AnalysisResult{
		AccuracyScore:      score,
		Transcription:      strings.TrimSpace(*out.Transcription),
		MispronouncedWords: words,
		Feedback:           strings.TrimSpace(*out.Feedback),
		IsPerfect:          out.IsPerfect,
	}
	if out.Tips != nil {
		result.Tips = strings.TrimSpace(*out.Tips)
	}
	return result, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
