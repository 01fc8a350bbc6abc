package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/speakup/internal/store"
)

// WithAudit records every Generate call in repo and at debug level in the
// log. A nil repo only logs.
func WithAudit(p Provider, providerName string, repo store.EventRepo) Provider {
	return &auditedProvider{Provider: p, name: providerName, repo: repo}
}

type auditedProvider struct {
	Provider
	name string
	repo store.EventRepo
}

func (a *auditedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := a.Provider.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    a.name,
		Model:       a.ModelID(),
		Purpose:     string(PurposeOf(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	audit(ctx, a.repo, ev)
	return resp, err
}

// WithSpeechAudit records synthesis calls. InputTokens holds the number of
// characters spoken.
func WithSpeechAudit(p SpeechProvider, providerName string, repo store.EventRepo) SpeechProvider {
	return &auditedSpeech{SpeechProvider: p, name: providerName, repo: repo}
}

type auditedSpeech struct {
	SpeechProvider
	name string
	repo store.EventRepo
}

func (a *auditedSpeech) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	start := time.Now()
	resp, err := a.SpeechProvider.Synthesize(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    a.name,
		Model:       a.ModelID(),
		Purpose:     string(PurposeOf(ctx)),
		InputTokens: len([]rune(req.Text)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: "[speak]\n" + req.Text,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.ResponseBody = fmt.Sprintf("[%s, %d bytes]", resp.MIMEType, len(resp.Audio))
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	audit(ctx, a.repo, ev)
	return resp, err
}

func audit(ctx context.Context, repo store.EventRepo, ev store.LLMRequestEventData) {
	slog.Debug("model call",
		"provider", ev.Provider,
		"model", ev.Model,
		"purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs,
		"ok", ev.Success,
	)
	if repo == nil {
		return
	}
	// The record outlives a cancelled caller.
	if err := repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); err != nil {
		slog.Warn("could not record model call", "error", err)
	}
}

// transcript is the human-readable request stored with each event.
func transcript(req Request) string {
	var b strings.Builder
	section := func(tag, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, body)
	}
	if req.Instructions != "" {
		section("instructions", req.Instructions)
	}
	section("prompt", req.Prompt)
	if req.Audio != nil {
		fmt.Fprintf(&b, "[audio: %s, %d bytes]\n\n", req.Audio.MIMEType, len(req.Audio.Data))
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
