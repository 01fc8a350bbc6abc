package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, status int, body map[string]any) (*AnthropicProvider, *map[string]any) {
	t.Helper()
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"}, option.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return p, &seen
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p, seen := anthropicServer(t, http.StatusOK,
		anthropicMessage(`{"phrase":"She sells seashells by the seashore."}`, "end_turn"))

	resp, err := p.Generate(context.Background(), Request{
		Instructions: "You write practice sentences.",
		Prompt:       "One medium sentence, please.",
		MaxTokens:    200,
		Temperature:  0.9,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phrase":"She sells seashells by the seashore."}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 42, OutputTokens: 17}, resp.Usage)
	assert.Equal(t, "claude-haiku-4-5", resp.Model)
	assert.False(t, resp.Truncated)

	assert.Equal(t, "claude-haiku-4-5", (*seen)["model"])
	assert.EqualValues(t, 200, (*seen)["max_tokens"])
	msgs, _ := (*seen)["messages"].([]any)
	assert.Len(t, msgs, 1)
}

func TestAnthropicProvider_DefaultMaxTokens(t *testing.T) {
	p, seen := anthropicServer(t, http.StatusOK, anthropicMessage("ok", "end_turn"))

	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.EqualValues(t, anthropicDefaultMaxTokens, (*seen)["max_tokens"])
}

func TestAnthropicProvider_TruncatedJSON(t *testing.T) {
	p, _ := anthropicServer(t, http.StatusOK, anthropicMessage(`{"phrase":"She sel`, "max_tokens"))

	_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: &Schema{
		Name:       "test-anthropic-phrase",
		Definition: map[string]any{"type": "object", "required": []any{"phrase"}},
	}})
	var truncated *TruncatedError
	assert.ErrorAs(t, err, &truncated)
}

func TestAnthropicProvider_HTTPErrors(t *testing.T) {
	apiError := func(kind string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
	}

	t.Run("rate limit", func(t *testing.T) {
		p, _ := anthropicServer(t, http.StatusTooManyRequests, apiError("rate_limit_error"))
		_, err := p.Generate(context.Background(), Request{Prompt: "x"})
		var rl *RateLimitError
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("server error", func(t *testing.T) {
		p, _ := anthropicServer(t, http.StatusInternalServerError, apiError("api_error"))
		_, err := p.Generate(context.Background(), Request{Prompt: "x"})
		var down *UnavailableError
		assert.ErrorAs(t, err, &down)
	})
}

func TestAnthropicProvider_RefusesAudio(t *testing.T) {
	p, seen := anthropicServer(t, http.StatusOK, anthropicMessage("ok", "end_turn"))

	_, err := p.Generate(context.Background(), Request{
		Prompt: "Score this.",
		Audio:  &Attachment{Data: []byte("RIFF"), MIMEType: "audio/wav"},
	})
	var unsupported *UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "anthropic", unsupported.Provider)
	assert.Nil(t, *seen, "nothing is sent")
}

func TestNewAnthropicProvider_NeedsKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
}
