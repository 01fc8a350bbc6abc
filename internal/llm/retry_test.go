package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

var okReply = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &UnavailableError{Provider: "mock", Err: errors.New("connection refused")}}
}

func TestWithRetry(t *testing.T) {
	garbled := MockResponse{Err: &InvalidOutputError{Err: errors.New("not JSON")}}

	tests := []struct {
		name      string
		replies   []MockResponse
		policy    RetryConfig
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{okReply}, fastRetry(), false, 1},
		{"recovers", []MockResponse{down(), okReply}, fastRetry(), false, 2},
		{"gives up", []MockResponse{down(), down(), down(), okReply}, fastRetry(), true, 3},
		{"invalid output retried once", []MockResponse{garbled, garbled, okReply}, fastRetry(), true, 2},
		{"truncation is final", []MockResponse{{Err: &TruncatedError{}}, okReply}, fastRetry(), true, 1},
		{"unsupported is final", []MockResponse{{Err: &UnsupportedInputError{Provider: "anthropic", Input: "audio"}}, okReply}, fastRetry(), true, 1},
		{"rate limit honours retry-after", []MockResponse{{Err: &RateLimitError{RetryAfter: time.Millisecond}}, okReply}, fastRetry(), false, 2},
		{"zero attempts still calls once", []MockResponse{okReply}, RetryConfig{}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			resp, err := WithRetry(mock, tt.policy).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestWithRetry_StopsWhenCancelled(t *testing.T) {
	mock := NewMockProvider(down(), okReply)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestWithRetry_KeepsModelID(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), fastRetry()).ModelID())
}

func TestWithSpeechRetry(t *testing.T) {
	mock := NewMockSpeechProvider(
		MockSpeech{Err: &RateLimitError{RetryAfter: time.Millisecond}},
		MockSpeech{Audio: []byte("RIFFdata")},
	)
	resp, err := WithSpeechRetry(mock, fastRetry()).Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFdata"), resp.Audio)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetryDelay(t *testing.T) {
	p := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}

	first := p.delay(0, errors.New("x"))
	assert.GreaterOrEqual(t, first, 80*time.Millisecond)
	assert.LessOrEqual(t, first, 120*time.Millisecond)

	capped := p.delay(5, errors.New("x"))
	assert.LessOrEqual(t, capped, 360*time.Millisecond)

	assert.Equal(t, 2*time.Second, p.delay(0, &RateLimitError{RetryAfter: 2 * time.Second}))
}
