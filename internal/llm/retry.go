package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// WithRetry retries transient Generate failures with exponential backoff.
// Invalid output gets one more try; permanent errors none.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryingProvider{Provider: p, policy: cfg}
}

type retryingProvider struct {
	Provider
	policy RetryConfig
}

func (r *retryingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return withRetries(ctx, r.policy, func() (*Response, error) {
		return r.Provider.Generate(ctx, req)
	})
}

// WithSpeechRetry applies the same policy to synthesis.
func WithSpeechRetry(p SpeechProvider, cfg RetryConfig) SpeechProvider {
	return &retryingSpeech{SpeechProvider: p, policy: cfg}
}

type retryingSpeech struct {
	SpeechProvider
	policy RetryConfig
}

func (r *retryingSpeech) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	return withRetries(ctx, r.policy, func() (*SpeechResponse, error) {
		return r.SpeechProvider.Synthesize(ctx, req)
	})
}

func withRetries[T any](ctx context.Context, policy RetryConfig, call func() (T, error)) (T, error) {
	var (
		zero          T
		err           error
		invalidBudget = 1
	)
	attempts := max(policy.MaxAttempts, 1)

	for n := 0; n < attempts; n++ {
		if n > 0 {
			t := time.NewTimer(policy.delay(n-1, err))
			select {
			case <-ctx.Done():
				t.Stop()
				return zero, ctx.Err()
			case <-t.C:
			}
		}

		var out T
		if out, err = call(); err == nil {
			return out, nil
		}
		if permanent(err) {
			return zero, err
		}
		var invalid *InvalidOutputError
		if errors.As(err, &invalid) {
			if invalidBudget == 0 {
				return zero, err
			}
			invalidBudget--
		}
	}
	return zero, err
}

// delay is the wait before retry n (0-based), with ±20% jitter. A
// provider-supplied Retry-After wins.
func (p RetryConfig) delay(n int, cause error) time.Duration {
	var rl *RateLimitError
	if errors.As(cause, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(p.InitialWait)
	for range n {
		d *= p.Multiplier
	}
	if p.MaxWait > 0 && d > float64(p.MaxWait) {
		d = float64(p.MaxWait)
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
