package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError is a 429 from the provider.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// InvalidOutputError means the model replied with something that is not
// the JSON the request asked for.
type InvalidOutputError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("invalid model output: %v", e.Err)
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

// UnavailableError covers network failures and server-side errors.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	name := e.Provider
	if name == "" {
		name = "model provider"
	}
	if e.Err == nil {
		return name + " unavailable"
	}
	return fmt.Sprintf("%s unavailable: %v", name, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TruncatedError means the reply hit the token limit before the JSON was
// complete.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "model output truncated at the token limit"
}

// UnsupportedInputError is returned without contacting the API when a
// provider cannot take part of the request, such as audio.
type UnsupportedInputError struct {
	Provider string
	Input    string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("%s provider does not support %s input", e.Provider, e.Input)
}

// fromStatus maps an HTTP status reported by an SDK to one of the errors
// above.
func fromStatus(provider string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &UnavailableError{Provider: provider, Err: err}
}

// permanent reports errors that another attempt cannot fix.
func permanent(err error) bool {
	var (
		truncated   *TruncatedError
		unsupported *UnsupportedInputError
	)
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &truncated) ||
		errors.As(err, &unsupported)
}
