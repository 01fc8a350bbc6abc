// Package llm talks to the hosted models behind pronunciation analysis,
// sentence generation and text-to-speech.
package llm

import (
	"context"
	"encoding/json"
)

// Provider runs single-turn prompts against one model.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is one prompt. Every caller in speakup asks a single question,
// so there is no conversation history.
type Request struct {
	// Instructions is the system prompt.
	Instructions string

	// Prompt is the user turn.
	Prompt string

	// Audio rides along with the prompt. Providers that cannot listen
	// either transcribe it first or fail with *UnsupportedInputError.
	Audio *Attachment

	// Schema asks for structured JSON output. Without it Content is the
	// raw model text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Attachment is inline binary input.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Schema names a JSON Schema the response has to satisfy.
type Schema struct {
	// Name is a kebab-case identifier such as "pronunciation-analysis".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model reply. When the request carried a Schema, Content
// has already been validated against it.
type Response struct {
	Content   json.RawMessage
	Usage     Usage
	Model     string
	Truncated bool
}

// Usage is the token count reported for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish turns raw model output into a Response, checking it against the
// request schema. A truncated reply that fails validation is reported as
// *TruncatedError so it is not retried.
func finish(req Request, content json.RawMessage, model string, usage Usage, truncated bool) (*Response, error) {
	if req.Schema != nil {
		if err := schemas.check(req.Schema, content); err != nil {
			if truncated {
				return nil, &TruncatedError{Content: content}
			}
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, Truncated: truncated}, nil
}

// resolveModel maps a short alias to a full model id. Unknown names are
// passed through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
