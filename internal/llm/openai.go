package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var openaiAliases = map[string]string{
	"gpt-mini": "gpt-4o-mini",
	"gpt":      "gpt-4o",
}

// OpenAIProvider talks to the chat completions API or any compatible
// endpoint. When it can listen, audio is first run through the
// transcription model and the transcript is added to the prompt.
type OpenAIProvider struct {
	client             *openai.Client
	name               string
	model              string
	transcriptionModel string
	listens            bool
}

// NewOpenAIProvider builds a provider for the OpenAI API, or a compatible
// one when cfg.BaseURL is set.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	transcription := cfg.TranscriptionModel
	if transcription == "" {
		transcription = openai.Whisper1
	}
	return &OpenAIProvider{
		client:             newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		name:               "openai",
		model:              resolveModel(cfg.Model, openaiAliases),
		transcriptionModel: transcription,
		listens:            true,
	}, nil
}

func newOpenAIClient(key, baseURL string) *openai.Client {
	c := openai.DefaultConfig(key)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(c)
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	prompt := req.Prompt
	if req.Audio != nil {
		if !p.listens {
			return nil, &UnsupportedInputError{Provider: p.name, Input: "audio"}
		}
		heard, err := p.transcribe(ctx, req.Audio)
		if err != nil {
			return nil, err
		}
		prompt = withTranscript(prompt, heard)
	}

	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Instructions != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.Instructions,
		})
	}
	chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: prompt,
	})
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, mapOpenAIError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &InvalidOutputError{Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	truncated := choice.FinishReason == openai.FinishReasonLength
	return finish(req, json.RawMessage(choice.Message.Content), resp.Model, usage, truncated)
}

func (p *OpenAIProvider) transcribe(ctx context.Context, a *Attachment) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.transcriptionModel,
		Reader:   bytes.NewReader(a.Data),
		FilePath: "recording" + audioExtension(a.MIMEType),
	})
	if err != nil {
		return "", mapOpenAIError(p.name, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func mapOpenAIError(provider string, err error) error {
	var (
		apiErr *openai.APIError
		reqErr *openai.RequestError
	)
	switch {
	case errors.As(err, &apiErr):
		return fromStatus(provider, apiErr.HTTPStatusCode, err)
	case errors.As(err, &reqErr):
		return fromStatus(provider, reqErr.HTTPStatusCode, err)
	}
	return &UnavailableError{Provider: provider, Err: err}
}

// withTranscript appends what the transcription model heard.
func withTranscript(prompt, heard string) string {
	return fmt.Sprintf("%s\n\nAutomatic transcript of the recording: %q", prompt, heard)
}

// audioExtension picks the file name suffix the transcription endpoint
// uses to detect the format.
func audioExtension(mimeType string) string {
	base, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	sub := path.Base(strings.TrimSpace(base))
	switch sub {
	case "mpeg", "mp3":
		return ".mp3"
	case "ogg", "flac", "webm":
		return "." + sub
	case "mp4", "m4a", "x-m4a":
		return ".m4a"
	}
	return ".wav"
}
