package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/abhisek/speakup/internal/audio"
)

// SpeechProvider turns text into spoken audio.
type SpeechProvider interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error)
	ModelID() string
}

// SpeechRequest describes one synthesis call.
type SpeechRequest struct {
	Text string
	// Voice overrides the configured voice when set.
	Voice string
}

// SpeechResponse holds synthesized audio, always as a WAV container.
type SpeechResponse struct {
	Audio    []byte
	MIMEType string
	Model    string
}

var geminiSpeechAliases = map[string]string{
	"gemini-tts":     "gemini-2.5-flash-preview-tts",
	"gemini-pro-tts": "gemini-2.5-pro-preview-tts",
}

// GeminiSpeechProvider synthesizes speech with a Gemini TTS model.
type GeminiSpeechProvider struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSpeechProvider creates a Gemini speech provider.
func NewGeminiSpeechProvider(ctx context.Context, cfg GeminiConfig) (*GeminiSpeechProvider, error) {
	client, err := newGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	return &GeminiSpeechProvider{
		client: client,
		model:  resolveModel(cfg.SpeechModel, geminiSpeechAliases),
		voice:  cfg.Voice,
	}, nil
}

func (p *GeminiSpeechProvider) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Text), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	blob := firstInlineData(result)
	if blob == nil || len(blob.Data) == 0 {
		return nil, &InvalidOutputError{Err: errors.New("no audio in Gemini reply")}
	}

	data := blob.Data
	if audio.IsRawPCM(blob.MIMEType) {
		rate, ok := audio.PCMRate(blob.MIMEType)
		if !ok {
			rate = 24000
		}
		data = audio.EncodeWAV(data, rate, 1)
	}

	return &SpeechResponse{Audio: data, MIMEType: audio.MIMEWAV, Model: p.model}, nil
}

func (p *GeminiSpeechProvider) ModelID() string {
	return p.model
}

func firstInlineData(result *genai.GenerateContentResponse) *genai.Blob {
	for _, c := range result.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

// OpenAISpeechProvider synthesizes speech with the OpenAI audio API.
type OpenAISpeechProvider struct {
	client *openai.Client
	model  string
	voice  string
}

// NewOpenAISpeechProvider creates an OpenAI speech provider.
func NewOpenAISpeechProvider(cfg OpenAIConfig) (*OpenAISpeechProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	model := cfg.SpeechModel
	if model == "" {
		model = string(openai.TTSModel1)
	}

	return &OpenAISpeechProvider{
		client: newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		model:  model,
		voice:  cfg.Voice,
	}, nil
}

func (p *OpenAISpeechProvider) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return nil, mapOpenAIError("openai", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, &UnavailableError{Provider: "openai", Err: fmt.Errorf("read speech: %w", err)}
	}
	if len(data) == 0 {
		return nil, &InvalidOutputError{Err: errors.New("empty speech reply")}
	}

	return &SpeechResponse{Audio: data, MIMEType: audio.MIMEWAV, Model: p.model}, nil
}

func (p *OpenAISpeechProvider) ModelID() string {
	return p.model
}
