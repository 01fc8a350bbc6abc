package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiAliases = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider uses the Gemini API. It takes audio inline, which makes it
// the default for pronunciation analysis.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a provider from cfg.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	client, err := newGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiAliases)}, nil
}

func newGeminiClient(ctx context.Context, key string) (*genai.Client, error) {
	if key == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return client, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		conf.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.Instructions != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req), conf)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	var (
		usage     Usage
		truncated bool
	)
	if m := result.UsageMetadata; m != nil {
		usage = Usage{InputTokens: int(m.PromptTokenCount), OutputTokens: int(m.CandidatesTokenCount)}
	}
	if len(result.Candidates) > 0 {
		truncated = result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	model := p.model
	if result.ModelVersion != "" {
		model = result.ModelVersion
	}
	return finish(req, json.RawMessage(result.Text()), model, usage, truncated)
}

// geminiContents is the single user turn: the prompt text followed by the
// audio, if any.
func geminiContents(req Request) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Audio != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Audio.Data, req.Audio.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// geminiSchema converts the subset of JSON Schema speakup uses (type,
// description, properties, required, enum, items, minimum, maximum).
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	for key, v := range def {
		switch key {
		case "type":
			if t, ok := geminiTypes[fmt.Sprint(v)]; ok {
				s.Type = t
			}
		case "description":
			s.Description, _ = v.(string)
		case "properties":
			props, _ := v.(map[string]any)
			s.Properties = make(map[string]*genai.Schema, len(props))
			for name, pv := range props {
				if pdef, ok := pv.(map[string]any); ok {
					s.Properties[name] = geminiSchema(pdef)
				}
			}
		case "items":
			if idef, ok := v.(map[string]any); ok {
				s.Items = geminiSchema(idef)
			}
		case "required":
			s.Required = stringList(v)
		case "enum":
			s.Enum = stringList(v)
		case "minimum":
			if f, ok := number(v); ok {
				s.Minimum = &f
			}
		case "maximum":
			if f, ok := number(v); ok {
				s.Maximum = &f
			}
		}
	}
	return s
}

func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func mapGeminiError(err error) error {
	// The SDK returns APIError by value.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus("gemini", apiErr.Code, err)
	}
	return &UnavailableError{Provider: "gemini", Err: err}
}
