package llm

import "strings"

// ModelCost is list pricing in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// modelPrices is matched by longest prefix, so dated snapshots such as
// "claude-haiku-4-5-20251001" or "gpt-4o-mini-2024-07-18" find their base
// model. OpenAI TTS is billed per character, which the speech audit stores
// as input tokens.
var modelPrices = []struct {
	prefix string
	cost   ModelCost
}{
	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-3-5-haiku", ModelCost{0.8, 4}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
	{"claude-opus-4", ModelCost{15, 75}},

	{"gpt-4o-mini-tts", ModelCost{0.6, 12}},
	{"gpt-4o-mini", ModelCost{0.15, 0.6}},
	{"gpt-4o", ModelCost{2.5, 10}},
	{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
	{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5-nano", ModelCost{0.05, 0.4}},
	{"gpt-5", ModelCost{1.25, 10}},
	{"tts-1-hd", ModelCost{30, 0}},
	{"tts-1", ModelCost{15, 0}},

	{"gemini-2.5-flash-preview-tts", ModelCost{0.5, 10}},
	{"gemini-2.5-pro-preview-tts", ModelCost{1, 20}},
	{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},
	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.3}},
	{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{"gemini-3-flash", ModelCost{0.5, 3}},
	{"gemini-3-pro", ModelCost{2, 12}},
	{"gemini-flash-latest", ModelCost{0.3, 2.5}},
}

// LookupCost returns pricing for a model id, or nil if unknown. OpenRouter
// ids ("google/gemini-2.5-flash") are matched on the part after the slash.
func LookupCost(modelID string) *ModelCost {
	if _, after, ok := strings.Cut(modelID, "/"); ok {
		modelID = after
	}
	var (
		best    *ModelCost
		bestLen int
	)
	for i := range modelPrices {
		p := &modelPrices[i]
		if strings.HasPrefix(modelID, p.prefix) && len(p.prefix) > bestLen {
			c := p.cost
			best, bestLen = &c, len(p.prefix)
		}
	}
	return best
}
