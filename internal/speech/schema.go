package speech

import "github.com/abhisek/speakup/internal/llm"

// AnalysisSchema defines the JSON schema for pronunciation analysis.
var AnalysisSchema = &llm.Schema{
	Name:        "pronunciation-analysis",
	Description: "Assessment of how accurately a recording pronounces a target sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"accuracy_score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall pronunciation accuracy from 0 to 100",
			},
			"transcription": map[string]any{
				"type":        "string",
				"description": "What the speaker actually said, word for word",
			},
			"mispronounced_words": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Words from the target sentence that were mispronounced, in sentence order",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "1-3 sentences on what went well and what did not",
			},
			"tips": map[string]any{
				"type":        "string",
				"description": "Concrete advice for the mispronounced sounds",
			},
			"is_perfect": map[string]any{
				"type":        "boolean",
				"description": "True when the sentence was pronounced without mistakes",
			},
		},
		"required":             []any{"accuracy_score", "transcription", "mispronounced_words", "feedback", "tips", "is_perfect"},
		"additionalProperties": false,
	},
}

// PhraseSchema defines the JSON schema for practice sentence generation.
var PhraseSchema = &llm.Schema{
	Name:        "practice-phrase",
	Description: "A single English sentence to practice pronouncing",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phrase": map[string]any{
				"type":        "string",
				"description": "The practice sentence",
			},
		},
		"required":             []any{"phrase"},
		"additionalProperties": false,
	},
}
