package speech

import "time"

// Config holds generation settings for the speech capabilities.
type Config struct {
	AnalysisMaxTokens int
	PhraseMaxTokens   int
	PhraseTemperature float64
	// Timeout bounds a single capability call including retries. Zero
	// means no limit beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AnalysisMaxTokens: 1024,
		PhraseMaxTokens:   128,
		PhraseTemperature: 0.9,
		Timeout:           60 * time.Second,
	}
}
