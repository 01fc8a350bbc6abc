package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match, empty for all
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// PhraseRecord is the persisted form of a saved phrase.
type PhraseRecord struct {
	ID            string
	Text          string
	Note          string
	Timestamp     time.Time
	LastScore     *int
	PracticeCount int
}

// PhraseRepo persists the ordered phrase library.
type PhraseRepo interface {
	// LoadPhrases returns every stored phrase in library order.
	LoadPhrases(ctx context.Context) ([]PhraseRecord, error)

	// ReplacePhrases atomically replaces the stored sequence with records,
	// preserving their order.
	ReplacePhrases(ctx context.Context, records []PhraseRecord) error
}

// SettingsRepo is a small key/value store for user preferences.
type SettingsRepo interface {
	// GetSetting returns the stored value and whether the key exists.
	GetSetting(ctx context.Context, key string) (string, bool, error)

	// PutSetting inserts or overwrites the value for key.
	PutSetting(ctx context.Context, key, value string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides access to recorded LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
