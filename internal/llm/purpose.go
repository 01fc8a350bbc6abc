package llm

import "context"

// Purpose labels a call in the request log.
type Purpose string

const (
	PurposeAnalysis Purpose = "analysis"
	PurposeSpeech   Purpose = "tts"
	PurposePhrase   Purpose = "phrase-gen"
	purposeOther    Purpose = "other"
)

type purposeKey struct{}

// WithPurpose tags every call made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeOf returns the tag set by WithPurpose, or "other".
func PurposeOf(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return purposeOther
}
