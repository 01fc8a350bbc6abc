// Package speech wraps the remote AI capabilities the coach relies on:
// pronunciation analysis, text-to-speech and practice sentence generation.
package speech

import (
	"fmt"
	"strings"
)

// Difficulty is a leniency tier that only affects how strictly the
// analysis capability scores a recording.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DefaultDifficulty applies when nothing has been stored yet.
const DefaultDifficulty = Medium

// Difficulties lists every tier from most to least lenient.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts a tier name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

// Label is the capitalized display name.
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// AnalysisResult is the outcome of one pronunciation analysis. It is not
// persisted.
type AnalysisResult struct {
	AccuracyScore      int
	Transcription      string
	MispronouncedWords []string
	Feedback           string
	Tips               string
	// IsPerfect is advisory only.
	IsPerfect bool
}

// Clone returns a copy that shares no memory with r.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	c := *r
	c.MispronouncedWords = append([]string(nil), r.MispronouncedWords...)
	return &c
}
