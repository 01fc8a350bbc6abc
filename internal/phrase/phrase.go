// Package phrase holds the persisted library of sentences the user practices.
package phrase

import (
	"time"

	"github.com/abhisek/speakup/internal/store"
)

// MinScore and MaxScore bound LastScore.
const (
	MinScore = 0
	MaxScore = 100
)

// SavedPhrase is a unit of practice content.
type SavedPhrase struct {
	ID            string
	Text          string
	Note          string
	Timestamp     time.Time
	LastScore     *int // nil until the phrase is first scored
	PracticeCount int
}

// Clone returns a deep copy that shares no memory with p.
func (p SavedPhrase) Clone() SavedPhrase {
	if p.LastScore != nil {
		v := *p.LastScore
		p.LastScore = &v
	}
	return p
}

// Scored reports whether the phrase has been scored at least once.
func (p SavedPhrase) Scored() bool {
	return p.LastScore != nil
}

func clampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}

func toRecord(p SavedPhrase) store.PhraseRecord {
	p = p.Clone()
	return store.PhraseRecord{
		ID:            p.ID,
		Text:          p.Text,
		Note:          p.Note,
		Timestamp:     p.Timestamp,
		LastScore:     p.LastScore,
		PracticeCount: p.PracticeCount,
	}
}

func fromRecord(r store.PhraseRecord) SavedPhrase {
	return SavedPhrase{
		ID:            r.ID,
		Text:          r.Text,
		Note:          r.Note,
		Timestamp:     r.Timestamp,
		LastScore:     r.LastScore,
		PracticeCount: r.PracticeCount,
	}.Clone()
}
