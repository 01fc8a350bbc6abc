// Package exercise runs drills over the saved phrase library: each phrase is
// written from memory, then spoken, before the drill moves on.
package exercise

import (
	"cmp"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/practice"
)

// Step is the position of the current phrase in its writing then speaking
// cycle.
type Step int

const (
	StepWriting Step = iota
	StepResult
	StepSpeaking
	StepFinished
)

func (s Step) String() string {
	switch s {
	case StepWriting:
		return "writing"
	case StepResult:
		return "result"
	case StepSpeaking:
		return "speaking"
	case StepFinished:
		return "finished"
	}
	return "unknown"
}

var (
	ErrEmptyLibrary    = errors.New("no saved phrases to practice")
	ErrNotActive       = errors.New("no drill in progress")
	ErrWrongStep       = errors.New("not allowed at this step")
	ErrSpeakingPending = errors.New("finish the speaking check first")
	ErrSessionBusy     = errors.New("finish the current recording first")
)

// Library is the part of the phrase library a drill reads and scores.
type Library interface {
	List() []phrase.SavedPhrase
	UpdateScore(ctx context.Context, id string, score int) error
}

// Session is the practice controller the speaking step runs through.
type Session interface {
	EnterExercise() bool
	ExitExercise()
	SetTarget(text string) bool
	Link(phraseID string, scores practice.ScoreRecorder)
	Unlink()
	Reset()
}

// Engine holds one drill at a time. It is safe for concurrent use.
type Engine struct {
	lib     Library
	session Session

	mu       sync.Mutex
	rng      *rand.Rand
	active   bool
	phrases  []phrase.SavedPhrase
	index    int
	step     Step
	input    string
	writing  *WritingResult
	speaking *int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used to break ties between equal scores.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// NewEngine creates an engine with no drill in progress.
func NewEngine(lib Library, session Session, opts ...Option) *Engine {
	e := &Engine{
		lib:     lib,
		session: session,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Order returns deep copies of phrases with unscored phrases first, then
// ascending by last score. Equal scores are in random order.
func Order(phrases []phrase.SavedPhrase, rng *rand.Rand) []phrase.SavedPhrase {
	out := make([]phrase.SavedPhrase, len(phrases))
	for i, p := range phrases {
		out[i] = p.Clone()
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	slices.SortStableFunc(out, func(a, b phrase.SavedPhrase) int {
		return cmp.Compare(sortKey(a), sortKey(b))
	})
	return out
}

func sortKey(p phrase.SavedPhrase) int {
	if p.LastScore == nil {
		return -1
	}
	return *p.LastScore
}

// Start snapshots and orders the library and puts the session into
// exercise mode. An empty library returns ErrEmptyLibrary and changes
// nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := e.lib.List()
	if len(all) == 0 {
		return ErrEmptyLibrary
	}
	if !e.session.EnterExercise() {
		return ErrSessionBusy
	}

	e.active = true
	e.phrases = Order(all, e.rng)
	e.index = 0
	e.enterWriting()
	return nil
}

// SetInput records the user's attempt at writing the current phrase.
func (e *Engine) SetInput(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return ErrNotActive
	}
	if e.step != StepWriting {
		return ErrWrongStep
	}
	e.input = s
	return nil
}

// CheckWriting scores the input against the current phrase and records the
// score on both the library and the drill snapshot. A library write
// failure is returned together with the result.
func (e *Engine) CheckWriting(ctx context.Context) (*WritingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return nil, ErrNotActive
	}
	if e.step != StepWriting {
		return nil, ErrWrongStep
	}

	cur := e.phrases[e.index]
	res := CheckWriting(cur.Text, e.input)
	e.writing = &res
	e.step = StepResult

	err := e.record(ctx, cur.ID, res.Score)
	return cloneWriting(e.writing), err
}

// BeginSpeaking links the session to the current phrase so the next
// successful analysis is recorded through the engine.
func (e *Engine) BeginSpeaking() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return ErrNotActive
	}
	if e.step != StepResult || e.writing == nil || e.speaking != nil {
		return ErrWrongStep
	}

	cur := e.phrases[e.index]
	if !e.session.SetTarget(cur.Text) {
		return ErrSessionBusy
	}
	e.session.Link(cur.ID, e)
	e.step = StepSpeaking
	return nil
}

// UpdateScore records a speaking score on the library and the snapshot.
// The session calls it after a successful analysis of a linked phrase.
func (e *Engine) UpdateScore(ctx context.Context, id string, score int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.record(ctx, id, score)
	if e.active && e.step == StepSpeaking && e.phrases[e.index].ID == id {
		s := score
		e.speaking = &s
		e.step = StepResult
		e.session.Unlink()
	}
	return err
}

// Next moves to the following phrase once both checks are done, or
// finishes the drill after the last one.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return ErrNotActive
	}
	if e.step == StepFinished {
		return ErrWrongStep
	}
	if e.speaking == nil {
		return ErrSpeakingPending
	}

	e.session.Reset()
	e.index++
	if e.index >= len(e.phrases) {
		e.step = StepFinished
		e.input = ""
		e.writing = nil
		e.speaking = nil
		return nil
	}
	e.enterWriting()
	return nil
}

// Exit discards the drill and returns the session to idle. Scores already
// recorded stay.
func (e *Engine) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = false
	e.phrases = nil
	e.index = 0
	e.step = StepWriting
	e.input = ""
	e.writing = nil
	e.speaking = nil
	e.session.ExitExercise()
}

func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) Step() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Current returns the phrase being drilled.
func (e *Engine) Current() (phrase.SavedPhrase, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.index >= len(e.phrases) {
		return phrase.SavedPhrase{}, false
	}
	return e.phrases[e.index].Clone(), true
}

// Position returns the 0-based index of the current phrase and the drill
// length.
func (e *Engine) Position() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index, len(e.phrases)
}

func (e *Engine) Input() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

func (e *Engine) WritingResult() *WritingResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneWriting(e.writing)
}

// SpeakingScore returns the speaking score of the current phrase once
// recorded.
func (e *Engine) SpeakingScore() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speaking == nil {
		return 0, false
	}
	return *e.speaking, true
}

// Phrases returns a copy of the drill snapshot.
func (e *Engine) Phrases() []phrase.SavedPhrase {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]phrase.SavedPhrase, len(e.phrases))
	for i, p := range e.phrases {
		out[i] = p.Clone()
	}
	return out
}

func (e *Engine) enterWriting() {
	e.step = StepWriting
	e.input = ""
	e.writing = nil
	e.speaking = nil
	e.session.Unlink()
	e.session.SetTarget(e.phrases[e.index].Text)
}

// record writes the score to the library and mirrors it on the snapshot
// entry. The snapshot is updated even when the library write fails.
func (e *Engine) record(ctx context.Context, id string, score int) error {
	err := e.lib.UpdateScore(ctx, id, score)
	for i := range e.phrases {
		if e.phrases[i].ID == id {
			s := min(max(score, phrase.MinScore), phrase.MaxScore)
			e.phrases[i].LastScore = &s
			e.phrases[i].PracticeCount++
			break
		}
	}
	return err
}

func cloneWriting(r *WritingResult) *WritingResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Diff = slices.Clone(r.Diff)
	return &c
}
