// Package practice drives a single pronunciation attempt from recording
// through analysis to a scored result.
package practice

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/speech"
)

// Status governs which actions the controller currently accepts.
type Status int

const (
	Idle Status = iota
	Recording
	Analyzing
	Result
	Error
	Exercise
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Analyzing:
		return "analyzing"
	case Result:
		return "result"
	case Error:
		return "error"
	case Exercise:
		return "exercise"
	}
	return "unknown"
}

// ErrNotRecording is returned by Submit when no recording is in progress.
var ErrNotRecording = errors.New("not recording")

// ScoreRecorder receives the score of a successful analysis for the linked
// phrase.
type ScoreRecorder interface {
	UpdateScore(ctx context.Context, id string, score int) error
}

// Submission is a finished recording waiting for analysis.
type Submission struct {
	Target     string
	Clip       *audio.Clip
	Difficulty speech.Difficulty
	PhraseID   string

	scores ScoreRecorder
	gen    uint64
}

// Outcome is the completion value of Analyze. Exactly one of Result and Err
// is set.
type Outcome struct {
	Submission *Submission
	Result     *speech.AnalysisResult
	Err        error
}

// Controller owns the practice session lifecycle. All methods are safe for
// concurrent use; Analyze touches no controller state and may run off the
// UI goroutine.
type Controller struct {
	recorder audio.Recorder
	analyzer speech.Analyzer

	mu         sync.Mutex
	status     Status
	target     string
	difficulty speech.Difficulty
	capture    audio.Capture
	result     *speech.AnalysisResult
	err        error
	phraseID   string
	scores     ScoreRecorder
	exercise   bool
	// gen changes whenever an in-flight analysis becomes stale.
	gen uint64
}

// NewController creates an idle controller.
func NewController(recorder audio.Recorder, analyzer speech.Analyzer) *Controller {
	return &Controller{
		recorder:   recorder,
		analyzer:   analyzer,
		difficulty: speech.DefaultDifficulty,
	}
}

// StartRecording acquires the capture device. It is a no-op while
// recording, analyzing or in the error state. A device failure moves the
// controller to Error and is returned.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case Recording, Analyzing, Error:
		return nil
	}

	capture, err := c.recorder.Start(ctx)
	if err != nil {
		var derr *audio.DeviceError
		if !errors.As(err, &derr) {
			err = &audio.DeviceError{Device: "microphone", Err: err}
		}
		c.fail(err)
		return err
	}

	c.capture = capture
	c.status = Recording
	c.result = nil
	c.err = nil
	return nil
}

// StopRecording ends the capture and moves to Analyzing. It returns
// (nil, nil) when not recording.
func (c *Controller) StopRecording() (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Recording {
		return nil, nil
	}

	capture := c.capture
	c.capture = nil
	clip, err := capture.Stop()
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.gen++
	c.status = Analyzing
	return &Submission{
		Target:     c.target,
		Clip:       clip,
		Difficulty: c.difficulty,
		PhraseID:   c.phraseID,
		scores:     c.scores,
		gen:        c.gen,
	}, nil
}

// CancelRecording discards captured audio and returns to the resting state.
func (c *Controller) CancelRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Recording {
		return
	}
	c.capture.Discard()
	c.capture = nil
	c.status = c.resting()
}

// Analyze calls the analysis capability for sub.
func (c *Controller) Analyze(ctx context.Context, sub *Submission) Outcome {
	res, err := c.analyzer.Analyze(ctx, sub.Target, sub.Clip, sub.Difficulty)
	if err != nil {
		var aerr *speech.AnalysisError
		if !errors.As(err, &aerr) {
			err = &speech.AnalysisError{Err: err}
		}
		return Outcome{Submission: sub, Err: err}
	}
	return Outcome{Submission: sub, Result: res}
}

// Complete applies an analysis outcome. A success moves to Result and
// records the score on the phrase linked at submission time; a failure
// moves to Error with the result cleared. Outcomes for a submission that is
// no longer current are ignored. The returned error is only ever a score
// write failure.
func (c *Controller) Complete(ctx context.Context, out Outcome) error {
	c.mu.Lock()
	if c.status != Analyzing || out.Submission == nil || out.Submission.gen != c.gen {
		c.mu.Unlock()
		return nil
	}

	if out.Err != nil || out.Result == nil {
		err := out.Err
		if err == nil {
			err = &speech.AnalysisError{Err: errors.New("no result")}
		}
		c.fail(err)
		c.mu.Unlock()
		return nil
	}

	c.status = Result
	c.result = out.Result.Clone()
	c.err = nil
	sub := out.Submission
	c.mu.Unlock()

	if sub.PhraseID == "" || sub.scores == nil {
		return nil
	}
	return sub.scores.UpdateScore(ctx, sub.PhraseID, out.Result.AccuracyScore)
}

// Submit stops the recording, analyzes it and applies the outcome in one
// call. On analysis failure the *speech.AnalysisError is returned; a failed
// score write returns the result together with that error.
func (c *Controller) Submit(ctx context.Context) (*speech.AnalysisResult, error) {
	sub, err := c.StopRecording()
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotRecording
	}

	out := c.Analyze(ctx, sub)
	if err := c.Complete(ctx, out); err != nil {
		return out.Result.Clone(), err
	}
	if out.Err != nil {
		return nil, out.Err
	}
	return out.Result.Clone(), nil
}

// Reset leaves Result or Error for the resting state. The target text is
// kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Result && c.status != Error {
		return
	}
	c.status = c.resting()
	c.result = nil
	c.err = nil
}

// SetTarget changes the sentence to practice. It is refused while a
// recording or analysis is in flight; a shown result or error is dismissed.
func (c *Controller) SetTarget(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy() {
		return false
	}
	c.target = text
	if c.status == Result || c.status == Error {
		c.status = c.resting()
		c.result = nil
		c.err = nil
	}
	return true
}

// SetDifficulty applies to the next submission.
func (c *Controller) SetDifficulty(d speech.Difficulty) {
	if !d.Valid() {
		return
	}
	c.mu.Lock()
	c.difficulty = d
	c.mu.Unlock()
}

// Link ties subsequent successful analyses to a phrase. scores receives
// one UpdateScore call per success.
func (c *Controller) Link(phraseID string, scores ScoreRecorder) {
	c.mu.Lock()
	c.phraseID = phraseID
	c.scores = scores
	c.mu.Unlock()
}

// Unlink stops recording scores against a phrase.
func (c *Controller) Unlink() {
	c.Link("", nil)
}

// EnterExercise switches the resting state to Exercise. It is refused
// while a recording or analysis is in flight.
func (c *Controller) EnterExercise() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy() {
		return false
	}
	c.exercise = true
	c.status = Exercise
	c.result = nil
	c.err = nil
	c.phraseID = ""
	c.scores = nil
	return true
}

// ExitExercise returns to Idle from any state. A capture in progress is
// discarded and an in-flight analysis is dropped.
func (c *Controller) ExitExercise() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		c.capture.Discard()
		c.capture = nil
	}
	c.gen++
	c.exercise = false
	c.status = Idle
	c.result = nil
	c.err = nil
	c.phraseID = ""
	c.scores = nil
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *Controller) Difficulty() speech.Difficulty {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.difficulty
}

// Result returns a copy of the last successful analysis, or nil.
func (c *Controller) Result() *speech.AnalysisResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Clone()
}

// Err returns the error that moved the controller to Error, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// LinkedPhraseID returns the phrase scores are recorded against, or "".
func (c *Controller) LinkedPhraseID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phraseID
}

// InExercise reports whether a drill owns the session.
func (c *Controller) InExercise() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exercise
}

func (c *Controller) fail(err error) {
	c.status = Error
	c.result = nil
	c.err = err
}

func (c *Controller) busy() bool {
	return c.status == Recording || c.status == Analyzing
}

func (c *Controller) resting() Status {
	if c.exercise {
		return Exercise
	}
	return Idle
}
