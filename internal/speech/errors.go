package speech

import (
	"errors"
	"fmt"
)

// ErrPlaybackBusy is returned when another clip is already playing.
var ErrPlaybackBusy = errors.New("another clip is already playing")

// AnalysisError reports that scoring a recording failed, including
// malformed or out-of-range responses.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("pronunciation analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// SynthesisError reports that text-to-speech failed.
type SynthesisError struct {
	Text string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// GenerationError reports that suggesting a practice sentence failed.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("phrase generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
