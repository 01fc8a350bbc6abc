// Package ui holds presentation helpers shared by the TUI screens and the
// CLI commands.
package ui

import (
	"errors"
	"fmt"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/exercise"
	"github.com/abhisek/speakup/internal/llm"
	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/speech"
)

// Describe turns an error into a message that tells the user which part
// failed and what to do about it.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		deviceErr      *audio.DeviceError
		analysisErr    *speech.AnalysisError
		synthesisErr   *speech.SynthesisError
		generationErr  *speech.GenerationError
		importErr      *phrase.ImportFormatError
		persistErr     *phrase.PersistenceError
		unsupportedErr *llm.UnsupportedInputError
		rateErr        *llm.RateLimitError
	)

	switch {
	case errors.As(err, &deviceErr):
		return fmt.Sprintf("Microphone or speaker problem (%s): %v. Check that the device is connected and not used by another program.",
			deviceErr.Device, deviceErr.Err)

	case errors.As(err, &unsupportedErr):
		return fmt.Sprintf("The %s provider cannot listen to recordings. Switch to gemini or openai to get pronunciation feedback.",
			unsupportedErr.Provider)

	case errors.As(err, &analysisErr):
		if errors.As(err, &rateErr) {
			return "Pronunciation analysis is being rate limited by the AI provider. Wait a moment and record again."
		}
		return fmt.Sprintf("Could not analyze your recording: %v. Press r to reset and try again.", analysisErr.Err)

	case errors.As(err, &synthesisErr):
		return fmt.Sprintf("Could not play the sentence aloud: %v.", synthesisErr.Err)

	case errors.As(err, &generationErr):
		return fmt.Sprintf("Could not suggest a new sentence: %v. Your current sentence was kept.", generationErr.Err)

	case errors.As(err, &importErr):
		return fmt.Sprintf("That file is not a valid phrase backup, nothing was imported: %v.", importErr.Err)

	case errors.As(err, &persistErr):
		return fmt.Sprintf("Your change is kept for this session but could not be saved to disk (%s): %v.", persistErr.Op, persistErr.Err)

	case errors.Is(err, speech.ErrPlaybackBusy):
		return "Audio is already playing. Wait for it to finish."

	case errors.Is(err, phrase.ErrEmptyText):
		return "Enter some text first."

	case errors.Is(err, exercise.ErrEmptyLibrary):
		return "Save a few phrases to your library before starting an exercise."

	case errors.Is(err, exercise.ErrSpeakingPending):
		return "Record the sentence to finish the speaking check before moving on."
	}

	return err.Error()
}
