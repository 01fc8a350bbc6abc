package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/exercise"
	"github.com/abhisek/speakup/internal/llm"
	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/screen"
	"github.com/abhisek/speakup/internal/settings"
	"github.com/abhisek/speakup/internal/speech"
	"github.com/abhisek/speakup/internal/store"
)

// env is the persisted state every command works on.
type env struct {
	store    *store.Store
	library  *phrase.Library
	settings *settings.Settings
}

func (e *env) Close() error {
	return e.store.Close()
}

// openEnv opens the database and loads the library and settings.
func openEnv(cmd *cobra.Command) (*env, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	e := &env{
		store:    st,
		library:  phrase.New(st.PhraseRepo()),
		settings: settings.New(st.SettingsRepo()),
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return e.library.Load(ctx) })
	g.Go(func() error { return e.settings.Load(ctx) })
	if err := g.Wait(); err != nil {
		st.Close()
		return nil, err
	}
	return e, nil
}

// errNoProvider explains why AI features are off.
var errNoProvider = errors.New("no AI provider configured; set GEMINI_API_KEY or OPENAI_API_KEY")

// unavailableAnalyzer stands in when no provider is configured, so a
// recording still reaches the error state with a clear message.
type unavailableAnalyzer struct {
	err error
}

func (a unavailableAnalyzer) Analyze(context.Context, string, *audio.Clip, speech.Difficulty) (*speech.AnalysisResult, error) {
	return nil, &speech.AnalysisError{Err: a.err}
}

// capabilities are the AI-backed parts. Synth and Generator are nil when
// unavailable; Analyzer never is.
type capabilities struct {
	Analyzer  speech.Analyzer
	Generator speech.PhraseGenerator
	Synth     speech.Synthesizer
}

// buildCapabilities creates the providers from cfg. Missing credentials
// disable features instead of failing.
func buildCapabilities(ctx context.Context, events store.EventRepo) capabilities {
	sc := speech.DefaultConfig()
	if cfg.LLM.Timeout > 0 {
		sc.Timeout = cfg.LLM.Timeout
	}
	caps := capabilities{Analyzer: unavailableAnalyzer{err: errNoProvider}}

	if cfg.LLM.Provider == "mock" || cfg.LLM.HasCredentials() {
		provider, err := llm.NewProvider(ctx, cfg.LLM, events)
		if err != nil {
			slog.Warn("LLM provider not configured", "error", err)
			caps.Analyzer = unavailableAnalyzer{err: err}
		} else {
			caps.Analyzer = speech.NewLLMAnalyzer(provider, sc)
			caps.Generator = speech.NewLLMPhraseGenerator(provider, sc)
		}
	} else {
		slog.Info("AI features disabled", "reason", errNoProvider)
	}

	if sp, err := llm.NewSpeechProvider(ctx, cfg.LLM, events); err != nil {
		slog.Info("text-to-speech disabled", "error", err)
	} else {
		caps.Synth = speech.NewLLMSynthesizer(sp, sc)
	}
	return caps
}

// newRecorder returns the configured capture tool, or a file recorder when
// path is set.
func newRecorder(path string) (audio.Recorder, error) {
	if path != "" {
		return &audio.FileRecorder{Path: path}, nil
	}
	return audio.NewCommandRecorder(cfg.Audio.Recorder)
}

// newPlayback wires text-to-speech to the speaker. It is nil when either
// half is missing.
func newPlayback(synth speech.Synthesizer) *speech.Playback {
	if synth == nil {
		return nil
	}
	player, err := audio.NewCommandPlayer(cfg.Audio.Player)
	if err != nil {
		slog.Info("audio playback disabled", "error", err)
		return nil
	}
	return speech.NewPlayback(synth, player)
}

// newServices assembles everything the TUI needs.
func newServices(ctx context.Context, e *env) screen.Services {
	caps := buildCapabilities(ctx, e.store.EventRepo())

	recorder, err := newRecorder("")
	if err != nil {
		// The TUI still works for writing drills and library management;
		// recording reports the device error.
		slog.Warn("no capture tool", "error", err)
		recorder = missingRecorder{err: err}
	}

	session := practice.NewController(recorder, caps.Analyzer)
	session.SetDifficulty(e.settings.Difficulty())

	return screen.Services{
		Library:   e.library,
		Session:   session,
		Exercise:  exercise.NewEngine(e.library, session),
		Settings:  e.settings,
		Playback:  newPlayback(caps.Synth),
		Generator: caps.Generator,
	}
}

// missingRecorder reports the lookup failure each time recording starts.
type missingRecorder struct {
	err error
}

func (r missingRecorder) Start(context.Context) (audio.Capture, error) {
	return nil, r.err
}
