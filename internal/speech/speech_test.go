package speech

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/speakup/internal/audio"
	"github.com/abhisek/speakup/internal/llm"
)

func testClip() *audio.Clip {
	return &audio.Clip{
		Data:     audio.EncodeWAV(make([]byte, 3200), audio.DefaultSampleRate, audio.DefaultChannels),
		MIMEType: audio.MIMEWAV,
	}
}

func TestAnalyze_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"accuracy_score": 82,
			"transcription": "the quick brown fox",
			"mispronounced_words": [" quick ", ""],
			"feedback": "Nice rhythm.",
			"tips": "Shorten the i in quick.",
			"is_perfect": false
		}`),
	})
	a := NewLLMAnalyzer(mock, DefaultConfig())

	got, err := a.Analyze(context.Background(), "The quick brown fox", testClip(), Hard)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.AccuracyScore != 82 {
		t.Errorf("score = %d, want 82", got.AccuracyScore)
	}
	if len(got.MispronouncedWords) != 1 || got.MispronouncedWords[0] != "quick" {
		t.Errorf("words = %q, want [quick]", got.MispronouncedWords)
	}
	if got.Tips != "Shorten the i in quick." {
		t.Errorf("tips = %q", got.Tips)
	}

	req := mock.Calls()[0]
	if req.Audio == nil || len(req.Audio.Data) == 0 {
		t.Fatal("request has no audio attached")
	}
	if req.Schema != AnalysisSchema {
		t.Error("analysis schema not set")
	}
	if !strings.Contains(req.Prompt, "The quick brown fox") {
		t.Errorf("user message missing target: %q", req.Prompt)
	}
	if !strings.Contains(req.Prompt, strictness[Hard]) {
		t.Error("user message missing difficulty guidance")
	}
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.RateLimitError{}}},
		{"not json", llm.MockResponse{Content: json.RawMessage(`"hello"`)}},
		{"missing score", llm.MockResponse{Content: json.RawMessage(`{"transcription":"x","feedback":"y"}`)}},
		{"missing feedback", llm.MockResponse{Content: json.RawMessage(`{"accuracy_score":50,"transcription":"x"}`)}},
		{"score too high", llm.MockResponse{Content: json.RawMessage(`{"accuracy_score":101,"transcription":"x","feedback":"y"}`)}},
		{"negative score", llm.MockResponse{Content: json.RawMessage(`{"accuracy_score":-1,"transcription":"x","feedback":"y"}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLLMAnalyzer(llm.NewMockProvider(tt.resp), DefaultConfig())
			_, err := a.Analyze(context.Background(), "Hello", testClip(), Medium)
			var aerr *AnalysisError
			if !errors.As(err, &aerr) {
				t.Fatalf("err = %v, want *AnalysisError", err)
			}
		})
	}
}

func TestAnalyze_EmptyClipSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	a := NewLLMAnalyzer(mock, DefaultConfig())

	empty := &audio.Clip{Data: audio.EncodeWAV(nil, audio.DefaultSampleRate, 1), MIMEType: audio.MIMEWAV}
	_, err := a.Analyze(context.Background(), "Hello", empty, Medium)
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v, want *AnalysisError", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times", mock.CallCount())
	}
}

func TestSynthesize(t *testing.T) {
	mock := llm.NewMockSpeechProvider()
	s := NewLLMSynthesizer(mock, DefaultConfig())

	clip, err := s.Synthesize(context.Background(), "  Good morning  ")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if clip.Empty() {
		t.Error("clip is empty")
	}
	if mock.Calls()[0].Text != "Good morning" {
		t.Errorf("text = %q, want trimmed", mock.Calls()[0].Text)
	}
}

func TestSynthesize_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
		resp llm.MockSpeech
	}{
		{"blank text", "   ", llm.MockSpeech{}},
		{"provider error", "Hi", llm.MockSpeech{Err: errors.New("boom")}},
		{"empty audio", "Hi", llm.MockSpeech{Audio: []byte{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLLMSynthesizer(llm.NewMockSpeechProvider(tt.resp), DefaultConfig())
			_, err := s.Synthesize(context.Background(), tt.text)
			var serr *SynthesisError
			if !errors.As(err, &serr) {
				t.Fatalf("err = %v, want *SynthesisError", err)
			}
		})
	}
}

func TestGeneratePhrase(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"phrase":" \"She sells sea shells.\" "}`),
	})
	g := NewLLMPhraseGenerator(mock, DefaultConfig())

	got, err := g.GeneratePhrase(context.Background(), Easy)
	if err != nil {
		t.Fatalf("GeneratePhrase: %v", err)
	}
	if got != "She sells sea shells." {
		t.Errorf("phrase = %q", got)
	}
	if mock.Calls()[0].Schema != PhraseSchema {
		t.Error("phrase schema not set")
	}
	if mock.Calls()[0].Temperature == 0 {
		t.Error("temperature not set")
	}
}

func TestGeneratePhrase_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("offline")}},
		{"empty phrase", llm.MockResponse{Content: json.RawMessage(`{"phrase":"  "}`)}},
		{"not json", llm.MockResponse{Content: json.RawMessage(`[1,2]`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLLMPhraseGenerator(llm.NewMockProvider(tt.resp), DefaultConfig())
			_, err := g.GeneratePhrase(context.Background(), Medium)
			var gerr *GenerationError
			if !errors.As(err, &gerr) {
				t.Fatalf("err = %v, want *GenerationError", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"easy", "MEDIUM", " Hard "} {
		if _, err := ParseDifficulty(in); err != nil {
			t.Errorf("ParseDifficulty(%q): %v", in, err)
		}
	}
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Error("expected error for unknown tier")
	}
	if Medium.Label() != "Medium" {
		t.Errorf("label = %q", Medium.Label())
	}
}

// blockingPlayer holds Play until release is closed.
type blockingPlayer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	plays   int
}

func newBlockingPlayer() *blockingPlayer {
	return &blockingPlayer{started: make(chan struct{}), release: make(chan struct{})}
}

func (p *blockingPlayer) Play(ctx context.Context, _ *audio.Clip) error {
	p.mu.Lock()
	p.plays++
	p.mu.Unlock()
	p.once.Do(func() { close(p.started) })
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestPlayback_BusyWhilePlaying(t *testing.T) {
	player := newBlockingPlayer()
	pb := NewPlayback(NewLLMSynthesizer(llm.NewMockSpeechProvider(), DefaultConfig()), player)

	done := make(chan error, 1)
	go func() { done <- pb.Speak(context.Background(), "First") }()

	select {
	case <-player.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first clip never started")
	}

	if !pb.Busy() {
		t.Error("Busy() = false while playing")
	}
	if err := pb.Speak(context.Background(), "Second"); !errors.Is(err, ErrPlaybackBusy) {
		t.Errorf("second Speak err = %v, want ErrPlaybackBusy", err)
	}

	close(player.release)
	if err := <-done; err != nil {
		t.Fatalf("first Speak: %v", err)
	}
	if pb.Busy() {
		t.Error("Busy() = true after playback finished")
	}
	if player.plays != 1 {
		t.Errorf("plays = %d, want 1", player.plays)
	}
}

func TestPlayback_CachesClips(t *testing.T) {
	player := newBlockingPlayer()
	close(player.release)
	tts := llm.NewMockSpeechProvider()
	pb := NewPlayback(NewLLMSynthesizer(tts, DefaultConfig()), player)

	for range 3 {
		if err := pb.Speak(context.Background(), "Repeat me"); err != nil {
			t.Fatalf("Speak: %v", err)
		}
	}
	if tts.CallCount() != 1 {
		t.Errorf("synthesized %d times, want 1", tts.CallCount())
	}
	if player.plays != 3 {
		t.Errorf("plays = %d, want 3", player.plays)
	}
}

func TestPlayback_SynthesisErrorReleasesSlot(t *testing.T) {
	player := newBlockingPlayer()
	close(player.release)
	tts := llm.NewMockSpeechProvider(llm.MockSpeech{Err: errors.New("quota")})
	pb := NewPlayback(NewLLMSynthesizer(tts, DefaultConfig()), player)

	err := pb.Speak(context.Background(), "Hello")
	var serr *SynthesisError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *SynthesisError", err)
	}
	if pb.Busy() {
		t.Error("slot not released after failure")
	}
	if err := pb.Speak(context.Background(), "Hello"); err != nil {
		t.Fatalf("retry Speak: %v", err)
	}
}
