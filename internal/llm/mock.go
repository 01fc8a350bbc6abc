package llm

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/abhisek/speakup/internal/audio"
)

// script hands out canned replies in order and remembers every call.
type script[Req, Reply any] struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Req
}

func (s *script[Req, Reply]) next(req Req) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	var r Reply
	if len(s.replies) == 0 {
		return r, false
	}
	r, s.replies = s.replies[0], s.replies[1:]
	return r, true
}

func (s *script[Req, Reply]) push(r Reply) {
	s.mu.Lock()
	s.replies = append(s.replies, r)
	s.mu.Unlock()
}

func (s *script[Req, Reply]) recorded() []Req {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Req(nil), s.calls...)
}

// MockResponse is one scripted Generate result.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays MockResponses in order. With nothing queued it
// fails with *UnavailableError.
type MockProvider struct {
	script[Request, MockResponse]
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	m := &MockProvider{}
	m.replies = responses
	return m
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	r, ok := m.next(req)
	switch {
	case !ok:
		return nil, &UnavailableError{Provider: "mock"}
	case r.Err != nil:
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: m.ModelID()}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues one more response.
func (m *MockProvider) AddResponse(r MockResponse) { m.push(r) }

// Calls returns the requests seen so far.
func (m *MockProvider) Calls() []Request { return m.recorded() }

// CallCount is len(Calls()).
func (m *MockProvider) CallCount() int { return len(m.recorded()) }

// MockSpeech is one scripted Synthesize result.
type MockSpeech struct {
	Audio []byte
	Err   error
}

// MockSpeechProvider replays MockSpeech results in order. With nothing
// queued it returns a fifth of a second of silence.
type MockSpeechProvider struct {
	script[SpeechRequest, MockSpeech]
}

// NewMockSpeechProvider queues responses.
func NewMockSpeechProvider(responses ...MockSpeech) *MockSpeechProvider {
	m := &MockSpeechProvider{}
	m.replies = responses
	return m
}

func (m *MockSpeechProvider) Synthesize(_ context.Context, req SpeechRequest) (*SpeechResponse, error) {
	r, ok := m.next(req)
	if !ok {
		r.Audio = audio.EncodeWAV(make([]byte, audio.DefaultSampleRate/5), audio.DefaultSampleRate, audio.DefaultChannels)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &SpeechResponse{Audio: r.Audio, MIMEType: audio.MIMEWAV, Model: m.ModelID()}, nil
}

func (m *MockSpeechProvider) ModelID() string { return "mock-tts" }

// Calls returns the requests seen so far.
func (m *MockSpeechProvider) Calls() []SpeechRequest { return m.recorded() }

// CallCount is len(Calls()).
func (m *MockSpeechProvider) CallCount() int { return len(m.recorded()) }
