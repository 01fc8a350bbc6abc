package speech

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/abhisek/speakup/internal/audio"
)

const maxCachedClips = 64

// Playback speaks text aloud with at most one clip playing at a time.
// Synthesized clips are cached per text.
type Playback struct {
	synth  Synthesizer
	player audio.Player
	slot   *semaphore.Weighted

	mu    sync.Mutex
	cache map[string]*audio.Clip
}

// NewPlayback creates a Playback.
func NewPlayback(synth Synthesizer, player audio.Player) *Playback {
	return &Playback{
		synth:  synth,
		player: player,
		slot:   semaphore.NewWeighted(1),
		cache:  make(map[string]*audio.Clip),
	}
}

// Speak synthesizes text (or reuses a cached clip) and plays it to
// completion. It returns ErrPlaybackBusy without waiting if another clip is
// in flight, *SynthesisError if synthesis fails and *audio.DeviceError if
// the player fails.
func (p *Playback) Speak(ctx context.Context, text string) error {
	if !p.slot.TryAcquire(1) {
		return ErrPlaybackBusy
	}
	defer p.slot.Release(1)

	clip, err := p.clip(ctx, text)
	if err != nil {
		return err
	}
	return p.player.Play(ctx, clip)
}

// Busy reports whether a clip is currently in flight.
func (p *Playback) Busy() bool {
	if !p.slot.TryAcquire(1) {
		return true
	}
	p.slot.Release(1)
	return false
}

func (p *Playback) clip(ctx context.Context, text string) (*audio.Clip, error) {
	key := strings.TrimSpace(text)

	p.mu.Lock()
	clip, ok := p.cache[key]
	p.mu.Unlock()
	if ok {
		return clip, nil
	}

	clip, err := p.synth.Synthesize(ctx, key)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if len(p.cache) >= maxCachedClips {
		clear(p.cache)
	}
	p.cache[key] = clip
	p.mu.Unlock()
	return clip, nil
}
