package phrase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/speakup/internal/store"
)

// Library is the canonical, ordered set of saved phrases (most recent first).
//
// Every mutation replaces the whole in-memory sequence under the lock and
// then writes the complete sequence to the repo in one transaction, so a
// reader never sees a partially applied change. A failed write is reported
// as *PersistenceError while the in-memory state is kept.
type Library struct {
	repo  store.PhraseRepo
	now   func() time.Time
	newID func() string

	mu      sync.RWMutex
	phrases []SavedPhrase
}

// Option customizes a Library.
type Option func(*Library)

// WithClock overrides the time source used for new phrases.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithIDGenerator overrides how new phrase ids are generated.
func WithIDGenerator(f func() string) Option {
	return func(l *Library) { l.newID = f }
}

// New creates an empty library backed by repo. A nil repo keeps the
// library in memory only.
func New(repo store.PhraseRepo, opts ...Option) *Library {
	l := &Library{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory library with the persisted one.
func (l *Library) Load(ctx context.Context) error {
	if l.repo == nil {
		return nil
	}
	records, err := l.repo.LoadPhrases(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	phrases := make([]SavedPhrase, len(records))
	for i, r := range records {
		phrases[i] = fromRecord(r)
	}

	l.mu.Lock()
	l.phrases = phrases
	l.mu.Unlock()
	return nil
}

// List returns a deep copy of the library in order.
func (l *Library) List() []SavedPhrase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneAll(l.phrases)
}

// Len returns the number of saved phrases.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.phrases)
}

// Get returns a copy of the phrase with the given id.
func (l *Library) Get(id string) (SavedPhrase, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := indexOf(l.phrases, id); i >= 0 {
		return l.phrases[i].Clone(), true
	}
	return SavedPhrase{}, false
}

// FindByText returns the phrase whose text equals text after trimming.
func (l *Library) FindByText(text string) (SavedPhrase, bool) {
	text = strings.TrimSpace(text)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.phrases {
		if p.Text == text {
			return p.Clone(), true
		}
	}
	return SavedPhrase{}, false
}

// Add prepends a new phrase. It fails with ErrEmptyText when text is blank.
// A *PersistenceError return still carries the added phrase.
func (l *Library) Add(ctx context.Context, text, note string) (SavedPhrase, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SavedPhrase{}, ErrEmptyText
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p := SavedPhrase{
		ID:        l.uniqueID(l.phrases),
		Text:      text,
		Note:      strings.TrimSpace(note),
		Timestamp: l.now(),
	}

	next := make([]SavedPhrase, 0, len(l.phrases)+1)
	next = append(next, p)
	next = append(next, l.phrases...)
	return p.Clone(), l.commit(ctx, "add", next)
}

// UpdateScore records a score for the phrase and bumps its practice count.
// An unknown id is ignored and nothing is written.
func (l *Library) UpdateScore(ctx context.Context, id string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.phrases, id)
	if i < 0 {
		return nil
	}

	next := make([]SavedPhrase, len(l.phrases))
	copy(next, l.phrases)
	s := clampScore(score)
	next[i].LastScore = &s
	next[i].PracticeCount++
	return l.commit(ctx, "update score", next)
}

// Delete removes the phrase with the given id and reports whether it existed.
func (l *Library) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.phrases, id)
	if i < 0 {
		return false, nil
	}

	next := make([]SavedPhrase, 0, len(l.phrases)-1)
	next = append(next, l.phrases[:i]...)
	next = append(next, l.phrases[i+1:]...)
	return true, l.commit(ctx, "delete", next)
}

// ImportSummary describes the outcome of a merge.
type ImportSummary struct {
	Imported int // entities taken from the import
	Replaced int // existing entities superseded by an imported text
	Kept     int // existing entities carried over unchanged
}

// merge puts incoming first (in order, first occurrence of a text wins),
// followed by the existing phrases whose text is not in incoming. Existing
// ids are kept; an incoming id that collides is regenerated.
func (l *Library) merge(ctx context.Context, incoming []SavedPhrase) (ImportSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sum ImportSummary
	texts := make(map[string]bool, len(incoming))
	var head []SavedPhrase
	for _, p := range incoming {
		if texts[p.Text] {
			continue
		}
		texts[p.Text] = true
		head = append(head, p.Clone())
	}
	sum.Imported = len(head)

	var tail []SavedPhrase
	for _, p := range l.phrases {
		if texts[p.Text] {
			sum.Replaced++
			continue
		}
		tail = append(tail, p)
	}
	sum.Kept = len(tail)

	used := make(map[string]bool, len(head)+len(tail))
	for _, p := range tail {
		used[p.ID] = true
	}
	for i := range head {
		if head[i].ID == "" || used[head[i].ID] {
			head[i].ID = l.freshID(used)
		}
		used[head[i].ID] = true
	}

	next := make([]SavedPhrase, 0, len(head)+len(tail))
	next = append(next, head...)
	next = append(next, tail...)
	return sum, l.commit(ctx, "import", next)
}

// prependNew adds phrases whose text is not yet in the library, keeping
// their relative order, and returns how many were added.
func (l *Library) prependNew(ctx context.Context, candidates []SavedPhrase) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	texts := make(map[string]bool, len(l.phrases))
	used := make(map[string]bool, len(l.phrases))
	for _, p := range l.phrases {
		texts[p.Text] = true
		used[p.ID] = true
	}

	var added []SavedPhrase
	for _, c := range candidates {
		if texts[c.Text] {
			continue
		}
		texts[c.Text] = true
		c.ID = l.freshID(used)
		used[c.ID] = true
		c.Timestamp = l.now()
		added = append(added, c)
	}
	if len(added) == 0 {
		return 0, nil
	}

	next := make([]SavedPhrase, 0, len(added)+len(l.phrases))
	next = append(next, added...)
	next = append(next, l.phrases...)
	return len(added), l.commit(ctx, "import", next)
}

// commit swaps in next and persists it. Callers hold l.mu.
func (l *Library) commit(ctx context.Context, op string, next []SavedPhrase) error {
	l.phrases = next
	if l.repo == nil {
		return nil
	}

	records := make([]store.PhraseRecord, len(next))
	for i, p := range next {
		records[i] = toRecord(p)
	}
	if err := l.repo.ReplacePhrases(ctx, records); err != nil {
		slog.Warn("phrase library not persisted", "op", op, "err", err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (l *Library) uniqueID(existing []SavedPhrase) string {
	used := make(map[string]bool, len(existing))
	for _, p := range existing {
		used[p.ID] = true
	}
	return l.freshID(used)
}

func (l *Library) freshID(used map[string]bool) string {
	for {
		id := l.newID()
		if !used[id] {
			return id
		}
	}
}

func indexOf(phrases []SavedPhrase, id string) int {
	for i, p := range phrases {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(phrases []SavedPhrase) []SavedPhrase {
	out := make([]SavedPhrase, len(phrases))
	for i, p := range phrases {
		out[i] = p.Clone()
	}
	return out
}
