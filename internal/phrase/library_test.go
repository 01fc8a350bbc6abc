package phrase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/speakup/internal/store"
)

// memRepo is an in-memory store.PhraseRepo that counts writes.
type memRepo struct {
	records []store.PhraseRecord
	writes  int
	failErr error
}

func (m *memRepo) LoadPhrases(context.Context) ([]store.PhraseRecord, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return append([]store.PhraseRecord(nil), m.records...), nil
}

func (m *memRepo) ReplacePhrases(_ context.Context, records []store.PhraseRecord) error {
	m.writes++
	if m.failErr != nil {
		return m.failErr
	}
	m.records = append([]store.PhraseRecord(nil), records...)
	return nil
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t }
}

func newTestLibrary(t *testing.T) (*Library, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	return New(repo, WithIDGenerator(seqIDs()), WithClock(fixedClock())), repo
}

func texts(phrases []SavedPhrase) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = p.Text
	}
	return out
}

func TestAddPrependsAndPersists(t *testing.T) {
	lib, repo := newTestLibrary(t)
	ctx := context.Background()

	first, err := lib.Add(ctx, "  Hello world  ", "greeting")
	require.NoError(t, err)
	_, err = lib.Add(ctx, "Good morning", "")
	require.NoError(t, err)

	assert.Equal(t, "Hello world", first.Text)
	assert.Equal(t, 0, first.PracticeCount)
	assert.Nil(t, first.LastScore)
	assert.NotEmpty(t, first.ID)

	assert.Equal(t, []string{"Good morning", "Hello world"}, texts(lib.List()))
	assert.Equal(t, 2, repo.writes)
	require.Len(t, repo.records, 2)
	assert.Equal(t, "Good morning", repo.records[0].Text)
}

func TestAddEmptyTextFails(t *testing.T) {
	lib, repo := newTestLibrary(t)
	ctx := context.Background()
	_, err := lib.Add(ctx, "keep", "")
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := lib.Add(ctx, text, "note")
		assert.ErrorIs(t, err, ErrEmptyText, "text %q", text)
	}

	assert.Equal(t, []string{"keep"}, texts(lib.List()))
	assert.Equal(t, 1, repo.writes)
}

func TestUpdateScore(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a, _ := lib.Add(ctx, "A", "")
	b, _ := lib.Add(ctx, "B", "")

	require.NoError(t, lib.UpdateScore(ctx, a.ID, 70))
	require.NoError(t, lib.UpdateScore(ctx, a.ID, 85))

	got, ok := lib.Get(a.ID)
	require.True(t, ok)
	require.NotNil(t, got.LastScore)
	assert.Equal(t, 85, *got.LastScore)
	assert.Equal(t, 2, got.PracticeCount)

	// Order is unchanged.
	assert.Equal(t, []string{"B", "A"}, texts(lib.List()))

	untouched, _ := lib.Get(b.ID)
	assert.Nil(t, untouched.LastScore)
	assert.Equal(t, 0, untouched.PracticeCount)
}

func TestUpdateScoreClamps(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	p, _ := lib.Add(ctx, "A", "")

	require.NoError(t, lib.UpdateScore(ctx, p.ID, 140))
	got, _ := lib.Get(p.ID)
	assert.Equal(t, MaxScore, *got.LastScore)

	require.NoError(t, lib.UpdateScore(ctx, p.ID, -3))
	got, _ = lib.Get(p.ID)
	assert.Equal(t, MinScore, *got.LastScore)
}

func TestUpdateScoreUnknownIDLeavesLibraryUnchanged(t *testing.T) {
	lib, repo := newTestLibrary(t)
	ctx := context.Background()
	p, _ := lib.Add(ctx, "A", "note")
	require.NoError(t, lib.UpdateScore(ctx, p.ID, 40))

	var before bytes.Buffer
	require.NoError(t, lib.Export(&before))
	writes := repo.writes

	require.NoError(t, lib.UpdateScore(ctx, "missing", 99))

	var after bytes.Buffer
	require.NoError(t, lib.Export(&after))
	assert.Equal(t, before.Bytes(), after.Bytes())
	assert.Equal(t, writes, repo.writes, "no write for an unknown id")
}

func TestDelete(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	a, _ := lib.Add(ctx, "A", "")
	lib.Add(ctx, "B", "")

	removed, err := lib.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"B"}, texts(lib.List()))

	removed, err = lib.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListReturnsCopies(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	p, _ := lib.Add(ctx, "A", "")
	require.NoError(t, lib.UpdateScore(ctx, p.ID, 50))

	list := lib.List()
	*list[0].LastScore = 1
	list[0].Text = "mutated"

	got, _ := lib.Get(p.ID)
	assert.Equal(t, 50, *got.LastScore)
	assert.Equal(t, "A", got.Text)
}

func TestPersistenceErrorKeepsMemoryState(t *testing.T) {
	lib, repo := newTestLibrary(t)
	ctx := context.Background()
	repo.failErr = errors.New("disk full")

	p, err := lib.Add(ctx, "A", "")
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "add", pe.Op)
	assert.True(t, IsPersistenceError(err))

	// The phrase is still in the library and usable.
	assert.Equal(t, "A", p.Text)
	assert.Equal(t, 1, lib.Len())
	err = lib.UpdateScore(ctx, p.ID, 80)
	require.ErrorAs(t, err, &pe)
	got, _ := lib.Get(p.ID)
	assert.Equal(t, 80, *got.LastScore)
}

func TestLoad(t *testing.T) {
	score := 60
	repo := &memRepo{records: []store.PhraseRecord{
		{ID: "x", Text: "X", Timestamp: time.UnixMilli(1), LastScore: &score, PracticeCount: 2},
		{ID: "y", Text: "Y", Timestamp: time.UnixMilli(2)},
	}}
	lib := New(repo)
	require.NoError(t, lib.Load(context.Background()))
	assert.Equal(t, []string{"X", "Y"}, texts(lib.List()))

	// Loaded phrases do not alias repo memory.
	score = 0
	got, _ := lib.Get("x")
	assert.Equal(t, 60, *got.LastScore)

	failing := New(&memRepo{failErr: errors.New("locked")})
	err := failing.Load(context.Background())
	assert.True(t, IsPersistenceError(err))
	assert.Equal(t, 0, failing.Len())
}

func TestFindByText(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	lib.Add(ctx, "Hello world", "")

	p, ok := lib.FindByText("  Hello world ")
	assert.True(t, ok)
	assert.Equal(t, "Hello world", p.Text)

	_, ok = lib.FindByText("hello world")
	assert.False(t, ok)
}

func TestLibraryWithSQLiteStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "phrases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	lib := New(s.PhraseRepo(), WithClock(fixedClock()))
	a, err := lib.Add(ctx, "Hello world", "")
	require.NoError(t, err)
	_, err = lib.Add(ctx, "Good morning", "polite")
	require.NoError(t, err)
	require.NoError(t, lib.UpdateScore(ctx, a.ID, 90))

	reloaded := New(s.PhraseRepo())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, lib.List(), reloaded.List())
}
