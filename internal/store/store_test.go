package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "speakup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func score(v int) *int { return &v }

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTemp(t)

	for name, want := range map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"synchronous":  "1",
		"busy_timeout": "5000",
	} {
		got, err := s.pragma(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestOpenCreatesDirAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "speakup.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.PhraseRepo().ReplacePhrases(context.Background(),
		[]PhraseRecord{{ID: "1", Text: "kept", Timestamp: time.Now()}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.PhraseRepo().LoadPhrases(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Text)
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "speakup", "speakup.db"), p)
}

func TestPhrasesKeepOrderAndFields(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t).PhraseRepo()

	empty, err := repo.LoadPhrases(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ts := time.UnixMilli(1_700_000_000_123)
	records := []PhraseRecord{
		{ID: "z", Text: "She sells sea shells", Timestamp: ts},
		{ID: "a", Text: "Red lorry, yellow lorry", Note: "tongue twister", Timestamp: ts, LastScore: score(64), PracticeCount: 2},
	}
	require.NoError(t, repo.ReplacePhrases(ctx, records))

	got, err := repo.LoadPhrases(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].ID, "stored order is kept, not sorted by id")
	assert.Nil(t, got[0].LastScore)
	assert.Equal(t, 64, *got[1].LastScore)
	assert.Equal(t, "tongue twister", got[1].Note)
	assert.Equal(t, 2, got[1].PracticeCount)
	assert.True(t, got[1].Timestamp.Equal(ts))

	require.NoError(t, repo.ReplacePhrases(ctx, records[:1]))
	got, err = repo.LoadPhrases(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "z", got[0].ID)
}

func TestFailedReplaceLeavesPreviousRows(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t).PhraseRepo()

	require.NoError(t, repo.ReplacePhrases(ctx, []PhraseRecord{{ID: "x", Text: "original", Timestamp: time.Now()}}))

	err := repo.ReplacePhrases(ctx, []PhraseRecord{
		{ID: "same", Text: "one", Timestamp: time.Now()},
		{ID: "same", Text: "two", Timestamp: time.Now()},
	})
	require.Error(t, err)

	got, err := repo.LoadPhrases(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Text)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t).SettingsRepo()

	_, ok, err := repo.GetSetting(ctx, "difficulty")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.PutSetting(ctx, "difficulty", "hard"))
	require.NoError(t, repo.PutSetting(ctx, "difficulty", "easy"))

	v, ok, err := repo.GetSetting(ctx, "difficulty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "easy", v)
}

func TestEventLogQueriesAndUsage(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t).EventRepo()

	for _, e := range []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "analysis", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "analysis", InputTokens: 120, OutputTokens: 30, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "tts-1", Purpose: "tts", InputTokens: 22, LatencyMs: 900, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "phrase-gen", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, ErrorMessage: "gemini unavailable: 503"},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "phrase-gen", all[0].Purpose, "newest first")

	analysis, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "analysis", Limit: 1})
	require.NoError(t, err)
	require.Len(t, analysis, 1)
	assert.Equal(t, 120, analysis[0].InputTokens)

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	failed, err := repo.GetLLMEvent(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, failed)
	assert.False(t, failed.Success)
	assert.Equal(t, "gemini unavailable: 503", failed.ErrorMessage)

	missing, err := repo.GetLLMEvent(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 3)
	assert.Equal(t, PurposeUsage{Purpose: "analysis", Calls: 2, InputTokens: 220, OutputTokens: 80, AvgLatencyMs: 300}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2, "failed calls are not billed")
	assert.Equal(t, ModelUsage{Model: "gemini-2.5-flash", Calls: 2, InputTokens: 220, OutputTokens: 80}, byModel[0])
}
