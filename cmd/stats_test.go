package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/store"
)

func scored(text string, score, count int) phrase.SavedPhrase {
	return phrase.SavedPhrase{ID: text, Text: text, LastScore: &score, PracticeCount: count}
}

func TestComputeLibraryStats(t *testing.T) {
	phrases := []phrase.SavedPhrase{
		scored("a", 100, 3),
		scored("b", 40, 1),
		{ID: "c", Text: "c"},
	}
	st := computeLibraryStats(phrases)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Practiced)
	assert.Equal(t, 4, st.Attempts)
	assert.Equal(t, 70, st.Average)
	assert.Equal(t, 1, st.Perfect)
}

func TestComputeLibraryStats_Empty(t *testing.T) {
	st := computeLibraryStats(nil)
	assert.Zero(t, st.Total)
	assert.Zero(t, st.Average)
}

func TestPrintLibraryStats_WeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	printLibraryStats(&buf, []phrase.SavedPhrase{
		scored("fine", 90, 1),
		scored("rough", 20, 1),
		scored("okay", 60, 1),
	}, 2)

	out := buf.String()
	assert.Contains(t, out, "Needs work:")
	assert.Less(t, strings.Index(out, "rough"), strings.Index(out, "okay"))
	assert.NotContains(t, out, "fine")
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf,
		[]store.PurposeUsage{
			{Purpose: "analysis", Calls: 2, InputTokens: 1000, OutputTokens: 200},
			{Purpose: "tts", Calls: 1, InputTokens: 10, OutputTokens: 0},
		},
		[]store.ModelUsage{{Model: "no-such-model", Calls: 3}},
	)

	out := buf.String()
	assert.Contains(t, out, "analysis")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "No pricing for: no-such-model")
}

func TestPrintUsage_Empty(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, nil, nil)
	assert.Equal(t, "No requests recorded.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
