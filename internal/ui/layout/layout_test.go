package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestTooSmall(t *testing.T) {
	_, small := TooSmall(MinWidth, MinHeight)
	assert.False(t, small)

	msg, small := TooSmall(40, 10)
	assert.True(t, small)
	assert.Contains(t, msg, "40×10")
}

func TestHeaderShowsTrailAndStatus(t *testing.T) {
	h := Header([]string{"Home", "Library"}, Status{Phrases: 1, Difficulty: "Medium"}, 80)

	assert.Contains(t, h, "Home")
	assert.Contains(t, h, "Library")
	assert.Contains(t, h, "1 phrase")
	assert.NotContains(t, h, "1 phrases")
	assert.Contains(t, h, "Medium")
	assert.NotContains(t, h, "REC")

	rec := Header([]string{"Practice"}, Status{Phrases: 3, Recording: true}, 80)
	assert.Contains(t, rec, "REC")
	assert.Contains(t, rec, "3 phrases")
}

func TestFrameFillsHeight(t *testing.T) {
	header := Header([]string{"Home"}, Status{}, 80)
	footer := Footer([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)

	frame := Frame(header, "body", footer, 80, 30)
	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.Equal(t, 30-lipgloss.Height(header)-lipgloss.Height(footer), BodyHeight(header, footer, 30))
}
