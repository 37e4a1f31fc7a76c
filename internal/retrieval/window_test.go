package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWindowsShortTextSingleWindow(t *testing.T) {
	windows := splitWindows("a short note about Lisbon", DefaultWindowConfig())
	require.Len(t, windows, 1)
	assert.Equal(t, "a short note about Lisbon", windows[0])
}

func TestSplitWindowsEmptyText(t *testing.T) {
	assert.Nil(t, splitWindows("", DefaultWindowConfig()))
	assert.Nil(t, splitWindows("   \n\t  ", DefaultWindowConfig()))
}

func TestSplitWindowsRespectsMaxAndOverlap(t *testing.T) {
	words := make([]string, 0, 400)
	for i := 0; i < 400; i++ {
		words = append(words, "travel")
	}
	text := strings.Join(words, " ")

	cfg := WindowConfig{MaxChars: 200, MinChars: 50, Overlap: 40}
	windows := splitWindows(text, cfg)
	require.Greater(t, len(windows), 1)

	for _, w := range windows {
		assert.LessOrEqual(t, len([]rune(w)), cfg.MaxChars)
		assert.NotEmpty(t, w)
	}

	// Consecutive windows share text because of the overlap.
	for i := 1; i < len(windows); i++ {
		tail := windows[i-1][len(windows[i-1])-20:]
		assert.Contains(t, windows[i], strings.TrimSpace(tail))
	}
}

func TestSplitWindowsPrefersWordBoundaries(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 60)
	windows := splitWindows(text, WindowConfig{MaxChars: 100, MinChars: 30, Overlap: 20})
	require.NotEmpty(t, windows)
	for _, w := range windows {
		for _, word := range strings.Fields(w) {
			assert.Contains(t, []string{"alpha", "beta", "gamma", "delta"}, word,
				"window cut through a word: %q", w)
		}
	}
}

func TestSplitWindowsCoversAllText(t *testing.T) {
	text := strings.Repeat("one two three four five six seven eight nine ten ", 40)
	windows := splitWindows(text, WindowConfig{MaxChars: 150, MinChars: 40, Overlap: 30})
	require.NotEmpty(t, windows)

	// The last window must reach the end of the input.
	last := windows[len(windows)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}
