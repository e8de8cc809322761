package highlight

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightKnownLanguage(t *testing.T) {
	h := New("github")
	html, err := h.Highlight("func main() {}\n", "go", nil)
	require.NoError(t, err)
	assert.Contains(t, html, "chroma")
	assert.Contains(t, html, "main")
}

func TestHighlightUnknownLanguage(t *testing.T) {
	h := New("github")
	_, err := h.Highlight("++", "brainfuck9000", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLanguage))
}

func TestHighlightDeterministic(t *testing.T) {
	h := New("github")
	first, err := h.Highlight("print('x')\n", "python", [][2]int{{1, 1}})
	require.NoError(t, err)
	second, err := h.Highlight("print('x')\n", "python", [][2]int{{1, 1}})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHighlightLexerCache(t *testing.T) {
	h := New("github")
	_, err := h.Highlight("x = 1", "python", nil)
	require.NoError(t, err)

	h.mu.RLock()
	_, cached := h.cache["python"]
	h.mu.RUnlock()
	assert.True(t, cached)
}

func TestHighlightUnknownStyleFallsBack(t *testing.T) {
	h := New("no-such-style")
	html, err := h.Highlight("x = 1", "python", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, html)
}

func TestWriteCSS(t *testing.T) {
	h := New("github")
	var buf bytes.Buffer
	require.NoError(t, h.WriteCSS(&buf))
	assert.Contains(t, buf.String(), ".chroma")
}

func TestRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected [][2]int
	}{
		{"empty", nil, nil},
		{"single", []int{3}, [][2]int{{3, 3}}},
		{"consecutive merge", []int{1, 2, 3}, [][2]int{{1, 3}}},
		{"gaps split", []int{1, 2, 5}, [][2]int{{1, 2}, {5, 5}}},
		{"unsorted with duplicates", []int{5, 1, 2, 2, 1}, [][2]int{{1, 2}, {5, 5}}},
		{"non-positive dropped", []int{0, -1, 2}, [][2]int{{2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ranges(tt.input))
		})
	}
}
