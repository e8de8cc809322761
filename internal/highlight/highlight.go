// Package highlight wraps chroma to produce HTML for fenced code blocks.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownLanguage is returned when no lexer is registered for a language
// tag. Callers are expected to fall back to plain escaped text.
var ErrUnknownLanguage = errors.New("highlight: no lexer registered for language")

// Highlighter produces syntax-highlighted HTML. Lexers are looked up lazily
// and cached; the cache is shared across render passes.
type Highlighter struct {
	style *chroma.Style

	mu    sync.RWMutex
	cache map[string]chroma.Lexer
}

// New creates a Highlighter using the named chroma style. Unknown style names
// fall back to the chroma default.
func New(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style: style,
		cache: make(map[string]chroma.Lexer),
	}
}

// Highlight renders code as highlighted HTML. highlightLines holds inclusive
// [start, end] line ranges to mark visually; pass nil for none.
func (h *Highlighter) Highlight(code, language string, highlightLines [][2]int) (string, error) {
	lexer := h.lexer(language)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %q: %w", language, err)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.HighlightLines(highlightLines),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("format %q: %w", language, err)
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for the class-based formatter output.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, h.style)
}

func (h *Highlighter) lexer(language string) chroma.Lexer {
	h.mu.RLock()
	lexer, ok := h.cache[language]
	h.mu.RUnlock()
	if ok {
		return lexer
	}

	lexer = lexers.Get(language)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	h.mu.Lock()
	h.cache[language] = lexer
	h.mu.Unlock()
	return lexer
}

// Ranges converts a set of 1-based line numbers into the sorted, merged
// inclusive ranges the HTML formatter expects.
func Ranges(lines []int) [][2]int {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]int, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, n := range lines {
		if n > 0 && !seen[n] {
			seen[n] = true
			sorted = append(sorted, n)
		}
	}
	sort.Ints(sorted)
	if len(sorted) == 0 {
		return nil
	}

	ranges := [][2]int{{sorted[0], sorted[0]}}
	for _, n := range sorted[1:] {
		last := &ranges[len(ranges)-1]
		if n == last[1]+1 {
			last[1] = n
			continue
		}
		ranges = append(ranges, [2]int{n, n})
	}
	return ranges
}
