package solara

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/ByteBallet/solara/internal/execute"
	"github.com/ByteBallet/solara/internal/highlight"
	"github.com/ByteBallet/solara/ui"
)

const (
	// defaultLiveTag is the reserved fence language that marks runnable code.
	defaultLiveTag = "solara"

	// hostLanguage is what live fences are written in; their source is
	// highlighted under this tag before (or instead of) execution.
	hostLanguage = "go"

	mermaidTag = "mermaid"
)

const noticeExecutionDisabled = `<div class="solara-execute-disabled"><i>solara execution is not enabled</i></div>` + "\n"

const liveOutputFormat = `<div class="solara-markdown-output v-card v-sheet elevation-7">` +
	`<live-widget-ref id="%s">loading widget...</live-widget-ref>` +
	`<div class="v-messages">Live output</div></div>` + "\n"

// Renderer turns markdown documents into wrapped, hash-keyed markup units.
// One Renderer owns one widget registry; concurrent Render calls are safe.
type Renderer struct {
	liveTag        string
	highlightStyle string

	highlighter *highlight.Highlighter
	registry    *ui.Registry
	executor    *execute.Executor
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLiveTag overrides the reserved live-execution fence language.
func WithLiveTag(tag string) Option {
	return func(r *Renderer) { r.liveTag = tag }
}

// WithHighlightStyle selects the chroma style used for code fences.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) { r.highlightStyle = name }
}

// WithRegistry mounts live widgets into an externally owned registry instead
// of a private one.
func WithRegistry(registry *ui.Registry) Option {
	return func(r *Renderer) { r.registry = registry }
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		liveTag:        defaultLiveTag,
		highlightStyle: "github",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = ui.NewRegistry()
	}
	r.highlighter = highlight.New(r.highlightStyle)
	r.executor = execute.New(r.registry)
	return r
}

// Registry returns the widget registry live fences mount into.
func (r *Renderer) Registry() *ui.Registry { return r.registry }

// Highlighter returns the underlying syntax highlighter, for serving its
// stylesheet alongside rendered pages.
func (r *Renderer) Highlighter() *highlight.Highlighter { return r.highlighter }

// Render renders doc to a wrapped markup unit.
//
// Output is deterministic: the same document and configuration produce
// byte-identical markup and an identical key, except that each executed live
// fence embeds a fresh widget identifier, which makes the key fresh too. An
// unknown fence language degrades to escaped plain text with a logged
// warning; a live fence that fails to execute aborts the whole render.
func (r *Renderer) Render(doc Document) (Markup, error) {
	text := Dedent(doc.Text)
	fences := &fenceRenderer{
		renderer:       r,
		gate:           NewExecutionGate(doc.UnsafeExecute),
		highlightLines: highlight.Ranges(doc.HighlightLines),
	}

	// A fresh engine per pass keeps passes independent; the fence renderer
	// carries this pass's configuration.
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(fences, 100)),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return Markup{}, fmt.Errorf("render markdown: %w", err)
	}
	body := buf.String()

	if doc.Sanitize {
		body = sanitizePolicy().Sanitize(body)
	}

	style, err := FlattenStyle(doc.Style)
	if err != nil {
		return Markup{}, err
	}

	return Markup{
		Template:  wrapTemplate(body, style),
		Key:       identityKey(body, doc.UnsafeExecute, doc.HighlightLines),
		WidgetIDs: fences.widgetIDs,
	}, nil
}

// fenceRenderer replaces goldmark's fenced-code-block rendering, dispatching
// on the language tag. One instance serves one render pass.
type fenceRenderer struct {
	renderer       *Renderer
	gate           ExecutionGate
	highlightLines [][2]int

	widgetIDs []string // widgets mounted by this pass, in document order
}

func (f *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, f.renderFencedCodeBlock)
}

func (f *fenceRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))
	code := fenceBody(n, source)

	switch language {
	case f.renderer.liveTag:
		return f.renderLive(w, code)
	case mermaidTag:
		_, _ = w.WriteString(`<div class="mermaid">`)
		_, _ = w.WriteString(template.HTMLEscapeString(code))
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	case "":
		writeEscapedFence(w, "", code)
		return ast.WalkContinue, nil
	}

	highlighted, err := f.renderer.highlighter.Highlight(code, language, f.highlightLines)
	if err != nil {
		if errors.Is(err, highlight.ErrUnknownLanguage) {
			log.Printf("[Markdown] No lexer for language %q, falling back to plain text", language)
			writeEscapedFence(w, language, code)
			return ast.WalkContinue, nil
		}
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(highlighted)
	return ast.WalkContinue, nil
}

// renderLive handles the reserved live fence: highlighted source first, then
// either the mounted widget reference or the disabled notice.
func (f *fenceRenderer) renderLive(w util.BufWriter, code string) (ast.WalkStatus, error) {
	highlighted, err := f.renderer.highlighter.Highlight(code, hostLanguage, f.highlightLines)
	if err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(highlighted)

	if !f.gate.Allowed() {
		_, _ = w.WriteString(noticeExecutionDisabled)
		return ast.WalkContinue, nil
	}

	widget, err := f.renderer.executor.Execute(code)
	if err != nil {
		// Initial fence evaluation failed: abort the document render rather
		// than splicing a broken fragment between siblings.
		return ast.WalkStop, err
	}
	f.widgetIDs = append(f.widgetIDs, widget.ID())
	_, _ = fmt.Fprintf(w, liveOutputFormat, widget.ID())
	return ast.WalkContinue, nil
}

func fenceBody(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func writeEscapedFence(w util.BufWriter, language, code string) {
	_, _ = w.WriteString("<pre><code")
	if language != "" {
		_, _ = w.WriteString(` class="language-` + template.HTMLEscapeString(language) + `"`)
	}
	_, _ = w.WriteString(">")
	_, _ = w.WriteString(template.HTMLEscapeString(code))
	_, _ = w.WriteString("</code></pre>\n")
}
