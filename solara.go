// Package solara renders markdown to HTML with syntax-highlighted code
// fences and, optionally, live execution of a designated code fence whose
// output is mounted as an embedded interactive widget.
//
// Rendering is synchronous and side-effect free per pass: a Renderer may be
// used from multiple goroutines, with each Render call getting its own
// markdown engine and each live fence its own isolated interpreter scope.
// Mounted widgets live in the Renderer's ui.Registry until unmounted.
package solara

// Document is one render pass worth of input: the markdown text plus its
// render configuration. It is immutable for the duration of the pass.
type Document struct {
	// Text is the raw markdown source. A uniform leading-whitespace prefix
	// shared by all lines is removed before tokenizing.
	Text string

	// UnsafeExecute opts in to executing live code fences. Executed code runs
	// with the full privileges of the host process; only set this for
	// markdown you trust.
	UnsafeExecute bool

	// HighlightLines lists 1-based line numbers to mark visually in
	// highlighted code blocks.
	HighlightLines []int

	// Style is an optional style spec applied to the wrapping element:
	// either an inline CSS string or a map of property to value.
	Style interface{}

	// Sanitize filters the rendered body through an HTML sanitizer before
	// wrapping. Off by default; raw HTML in the markdown passes through.
	Sanitize bool
}

// Markup is the opaque output unit of a render pass. Key is a content hash
// over the HTML and the render configuration: any semantic change to the
// output changes the key, so the hosting layer can replace stale output
// wholesale instead of diffing it. A pass that executed a live fence always
// yields a fresh key, because the embedded widget identifier is fresh.
type Markup struct {
	Template string
	Key      string

	// WidgetIDs lists the widgets this pass mounted, in document order. The
	// hosting layer owns their lifecycle: unmounting a stale set when its
	// markup is replaced keeps the registry from accumulating dead widgets.
	WidgetIDs []string
}

// ExecutionGate is the single decision point for whether live-fence code may
// execute. It exists as a named type so call sites cannot accidentally
// default to running untrusted code.
type ExecutionGate struct {
	enabled bool
}

// NewExecutionGate returns a gate reflecting the caller-supplied flag.
func NewExecutionGate(enabled bool) ExecutionGate {
	return ExecutionGate{enabled: enabled}
}

// Allowed reports whether live-fence execution is permitted.
func (g ExecutionGate) Allowed() bool { return g.enabled }
