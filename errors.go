package solara

import (
	"errors"

	"github.com/ByteBallet/solara/internal/execute"
	"github.com/ByteBallet/solara/internal/highlight"
)

// Sentinel errors for render failures.
var (
	// ErrUnknownLanguage means no lexer is registered for a fence's language
	// tag. The renderer recovers from this itself by falling back to escaped
	// plain text; it is exported for callers using the highlighter directly.
	ErrUnknownLanguage = highlight.ErrUnknownLanguage

	// ErrNoEntryPoint means an executed live fence defined neither app nor
	// Page. It aborts the document render.
	ErrNoEntryPoint = execute.ErrNoEntryPoint
)

// ExecError wraps the underlying fault when compiling or running live-fence
// code fails. Faults at this stage abort the document render; faults raised
// later, during interactive use of an already-mounted widget, are caught by
// the widget's error boundary and shown inline instead.
type ExecError = execute.ExecError

// IsExecError checks whether err is a live-execution failure, including
// ErrNoEntryPoint.
func IsExecError(err error) bool {
	var execErr *ExecError
	return errors.As(err, &execErr) || errors.Is(err, ErrNoEntryPoint)
}
