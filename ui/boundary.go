package ui

import (
	"bytes"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
)

// ErrorBoundary wraps a component and intercepts faults raised while it
// renders or handles actions. Once faulted it stays faulted: the boundary
// renders an error summary with a collapsible stack trace instead of the
// child, until a fresh render pass produces a new widget.
type ErrorBoundary struct {
	mu    sync.Mutex
	child Component
	fault error
	stack string
}

// NewErrorBoundary wraps child in an error boundary.
func NewErrorBoundary(child Component) *ErrorBoundary {
	return &ErrorBoundary{child: child}
}

// Faulted reports whether the boundary has caught a fault.
func (b *ErrorBoundary) Faulted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fault != nil
}

// RenderHTML renders the child, or the fault card if the boundary is faulted.
func (b *ErrorBoundary) RenderHTML(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fault == nil {
		// Render into a scratch buffer so a mid-render fault does not leave
		// partial child output in the document.
		var buf bytes.Buffer
		err, stack := catchFault(func() error { return b.child.RenderHTML(&buf) })
		if err == nil {
			_, werr := w.Write(buf.Bytes())
			return werr
		}
		b.fault = err
		b.stack = stack
	}
	return b.renderFault(w)
}

// HandleAction forwards the action to the child. Faults are absorbed into the
// boundary rather than propagated, so a broken widget never aborts the page.
func (b *ErrorBoundary) HandleAction(action string, data map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fault != nil {
		return nil
	}
	actor, ok := b.child.(Actor)
	if !ok {
		return nil
	}
	if err, stack := catchFault(func() error { return actor.HandleAction(action, data) }); err != nil {
		b.fault = err
		b.stack = stack
	}
	return nil
}

func (b *ErrorBoundary) renderFault(w io.Writer) error {
	card := Column(
		Alert(fmt.Sprintf("Oops, an error occurred: %v", b.fault)),
		Details("Exception details", Preformatted(b.fault.Error()+"\n\n"+b.stack)),
	)
	return card.RenderHTML(w)
}

// catchFault runs fn, converting a panic into an error with its stack trace.
func catchFault(fn func() error) (err error, stack string) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			stack = string(debug.Stack())
		}
	}()
	err = fn()
	return err, ""
}
