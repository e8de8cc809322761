package ui

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrWidgetNotFound is returned when a widget id does not resolve.
var ErrWidgetNotFound = errors.New("ui: widget not found")

// Widget is a mounted component tree. The id is the stable handle embedded in
// rendered markdown as <live-widget-ref id="...">; it stays resolvable until
// the widget is unmounted.
type Widget struct {
	id   string
	root Component

	mu   sync.Mutex
	html string // last rendered output of the detached container
}

// ID returns the widget identifier.
func (w *Widget) ID() string { return w.id }

// HTML returns the most recent rendering of the widget.
func (w *Widget) HTML() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.html
}

// Registry maps widget identifiers to mounted component trees. It is the
// resolution point the hosting page uses to turn live-widget-ref tags into
// real markup, and the routing point for widget actions.
//
// The registry is safe for concurrent use; render passes mounting widgets in
// parallel never share state beyond it.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]*Widget
}

// NewRegistry creates an empty widget registry.
func NewRegistry() *Registry {
	return &Registry{widgets: make(map[string]*Widget)}
}

// Mount renders root into a detached container and registers the result under
// a fresh identifier. Render faults fail the mount.
func (r *Registry) Mount(root Component) (*Widget, error) {
	var buf bytes.Buffer
	if err := root.RenderHTML(&buf); err != nil {
		return nil, fmt.Errorf("mount render: %w", err)
	}

	w := &Widget{id: uuid.NewString(), root: root, html: buf.String()}
	r.mu.Lock()
	r.widgets[w.id] = w
	r.mu.Unlock()
	return w, nil
}

// Resolve looks up a mounted widget by id.
func (r *Registry) Resolve(id string) (*Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

// Dispatch routes an action to the widget's component tree and returns the
// re-rendered HTML. Components wrapped in an ErrorBoundary absorb faults and
// render the fault card instead of failing the dispatch.
func (r *Registry) Dispatch(id, action string, data map[string]interface{}) (string, error) {
	w, ok := r.Resolve(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrWidgetNotFound, id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if actor, ok := w.root.(Actor); ok {
		if err := actor.HandleAction(action, data); err != nil {
			return "", fmt.Errorf("widget %s action %q: %w", id, action, err)
		}
	}

	var buf bytes.Buffer
	if err := w.root.RenderHTML(&buf); err != nil {
		return "", fmt.Errorf("widget %s re-render: %w", id, err)
	}
	w.html = buf.String()
	return w.html, nil
}

// Unmount removes a widget from the registry. Unknown ids are a no-op.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	delete(r.widgets, id)
	r.mu.Unlock()
}

// Len returns the number of mounted widgets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}
