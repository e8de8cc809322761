// Package ui provides the component model for live widgets embedded in
// rendered markdown. Components render themselves to HTML; interactive
// components additionally implement Actor so the widget registry can route
// actions to them after mount.
package ui

import (
	"html/template"
	"io"
)

// Component is a renderable UI element.
type Component interface {
	RenderHTML(w io.Writer) error
}

// Actor is implemented by components that handle actions after mount.
// Actions arrive through Registry.Dispatch with an action name and an
// optional data payload.
type Actor interface {
	HandleAction(action string, data map[string]interface{}) error
}

type text string

func (t text) RenderHTML(w io.Writer) error {
	_, err := io.WriteString(w, `<span class="solara-text">`+template.HTMLEscapeString(string(t))+`</span>`)
	return err
}

// Text returns a component that renders escaped text.
func Text(s string) Component { return text(s) }

type rawHTML string

func (h rawHTML) RenderHTML(w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// HTML returns a component that renders raw, unescaped HTML.
// The caller is responsible for the safety of the markup.
func HTML(markup string) Component { return rawHTML(markup) }

type preformatted string

func (p preformatted) RenderHTML(w io.Writer) error {
	_, err := io.WriteString(w, `<pre class="solara-preformatted">`+template.HTMLEscapeString(string(p))+`</pre>`)
	return err
}

// Preformatted returns a component that renders escaped text in a <pre> block.
func Preformatted(s string) Component { return preformatted(s) }

type alert string

func (a alert) RenderHTML(w io.Writer) error {
	_, err := io.WriteString(w, `<div class="solara-alert solara-alert-error" role="alert">`+template.HTMLEscapeString(string(a))+`</div>`)
	return err
}

// Alert returns a component that renders an error-styled message box.
func Alert(message string) Component { return alert(message) }

// container renders children inside a classed <div> and forwards actions to
// any child that implements Actor.
type container struct {
	class    string
	children []Component
}

func (c *container) RenderHTML(w io.Writer) error {
	if _, err := io.WriteString(w, `<div class="`+c.class+`">`); err != nil {
		return err
	}
	for _, child := range c.children {
		if err := child.RenderHTML(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>`)
	return err
}

func (c *container) HandleAction(action string, data map[string]interface{}) error {
	for _, child := range c.children {
		if actor, ok := child.(Actor); ok {
			if err := actor.HandleAction(action, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// Column stacks children vertically.
func Column(children ...Component) Component {
	return &container{class: "solara-column", children: children}
}

// Row lays children out horizontally.
func Row(children ...Component) Component {
	return &container{class: "solara-row", children: children}
}

// AppLayout wraps children in the standard page shell used when a live fence
// defines a Page constructor instead of an app object.
func AppLayout(children ...Component) Component {
	return &container{class: "solara-app-layout", children: children}
}

type details struct {
	summary  string
	children []Component
}

func (d *details) RenderHTML(w io.Writer) error {
	if _, err := io.WriteString(w, `<details class="solara-details"><summary>`+template.HTMLEscapeString(d.summary)+`</summary>`); err != nil {
		return err
	}
	for _, child := range d.children {
		if err := child.RenderHTML(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</details>`)
	return err
}

func (d *details) HandleAction(action string, data map[string]interface{}) error {
	for _, child := range d.children {
		if actor, ok := child.(Actor); ok {
			if err := actor.HandleAction(action, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// Details renders children inside a collapsible disclosure element.
func Details(summary string, children ...Component) Component {
	return &details{summary: summary, children: children}
}
