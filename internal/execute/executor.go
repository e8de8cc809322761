// Package execute compiles and runs live-fence source code and mounts the
// resulting component tree as a widget.
//
// Each execution gets a fresh interpreter with an empty top-level scope, so
// repeated renders never leak state between fence evaluations and fence code
// cannot observe host internals beyond the exposed ui package. There is no
// sandboxing beyond that: executed code can do anything the host process can,
// which is why execution sits behind an explicit opt-in gate upstream.
package execute

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/ByteBallet/solara/ui"
)

// ErrNoEntryPoint is returned when executed code defines neither a top-level
// app component nor a Page constructor.
var ErrNoEntryPoint = errors.New("execute: live code defines neither app nor Page")

// ExecError wraps a fault raised while compiling or running live-fence code.
type ExecError struct {
	Stage string // "run" or "mount"
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execute: %s: %v", e.Stage, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Executor runs live-fence code and mounts the result in a widget registry.
type Executor struct {
	registry *ui.Registry
}

// New creates an Executor that mounts widgets into registry.
func New(registry *ui.Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute compiles and runs code in a fresh isolated scope, locates the entry
// point, renders the component tree into a detached container and returns the
// mounted widget. Fence code may import the host ui package:
//
//	import "github.com/ByteBallet/solara/ui"
//
//	var app = ui.Text("hello")
//
// A bound name app is used directly as the component root. Otherwise a bound
// Page is treated as a zero-argument constructor whose result is wrapped in
// the app-layout shell with an error boundary. Anything else fails with
// ErrNoEntryPoint.
func (e *Executor) Execute(code string) (*ui.Widget, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &ExecError{Stage: "run", Err: err}
	}
	if err := i.Use(Symbols); err != nil {
		return nil, &ExecError{Stage: "run", Err: err}
	}

	if _, err := i.Eval(code); err != nil {
		return nil, &ExecError{Stage: "run", Err: err}
	}

	root, err := entryPoint(i)
	if err != nil {
		return nil, err
	}

	widget, err := e.registry.Mount(root)
	if err != nil {
		return nil, &ExecError{Stage: "mount", Err: err}
	}
	return widget, nil
}

// entryPoint inspects the interpreter scope left behind by the executed code.
func entryPoint(i *interp.Interpreter) (ui.Component, error) {
	if v, err := i.Eval("app"); err == nil {
		root, ok := v.Interface().(ui.Component)
		if !ok {
			return nil, &ExecError{Stage: "run", Err: fmt.Errorf("app is %T, not a ui.Component", v.Interface())}
		}
		return root, nil
	}

	if v, err := i.Eval("Page"); err == nil {
		page, err := instantiatePage(v)
		if err != nil {
			return nil, err
		}
		return ui.AppLayout(ui.NewErrorBoundary(page)), nil
	}

	return nil, ErrNoEntryPoint
}

// instantiatePage calls the Page constructor. The call happens outside any
// error boundary, so a constructor fault aborts the fence evaluation.
func instantiatePage(v reflect.Value) (page ui.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = &ExecError{Stage: "run", Err: fmt.Errorf("panic instantiating Page: %v", r)}
		}
	}()

	if v.Kind() != reflect.Func {
		// Allow Page to be a ready component as well as a constructor.
		if root, ok := v.Interface().(ui.Component); ok {
			return root, nil
		}
		return nil, &ExecError{Stage: "run", Err: fmt.Errorf("Page is %s, not a zero-argument constructor", v.Kind())}
	}
	if v.Type().NumIn() != 0 || v.Type().NumOut() != 1 {
		return nil, &ExecError{Stage: "run", Err: fmt.Errorf("Page must take no arguments and return one component")}
	}

	out := v.Call(nil)
	root, ok := out[0].Interface().(ui.Component)
	if !ok {
		return nil, &ExecError{Stage: "run", Err: fmt.Errorf("Page returned %T, not a ui.Component", out[0].Interface())}
	}
	return root, nil
}
