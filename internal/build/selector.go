// Package build routes a build request to its backend and runs the in-process
// C path: code generation, C compilation and, for run, execution.
package build

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/orizon-lang/orizon/internal/prefs"
	"github.com/orizon-lang/orizon/internal/tools"
)

// Request is what a backend handler receives.
type Request struct {
	Prefs *prefs.Preferences
	// RawArgs are the invocation's arguments, forwarded unchanged to
	// delegated builders.
	RawArgs []string
}

// Handler builds a request on one backend.
type Handler interface {
	Build(ctx context.Context, req Request) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) error

// Build implements Handler.
func (f HandlerFunc) Build(ctx context.Context, req Request) error { return f(ctx, req) }

// Routes holds exactly one handler per backend, in backend declaration order.
// Build it with an unkeyed literal so a backend without a route is a compile
// error.
type Routes struct {
	C              Handler
	JSNode         Handler
	JSFreestanding Handler
	JSBrowser      Handler
	Native         Handler
	Interpret      Handler
	Golang         Handler
	Wasm           Handler
}

// Fails to compile when Routes and the backend list differ in size.
var _ = [1]struct{}{}[unsafe.Sizeof(Routes{})/unsafe.Sizeof(Handler(nil))-uintptr(prefs.NumBackends)]

// Builder executable names of the delegated backends.
const (
	JSBuilder        = "orizon-builder-js"
	NativeBuilder    = "orizon-builder-native"
	InterpretBuilder = "orizon-builder-interpret"
	GolangBuilder    = "orizon-builder-go"
	WasmBuilder      = "orizon-builder-wasm"
)

// DefaultRoutes runs the C backend in process and delegates every other
// backend to its builder executable.
func DefaultRoutes(c Handler, launcher tools.Launcher) Routes {
	js := Delegate(launcher, JSBuilder)
	return Routes{
		c,
		js,
		js,
		js,
		Delegate(launcher, NativeBuilder),
		Delegate(launcher, InterpretBuilder),
		Delegate(launcher, GolangBuilder),
		Delegate(launcher, WasmBuilder),
	}
}

// Delegate returns a handler that launches tool with the raw arguments.
func Delegate(launcher tools.Launcher, tool string) Handler {
	return &delegated{launcher: launcher, tool: tool}
}

type delegated struct {
	launcher tools.Launcher
	tool     string
}

func (d *delegated) Build(ctx context.Context, req Request) error {
	return d.launcher.Launch(ctx, d.tool, req.RawArgs)
}

// Selector dispatches a build to the handler of its backend.
type Selector struct {
	routes Routes
}

// NewSelector validates that every backend has a handler.
func NewSelector(routes Routes) (*Selector, error) {
	s := &Selector{routes: routes}
	for _, b := range prefs.Backends() {
		h, err := s.Route(b)
		if err != nil {
			return nil, err
		}
		if h == nil {
			return nil, fmt.Errorf("no handler for backend %s", b)
		}
	}
	return s, nil
}

// Route returns the handler for b.
func (s *Selector) Route(b prefs.Backend) (Handler, error) {
	switch b {
	case prefs.BackendC:
		return s.routes.C, nil
	case prefs.BackendJSNode:
		return s.routes.JSNode, nil
	case prefs.BackendJSFreestanding:
		return s.routes.JSFreestanding, nil
	case prefs.BackendJSBrowser:
		return s.routes.JSBrowser, nil
	case prefs.BackendNative:
		return s.routes.Native, nil
	case prefs.BackendInterpret:
		return s.routes.Interpret, nil
	case prefs.BackendGolang:
		return s.routes.Golang, nil
	case prefs.BackendWasm:
		return s.routes.Wasm, nil
	}
	return nil, fmt.Errorf("unknown backend %s", b)
}

// Build routes req by its backend.
func (s *Selector) Build(ctx context.Context, req Request) error {
	h, err := s.Route(req.Prefs.Backend)
	if err != nil {
		return err
	}
	return h.Build(ctx, req)
}
