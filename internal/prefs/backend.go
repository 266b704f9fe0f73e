package prefs

import (
	"fmt"
	"strings"
)

// Backend selects the code-generation path of a build. The set is closed:
// NumBackends must stay last.
type Backend int

const (
	BackendC Backend = iota
	BackendJSNode
	BackendJSFreestanding
	BackendJSBrowser
	BackendNative
	BackendInterpret
	BackendGolang
	BackendWasm

	NumBackends
)

var backendNames = [...]string{
	BackendC:              "c",
	BackendJSNode:         "js_node",
	BackendJSFreestanding: "js_freestanding",
	BackendJSBrowser:      "js_browser",
	BackendNative:         "native",
	BackendInterpret:      "interpret",
	BackendGolang:         "go",
	BackendWasm:           "wasm",
}

// Fails to compile when a backend is added without a name.
var _ = [1]struct{}{}[len(backendNames)-int(NumBackends)]

var backendAliases = map[string]Backend{
	"js":     BackendJSNode,
	"golang": BackendGolang,
}

func (b Backend) String() string {
	if b < 0 || b >= NumBackends {
		return fmt.Sprintf("Backend(%d)", int(b))
	}
	return backendNames[b]
}

// Valid reports whether b is one of the declared backends.
func (b Backend) Valid() bool { return b >= 0 && b < NumBackends }

// IsJS reports whether b is one of the JavaScript variants.
func (b Backend) IsJS() bool {
	return b == BackendJSNode || b == BackendJSFreestanding || b == BackendJSBrowser
}

// Backends returns every declared backend in declaration order.
func Backends() []Backend {
	out := make([]Backend, 0, NumBackends)
	for b := Backend(0); b < NumBackends; b++ {
		out = append(out, b)
	}
	return out
}

// ParseBackend maps a -b value to a Backend.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range backendNames {
		if name == s {
			return Backend(b), nil
		}
	}
	if b, ok := backendAliases[s]; ok {
		return b, nil
	}
	return BackendC, fmt.Errorf("unknown backend %q (want one of %s)", s, strings.Join(backendNames[:], ", "))
}
