// Package term decides whether a file descriptor is attached to an
// interactive terminal. The mechanism is platform dependent, so it is
// selected by name rather than hard-coded.
package term

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
)

// Detector reports whether f is an interactive terminal.
type Detector interface {
	IsTerminal(f *os.File) bool
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(f *os.File) bool

// IsTerminal implements Detector.
func (fn DetectorFunc) IsTerminal(f *os.File) bool { return fn(f) }

// Strategy names accepted by Lookup.
const (
	StrategyIsatty  = "isatty"
	StrategyTermios = "termios"
	StrategyStat    = "stat"
	StrategyAlways  = "always"
	StrategyNever   = "never"
)

// DefaultStrategy is used when nothing is configured.
const DefaultStrategy = StrategyIsatty

var strategies = map[string]Detector{
	// Cygwin and MSYS ptys are pipes to the OS; go-isatty recognizes them by name.
	StrategyIsatty: DetectorFunc(func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}),
	StrategyTermios: DetectorFunc(termiosIsTerminal),
	StrategyStat: DetectorFunc(func(f *os.File) bool {
		st, err := f.Stat()
		if err != nil {
			return false
		}
		return st.Mode()&os.ModeCharDevice != 0
	}),
	StrategyAlways: DetectorFunc(func(*os.File) bool { return true }),
	StrategyNever:  DetectorFunc(func(*os.File) bool { return false }),
}

// Lookup returns the detector registered under name. An empty name selects
// DefaultStrategy.
func Lookup(name string) (Detector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultStrategy
	}
	d, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown terminal detection strategy %q (want one of %s)",
			name, strings.Join(Strategies(), ", "))
	}
	return d, nil
}

// Strategies lists the registered strategy names, sorted.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns the DefaultStrategy detector.
func Default() Detector { return strategies[DefaultStrategy] }
