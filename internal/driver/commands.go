package driver

import (
	"sort"

	"github.com/orizon-lang/orizon/internal/tools"
)

// AccumulatingFlags are the flags whose repeated occurrences append instead
// of replacing the previous value.
var AccumulatingFlags = []string{"cc", "d", "define", "cf", "cflags"}

// buildCommands maps each build command to whether the arguments after its
// target are program arguments.
var buildCommands = map[string]bool{
	"run":          true,
	"crun":         true,
	"build":        false,
	"build-module": false,
}

// packageCommands are delegated to the package manager.
var packageCommands = map[string]bool{
	"install":  true,
	"list":     true,
	"outdated": true,
	"remove":   true,
	"search":   true,
	"show":     true,
	"update":   true,
	"upgrade":  true,
}

var builtins = []string{
	"build",
	"build-module",
	"crun",
	"get",
	"help",
	"init",
	"install",
	"interpret",
	"list",
	"new",
	"outdated",
	"remove",
	"run",
	"search",
	"show",
	"translate",
	"update",
	"upgrade",
	"version",
	"vlib-docs",
}

var builtinSet = func() map[string]bool {
	m := make(map[string]bool, len(builtins))
	for _, b := range builtins {
		m[b] = true
	}
	return m
}()

// Builtins returns the builtin command names, sorted.
func Builtins() []string {
	out := make([]string, len(builtins))
	copy(out, builtins)
	return out
}

// IsBuiltin reports whether name is a builtin command.
func IsBuiltin(name string) bool { return builtinSet[name] }

// Delegated executables of builtin commands.
const (
	ReplTool      = "repl"
	CreateTool    = "create"
	PackageTool   = "pkg"
	DocTool       = "doc"
	TranslateTool = "translate"
)

// DeprecatedGet is printed for the retired `get` command.
const DeprecatedGet = "Use `orizon install` to install packages from the package index."

// commandNames is the candidate set for suggestions.
func commandNames() []string {
	names := append(tools.External(), builtins...)
	sort.Strings(names)
	return names
}

func init() {
	if !sort.StringsAreSorted(builtins) {
		panic("driver: builtins must be sorted")
	}
	for _, b := range builtins {
		if tools.IsExternal(b) {
			panic("driver: " + b + " is both a builtin and an external tool")
		}
	}
}
