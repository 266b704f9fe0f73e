// Package tools holds the fixed set of delegated subcommands and launches
// their standalone executables.
package tools

import "sort"

// Prefix is prepended to a subcommand name to form its executable name.
const Prefix = "orizon-"

// external is the registry of delegated subcommands. Keep it sorted; names
// are matched case-sensitively.
var external = []string{
	"ast",
	"bin2oriz",
	"bisect",
	"bootstrap",
	"bug",
	"build-examples",
	"build-tools",
	"bump",
	"check-md",
	"complete",
	"compress",
	"config",
	"cover",
	"doc",
	"doctor",
	"fmt",
	"fuzz",
	"gret",
	"ls",
	"lsp",
	"missdoc",
	"mockgen",
	"profile",
	"repl",
	"repro",
	"retry",
	"scan",
	"self",
	"setup-freetype",
	"shader",
	"should-compile-all",
	"smoke-test",
	"summary",
	"symlink",
	"test",
	"test-all",
	"test-cleancode",
	"test-fmt",
	"test-parser",
	"test-self",
	"timeout",
	"tracev",
	"up",
	"vet",
	"watch",
	"where",
	"wipe-cache",
}

var externalSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(external))
	for _, n := range external {
		m[n] = struct{}{}
	}
	return m
}()

// IsExternal reports whether name is a delegated subcommand.
func IsExternal(name string) bool {
	_, ok := externalSet[name]
	return ok
}

// External returns a copy of the registry in sorted order.
func External() []string {
	out := make([]string, len(external))
	copy(out, external)
	return out
}

// Executable returns the executable base name for a delegated subcommand.
func Executable(name string) string { return Prefix + name }

func init() {
	if !sort.StringsAreSorted(external) {
		panic("tools: external registry must be sorted")
	}
}
