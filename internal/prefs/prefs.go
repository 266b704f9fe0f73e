// Package prefs turns an argument vector into Preferences, the parsed
// configuration of a single invocation.
package prefs

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// SourceExt is the recognized source-file suffix.
const SourceExt = ".oriz"

// Preferences is built once per invocation and treated as read-only afterwards.
type Preferences struct {
	Backend Backend
	OS      string
	Arch    string

	// CCompilers holds every -cc value in order; the last one is effective.
	CCompilers []string
	// CompilerIdentifier is the normalized family of the effective C compiler.
	CompilerIdentifier string

	IsProd    bool
	IsVerbose bool
	IsDebug   bool
	IsHelp    bool
	UseCache  bool

	ShowTimings bool

	// CompileDefinesAll holds every -d/-define value in order.
	CompileDefinesAll []string
	CFlags            []string

	// Command is the first positional argument.
	Command string
	// Path is the build target.
	Path string
	// Out is the -o output path.
	Out string
	// RunArgs are passed to the program started by run/crun.
	RunArgs []string
	// CommandArgs are the arguments following any other command, unparsed.
	CommandArgs []string
}

// CCompiler returns the effective C compiler executable.
func (p *Preferences) CCompiler() string {
	if len(p.CCompilers) == 0 {
		return defaultCCompiler()
	}
	return p.CCompilers[len(p.CCompilers)-1]
}

// Options tells Parse how the dispatcher interprets commands.
type Options struct {
	// Accumulating lists flag names whose repeated occurrences append.
	// Every other list-valued flag keeps only its last occurrence.
	Accumulating []string
	// BuildCommands maps a build command to whether the arguments after its
	// target belong to the program being run.
	BuildCommands map[string]bool
	// IsTarget reports whether a command token names a build target
	// directly (a source file or an existing path).
	IsTarget func(command string) bool
}

// ParseError is returned for malformed argument vectors.
type ParseError struct {
	Arg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Arg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Arg, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse parses args. Flags may appear before the command, and, for build
// commands and direct targets, between the command and the target.
func Parse(args []string, opts Options) (*Preferences, error) {
	p := &Preferences{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	var backend string
	fs := newFlagSet(p, &backend, opts.Accumulating)

	rest := args
	takesTarget, programArgs := false, false
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, &ParseError{Err: err}
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}

		tok := rest[0]
		rest = rest[1:]

		if p.Command == "" {
			p.Command = tok
			if pass, ok := opts.BuildCommands[tok]; ok {
				takesTarget, programArgs = true, pass
				continue
			}
			if opts.IsTarget != nil && opts.IsTarget(tok) {
				p.Path = tok
				continue
			}
			// Anything else is handed over untouched.
			p.CommandArgs = append([]string(nil), rest...)
			break
		}

		if takesTarget && p.Path == "" {
			p.Path = tok
			if programArgs {
				p.RunArgs = append([]string(nil), rest...)
				break
			}
			continue
		}

		return nil, &ParseError{Arg: tok, Err: fmt.Errorf("unexpected argument after target %q", p.Path)}
	}

	if backend != "" {
		b, err := ParseBackend(backend)
		if err != nil {
			return nil, &ParseError{Arg: "-b", Err: err}
		}
		p.Backend = b
	}
	p.OS = strings.ToLower(p.OS)
	p.Arch = strings.ToLower(p.Arch)
	p.CompilerIdentifier = CompilerIdentifier(p.CCompiler())

	return p, nil
}

func newFlagSet(p *Preferences, backend *string, accumulating []string) *flag.FlagSet {
	acc := make(map[string]bool, len(accumulating))
	for _, n := range accumulating {
		acc[n] = true
	}
	list := func(dst *[]string, name string) flag.Value {
		return &listValue{dst: dst, accumulate: acc[name]}
	}

	fs := flag.NewFlagSet("orizon", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(backend, "b", "", "backend: c, js, js_node, js_freestanding, js_browser, native, interpret, go, wasm")
	fs.StringVar(backend, "backend", "", "alias of -b")
	fs.StringVar(&p.OS, "os", p.OS, "target operating system")
	fs.StringVar(&p.Arch, "arch", p.Arch, "target architecture")
	fs.StringVar(&p.Out, "o", "", "output path")
	fs.Var(list(&p.CCompilers, "cc"), "cc", "C compiler")
	fs.Var(list(&p.CompileDefinesAll, "d"), "d", "define a compile-time flag")
	fs.Var(list(&p.CompileDefinesAll, "define"), "define", "alias of -d")
	fs.Var(list(&p.CFlags, "cf"), "cf", "extra C compiler flags")
	fs.Var(list(&p.CFlags, "cflags"), "cflags", "alias of -cf")
	fs.BoolVar(&p.IsProd, "prod", false, "optimized production build")
	fs.BoolVar(&p.IsVerbose, "v", false, "verbose output")
	fs.BoolVar(&p.IsVerbose, "verbose", false, "alias of -v")
	fs.BoolVar(&p.IsDebug, "debug", false, "debug logging")
	fs.BoolVar(&p.IsHelp, "h", false, "show help")
	fs.BoolVar(&p.IsHelp, "help", false, "alias of -h")
	fs.BoolVar(&p.UseCache, "usecache", false, "use the build cache")
	fs.BoolVar(&p.ShowTimings, "show-timings", false, "print phase timings")
	fs.BoolVar(&p.ShowTimings, "timers", false, "alias of -show-timings")

	return fs
}

// listValue collects repeated flag values. Without accumulate each
// occurrence replaces the previous one.
type listValue struct {
	dst        *[]string
	accumulate bool
}

func (v *listValue) String() string {
	if v.dst == nil {
		return ""
	}
	return strings.Join(*v.dst, ",")
}

func (v *listValue) Set(s string) error {
	if !v.accumulate {
		*v.dst = (*v.dst)[:0]
	}
	*v.dst = append(*v.dst, s)
	return nil
}

// CompilerIdentifier normalizes a C compiler executable to its family name.
func CompilerIdentifier(cc string) string {
	base := strings.ToLower(filepath.Base(cc))
	base = strings.TrimSuffix(base, ".exe")
	switch {
	case strings.Contains(base, "mingw"):
		return "mingw"
	case strings.Contains(base, "emcc"):
		return "emcc"
	case strings.Contains(base, "clang"):
		return "clang"
	case strings.Contains(base, "tcc"):
		return "tcc"
	case base == "cl" || strings.Contains(base, "msvc"):
		return "msvc"
	case strings.Contains(base, "gcc"):
		return "gcc"
	}
	return "cc"
}

func defaultCCompiler() string {
	if runtime.GOOS == "windows" {
		return "cl"
	}
	return "cc"
}
