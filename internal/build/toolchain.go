package build

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/orizon-lang/orizon/internal/prefs"
)

// Platform represents a target platform for cross compilation.
type Platform struct {
	OS   string
	Arch string
}

func (p Platform) String() string { return p.OS + "/" + p.Arch }

var supportedArchs = map[string][]string{
	"linux":   {"amd64", "arm64", "386", "arm", "riscv64"},
	"darwin":  {"amd64", "arm64"},
	"windows": {"amd64", "arm64", "386"},
	"freebsd": {"amd64", "arm64"},
	"openbsd": {"amd64", "arm64"},
	"netbsd":  {"amd64"},
	"android": {"arm64", "amd64"},
}

// Validate checks the tuple against the platforms the C backend can target.
func (p Platform) Validate() error {
	if p.OS == "" || p.Arch == "" {
		return errors.New("target OS and architecture must be non-empty")
	}
	archs, ok := supportedArchs[p.OS]
	if !ok {
		return fmt.Errorf("unsupported target platform: %s", p)
	}
	for _, a := range archs {
		if a == p.Arch {
			return nil
		}
	}
	return fmt.Errorf("unsupported target platform: %s", p)
}

// HostPlatform returns the platform this process runs on.
func HostPlatform() Platform { return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH} }

// SupportedPlatforms lists every valid tuple, sorted.
func SupportedPlatforms() []string {
	var out []string
	for goos, archs := range supportedArchs {
		for _, a := range archs {
			out = append(out, goos+"/"+a)
		}
	}
	sort.Strings(out)
	return out
}

// CommandSpec describes a build command to be executed by a runner.
type CommandSpec struct {
	Env     map[string]string
	WorkDir string
	Cmd     string
	Args    []string
}

func (s CommandSpec) String() string {
	return strings.TrimSpace(s.Cmd + " " + strings.Join(s.Args, " "))
}

// CToolchain turns Preferences into a C compiler invocation.
type CToolchain struct {
	DefaultFlags []string // e.g. ["-std=c99"]
	// DefinePrefix is prepended to every -d name.
	DefinePrefix string
}

// DefaultCToolchain returns the toolchain used by the shipped binary.
func DefaultCToolchain() CToolchain {
	return CToolchain{DefinePrefix: "ORIZON_DEFINE_"}
}

// CompileSpec creates a CommandSpec compiling cFile into output.
func (tc CToolchain) CompileSpec(p *prefs.Preferences, cFile, output string) CommandSpec {
	cc := p.CCompiler()
	msvc := p.CompilerIdentifier == "msvc"

	var args []string
	if msvc {
		args = append(args, "/nologo", "/Fe:"+output)
	} else {
		args = append(args, "-o", output)
	}
	args = append(args, tc.DefaultFlags...)

	for _, d := range p.CompileDefinesAll {
		def := tc.DefinePrefix + d
		if msvc {
			args = append(args, "/D"+def)
		} else {
			args = append(args, "-D"+def)
		}
	}

	switch {
	case p.IsProd && msvc:
		args = append(args, "/O2")
	case p.IsProd:
		args = append(args, "-O2")
	case !msvc:
		args = append(args, "-g")
	}

	args = append(args, p.CFlags...)
	args = append(args, cFile)
	if !msvc && p.OS != "windows" && p.OS != "darwin" {
		args = append(args, "-lm")
	}

	return CommandSpec{Cmd: cc, Args: args}
}
