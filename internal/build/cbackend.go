package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
	"github.com/orizon-lang/orizon/internal/prefs"
	"github.com/orizon-lang/orizon/internal/tools"
)

// CodeGenerator lowers the target of p to a single C translation unit.
type CodeGenerator interface {
	GenerateC(ctx context.Context, p *prefs.Preferences, cFile string) error
}

// CompilerTool is the code generator executable.
const CompilerTool = "orizon-compiler"

// ToolCodeGenerator asks the compiler executable for C output.
type ToolCodeGenerator struct {
	Launcher tools.Launcher
	Tool     string
}

// GenerateC implements CodeGenerator. A "-" path makes the compiler read
// the source from stdin, which the launcher shares with this process.
func (g *ToolCodeGenerator) GenerateC(ctx context.Context, p *prefs.Preferences, cFile string) error {
	tool := g.Tool
	if tool == "" {
		tool = CompilerTool
	}
	args := []string{"-emit-c", cFile, "-os", p.OS, "-arch", p.Arch}
	for _, d := range p.CompileDefinesAll {
		args = append(args, "-d", d)
	}
	if p.IsProd {
		args = append(args, "-prod")
	}
	return g.Launcher.Launch(ctx, tool, append(args, p.Path))
}

// CBackend builds in process: generate C, compile it, and for run/crun
// execute the result.
type CBackend struct {
	Gen       CodeGenerator
	Toolchain CToolchain
	Runner    Runner
	Logger    *cli.Logger
	// TempDir creates the scratch directory. Defaults to os.MkdirTemp.
	TempDir func() (string, error)
}

// Build implements Handler.
func (b *CBackend) Build(ctx context.Context, req Request) error {
	p := req.Prefs
	target := Platform{OS: p.OS, Arch: p.Arch}
	if err := target.Validate(); err != nil {
		b.Logger.Debug("%v", err)
		return oerrors.PlatformUnsupported("the C backend", target.String())
	}
	if p.Path == "" {
		return oerrors.Configuration("%s: no source file or directory given", p.Command)
	}

	tmp, err := b.tempDir()
	if err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	stem := targetStem(p.Path)
	cFile := filepath.Join(tmp, stem+".c")
	if err := b.Gen.GenerateC(ctx, p, cFile); err != nil {
		return err
	}

	running := p.Command == "run" || p.Command == "crun"
	out := p.Out
	if out == "" {
		if p.Command == "run" {
			out = filepath.Join(tmp, stem)
		} else {
			out = outputBeside(p, stem)
		}
	}
	if p.OS == "windows" && !strings.HasSuffix(out, ".exe") {
		out += ".exe"
	}

	if err := b.Runner.Run(ctx, b.Toolchain.CompileSpec(p, cFile, out)); err != nil {
		return err
	}
	b.Logger.Debug("compiled %s -> %s", p.Path, out)

	if !running {
		return nil
	}
	exe, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	return b.Runner.Run(ctx, CommandSpec{Cmd: exe, Args: p.RunArgs})
}

// outputBeside names the output of build and crun: crun keeps the binary next
// to its target, inside it for a directory; build writes to the current
// directory.
func outputBeside(p *prefs.Preferences, stem string) string {
	if p.Command != "crun" || p.Path == "-" {
		return stem
	}
	if st, err := os.Stat(p.Path); err == nil && st.IsDir() {
		return filepath.Join(p.Path, stem)
	}
	return filepath.Join(filepath.Dir(p.Path), stem)
}

func (b *CBackend) tempDir() (string, error) {
	if b.TempDir != nil {
		return b.TempDir()
	}
	return os.MkdirTemp("", "orizon-build-*")
}

// targetStem names build outputs after the target: "hello.oriz" and the
// directory "hello/" both give "hello"; stdin gives "orizon_stdin".
func targetStem(path string) string {
	if path == "-" {
		return "orizon_stdin"
	}
	base := filepath.Base(filepath.Clean(path))
	base = strings.TrimSuffix(base, prefs.SourceExt)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "main"
	}
	return base
}
