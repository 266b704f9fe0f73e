package tools

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
)

// Launcher runs a delegated executable to completion.
type Launcher interface {
	// Launch runs the executable named tool with args and blocks until it
	// exits. A non-zero child status is returned as a DelegatedFailure.
	Launch(ctx context.Context, tool string, args []string) error
}

// Resolver finds a tool executable on disk.
type Resolver struct {
	// Dirs are searched in order before PATH.
	Dirs []string
	// LookPath is the PATH fallback. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// DefaultDirs returns the standard search directories: ORIZON_TOOLS_DIR, the
// configured extra dirs, the directory holding the running executable, and
// the build/ output directory of a source checkout.
func DefaultDirs(extra []string) []string {
	var dirs []string
	if d := strings.TrimSpace(os.Getenv("ORIZON_TOOLS_DIR")); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, extra...)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return append(dirs, "build")
}

// Resolve returns the path of the executable for tool.
func (r *Resolver) Resolve(tool string) (string, error) {
	bin := tool
	if runtime.GOOS == "windows" && !strings.HasSuffix(bin, ".exe") {
		bin += ".exe"
	}

	for _, dir := range r.Dirs {
		candidate := filepath.Join(dir, bin)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return lookPath(bin)
}

// ProcessLauncher launches tools as child processes sharing this process's
// standard streams and environment.
type ProcessLauncher struct {
	Resolver *Resolver
	Logger   *cli.Logger
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewProcessLauncher creates a launcher wired to the process's stdio.
func NewProcessLauncher(resolver *Resolver, logger *cli.Logger) *ProcessLauncher {
	return &ProcessLauncher{
		Resolver: resolver,
		Logger:   logger,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Launch implements Launcher. There is no retry and no timeout: the call
// blocks until the child exits.
func (l *ProcessLauncher) Launch(ctx context.Context, tool string, args []string) error {
	exe, err := l.Resolver.Resolve(tool)
	if err != nil {
		return oerrors.Delegated(tool, err)
	}

	l.Logger.Info("launching %s %s", exe, strings.Join(args, " "))

	c := exec.CommandContext(ctx, exe, args...)
	c.Stdin = l.Stdin
	c.Stdout = l.Stdout
	c.Stderr = l.Stderr
	if l.Env != nil {
		c.Env = l.Env
	}

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			l.Logger.Debug("%s exited with status %d", tool, exitErr.ExitCode())
		}
		return oerrors.Delegated(tool, err)
	}
	return nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)

	return err == nil && !st.IsDir()
}
