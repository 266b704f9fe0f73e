package build

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
)

// Runner executes command specs.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) error
}

// ExecRunner runs specs as child processes on the given streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *cli.Logger
}

// NewExecRunner creates a runner on the process's stdio.
func NewExecRunner(logger *cli.Logger) *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Run implements Runner. A failing child is reported as a DelegatedFailure
// carrying its exit status.
func (r *ExecRunner) Run(ctx context.Context, spec CommandSpec) error {
	r.Logger.Info("running %s", spec)

	c := exec.CommandContext(ctx, spec.Cmd, spec.Args...)
	c.Dir = spec.WorkDir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if len(spec.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range spec.Env {
			c.Env = append(c.Env, k+"="+v)
		}
	}

	if err := c.Run(); err != nil {
		return oerrors.Delegated(spec.Cmd, err)
	}
	return nil
}
