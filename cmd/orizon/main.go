// Package main provides the orizon front-end. It resolves the command line to
// a build, a builtin command or a delegated orizon-* tool, and exits with the
// status of that action.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/orizon-lang/orizon/internal/build"
	"github.com/orizon-lang/orizon/internal/cli"
	"github.com/orizon-lang/orizon/internal/driver"
	"github.com/orizon-lang/orizon/internal/suggest"
	"github.com/orizon-lang/orizon/internal/term"
	"github.com/orizon-lang/orizon/internal/timing"
	"github.com/orizon-lang/orizon/internal/tools"
)

const (
	// flagsEnv holds arguments merged ahead of the command line.
	flagsEnv = "ORIZON_FLAGS"
	// invocationEnv carries the invocation id to delegated tools.
	invocationEnv = "ORIZON_INVOCATION_ID"
)

func main() {
	exiter := cli.NewExiter(os.Exit)
	exiter.Run(os.Stderr, func() int { return run(exiter, os.Args[1:], os.Stderr) })
}

// run wires the dispatcher and returns the exit status. Diagnostics, logs and
// timings go to stderr.
func run(exiter *cli.Exiter, args []string, stderr io.Writer) int {
	timers := timing.New(timing.Options{
		ShouldPrint: timing.BuildVariant || timing.Enabled(args),
		Out:         stderr,
	})
	timers.Start(timing.Total)
	timers.Start(driver.StartupTimer)
	exiter.OnExit(func() { timers.Show(timing.Total) })

	cfg, err := cli.LoadConfig(cli.ConfigPath())
	if err != nil {
		fmt.Fprintf(stderr, "orizon: %v\n", err)
		return 1
	}
	if cfg.ShowTimings {
		timers.SetShouldPrint(true)
	}

	invocation := uuid.NewString()
	if err := os.Setenv(invocationEnv, invocation); err != nil {
		fmt.Fprintf(stderr, "orizon: %v\n", err)
		return 1
	}
	logger := cli.NewLoggerTo(stderr, cfg.Verbose, cfg.Debug, cfg.LogLevel).With("invocation", invocation)
	exiter.OnExit(logger.Sync)

	detector, err := term.Lookup(cfg.TTYDetection)
	if err != nil {
		fmt.Fprintf(stderr, "orizon: %v\n", err)
		return 1
	}

	launcher := tools.NewProcessLauncher(&tools.Resolver{Dirs: tools.DefaultDirs(cfg.ToolDirs)}, logger)
	c := &build.CBackend{
		Gen:       &build.ToolCodeGenerator{Launcher: launcher},
		Toolchain: build.DefaultCToolchain(),
		Runner:    build.NewExecRunner(logger),
		Logger:    logger,
	}
	selector, err := build.NewSelector(build.DefaultRoutes(c, launcher))
	if err != nil {
		fmt.Fprintf(stderr, "orizon: %v\n", err)
		return 1
	}

	d := driver.New(launcher, selector, timers, logger)
	d.Terminal = detector
	d.Stderr = stderr
	d.EnvFlags = strings.Fields(os.Getenv(flagsEnv))
	d.Suggest = []suggest.Option{
		suggest.WithThreshold(cfg.SuggestThreshold),
		suggest.WithMax(cfg.MaxSuggestions),
	}

	return d.Run(context.Background(), args)
}
