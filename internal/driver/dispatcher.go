// Package driver resolves an orizon invocation to exactly one action: a
// tool launch, a builtin command, a direct build of a file, or a failure.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/orizon-lang/orizon/internal/build"
	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
	"github.com/orizon-lang/orizon/internal/help"
	"github.com/orizon-lang/orizon/internal/prefs"
	"github.com/orizon-lang/orizon/internal/suggest"
	"github.com/orizon-lang/orizon/internal/term"
	"github.com/orizon-lang/orizon/internal/timing"
	"github.com/orizon-lang/orizon/internal/tools"
)

// StartupTimer measures process start until dispatch begins. The caller
// starts it as early as possible.
const StartupTimer = "orizon start"

// State is the action an invocation resolved to.
type State int

const (
	StateNoArgs State = iota
	StateReplShortcut
	StateExternalTool
	StateBuiltinAction
	StateDirectFilePath
	StateUnknown
)

var stateNames = [...]string{"NoArgs", "ReplShortcut", "ExternalTool", "BuiltinAction", "DirectFilePath", "Unknown"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Builder runs a build request on the backend it selects.
type Builder interface {
	Build(ctx context.Context, req build.Request) error
}

// Dispatcher holds the collaborators of one invocation.
type Dispatcher struct {
	Launcher tools.Launcher
	Builder  Builder
	Facts    *build.FactSet
	Timers   *timing.Timers
	Logger   *cli.Logger
	Terminal term.Detector

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// EnvFlags are merged ahead of the raw arguments before parsing.
	EnvFlags []string
	// Getenv reads the CI job variable. Defaults to os.Getenv.
	Getenv func(string) string
	// Stat decides whether a command names an existing path. Defaults to os.Stat.
	Stat func(string) (os.FileInfo, error)
	// HostOS is the operating system the dispatcher runs on.
	HostOS string

	Suggest []suggest.Option
}

// New creates a dispatcher on the process's standard streams.
func New(launcher tools.Launcher, builder Builder, timers *timing.Timers, logger *cli.Logger) *Dispatcher {
	return &Dispatcher{
		Launcher: launcher,
		Builder:  builder,
		Facts:    build.NewFactSet(nil),
		Timers:   timers,
		Logger:   logger,
		Terminal: term.Default(),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Stat:     os.Stat,
		HostOS:   build.HostPlatform().OS,
	}
}

// Run dispatches args and returns the exit status. Errors are printed to
// stderr, except child failures, which have reported themselves.
func (d *Dispatcher) Run(ctx context.Context, args []string) int {
	state, err := d.Dispatch(ctx, args)
	d.Logger.Debug("resolved to %s", state)
	if err == nil {
		return 0
	}
	if !oerrors.IsSilent(err) {
		fmt.Fprintln(d.Stderr, err)
	}
	var se *oerrors.StandardError
	if errors.As(err, &se) {
		d.Logger.Debug("%s", se.Detail())
	}
	return oerrors.ExitCode(err)
}

// Dispatch resolves args and performs the resulting action.
func (d *Dispatcher) Dispatch(ctx context.Context, args []string) (State, error) {
	d.Timers.Show(StartupTimer)

	if len(args) == 0 {
		if d.Terminal.IsTerminal(d.Stdin) {
			d.Logger.Info("no arguments on a terminal, starting the repl")
			return StateReplShortcut, d.launch(ctx, ReplTool, args)
		}
		d.Logger.Info("no arguments, stdin is not a terminal: running it")
		args = []string{"run", "-"}
	} else if args[0] == "-" || args[0] == "repl" {
		return StateReplShortcut, d.launch(ctx, ReplTool, args)
	}

	d.Timers.Start("parse args")
	merged := append(append([]string(nil), d.EnvFlags...), args...)
	p, err := prefs.Parse(merged, prefs.Options{
		Accumulating:  AccumulatingFlags,
		BuildCommands: buildCommands,
		IsTarget:      d.isTarget,
	})
	d.Timers.Show("parse args")
	if err != nil {
		return StateUnknown, oerrors.Configuration("orizon: %v", err)
	}
	d.Logger.Raise(p.IsVerbose, p.IsDebug)
	if p.ShowTimings {
		d.Timers.SetShouldPrint(true)
	}

	if p.UseCache && d.HostOS == "windows" {
		return StateUnknown, oerrors.PlatformUnsupported("-usecache", d.HostOS)
	}

	command := p.Command
	if tools.IsExternal(command) {
		return StateExternalTool, d.launch(ctx, command, args)
	}
	if IsBuiltin(command) {
		return StateBuiltinAction, d.builtin(ctx, p, args)
	}
	if p.Path != "" && p.Path == command {
		if p.IsHelp {
			return StateDirectFilePath, d.help("build")
		}
		d.Logger.Info("building %s directly", command)
		return StateDirectFilePath, d.build(ctx, p, args)
	}
	if p.IsHelp {
		return StateBuiltinAction, d.help(redirectTopic(command))
	}
	if command == "" {
		return StateUnknown, oerrors.Configuration("orizon: no command given; run `orizon help` for usage")
	}

	msg := fmt.Sprintf("orizon: unknown command `%s`", command)
	msg = suggest.New(command, commandNames(), d.Suggest...).Say(msg)
	return StateUnknown, oerrors.UnknownCommand(command, msg+"\nRun `orizon help` for usage.")
}

func (d *Dispatcher) builtin(ctx context.Context, p *prefs.Preferences, args []string) error {
	command := p.Command
	if _, ok := buildCommands[command]; ok {
		if p.IsHelp {
			return d.help(command)
		}
		return d.build(ctx, p, args)
	}
	if packageCommands[command] {
		return d.launch(ctx, PackageTool, args)
	}

	switch command {
	case "help":
		var topics []string
		for _, a := range p.CommandArgs {
			if !strings.HasPrefix(a, "-") {
				topics = append(topics, a)
			}
		}
		switch len(topics) {
		case 0:
			return d.help(help.Default)
		case 1:
			return d.help(topics[0])
		}
		return oerrors.Usage("`orizon help`: provide only one help topic.\nFor usage information, use `orizon help`.")
	case "version":
		cli.PrintVersion(d.Stdout, "Orizon", p.IsVerbose || hasFlag(p.CommandArgs, "-v", "-verbose"))
		return nil
	case "new", "init":
		return d.launch(ctx, CreateTool, args)
	case "vlib-docs":
		return d.launch(ctx, DocTool, []string{"doc", "stdlib"})
	case "interpret":
		return d.Launcher.Launch(ctx, build.InterpretBuilder, args)
	case "get":
		return oerrors.Deprecated(command, DeprecatedGet)
	case "translate":
		return d.launch(ctx, TranslateTool, args)
	}
	return fmt.Errorf("builtin %q has no action", command)
}

// build registers the facts of p and hands the request to the backend.
func (d *Dispatcher) build(ctx context.Context, p *prefs.Preferences, args []string) error {
	facts := build.Facts(p, d.Getenv)
	if err := d.Facts.Register(facts); err != nil {
		return fmt.Errorf("register build facts: %w", err)
	}
	d.Logger.Info("backend %s, facts %s", p.Backend, strings.Join(d.Facts.Facts(), ","))

	d.Timers.Start("build")
	defer d.Timers.Show("build")
	return d.Builder.Build(ctx, build.Request{Prefs: p, RawArgs: args})
}

func (d *Dispatcher) help(topic string) error {
	return help.Print(d.Stdout, topic, d.Suggest...)
}

// launch runs the delegated executable of tool with the raw arguments.
func (d *Dispatcher) launch(ctx context.Context, tool string, args []string) error {
	exe := tools.Executable(tool)
	d.Logger.Info("delegating to %s", exe)
	return d.Launcher.Launch(ctx, exe, args)
}

// isTarget reports whether a command token names a build target: a source
// file, or an existing path that is not also a command name.
func (d *Dispatcher) isTarget(command string) bool {
	if tools.IsExternal(command) || IsBuiltin(command) || command == "" {
		return false
	}
	if strings.HasSuffix(command, prefs.SourceExt) {
		return true
	}
	stat := d.Stat
	if stat == nil {
		stat = os.Stat
	}
	_, err := stat(command)
	return err == nil
}

// hasFlag reports whether args holds one of names, with one or two dashes.
func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		for _, n := range names {
			if a == n || a == "-"+n {
				return true
			}
		}
	}
	return false
}

// redirectTopic picks the help topic for a -h that no action consumed.
func redirectTopic(command string) string {
	if command != "" && help.Has(command) {
		return command
	}
	return help.Default
}
