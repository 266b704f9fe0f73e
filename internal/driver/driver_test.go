package driver

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/orizon/internal/build"
	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
	"github.com/orizon-lang/orizon/internal/term"
	"github.com/orizon-lang/orizon/internal/timing"
	"github.com/orizon-lang/orizon/internal/tools"
)

type launch struct {
	exe  string
	args []string
}

type fakeLauncher struct {
	calls []launch
	err   error
}

func (l *fakeLauncher) Launch(_ context.Context, exe string, args []string) error {
	l.calls = append(l.calls, launch{exe: exe, args: args})
	return l.err
}

type fakeBuilder struct {
	reqs []build.Request
	err  error
}

func (b *fakeBuilder) Build(_ context.Context, req build.Request) error {
	b.reqs = append(b.reqs, req)
	return b.err
}

type harness struct {
	d        *Dispatcher
	launcher *fakeLauncher
	builder  *fakeBuilder
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	timings  *bytes.Buffer
	exported map[string]string
	env      map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		launcher: &fakeLauncher{},
		builder:  &fakeBuilder{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		timings:  &bytes.Buffer{},
		exported: map[string]string{},
		env:      map[string]string{},
	}
	h.d = &Dispatcher{
		Launcher: h.launcher,
		Builder:  h.builder,
		Facts:    build.NewFactSet(func(k, v string) error { h.exported[k] = v; return nil }),
		Timers:   timing.New(timing.Options{Out: h.timings}),
		Logger:   cli.NopLogger(),
		Terminal: term.DetectorFunc(func(*os.File) bool { return false }),
		Stdout:   h.stdout,
		Stderr:   h.stderr,
		Getenv:   func(k string) string { return h.env[k] },
		Stat:     func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		HostOS:   "linux",
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.d.Run(context.Background(), args)
}

func TestBuiltinsDisjointFromTools(t *testing.T) {
	for _, b := range Builtins() {
		assert.False(t, tools.IsExternal(b), "%s is in both sets", b)
	}
	for _, name := range tools.External() {
		assert.False(t, IsBuiltin(name), "%s is in both sets", name)
	}
}

func TestEveryBuiltinResolves(t *testing.T) {
	for _, b := range Builtins() {
		h := newHarness(t)
		state, _ := h.d.Dispatch(context.Background(), []string{b})
		assert.Equal(t, StateBuiltinAction, state, b)
	}
}

func TestNoArgs_NonTerminalRunsStdin(t *testing.T) {
	implicit := newHarness(t)
	state, err := implicit.d.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateBuiltinAction, state)
	assert.Empty(t, implicit.launcher.calls)

	explicit := newHarness(t)
	_, err = explicit.d.Dispatch(context.Background(), []string{"run", "-"})
	require.NoError(t, err)

	require.Len(t, implicit.builder.reqs, 1)
	require.Len(t, explicit.builder.reqs, 1)
	if diff := cmp.Diff(explicit.builder.reqs[0], implicit.builder.reqs[0]); diff != "" {
		t.Fatalf("implicit stdin run differs from `run -` (-want +got):\n%s", diff)
	}
	assert.Equal(t, "-", implicit.builder.reqs[0].Prefs.Path)
	assert.Equal(t, []string{"run", "-"}, implicit.builder.reqs[0].RawArgs)
}

func TestNoArgs_TerminalStartsRepl(t *testing.T) {
	h := newHarness(t)
	h.d.Terminal = term.DetectorFunc(func(*os.File) bool { return true })

	state, err := h.d.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateReplShortcut, state)
	require.Len(t, h.launcher.calls, 1)
	assert.Equal(t, "orizon-repl", h.launcher.calls[0].exe)
	assert.Empty(t, h.builder.reqs)
}

func TestReplShortcut(t *testing.T) {
	for _, args := range [][]string{{"repl"}, {"repl", "-x", "build"}, {"-"}, {"-", "help"}} {
		h := newHarness(t)
		state, err := h.d.Dispatch(context.Background(), args)
		require.NoError(t, err)
		assert.Equal(t, StateReplShortcut, state)
		require.Len(t, h.launcher.calls, 1)
		assert.Equal(t, launch{exe: "orizon-repl", args: args}, h.launcher.calls[0])
		assert.Empty(t, h.builder.reqs)
		assert.Empty(t, h.stdout.String())
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)
	code := h.run("buld")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "unknown command `buld`")
	assert.Contains(t, h.stderr.String(), "build")
	assert.Contains(t, h.stderr.String(), "Did you mean")
	assert.Empty(t, h.launcher.calls)
	assert.Empty(t, h.builder.reqs)
}

func TestUnknownCommandWithoutCloseMatch(t *testing.T) {
	h := newHarness(t)
	h.d.Suggest = nil
	assert.Equal(t, 1, h.run("qqqqqqqqqqqqqqqq"))
	assert.NotContains(t, h.stderr.String(), "Did you mean")
}

func TestGetIsDeprecated(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run("get", "github.com/x/y", "-v"))
	assert.Equal(t, DeprecatedGet+"\n", h.stderr.String())
	assert.Empty(t, h.launcher.calls)
}

func TestHelp(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 0, h.run("help"))
		assert.Contains(t, h.stdout.String(), "USAGE:")
	})
	t.Run("topic", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 0, h.run("help", "crun"))
		assert.Contains(t, h.stdout.String(), "crun")
	})
	t.Run("more than one topic", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 1, h.run("help", "run", "build"))
		assert.Contains(t, h.stderr.String(), "provide only one help topic")
		assert.Empty(t, h.stdout.String())
	})
	t.Run("unknown topic", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 1, h.run("help", "buidl"))
		assert.Contains(t, h.stderr.String(), "unknown topic")
	})
}

func TestHelpRedirect(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-h"}, "USAGE:"},
		{[]string{"run", "-h"}, "orizon [build flags] run"},
		{[]string{"-help", "crun", "x.oriz"}, "keeps the compiled binary"},
		{[]string{"hello.oriz", "-h"}, "orizon [build flags] build"},
	}
	for _, c := range cases {
		h := newHarness(t)
		assert.Equal(t, 0, h.run(c.args...), c.args)
		assert.Contains(t, h.stdout.String(), c.want)
		assert.Empty(t, h.builder.reqs)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("version"))
	assert.Contains(t, h.stdout.String(), "Orizon "+cli.Version)
	assert.NotContains(t, h.stdout.String(), "Build Date:")

	for _, args := range [][]string{{"-v", "version"}, {"version", "-v"}, {"version", "--verbose"}} {
		h := newHarness(t)
		assert.Equal(t, 0, h.run(args...), args)
		assert.Contains(t, h.stdout.String(), "Build Date: "+cli.BuildDate, args)
	}
}

func TestDirectFilePathHelp(t *testing.T) {
	h := newHarness(t)
	state, err := h.d.Dispatch(context.Background(), []string{"hello.oriz", "-h"})
	require.NoError(t, err)
	assert.Equal(t, StateDirectFilePath, state)
	assert.Empty(t, h.builder.reqs)
	assert.Empty(t, h.d.Facts.Facts())
	assert.Contains(t, h.stdout.String(), "orizon [build flags] build")
}

func TestUseCacheDisabledOnWindows(t *testing.T) {
	h := newHarness(t)
	h.d.HostOS = "windows"
	assert.Equal(t, 1, h.run("-usecache", "build", "x.oriz"))
	assert.Contains(t, h.stderr.String(), "-usecache is currently disabled on windows")
	assert.Empty(t, h.builder.reqs)

	h = newHarness(t)
	assert.Equal(t, 0, h.run("-usecache", "build", "x.oriz"))
	require.Len(t, h.builder.reqs, 1)
	assert.True(t, h.builder.reqs[0].Prefs.UseCache)
}

func TestExternalToolGetsRawArgs(t *testing.T) {
	h := newHarness(t)
	args := []string{"-v", "fmt", "-w", "x.oriz"}
	state, err := h.d.Dispatch(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, StateExternalTool, state)
	assert.Equal(t, []launch{{exe: "orizon-fmt", args: args}}, h.launcher.calls)
	assert.Empty(t, h.builder.reqs)
	assert.Empty(t, h.d.Facts.Facts())
}

func TestToolNameWinsOverExistingPath(t *testing.T) {
	h := newHarness(t)
	h.d.Stat = func(string) (os.FileInfo, error) { return nil, nil }
	state, err := h.d.Dispatch(context.Background(), []string{"test", "./..."})
	require.NoError(t, err)
	assert.Equal(t, StateExternalTool, state)
}

func TestBuiltinDelegation(t *testing.T) {
	cases := []struct {
		args []string
		want launch
	}{
		{[]string{"new", "app"}, launch{"orizon-create", []string{"new", "app"}}},
		{[]string{"init"}, launch{"orizon-create", []string{"init"}}},
		{[]string{"install", "json"}, launch{"orizon-pkg", []string{"install", "json"}}},
		{[]string{"upgrade"}, launch{"orizon-pkg", []string{"upgrade"}}},
		{[]string{"vlib-docs", "-x"}, launch{"orizon-doc", []string{"doc", "stdlib"}}},
		{[]string{"interpret", "x.oriz"}, launch{"orizon-builder-interpret", []string{"interpret", "x.oriz"}}},
		{[]string{"translate", "x.c"}, launch{"orizon-translate", []string{"translate", "x.c"}}},
	}
	for _, c := range cases {
		h := newHarness(t)
		assert.Equal(t, 0, h.run(c.args...), c.args)
		assert.Equal(t, []launch{c.want}, h.launcher.calls)
	}
}

func TestChildStatusPropagates(t *testing.T) {
	h := newHarness(t)
	h.launcher.err = &oerrors.StandardError{Category: oerrors.CategoryDelegated, Code: "CHILD_EXIT", Status: 3}
	assert.Equal(t, 3, h.run("fmt"))
	assert.Empty(t, h.stderr.String())

	h = newHarness(t)
	h.launcher.err = oerrors.Delegated("orizon-fmt", os.ErrNotExist)
	assert.Equal(t, 1, h.run("fmt"))
	assert.Contains(t, h.stderr.String(), "failed to launch orizon-fmt")
}

func TestDirectFilePath(t *testing.T) {
	h := newHarness(t)
	state, err := h.d.Dispatch(context.Background(), []string{"hello.oriz", "-prod"})
	require.NoError(t, err)
	assert.Equal(t, StateDirectFilePath, state)
	require.Len(t, h.builder.reqs, 1)
	assert.Equal(t, "hello.oriz", h.builder.reqs[0].Prefs.Path)
	assert.True(t, h.builder.reqs[0].Prefs.IsProd)

	h = newHarness(t)
	h.d.Stat = func(name string) (os.FileInfo, error) {
		if name == "examples/hello" {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
	state, err = h.d.Dispatch(context.Background(), []string{"examples/hello"})
	require.NoError(t, err)
	assert.Equal(t, StateDirectFilePath, state)
}

func TestBuildRegistersFacts(t *testing.T) {
	h := newHarness(t)
	h.env[build.CIJobEnv] = "Linux-Tests"
	args := []string{"-os", "linux", "-arch", "amd64", "-cc", "gcc", "-prod", "build", "x.oriz"}
	require.Equal(t, 0, h.run(args...))

	want := []string{"linux", "gcc", "amd64", "prod", "linux-tests"}
	assert.Equal(t, want, h.d.Facts.Facts())
	assert.Equal(t, "linux,gcc,amd64,prod,linux-tests", h.exported[build.FactsEnv])

	require.Equal(t, 0, h.run(args...))
	assert.Equal(t, want, h.d.Facts.Facts())
	require.Len(t, h.builder.reqs, 2)
	assert.Equal(t, args, h.builder.reqs[0].RawArgs)
}

func TestEnvFlagsMergedAheadOfArgs(t *testing.T) {
	h := newHarness(t)
	h.d.EnvFlags = []string{"-prod", "-b", "wasm"}
	require.Equal(t, 0, h.run("build", "x.oriz"))

	require.Len(t, h.builder.reqs, 1)
	req := h.builder.reqs[0]
	assert.True(t, req.Prefs.IsProd)
	assert.Equal(t, "wasm", req.Prefs.Backend.String())
	assert.Equal(t, []string{"build", "x.oriz"}, req.RawArgs)
}

func TestRunProgramArgs(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("run", "x.oriz", "-help", "a"))
	require.Len(t, h.builder.reqs, 1)
	assert.Equal(t, []string{"-help", "a"}, h.builder.reqs[0].Prefs.RunArgs)
	assert.False(t, h.builder.reqs[0].Prefs.IsHelp)
}

func TestConfigurationErrors(t *testing.T) {
	for _, args := range [][]string{{"-nosuchflag", "build"}, {"-b", "cobol", "build"}, {"-v"}} {
		h := newHarness(t)
		assert.Equal(t, 1, h.run(args...), args)
		assert.NotEmpty(t, h.stderr.String())
		assert.Empty(t, h.builder.reqs)
	}
}

func TestShowTimingsFlag(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("-show-timings", "build", "x.oriz"))
	assert.Contains(t, h.timings.String(), "ms build")

	h = newHarness(t)
	require.Equal(t, 0, h.run("build", "x.oriz"))
	assert.Empty(t, h.timings.String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "DirectFilePath", StateDirectFilePath.String())
	assert.Equal(t, "State(42)", State(42).String())
}
