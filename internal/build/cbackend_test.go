package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/orizon-lang/orizon/internal/errors"
	"github.com/orizon-lang/orizon/internal/prefs"
)

type fakeGen struct {
	cFile string
	err   error
}

func (g *fakeGen) GenerateC(_ context.Context, _ *prefs.Preferences, cFile string) error {
	g.cFile = cFile
	return g.err
}

type fakeRunner struct {
	specs []CommandSpec
	err   error
}

func (r *fakeRunner) Run(_ context.Context, spec CommandSpec) error {
	r.specs = append(r.specs, spec)
	return r.err
}

func newBackend(t *testing.T) (*CBackend, *fakeGen, *fakeRunner, string) {
	t.Helper()
	tmp := t.TempDir()
	gen := &fakeGen{}
	run := &fakeRunner{}
	b := &CBackend{
		Gen:       gen,
		Toolchain: DefaultCToolchain(),
		Runner:    run,
		TempDir:   func() (string, error) { return tmp, nil },
	}
	return b, gen, run, tmp
}

func cPrefs(command, path string) *prefs.Preferences {
	return &prefs.Preferences{
		Command:            command,
		Path:               path,
		OS:                 "linux",
		Arch:               "amd64",
		CCompilers:         []string{"cc"},
		CompilerIdentifier: "gcc",
	}
}

func TestCBackend_Build(t *testing.T) {
	b, gen, run, tmp := newBackend(t)

	require.NoError(t, b.Build(context.Background(), Request{Prefs: cPrefs("build", "hello.oriz")}))
	assert.Equal(t, filepath.Join(tmp, "hello.c"), gen.cFile)
	require.Len(t, run.specs, 1)
	assert.Equal(t, "cc", run.specs[0].Cmd)
	assert.Equal(t, []string{"-o", "hello"}, run.specs[0].Args[:2])
}

func TestCBackend_RunExecutesTemporaryBinary(t *testing.T) {
	b, _, run, tmp := newBackend(t)
	p := cPrefs("run", "hello.oriz")
	p.RunArgs = []string{"a", "b"}

	require.NoError(t, b.Build(context.Background(), Request{Prefs: p}))
	require.Len(t, run.specs, 2)
	exe := filepath.Join(tmp, "hello")
	assert.Equal(t, []string{"-o", exe}, run.specs[0].Args[:2])
	assert.Equal(t, exe, run.specs[1].Cmd)
	assert.Equal(t, []string{"a", "b"}, run.specs[1].Args)
}

func TestCBackend_CrunKeepsBinary(t *testing.T) {
	b, _, run, _ := newBackend(t)
	p := cPrefs("crun", "examples/hello/")
	p.Out = "out/hi"

	require.NoError(t, b.Build(context.Background(), Request{Prefs: p}))
	require.Len(t, run.specs, 2)
	abs, err := filepath.Abs("out/hi")
	require.NoError(t, err)
	assert.Equal(t, abs, run.specs[1].Cmd)
}

func TestCBackend_CrunOutputBesideTarget(t *testing.T) {
	b, _, run, tmp := newBackend(t)
	require.NoError(t, b.Build(context.Background(), Request{Prefs: cPrefs("crun", filepath.Join("dir", "hello.oriz"))}))
	require.Len(t, run.specs, 2)
	want := filepath.Join("dir", "hello")
	assert.Equal(t, []string{"-o", want}, run.specs[0].Args[:2])
	abs, err := filepath.Abs(want)
	require.NoError(t, err)
	assert.Equal(t, abs, run.specs[1].Cmd)
	assert.NotContains(t, run.specs[1].Cmd, tmp)

	b, _, run, _ = newBackend(t)
	dir := filepath.Join(t.TempDir(), "hello")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, b.Build(context.Background(), Request{Prefs: cPrefs("crun", dir)}))
	assert.Equal(t, []string{"-o", filepath.Join(dir, "hello")}, run.specs[0].Args[:2])
}

func TestCBackend_BuildOutputInWorkingDir(t *testing.T) {
	b, _, run, _ := newBackend(t)
	require.NoError(t, b.Build(context.Background(), Request{Prefs: cPrefs("build", filepath.Join("dir", "hello.oriz"))}))
	assert.Equal(t, []string{"-o", "hello"}, run.specs[0].Args[:2])
}

func TestCBackend_WindowsTargetGetsExe(t *testing.T) {
	b, _, run, _ := newBackend(t)
	p := cPrefs("build", "hello.oriz")
	p.OS = "windows"

	require.NoError(t, b.Build(context.Background(), Request{Prefs: p}))
	assert.Equal(t, []string{"-o", "hello.exe"}, run.specs[0].Args[:2])
}

func TestCBackend_Errors(t *testing.T) {
	t.Run("unsupported platform", func(t *testing.T) {
		b, gen, _, _ := newBackend(t)
		p := cPrefs("build", "hello.oriz")
		p.OS = "plan9"
		err := b.Build(context.Background(), Request{Prefs: p})
		assert.Equal(t, oerrors.CategoryPlatform, oerrors.CategoryOf(err))
		assert.Empty(t, gen.cFile)
	})
	t.Run("missing path", func(t *testing.T) {
		b, _, _, _ := newBackend(t)
		err := b.Build(context.Background(), Request{Prefs: cPrefs("build", "")})
		assert.Equal(t, oerrors.CategoryConfiguration, oerrors.CategoryOf(err))
	})
	t.Run("generator failure stops the build", func(t *testing.T) {
		b, gen, run, _ := newBackend(t)
		gen.err = errors.New("syntax error")
		err := b.Build(context.Background(), Request{Prefs: cPrefs("build", "hello.oriz")})
		assert.EqualError(t, err, "syntax error")
		assert.Empty(t, run.specs)
	})
	t.Run("compile failure skips run", func(t *testing.T) {
		b, _, run, _ := newBackend(t)
		run.err = errors.New("cc failed")
		err := b.Build(context.Background(), Request{Prefs: cPrefs("run", "hello.oriz")})
		assert.Error(t, err)
		assert.Len(t, run.specs, 1)
	})
}

func TestCBackend_RemovesScratchDir(t *testing.T) {
	b, _, _, tmp := newBackend(t)
	require.NoError(t, b.Build(context.Background(), Request{Prefs: cPrefs("build", "hello.oriz")}))
	_, err := os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
}

func TestToolCodeGenerator_Args(t *testing.T) {
	l := &recordingLauncher{}
	g := &ToolCodeGenerator{Launcher: l}
	p := cPrefs("build", "hello.oriz")
	p.CompileDefinesAll = []string{"trace"}
	p.IsProd = true

	require.NoError(t, g.GenerateC(context.Background(), p, "/tmp/x/hello.c"))
	require.Len(t, l.calls, 1)
	assert.Equal(t, CompilerTool, l.calls[0].tool)
	assert.Equal(t, []string{"-emit-c", "/tmp/x/hello.c", "-os", "linux", "-arch", "amd64", "-d", "trace", "-prod", "hello.oriz"}, l.calls[0].args)
}

func TestTargetStem(t *testing.T) {
	cases := map[string]string{
		"hello.oriz":      "hello",
		"src/hello.oriz":  "hello",
		"examples/hello/": "hello",
		"-":               "orizon_stdin",
		".":               "main",
	}
	for in, want := range cases {
		assert.Equal(t, want, targetStem(in), in)
	}
}
