package compiler

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    OptLevel
		wantErr bool
	}{
		"none":             {input: "none", want: OptNone},
		"less":             {input: "less", want: OptLess},
		"default":          {input: "default", want: OptDefault},
		"aggressive":       {input: "aggressive", want: OptAggressive},
		"mixed case":       {input: " Aggressive ", want: OptAggressive},
		"numeric":          {input: "2", want: OptDefault},
		"unknown name":     {input: "max", wantErr: true},
		"out of range num": {input: "4", wantErr: true},
		"empty":            {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseOptLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptLevel_Ordering(t *testing.T) {
	t.Parallel()

	assert.True(t, OptNone < OptLess)
	assert.True(t, OptLess < OptDefault)
	assert.True(t, OptDefault < OptAggressive)
	assert.Equal(t, OptAggressive, DefaultOptions().OptLevel)
	assert.Equal(t, "aggressive", OptAggressive.String())
	assert.Equal(t, "3", OptAggressive.Flag())
	assert.Equal(t, "OptLevel(9)", OptLevel(9).String())
}

func TestExpandArgs(t *testing.T) {
	t.Parallel()

	got := ExpandArgs(DefaultArgs, map[string]string{
		PlaceholderSource:   "/src/fib.mun",
		PlaceholderOutDir:   "/tmp/out",
		PlaceholderOptLevel: "3",
	})

	assert.Equal(t, []string{
		"build", "/src/fib.mun",
		"--opt-level", "3",
		"--color", "disable",
		"--out-dir", "/tmp/out",
	}, got)
	assert.Equal(t, PlaceholderSource, DefaultArgs[1], "defaults must not be modified")
}

func TestExpandArgs_ValuesAreNotReexpanded(t *testing.T) {
	t.Parallel()

	values := map[string]string{
		PlaceholderSource:   "/src/" + PlaceholderOutDir + "/fib.mun",
		PlaceholderOutDir:   "/tmp/out",
		PlaceholderOptLevel: PlaceholderSource,
	}
	for i := 0; i < 50; i++ {
		got := ExpandArgs([]string{PlaceholderSource, PlaceholderOptLevel, PlaceholderOutDir + "/x"}, values)
		require.Equal(t, []string{
			"/src/" + PlaceholderOutDir + "/fib.mun",
			PlaceholderSource,
			"/tmp/out/x",
		}, got)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("driver tests use a POSIX shell as the compiler")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecDriver_Success(t *testing.T) {
	t.Parallel()
	requireShell(t)

	d := &ExecDriver{
		Command: "sh",
		Args:    []string{"-c", `touch "$0/fib.munlib"`, PlaceholderOutDir},
		TempDir: t.TempDir(),
	}

	var diag bytes.Buffer
	unit, hasDiagnostics, err := d.Compile(context.Background(), "/fixtures/fib.mun", DefaultOptions(), &diag)
	require.NoError(t, err)
	assert.False(t, hasDiagnostics)
	assert.Empty(t, diag.String())
	assert.Equal(t, "fib", unit.ID)

	artifact, err := d.WriteAssembly(context.Background(), unit)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(unit.OutDir, "fib"+ArtifactExt), artifact)
}

func TestExecDriver_Diagnostics(t *testing.T) {
	t.Parallel()
	requireShell(t)

	tmp := t.TempDir()
	d := &ExecDriver{
		Command: "sh",
		Args:    []string{"-c", `echo "error: expected expression" >&2; exit 1`},
		TempDir: tmp,
	}

	var diag bytes.Buffer
	_, hasDiagnostics, err := d.Compile(context.Background(), "/fixtures/broken.mun", DefaultOptions(), &diag)
	require.NoError(t, err)
	assert.True(t, hasDiagnostics)
	assert.Contains(t, diag.String(), "expected expression")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "output directory should be removed after diagnostics")
}

func TestExecDriver_WarningsCountAsDiagnostics(t *testing.T) {
	t.Parallel()
	requireShell(t)

	d := &ExecDriver{
		Command: "sh",
		Args:    []string{"-c", `echo "warning: unused variable"`},
		TempDir: t.TempDir(),
	}

	var diag bytes.Buffer
	_, hasDiagnostics, err := d.Compile(context.Background(), "/fixtures/warn.mun", DefaultOptions(), &diag)
	require.NoError(t, err)
	assert.True(t, hasDiagnostics)
}

func TestExecDriver_SilentFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)

	d := &ExecDriver{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
		TempDir: t.TempDir(),
	}

	var diag bytes.Buffer
	_, _, err := d.Compile(context.Background(), "/fixtures/fib.mun", DefaultOptions(), &diag)
	assert.Error(t, err)
}

func TestExecDriver_MissingCompiler(t *testing.T) {
	t.Parallel()

	d := &ExecDriver{
		Command: "munbench-no-such-compiler",
		Args:    DefaultArgs,
		TempDir: t.TempDir(),
	}

	var diag bytes.Buffer
	_, hasDiagnostics, err := d.Compile(context.Background(), "/fixtures/fib.mun", DefaultOptions(), &diag)
	assert.Error(t, err)
	assert.False(t, hasDiagnostics)
}

func TestExecDriver_WriteAssemblyMissingArtifact(t *testing.T) {
	t.Parallel()

	d := NewExecDriver("", nil)
	_, err := d.WriteAssembly(context.Background(), Unit{ID: "fib", Source: "fib.mun", OutDir: t.TempDir()})
	assert.Error(t, err)
}

func TestExecDriver_Release(t *testing.T) {
	t.Parallel()
	requireShell(t)

	tmp := t.TempDir()
	d := &ExecDriver{
		Command: "sh",
		Args:    []string{"-c", `touch "$0/fib.munlib"`, PlaceholderOutDir},
		TempDir: tmp,
	}

	var diag bytes.Buffer
	unit, _, err := d.Compile(context.Background(), "/fixtures/fib.mun", DefaultOptions(), &diag)
	require.NoError(t, err)
	require.DirExists(t, unit.OutDir)

	require.NoError(t, d.Release(unit))
	assert.NoDirExists(t, unit.OutDir)
	require.NoError(t, d.Release(unit), "releasing twice is harmless")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, d.Release(Unit{}))
}

func TestNewExecDriver_Defaults(t *testing.T) {
	t.Parallel()

	d := NewExecDriver("", nil)
	assert.Equal(t, DefaultCommand, d.Command)
	assert.Equal(t, DefaultArgs, d.Args)

	d = NewExecDriver("munc", []string{"{{SOURCE}}"})
	assert.Equal(t, "munc", d.Command)
	assert.Equal(t, []string{"{{SOURCE}}"}, d.Args)
}
