package native

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fib.munlib")
	require.NoError(t, os.WriteFile(path, []byte("\x7fELF"), 0o644))
	return path
}

func TestHostLoader_SpawnErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		artifact func(t *testing.T) string
	}{
		"missing file": {
			artifact: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.munlib") },
		},
		"directory": {
			artifact: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewHostLoader("", nil).Spawn(context.Background(), tt.artifact(t))
			assert.Error(t, err)
		})
	}
}

func TestHostLoader_SpawnAndInvoke(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell as the runtime host")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	artifact := writeArtifact(t)
	loader := NewHostLoader("sh", []string{"-c", `echo "$0:$1:$2"`, PlaceholderEntry})

	inst, err := loader.Spawn(context.Background(), artifact)
	require.NoError(t, err)
	assert.Equal(t, artifact, inst.Artifact())

	out, err := inst.Invoke(context.Background(), "fibonacci", "10", "x")
	require.NoError(t, err)
	assert.Equal(t, "fibonacci:10:x", out)

	require.NoError(t, inst.Close())
	_, err = inst.Invoke(context.Background(), "fibonacci")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHostLoader_InvokeFailureIncludesStderr(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell as the runtime host")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	loader := NewHostLoader("sh", []string{"-c", `echo "no such function" >&2; exit 2`})
	inst, err := loader.Spawn(context.Background(), writeArtifact(t))
	require.NoError(t, err)

	_, err = inst.Invoke(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such function")
}

func TestNewHostLoader_Defaults(t *testing.T) {
	t.Parallel()

	l := NewHostLoader("", nil)
	assert.Equal(t, DefaultCommand, l.Command)
	assert.Equal(t, DefaultArgs, l.Args)
}
