// Package native loads compiled Mun libraries into a runtime host.
//
// The Mun runtime is an external program. A Loader turns an artifact path into
// a live Instance; each call to Instance.Invoke runs one entry point of the
// library in that host.
package native

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/mun-lang/munbench/internal/compiler"
)

// Argument placeholders expanded by HostLoader.
const (
	PlaceholderArtifact = "{{ARTIFACT}}"
	PlaceholderEntry    = "{{ENTRY}}"
)

// DefaultCommand is the runtime host executable looked up on PATH.
const DefaultCommand = "mun"

// DefaultArgs starts the artifact and runs a single entry point. Invocation
// arguments are appended after these.
var DefaultArgs = []string{"start", PlaceholderArtifact, "--entry", PlaceholderEntry}

// ErrClosed is returned by Invoke after Close.
var ErrClosed = errors.New("instance closed")

// Instance is a loaded library.
type Instance interface {
	// Artifact returns the loaded library path.
	Artifact() string
	// Invoke runs entry with args and returns its printed result.
	Invoke(ctx context.Context, entry string, args ...string) (string, error)
	// Close releases the instance.
	Close() error
}

// Loader spawns instances from compiled artifacts.
type Loader interface {
	Spawn(ctx context.Context, artifact string) (Instance, error)
}

// HostLoader spawns instances backed by the runtime host executable.
type HostLoader struct {
	Command string
	Args    []string
}

// NewHostLoader creates a HostLoader. Empty command or args fall back to the
// defaults.
func NewHostLoader(command string, args []string) *HostLoader {
	if command == "" {
		command = DefaultCommand
	}
	if len(args) == 0 {
		args = DefaultArgs
	}
	return &HostLoader{Command: command, Args: args}
}

// Spawn checks that artifact is a readable library and returns an instance
// bound to it.
func (l *HostLoader) Spawn(ctx context.Context, artifact string) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(artifact)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("inspecting artifact: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("artifact %s is a directory", artifact)
	}

	return &hostInstance{
		command:  l.Command,
		args:     l.Args,
		artifact: artifact,
	}, nil
}

type hostInstance struct {
	command  string
	args     []string
	artifact string

	mu     sync.Mutex
	closed bool
}

func (h *hostInstance) Artifact() string {
	return h.artifact
}

func (h *hostInstance) Invoke(ctx context.Context, entry string, args ...string) (string, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	argv := compiler.ExpandArgs(h.args, map[string]string{
		PlaceholderArtifact: h.artifact,
		PlaceholderEntry:    entry,
	})
	argv = append(argv, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, h.command, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("invoking %s: %w", entry, err)
		}
		return "", fmt.Errorf("invoking %s: %w: %s", entry, err, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (h *hostInstance) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
