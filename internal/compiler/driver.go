package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Argument placeholders expanded by ExecDriver.
const (
	PlaceholderSource   = "{{SOURCE}}"
	PlaceholderOutDir   = "{{OUT_DIR}}"
	PlaceholderOptLevel = "{{OPT_LEVEL}}"
)

// ArtifactExt is the extension of compiled Mun libraries.
const ArtifactExt = ".munlib"

// DefaultCommand is the compiler executable looked up on PATH.
const DefaultCommand = "mun"

// DefaultArgs builds one source file into OUT_DIR with colour disabled.
var DefaultArgs = []string{
	"build", PlaceholderSource,
	"--opt-level", PlaceholderOptLevel,
	"--color", "disable",
	"--out-dir", PlaceholderOutDir,
}

// Unit identifies a compiled source file.
type Unit struct {
	// ID is the artifact stem, derived from the source file name.
	ID string
	// Source is the absolute source path.
	Source string
	// OutDir holds the artifacts of this compilation only.
	OutDir string
}

// Compiler compiles a source file and emits a loadable artifact.
//
// Compile writes any diagnostics to the given writer and reports whether
// there were any. WriteAssembly must only be called for a unit that compiled
// without diagnostics. Release frees what Compile produced for a unit that
// compiled cleanly; the artifact is gone afterwards.
type Compiler interface {
	Compile(ctx context.Context, source string, opts Options, diagnostics io.Writer) (Unit, bool, error)
	WriteAssembly(ctx context.Context, unit Unit) (string, error)
	Release(unit Unit) error
}

// ExecDriver runs the compiler as a child process.
type ExecDriver struct {
	// Command is the compiler executable.
	Command string
	// Args are the command arguments, with placeholders.
	Args []string
	// TempDir is the parent of the per-compile output directories.
	// Empty means os.TempDir().
	TempDir string
}

// NewExecDriver creates an ExecDriver. Empty command or args fall back to the
// defaults.
func NewExecDriver(command string, args []string) *ExecDriver {
	if command == "" {
		command = DefaultCommand
	}
	if len(args) == 0 {
		args = DefaultArgs
	}
	return &ExecDriver{Command: command, Args: args}
}

// Compile runs the compiler for source into a fresh output directory.
// Everything the compiler prints counts as a diagnostic.
func (d *ExecDriver) Compile(ctx context.Context, source string, opts Options, diagnostics io.Writer) (Unit, bool, error) {
	outDir, err := os.MkdirTemp(d.TempDir, "munbench-")
	if err != nil {
		return Unit{}, false, fmt.Errorf("creating compiler output directory: %w", err)
	}

	unit := Unit{
		ID:     strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)),
		Source: source,
		OutDir: outDir,
	}

	args := ExpandArgs(d.Args, map[string]string{
		PlaceholderSource:   source,
		PlaceholderOutDir:   outDir,
		PlaceholderOptLevel: opts.OptLevel.Flag(),
	})

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Command, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.Env = append(os.Environ(), "NO_COLOR=1")

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) || out.Len() == 0 {
			os.RemoveAll(outDir)
			return Unit{}, false, fmt.Errorf("running compiler %s on %s: %w", d.Command, source, runErr)
		}
	}

	if out.Len() > 0 {
		os.RemoveAll(outDir)
		if _, err := diagnostics.Write(out.Bytes()); err != nil {
			return Unit{}, true, fmt.Errorf("writing diagnostics: %w", err)
		}
		return unit, true, nil
	}

	return unit, false, nil
}

// WriteAssembly returns the path of the unit's compiled library.
func (d *ExecDriver) WriteAssembly(ctx context.Context, unit Unit) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(unit.OutDir, unit.ID+ArtifactExt)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("locating artifact for %s: %w", unit.Source, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("locating artifact for %s: %s is a directory", unit.Source, path)
	}
	return path, nil
}

// Release removes the unit's output directory.
func (d *ExecDriver) Release(unit Unit) error {
	if unit.OutDir == "" {
		return nil
	}
	if err := os.RemoveAll(unit.OutDir); err != nil {
		return fmt.Errorf("removing compiler output for %s: %w", unit.Source, err)
	}
	return nil
}

// ExpandArgs substitutes placeholders in every argument in a single pass.
// Substituted values are never expanded again.
func ExpandArgs(args []string, values map[string]string) []string {
	placeholders := make([]string, 0, len(values))
	for placeholder := range values {
		placeholders = append(placeholders, placeholder)
	}
	// Longest first, so overlapping placeholders always resolve the same way.
	slices.SortFunc(placeholders, func(a, b string) int {
		if n := len(b) - len(a); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})

	oldnew := make([]string, 0, 2*len(placeholders))
	for _, placeholder := range placeholders {
		oldnew = append(oldnew, placeholder, values[placeholder])
	}
	r := strings.NewReplacer(oldnew...)

	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = r.Replace(arg)
	}
	return expanded
}
