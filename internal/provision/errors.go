package provision

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by a Provisioner wraps exactly one.
var (
	// ErrFixtureIO means the fixture file could not be read.
	ErrFixtureIO = errors.New("fixture unreadable")
	// ErrCompilation means the fixture did not compile.
	ErrCompilation = errors.New("compilation failed")
	// ErrProvisioning means a backend rejected a valid artifact, script or module.
	ErrProvisioning = errors.New("provisioning failed")
)

// CompilationError carries the compiler diagnostics for a fixture.
type CompilationError struct {
	Path        string
	Diagnostics string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compiler errors in %s..\n%s", e.Path, e.Diagnostics)
}

// Unwrap lets errors.Is match ErrCompilation.
func (e *CompilationError) Unwrap() error {
	return ErrCompilation
}
