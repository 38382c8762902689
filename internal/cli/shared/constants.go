// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/provision"
)

// Command group IDs for organizing help output
const (
	GroupBenchmarks    = "benchmarks"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess            = 0
	ExitFailure            = 1
	ExitInvalidArguments   = 2
	ExitMissingDependency  = 3
	ExitCompilationFailed  = 4
	ExitProvisioningFailed = 5
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code. It is used when
// the command already printed its own failure output.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err only carries an exit code.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if errors.Is(err, provision.ErrCompilation) {
		return ExitCompilationFailed
	}
	if errors.Is(err, provision.ErrFixtureIO) {
		return ExitMissingDependency
	}
	if errors.Is(err, provision.ErrProvisioning) {
		return ExitProvisioningFailed
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case apperrors.Argument, apperrors.Configuration:
			return ExitInvalidArguments
		case apperrors.Prerequisite:
			return ExitMissingDependency
		case apperrors.Provisioning:
			return ExitProvisioningFailed
		}
	}
	return ExitFailure
}

// ToCLIError turns any command error into a CLIError with remediation hints.
func ToCLIError(err error) *apperrors.CLIError {
	if err == nil {
		return nil
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var compErr *provision.CompilationError
	switch {
	case errors.As(err, &compErr):
		return apperrors.CompilationFailed(err)
	case errors.Is(err, provision.ErrCompilation):
		return apperrors.Wrap(err, apperrors.Provisioning,
			"Check compiler_cmd and compiler_args", "Run 'munbench doctor' to check the compiler")
	case errors.Is(err, provision.ErrFixtureIO):
		return apperrors.Wrap(err, apperrors.Prerequisite,
			"Run 'munbench resolve <path>' to see where the fixture is expected")
	case errors.Is(err, provision.ErrProvisioning):
		return apperrors.ProvisioningFailed(err)
	default:
		return apperrors.Wrap(err, apperrors.Runtime)
	}
}
