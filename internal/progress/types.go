// Package progress renders stage progress for provisioning and benchmark
// runs: a spinner while a stage is running on a terminal, plain lines
// otherwise, and a check or failure mark when it ends.
package progress

import apperrors "github.com/mun-lang/munbench/internal/errors"

// StageStatus represents the execution state of a stage
type StageStatus int

const (
	// StagePending indicates the stage has not started yet
	StagePending StageStatus = iota
	// StageInProgress indicates the stage is currently running
	StageInProgress
	// StageCompleted indicates the stage finished successfully
	StageCompleted
	// StageFailed indicates the stage failed with an error
	StageFailed
)

// String returns the string representation of StageStatus
func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageInProgress:
		return "in_progress"
	case StageCompleted:
		return "completed"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageInfo describes one stage of a run, e.g. "compile" of a compiled
// fixture or "benchmark" of a run command.
type StageInfo struct {
	// Name is the stage name (e.g., "resolve", "compile", "load", "benchmark")
	Name string
	// Detail is shown after the stage name, usually the fixture path
	Detail string
	// Number is the current stage number (1-based index)
	Number int
	// TotalStages is the total number of stages in the run
	TotalStages int
	// Status is the current execution status
	Status StageStatus
}

// Validate checks that all StageInfo fields meet validation requirements
func (s StageInfo) Validate() error {
	if s.Name == "" {
		return apperrors.NewArgumentError("stage name cannot be empty")
	}
	if s.Number <= 0 {
		return apperrors.NewArgumentError("stage number must be > 0")
	}
	if s.TotalStages <= 0 {
		return apperrors.NewArgumentError("total stages must be > 0")
	}
	if s.Number > s.TotalStages {
		return apperrors.NewArgumentError("stage number cannot exceed total stages")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stderr is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor is the negotiated color decision
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
