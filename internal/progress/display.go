package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay orchestrates the display of progress indicators
type ProgressDisplay struct {
	capabilities TerminalCapabilities
	currentStage *StageInfo
	spinner      *spinner.Spinner
	symbols      ProgressSymbols
	out          io.Writer
}

// NewProgressDisplay creates a progress display writing to stderr, keeping
// stdout free for command results.
func NewProgressDisplay(caps TerminalCapabilities) *ProgressDisplay {
	return NewProgressDisplayTo(os.Stderr, caps)
}

// NewProgressDisplayTo creates a progress display writing to w.
func NewProgressDisplayTo(w io.Writer, caps TerminalCapabilities) *ProgressDisplay {
	return &ProgressDisplay{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          w,
	}
}

// StartStage begins displaying progress for a stage
func (p *ProgressDisplay) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	p.StopSpinner()
	stage.Status = StageInProgress
	p.currentStage = &stage

	msg := buildStageMessage(stage, "Running")

	if p.capabilities.IsTTY {
		p.spinner = spinner.New(
			spinner.CharSets[p.symbols.SpinnerSet],
			100*time.Millisecond,
			spinner.WithWriter(p.out),
		)
		p.spinner.Suffix = " " + msg
		p.spinner.Start()
	} else {
		fmt.Fprintln(p.out, msg)
	}

	return nil
}

// CompleteStage stops the spinner and displays completion status
func (p *ProgressDisplay) CompleteStage(stage StageInfo) error {
	p.StopSpinner()

	mark := checkmark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintf(p.out, "%s %s\n", mark, buildStageMessage(stage, "Finished"))

	p.currentStage = nil
	return nil
}

// FailStage stops the spinner and displays failure status
func (p *ProgressDisplay) FailStage(stage StageInfo, err error) error {
	p.StopSpinner()

	mark := failureMark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintf(p.out, "%s %s: %v\n", mark, buildStageMessage(stage, "Failed"), err)

	p.currentStage = nil
	return nil
}

// CurrentStage returns the running stage, or nil.
func (p *ProgressDisplay) CurrentStage() *StageInfo {
	return p.currentStage
}

// StopSpinner stops the spinner without showing completion/failure
func (p *ProgressDisplay) StopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

// Track runs fn as the given stage, reporting completion or failure.
func (p *ProgressDisplay) Track(stage StageInfo, fn func() error) error {
	if err := p.StartStage(stage); err != nil {
		return err
	}
	if err := fn(); err != nil {
		p.FailStage(stage, err)
		return err
	}
	return p.CompleteStage(stage)
}
