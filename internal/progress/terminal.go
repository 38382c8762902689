package progress

import (
	"os"

	"golang.org/x/term"
)

// ASCIIEnvVar forces ASCII symbols when set to "1".
const ASCIIEnvVar = "MUNBENCH_ASCII"

// DetectTerminalCapabilities inspects stderr, where progress is written.
// useColor is the already negotiated display decision.
func DetectTerminalCapabilities(useColor bool) TerminalCapabilities {
	return detect(int(os.Stderr.Fd()), useColor)
}

func detect(fd int, useColor bool) TerminalCapabilities {
	isTTY := term.IsTerminal(fd)
	forceASCII := os.Getenv(ASCIIEnvVar) == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   useColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
