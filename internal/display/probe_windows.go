//go:build windows

package display

import (
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// cmdProbe asks cmd.exe for the Windows version.
type cmdProbe struct{}

func platformProbe() ConsoleProbe {
	return cmdProbe{}
}

// SupportsANSI runs `cmd /C ver`. When the version supports ANSI escapes it
// also switches the console into virtual terminal mode.
func (cmdProbe) SupportsANSI() bool {
	out, err := exec.Command("cmd", "/C", "ver").Output()
	if err != nil {
		return false
	}

	supported := versionSupportsANSI(string(out))
	if supported {
		EnableVirtualTerminal()
	}
	return supported
}

// EnableVirtualTerminal turns on ANSI processing for stdout and stderr.
// Errors are ignored: handles that are not consoles are skipped.
func EnableVirtualTerminal() {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		h := windows.Handle(f.Fd())
		var mode uint32
		if err := windows.GetConsoleMode(h, &mode); err != nil {
			continue
		}
		_ = windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
