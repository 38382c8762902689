//go:build !windows

package display

// platformProbe returns a probe that never reports support: outside Windows
// an unset TERM means no terminal we know how to colour.
func platformProbe() ConsoleProbe {
	return ConsoleProbeFunc(func() bool { return false })
}

// EnableVirtualTerminal is a no-op outside Windows.
func EnableVirtualTerminal() {}
