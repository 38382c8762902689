// Package display decides whether diagnostic output should use ANSI colours.
package display

import (
	"fmt"
	"os"
	"strings"
)

// TermEnvVar names the terminal type. The value "dumb" disables colour.
const TermEnvVar = "TERM"

// DisplayColor is the user's colour preference.
type DisplayColor int

const (
	// Disable never uses colour.
	Disable DisplayColor = iota
	// Auto uses colour when the terminal supports it.
	Auto
	// Enable always uses colour.
	Enable
)

// String returns the lowercase name of the mode.
func (d DisplayColor) String() string {
	switch d {
	case Disable:
		return "disable"
	case Auto:
		return "auto"
	case Enable:
		return "enable"
	default:
		return fmt.Sprintf("DisplayColor(%d)", int(d))
	}
}

// ParseDisplayColor parses "disable", "auto" or "enable".
func ParseDisplayColor(s string) (DisplayColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disable":
		return Disable, nil
	case "auto":
		return Auto, nil
	case "enable":
		return Enable, nil
	default:
		return Auto, fmt.Errorf("invalid color mode %q: expected disable, auto or enable", s)
	}
}

// ShouldEnable reports whether colour output should be used, probing the
// process environment for Auto.
func (d DisplayColor) ShouldEnable() bool {
	return Default().ShouldEnable(d)
}

// ConsoleProbe checks whether the console understands ANSI escapes when the
// terminal type is unknown.
type ConsoleProbe interface {
	SupportsANSI() bool
}

// ConsoleProbeFunc adapts a function to ConsoleProbe.
type ConsoleProbeFunc func() bool

// SupportsANSI calls f.
func (f ConsoleProbeFunc) SupportsANSI() bool { return f() }

// Negotiator resolves a DisplayColor against an environment.
type Negotiator struct {
	// LookupEnv reads environment variables.
	LookupEnv func(string) (string, bool)
	// Probe is consulted when TERM is unset.
	Probe ConsoleProbe
}

// Default returns a Negotiator for the running process and platform.
func Default() Negotiator {
	return Negotiator{
		LookupEnv: os.LookupEnv,
		Probe:     platformProbe(),
	}
}

// ShouldEnable reports whether mode resolves to colour output.
func (n Negotiator) ShouldEnable(mode DisplayColor) bool {
	switch mode {
	case Disable:
		return false
	case Enable:
		return true
	case Auto:
		return n.terminalSupportsANSI()
	default:
		return false
	}
}

func (n Negotiator) terminalSupportsANSI() bool {
	lookup := n.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	// Only the exact, case-sensitive value "dumb" opts out.
	if term, ok := lookup(TermEnvVar); ok {
		return term != "dumb"
	}

	if n.Probe == nil {
		return false
	}
	return n.Probe.SupportsANSI()
}
