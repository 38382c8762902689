// Package compiler drives the Mun compiler as an external process.
//
// The compiler itself is not part of this module. A Compiler compiles a single
// source file into a loadable artifact and reports whether it emitted any
// diagnostics while doing so.
package compiler

import (
	"fmt"
	"strings"
)

// OptLevel is the optimization level passed to the compiler. Levels are
// ordered: None < Less < Default < Aggressive.
type OptLevel int

const (
	// OptNone disables optimizations.
	OptNone OptLevel = iota
	// OptLess enables cheap optimizations.
	OptLess
	// OptDefault is the compiler's default level.
	OptDefault
	// OptAggressive enables all optimizations. Benchmarks use this level.
	OptAggressive
)

var optLevelNames = map[OptLevel]string{
	OptNone:       "none",
	OptLess:       "less",
	OptDefault:    "default",
	OptAggressive: "aggressive",
}

// String returns the lowercase name of the level.
func (l OptLevel) String() string {
	if name, ok := optLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("OptLevel(%d)", int(l))
}

// Flag returns the numeric value used on the compiler command line.
func (l OptLevel) Flag() string {
	return fmt.Sprintf("%d", int(l))
}

// ParseOptLevel parses a level name such as "aggressive". Numeric levels 0-3
// are accepted as well.
func ParseOptLevel(s string) (OptLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level, name := range optLevelNames {
		if s == name || s == level.Flag() {
			return level, nil
		}
	}
	return OptNone, fmt.Errorf("parsing optimization level %q: expected one of none, less, default, aggressive", s)
}

// Options configures a single compilation.
type Options struct {
	OptLevel OptLevel
}

// DefaultOptions returns the options used for benchmark fixtures.
func DefaultOptions() Options {
	return Options{OptLevel: OptAggressive}
}
