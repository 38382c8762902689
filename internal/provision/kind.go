package provision

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind names a backend.
type Kind int

const (
	// Compiled is a Mun library loaded into the native runtime.
	Compiled Kind = iota
	// Script is a Lua script run by an embedded interpreter.
	Script
	// Bytecode is a WebAssembly module in a sandboxed runtime.
	Bytecode
)

// Kinds lists all backends in a stable order.
var Kinds = []Kind{Compiled, Script, Bytecode}

func (k Kind) String() string {
	switch k {
	case Compiled:
		return "compiled"
	case Script:
		return "script"
	case Bytecode:
		return "bytecode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "compiled", "script" or "bytecode".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == k.String() {
			return k, nil
		}
	}
	return Compiled, fmt.Errorf("unknown backend %q: expected compiled, script or bytecode", s)
}

// KindForPath infers the backend from a fixture's extension.
func KindForPath(p string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mun":
		return Compiled, nil
	case ".lua":
		return Script, nil
	case ".wasm":
		return Bytecode, nil
	default:
		return Compiled, fmt.Errorf("cannot infer backend for %q: use a .mun, .lua or .wasm fixture", p)
	}
}
