// Package resource maps benchmark fixture names to absolute paths under the
// process resource root.
package resource

import (
	"path/filepath"
	"runtime"
	"sync"
)

// FixturesDir is the fixtures directory relative to the resource root.
const FixturesDir = "benches/resources"

var (
	rootMu     sync.Mutex
	rootPinned bool
	root       = moduleRoot()
)

// moduleRoot locates the module root from this file's build-time position.
func moduleRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	// internal/resource/resource.go -> module root
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// SetRoot pins the process resource root. Only the first call has an effect;
// later calls with a different root return false and leave the root unchanged.
func SetRoot(dir string) bool {
	rootMu.Lock()
	defer rootMu.Unlock()

	dir = filepath.Clean(dir)
	if rootPinned {
		return dir == root
	}
	root = dir
	rootPinned = true
	return true
}

// Root returns the process resource root.
func Root() string {
	rootMu.Lock()
	defer rootMu.Unlock()
	return root
}

// Resolver resolves fixture names against a fixed root.
type Resolver struct {
	root string
}

// New creates a Resolver for the given root directory.
func New(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Default returns a Resolver for the process resource root.
func Default() *Resolver {
	return New(Root())
}

// Root returns the resolver's root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Dir returns the absolute fixtures directory.
func (r *Resolver) Dir() string {
	return filepath.Join(r.root, filepath.FromSlash(FixturesDir))
}

// Resolve returns root/benches/resources/p. It performs no I/O; a bad path
// surfaces when the caller opens the file.
func (r *Resolver) Resolve(p string) string {
	return filepath.Join(r.Dir(), filepath.FromSlash(p))
}

// Resolve resolves p against the process resource root.
func Resolve(p string) string {
	return Default().Resolve(p)
}
