// Package provision turns benchmark fixtures into live program instances for
// the three benchmark backends: compiled Mun libraries, Lua scripts and
// WebAssembly modules.
//
// Every operation resolves the fixture through a resource.Resolver, loads the
// raw material, and hands it to a backend constructor. Provisioner keeps no
// mutable state, so one value may serve concurrent benchmarks; each call
// returns an independently owned handle.
//
// Failures are not retried. A fixture that cannot be provisioned is a broken
// benchmark, and callers are expected to abort (see package benchutil).
package provision

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	lua "github.com/yuin/gopher-lua"

	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/native"
	"github.com/mun-lang/munbench/internal/resource"
)

// Provisioner creates backend handles from fixtures.
type Provisioner struct {
	resolver   *resource.Resolver
	compiler   compiler.Compiler
	loader     native.Loader
	wasmConfig wazero.RuntimeConfig
	logger     *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithCompiler sets the compiler used for compiled fixtures.
func WithCompiler(c compiler.Compiler) Option {
	return func(p *Provisioner) { p.compiler = c }
}

// WithLoader sets the native runtime loader.
func WithLoader(l native.Loader) Option {
	return func(p *Provisioner) { p.loader = l }
}

// WithWasmRuntimeConfig sets the wazero runtime configuration.
func WithWasmRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(p *Provisioner) { p.wasmConfig = cfg }
}

// WithLogger sets the logger for provisioning events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provisioner) { p.logger = l }
}

// New creates a Provisioner. A nil resolver uses the process resource root.
func New(resolver *resource.Resolver, opts ...Option) *Provisioner {
	if resolver == nil {
		resolver = resource.Default()
	}
	p := &Provisioner{
		resolver:   resolver,
		compiler:   compiler.NewExecDriver("", nil),
		loader:     native.NewHostLoader("", nil),
		wasmConfig: wazero.NewRuntimeConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "provision")
	return p
}

// Resolver returns the resolver fixtures are looked up with.
func (p *Provisioner) Resolver() *resource.Resolver {
	return p.resolver
}

// CompiledModule compiles the fixture at path and loads the result into the
// native runtime. If the compiler emits any diagnostics the call fails with a
// *CompilationError and no artifact is requested.
func (p *Provisioner) CompiledModule(ctx context.Context, path string, opts compiler.Options) (*CompiledModuleHandle, error) {
	source := p.resolver.Resolve(path)
	p.logger.Debug("compiling fixture", "source", source, "opt_level", opts.OptLevel)

	var diagnostics bytes.Buffer
	unit, hasDiagnostics, err := p.compiler.Compile(ctx, source, opts, &diagnostics)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w: %w", path, ErrCompilation, err)
	}
	if hasDiagnostics {
		return nil, &CompilationError{Path: path, Diagnostics: decodeDiagnostics(diagnostics.Bytes())}
	}

	artifact, err := p.compiler.WriteAssembly(ctx, unit)
	if err != nil {
		p.release(unit)
		return nil, fmt.Errorf("writing assembly for %s: %w: %w", path, ErrCompilation, err)
	}

	inst, err := p.loader.Spawn(ctx, artifact)
	if err != nil {
		p.release(unit)
		return nil, fmt.Errorf("spawning runtime for %s: %w: %w", artifact, ErrProvisioning, err)
	}

	p.logger.Debug("spawned native instance", "artifact", artifact)
	return newCompiledModuleHandle(inst, func() error { return p.compiler.Release(unit) }), nil
}

// release frees a unit on a failed provisioning path. The provisioning error
// is what the caller sees, so a release failure is only logged.
func (p *Provisioner) release(unit compiler.Unit) {
	if err := p.compiler.Release(unit); err != nil {
		p.logger.Warn("releasing compiler output", "error", err)
	}
}

// decodeDiagnostics returns the diagnostics as text, or a placeholder when
// they are not valid UTF-8.
func decodeDiagnostics(b []byte) string {
	if !utf8.Valid(b) {
		return fmt.Sprintf("<could not utf8 decode error string: %d bytes of invalid UTF-8>", len(b))
	}
	return string(b)
}

// ScriptEngine creates a Lua state and runs the fixture at path in it once,
// so that its global functions are ready to call.
func (p *Provisioner) ScriptEngine(path string) (*ScriptEngineHandle, error) {
	source := p.resolver.Resolve(path)
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w: %w", path, ErrFixtureIO, err)
	}

	L := lua.NewState()
	if err := L.DoString(string(data)); err != nil {
		L.Close()
		return nil, fmt.Errorf("executing script %s: %w: %w", path, ErrProvisioning, err)
	}

	p.logger.Debug("loaded script", "source", source)
	return &ScriptEngineHandle{L: L}, nil
}

// BytecodeModule instantiates the WebAssembly fixture at path with no host
// imports. Modules that import anything fail to instantiate.
func (p *Provisioner) BytecodeModule(ctx context.Context, path string) (*BytecodeHandle, error) {
	source := p.resolver.Resolve(path)
	wasm, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w: %w", path, ErrFixtureIO, err)
	}

	r := wazero.NewRuntimeWithConfig(ctx, p.wasmConfig)
	mod, err := r.Instantiate(ctx, wasm)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("instantiating module %s: %w: %w", path, ErrProvisioning, err)
	}

	p.logger.Debug("instantiated module", "source", source)
	return &BytecodeHandle{runtime: r, Module: mod}, nil
}

// Provision dispatches to the operation for kind. opts only affects
// compiled fixtures.
func (p *Provisioner) Provision(ctx context.Context, kind Kind, path string, opts compiler.Options) (Handle, error) {
	switch kind {
	case Compiled:
		h, err := p.CompiledModule(ctx, path, opts)
		if err != nil {
			return Handle{}, err
		}
		return Handle{Kind: Compiled, Compiled: h}, nil
	case Script:
		h, err := p.ScriptEngine(path)
		if err != nil {
			return Handle{}, err
		}
		return Handle{Kind: Script, Script: h}, nil
	case Bytecode:
		h, err := p.BytecodeModule(ctx, path)
		if err != nil {
			return Handle{}, err
		}
		return Handle{Kind: Bytecode, Bytecode: h}, nil
	default:
		return Handle{}, fmt.Errorf("provisioning %s: unknown backend %s", path, kind)
	}
}
