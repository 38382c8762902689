// Package benchutil provisions benchmark subjects and aborts the benchmark
// when that fails. A fixture that cannot be provisioned is a setup bug, so
// there is nothing to measure and nothing to retry.
package benchutil

import (
	"context"
	"testing"

	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/provision"
)

// CompiledModule compiles and loads the fixture at path, failing tb on any
// error including compiler diagnostics. The handle is closed on cleanup.
func CompiledModule(tb testing.TB, p *provision.Provisioner, path string, opts compiler.Options) *provision.CompiledModuleHandle {
	tb.Helper()

	h, err := p.CompiledModule(context.Background(), path, opts)
	if err != nil {
		tb.Fatalf("provisioning compiled module %s: %v", path, err)
	}
	tb.Cleanup(func() { h.Close() })
	return h
}

// ScriptEngine loads the Lua fixture at path, failing tb on any error.
func ScriptEngine(tb testing.TB, p *provision.Provisioner, path string) *provision.ScriptEngineHandle {
	tb.Helper()

	h, err := p.ScriptEngine(path)
	if err != nil {
		tb.Fatalf("provisioning script engine %s: %v", path, err)
	}
	tb.Cleanup(func() { h.Close() })
	return h
}

// BytecodeModule instantiates the WebAssembly fixture at path, failing tb on
// any error.
func BytecodeModule(tb testing.TB, p *provision.Provisioner, path string) *provision.BytecodeHandle {
	tb.Helper()

	ctx := context.Background()
	h, err := p.BytecodeModule(ctx, path)
	if err != nil {
		tb.Fatalf("provisioning bytecode module %s: %v", path, err)
	}
	tb.Cleanup(func() { h.Close(ctx) })
	return h
}

// Handle provisions path for kind, failing tb on any error.
func Handle(tb testing.TB, p *provision.Provisioner, kind provision.Kind, path string, opts compiler.Options) provision.Handle {
	tb.Helper()

	ctx := context.Background()
	h, err := p.Provision(ctx, kind, path, opts)
	if err != nil {
		tb.Fatalf("provisioning %s backend for %s: %v", kind, path, err)
	}
	tb.Cleanup(func() { h.Close(ctx) })
	return h
}
