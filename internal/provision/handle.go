package provision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	lua "github.com/yuin/gopher-lua"

	"github.com/mun-lang/munbench/internal/native"
)

// CompiledModuleHandle owns a library loaded into the native runtime and the
// compiler output it was loaded from. Access to the instance is serialised;
// it may be driven from any goroutine, one at a time.
type CompiledModuleHandle struct {
	mu      sync.Mutex
	inst    native.Instance
	release func() error
}

func newCompiledModuleHandle(inst native.Instance, release func() error) *CompiledModuleHandle {
	return &CompiledModuleHandle{inst: inst, release: release}
}

// Do runs fn with exclusive access to the instance.
func (h *CompiledModuleHandle) Do(fn func(native.Instance) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.inst)
}

// Invoke runs an entry point of the loaded library.
func (h *CompiledModuleHandle) Invoke(ctx context.Context, entry string, args ...string) (string, error) {
	var out string
	err := h.Do(func(inst native.Instance) error {
		var err error
		out, err = inst.Invoke(ctx, entry, args...)
		return err
	})
	return out, err
}

// Artifact returns the loaded library path.
func (h *CompiledModuleHandle) Artifact() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inst.Artifact()
}

// Close releases the instance, then removes the compiler output. Only the
// first call releases the output.
func (h *CompiledModuleHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.inst.Close()
	if h.release != nil {
		err = errors.Join(err, h.release())
		h.release = nil
	}
	return err
}

// ScriptEngineHandle owns a Lua state that has already run its fixture.
// It is not safe for concurrent use.
type ScriptEngineHandle struct {
	L *lua.LState
}

// Call invokes the global function name and returns its first result.
func (h *ScriptEngineHandle) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	fn := h.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("calling %s: global is a %s, not a function", name, fn.Type())
	}

	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, fmt.Errorf("calling %s: %w", name, err)
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	return ret, nil
}

// Close releases the Lua state.
func (h *ScriptEngineHandle) Close() error {
	h.L.Close()
	return nil
}

// BytecodeHandle owns an instantiated WebAssembly module and its runtime.
// It is not safe for concurrent use.
type BytecodeHandle struct {
	runtime wazero.Runtime
	Module  api.Module
}

// Call invokes the exported function name.
func (h *BytecodeHandle) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := h.Module.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("calling %s: function not exported", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", name, err)
	}
	return results, nil
}

// Close closes the module and its runtime.
func (h *BytecodeHandle) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Handle is a provisioned program instance. Exactly one of Compiled, Script
// and Bytecode is set, matching Kind.
type Handle struct {
	Kind     Kind
	Compiled *CompiledModuleHandle
	Script   *ScriptEngineHandle
	Bytecode *BytecodeHandle
}

// Invoke calls entry with textual arguments and returns the result as text.
// Script arguments that parse as numbers are passed as Lua numbers; bytecode
// arguments must be integers and are passed as i64 values.
func (h Handle) Invoke(ctx context.Context, entry string, args ...string) (string, error) {
	switch h.Kind {
	case Compiled:
		return h.Compiled.Invoke(ctx, entry, args...)
	case Script:
		values := make([]lua.LValue, len(args))
		for i, arg := range args {
			if n, err := strconv.ParseFloat(arg, 64); err == nil {
				values[i] = lua.LNumber(n)
			} else {
				values[i] = lua.LString(arg)
			}
		}
		ret, err := h.Script.Call(entry, values...)
		if err != nil {
			return "", err
		}
		return ret.String(), nil
	case Bytecode:
		params := make([]uint64, len(args))
		for i, arg := range args {
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return "", fmt.Errorf("argument %d for %s: %w", i, entry, err)
			}
			params[i] = uint64(n)
		}
		results, err := h.Bytecode.Call(ctx, entry, params...)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = strconv.FormatInt(int64(r), 10)
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("invoking %s: unknown backend %s", entry, h.Kind)
	}
}

// Close releases whichever instance the handle owns.
func (h Handle) Close(ctx context.Context) error {
	var errs []error
	if h.Compiled != nil {
		errs = append(errs, h.Compiled.Close())
	}
	if h.Script != nil {
		errs = append(errs, h.Script.Close())
	}
	if h.Bytecode != nil {
		errs = append(errs, h.Bytecode.Close(ctx))
	}
	return errors.Join(errs...)
}
