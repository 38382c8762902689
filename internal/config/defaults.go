package config

import (
	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/native"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"resource_root": "",
		"color":         "auto",
		"opt_level":     compiler.OptAggressive.String(),
		"compiler_cmd":  compiler.DefaultCommand,
		"compiler_args": append([]string(nil), compiler.DefaultArgs...),
		"runtime_cmd":   native.DefaultCommand,
		"runtime_args":  append([]string(nil), native.DefaultArgs...),
		"wasm_engine":   "compiler",
		"state_dir":     "~/.munbench/state",
		"max_history":   500,
		"iterations":    100,
		"warmup":        5,
	}
}
