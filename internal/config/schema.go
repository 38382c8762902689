package config

import (
	"sort"
	"strings"
)

// ConfigKeySchema describes a configuration key for help output.
type ConfigKeySchema struct {
	Path          string   // Key name as used in JSON and after the MUNBENCH_ prefix
	AllowedValues []string // Valid values for enum keys (empty otherwise)
	Description   string   // Human-readable description for help text
}

// EnvVar returns the environment variable overriding the key.
func (s ConfigKeySchema) EnvVar() string {
	return EnvPrefix + strings.ToUpper(s.Path)
}

// KnownKeys is the registry of all configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"resource_root": {
		Path:        "resource_root",
		Description: "Repository root containing benches/resources (empty: the source checkout)",
	},
	"color": {
		Path:          "color",
		AllowedValues: []string{"disable", "auto", "enable"},
		Description:   "Colour output mode",
	},
	"opt_level": {
		Path:          "opt_level",
		AllowedValues: []string{"none", "less", "default", "aggressive"},
		Description:   "Optimization level passed to the compiler",
	},
	"compiler_cmd": {
		Path:        "compiler_cmd",
		Description: "Compiler executable for .mun fixtures",
	},
	"compiler_args": {
		Path:        "compiler_args",
		Description: "Compiler arguments; must include {{SOURCE}}",
	},
	"runtime_cmd": {
		Path:        "runtime_cmd",
		Description: "Runtime host executable for compiled artifacts",
	},
	"runtime_args": {
		Path:        "runtime_args",
		Description: "Runtime host arguments; must include {{ARTIFACT}}",
	},
	"wasm_engine": {
		Path:          "wasm_engine",
		AllowedValues: []string{"compiler", "interpreter"},
		Description:   "wazero engine used for .wasm fixtures",
	},
	"state_dir": {
		Path:        "state_dir",
		Description: "Directory holding the run history",
	},
	"max_history": {
		Path:        "max_history",
		Description: "History entries kept; 0 keeps everything",
	},
	"iterations": {
		Path:        "iterations",
		Description: "Timed invocations per run",
	},
	"warmup": {
		Path:        "warmup",
		Description: "Untimed invocations before timing starts",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
