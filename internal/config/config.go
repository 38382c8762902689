// Package config loads munbench settings from defaults, a global and a local
// JSON file, and MUNBENCH_ environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/display"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MUNBENCH_"
	// LocalConfigPath is the project config, relative to the working directory.
	LocalConfigPath = ".munbench/config.json"
)

// Configuration holds the munbench settings.
type Configuration struct {
	// ResourceRoot overrides the repository root that fixtures resolve against.
	ResourceRoot string   `koanf:"resource_root"`
	Color        string   `koanf:"color" validate:"required,oneof=disable auto enable"`
	OptLevel     string   `koanf:"opt_level" validate:"required,optlevel"`
	CompilerCmd  string   `koanf:"compiler_cmd" validate:"required"`
	CompilerArgs []string `koanf:"compiler_args" validate:"required,min=1,has_source"`
	RuntimeCmd   string   `koanf:"runtime_cmd" validate:"required"`
	RuntimeArgs  []string `koanf:"runtime_args" validate:"required,min=1,has_artifact"`
	WasmEngine   string   `koanf:"wasm_engine" validate:"required,oneof=compiler interpreter"`
	StateDir     string   `koanf:"state_dir" validate:"required"`
	MaxHistory   int      `koanf:"max_history" validate:"min=0,max=10000"`
	Iterations   int      `koanf:"iterations" validate:"min=1,max=1000000"`
	Warmup       int      `koanf:"warmup" validate:"min=0,max=1000000"`
}

// Load loads configuration from global, local, and environment sources.
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k, err := LoadKoanf(localConfigPath)
	if err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.ResourceRoot = expandHomePath(cfg.ResourceRoot)

	return &cfg, nil
}

// LoadKoanf merges all configuration sources without validating them.
func LoadKoanf(localConfigPath string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if globalPath, err := GlobalConfigPath(); err == nil {
		if err := loadFileIfExists(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFileIfExists(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return k, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Configuration) error {
	if err := newValidator().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ColorMode parses the color key.
func (c *Configuration) ColorMode() (display.DisplayColor, error) {
	return display.ParseDisplayColor(c.Color)
}

// CompilerOptions returns the options passed to every compile.
func (c *Configuration) CompilerOptions() (compiler.Options, error) {
	level, err := compiler.ParseOptLevel(c.OptLevel)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{OptLevel: level}, nil
}

// GlobalConfigPath returns ~/.munbench/config.json.
func GlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".munbench", "config.json"), nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys.
// Example: MUNBENCH_OPT_LEVEL -> opt_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
