package shared

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"

	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/config"
	"github.com/mun-lang/munbench/internal/display"
	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/history"
	"github.com/mun-lang/munbench/internal/native"
	"github.com/mun-lang/munbench/internal/provision"
	"github.com/mun-lang/munbench/internal/resource"
)

// Env is the per-invocation state built from flags and configuration.
type Env struct {
	Config    *config.Configuration
	ColorMode display.DisplayColor
	// UseColor is ColorMode negotiated against the terminal, once per process.
	UseColor bool
	Options  compiler.Options
	Logger   *slog.Logger
}

// LoadEnv reads the persistent flags, loads configuration and applies the
// process-wide settings that follow from it: the resource root, the colour
// switch used by fatih/color, and the default slog logger.
func LoadEnv(cmd *cobra.Command) (*Env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Configuration, "loading configuration",
			"Check "+configPath+" and MUNBENCH_* environment variables")
	}

	if f := cmd.Flags().Lookup("color"); f != nil && f.Changed {
		cfg.Color = f.Value.String()
	}
	mode, err := cfg.ColorMode()
	if err != nil {
		return nil, apperrors.InvalidDisplayColor(cfg.Color)
	}

	opts, err := cfg.CompilerOptions()
	if err != nil {
		return nil, apperrors.InvalidOptLevel(cfg.OptLevel)
	}

	if cfg.ResourceRoot != "" && !resource.SetRoot(cfg.ResourceRoot) {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("resource root already set to %s", resource.Root()),
		)
	}

	useColor := display.Default().ShouldEnable(mode)
	color.NoColor = !useColor

	debug, _ := cmd.Flags().GetBool("debug")
	logger := NewLogger(cmd.ErrOrStderr(), debug)
	slog.SetDefault(logger)

	return &Env{Config: cfg, ColorMode: mode, UseColor: useColor, Options: opts, Logger: logger}, nil
}

// NewLogger returns a text logger on w at Info, or Debug when debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Provisioner builds a Provisioner from the configured commands and engine.
func (e *Env) Provisioner() *provision.Provisioner {
	return provision.New(nil,
		provision.WithCompiler(compiler.NewExecDriver(e.Config.CompilerCmd, e.Config.CompilerArgs)),
		provision.WithLoader(native.NewHostLoader(e.Config.RuntimeCmd, e.Config.RuntimeArgs)),
		provision.WithWasmRuntimeConfig(WasmRuntimeConfig(e.Config.WasmEngine)),
		provision.WithLogger(e.Logger),
	)
}

// WasmRuntimeConfig maps the wasm_engine setting to a wazero config.
// "compiler" uses wazero's default, which falls back to the interpreter on
// platforms without compiler support.
func WasmRuntimeConfig(engine string) wazero.RuntimeConfig {
	if engine == "interpreter" {
		return wazero.NewRuntimeConfigInterpreter()
	}
	return wazero.NewRuntimeConfig()
}

// History returns the run history writer.
func (e *Env) History() *history.Writer {
	return history.NewWriter(e.Config.StateDir, e.Config.MaxHistory)
}
