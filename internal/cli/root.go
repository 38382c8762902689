// Package cli provides the Cobra-based command line for munbench: resolving
// fixtures, provisioning them on their backends, timing entry points, and
// the supporting color, doctor, config, history and version commands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/bench"
	"github.com/mun-lang/munbench/internal/cli/shared"
	"github.com/mun-lang/munbench/internal/cli/util"
	"github.com/mun-lang/munbench/internal/config"
	apperrors "github.com/mun-lang/munbench/internal/errors"
)

// NewRootCmd builds the munbench command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "munbench",
		Short: "Provision and time Mun, Lua and WebAssembly benchmark fixtures",
		Long: `munbench provisions benchmark fixtures on three backends and times them:

  compiled  .mun sources built by the Mun compiler and run by its runtime host
  script    .lua scripts run by an embedded Lua interpreter
  bytecode  .wasm modules run by an embedded WebAssembly runtime

Fixtures live in benches/resources under the resource root.`,
		Example: `  # Where is a fixture?
  munbench resolve fibonacci.lua

  # Time an entry point
  munbench run fibonacci.wasm fibonacci 25 -n 500

  # Check the toolchain
  munbench doctor`,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupBenchmarks, Title: "Benchmarks:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(shared.GroupConfiguration)

	rootCmd.PersistentFlags().StringP("config", "c", config.LocalConfigPath, "Path to config file")
	rootCmd.PersistentFlags().String("color", "auto", "Colour output: disable, auto or enable")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	bench.Register(rootCmd)
	util.Register(rootCmd)
	return rootCmd
}

// Execute runs the root command, printing failures to stderr. The returned
// error maps to an exit code with ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil || shared.IsExitError(err) {
		return err
	}
	apperrors.FprintError(stderr, shared.ToCLIError(err))
	return err
}

// ExitCode returns the process exit code for an Execute error.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
