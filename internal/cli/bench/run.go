package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mun-lang/munbench/internal/bench"
	"github.com/mun-lang/munbench/internal/cli/shared"
	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/history"
	"github.com/mun-lang/munbench/internal/lifecycle"
	"github.com/mun-lang/munbench/internal/progress"
	"github.com/mun-lang/munbench/internal/provision"
)

func newRunCmd() *cobra.Command {
	var (
		backend    string
		iterations int
		warmup     int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "run <fixture> <entry> [args...]",
		Short: "Provision a fixture and time an entry point",
		Long: `Provision a fixture, call the entry point a number of untimed warmup times,
then time the requested number of calls and report the durations.

Arguments are passed as strings to compiled and script backends and parsed as
integers for bytecode modules.`,
		Example: `  munbench run fibonacci.lua fibonacci 20
  munbench run fibonacci.wasm fibonacci 30 -n 1000 -o json`,
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := shared.LoadEnv(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("iterations") {
				iterations = env.Config.Iterations
			}
			if !cmd.Flags().Changed("warmup") {
				warmup = env.Config.Warmup
			}
			if iterations < 1 {
				return apperrors.NewArgumentError(fmt.Sprintf("iterations must be at least 1, got %d", iterations))
			}
			if warmup < 0 {
				return apperrors.NewArgumentError(fmt.Sprintf("warmup cannot be negative, got %d", warmup))
			}
			render, err := renderer(output)
			if err != nil {
				return err
			}

			fixture, entry := args[0], args[1]
			kind, err := kindFor(backend, fixture)
			if err != nil {
				return err
			}

			spec := bench.Spec{
				Fixture:    fixture,
				Backend:    kind.String(),
				Entry:      entry,
				Args:       args[2:],
				Warmup:     warmup,
				Iterations: iterations,
			}
			result, err := runBenchmark(cmd.Context(), cmd.ErrOrStderr(), env, kind, spec)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), result)
		},
	}
	cmd.GroupID = shared.GroupBenchmarks
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "Backend: compiled, script or bytecode")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Timed invocations (default from config)")
	cmd.Flags().IntVarP(&warmup, "warmup", "w", 0, "Untimed invocations before timing (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func runBenchmark(ctx context.Context, progressOut io.Writer, env *shared.Env, kind provision.Kind, spec bench.Spec) (*bench.Result, error) {
	display := progress.NewProgressDisplayTo(progressOut, progress.DetectTerminalCapabilities(env.UseColor))
	inv := lifecycle.Invocation{Command: "run", Fixture: spec.Fixture, Backend: spec.Backend, Entry: spec.Entry}

	var result *bench.Result
	err := withHistory(ctx, env, inv, func(ctx context.Context) (history.Completion, error) {
		var h provision.Handle
		err := display.Track(progress.StageInfo{Name: "provision", Detail: spec.Fixture, Number: 1, TotalStages: 2}, func() error {
			var err error
			h, err = env.Provisioner().Provision(ctx, kind, spec.Fixture, env.Options)
			return err
		})
		if err != nil {
			return history.Completion{}, err
		}
		defer h.Close(ctx)

		err = display.Track(progress.StageInfo{Name: "benchmark", Detail: spec.Entry, Number: 2, TotalStages: 2}, func() error {
			var err error
			result, err = bench.Run(ctx, spec, func(ctx context.Context) (string, error) {
				return h.Invoke(ctx, spec.Entry, spec.Args...)
			})
			if err != nil {
				return apperrors.InvocationFailed(spec.Entry, err)
			}
			return nil
		})
		if err != nil {
			return history.Completion{}, err
		}
		return history.Completion{Iterations: result.Iterations, AvgNs: result.AvgNs}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type renderFunc func(io.Writer, *bench.Result) error

func renderer(format string) (renderFunc, error) {
	switch format {
	case "text":
		return renderText, nil
	case "json":
		return func(w io.Writer, r *bench.Result) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}, nil
	case "yaml":
		return func(w io.Writer, r *bench.Result) error {
			enc := yaml.NewEncoder(w)
			defer enc.Close()
			return enc.Encode(r)
		}, nil
	default:
		return nil, apperrors.NewArgumentError(
			fmt.Sprintf("unknown output format %q", format),
			"Use one of: text, json, yaml",
		)
	}
}

func renderText(w io.Writer, r *bench.Result) error {
	_, err := fmt.Fprintf(w, "%s %s (%s)\n  output:     %s\n  iterations: %d\n  avg:        %s\n  min:        %s\n  max:        %s\n",
		r.Fixture, r.Entry, r.Backend,
		r.Output,
		r.Iterations,
		time.Duration(r.AvgNs),
		time.Duration(r.MinNs),
		time.Duration(r.MaxNs),
	)
	return err
}
