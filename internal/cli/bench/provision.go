package bench

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/history"
	"github.com/mun-lang/munbench/internal/lifecycle"
	"github.com/mun-lang/munbench/internal/progress"
	"github.com/mun-lang/munbench/internal/provision"
)

// kindFor returns the backend named by --backend, or the one implied by the
// fixture extension.
func kindFor(backend, fixture string) (provision.Kind, error) {
	if backend != "" {
		kind, err := provision.ParseKind(backend)
		if err != nil {
			return kind, apperrors.UnknownBackend(backend)
		}
		return kind, nil
	}
	kind, err := provision.KindForPath(fixture)
	if err != nil {
		return kind, apperrors.NewArgumentError(err.Error(), "Pass --backend explicitly")
	}
	return kind, nil
}

// withHistory runs fn and records it in the run history.
func withHistory(ctx context.Context, env *shared.Env, inv lifecycle.Invocation, fn func(context.Context) (history.Completion, error)) error {
	opts := lifecycle.Options{Logger: env.Logger, ExitCode: shared.ExitCode}
	return lifecycle.RunWithHistory(ctx, env.History(), inv, opts, fn)
}

func newProvisionCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "provision <fixture>",
		Short: "Provision a fixture on its backend and release it",
		Long: `Compile or load a fixture the same way a benchmark would, then release it.

The backend is inferred from the extension (.mun compiled, .lua script,
.wasm bytecode) unless --backend is given. Compiler diagnostics abort the
command and are printed verbatim.`,
		Example: `  munbench provision fibonacci.mun
  munbench provision --backend script fibonacci.lua`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := shared.LoadEnv(cmd)
			if err != nil {
				return err
			}
			fixture := args[0]
			kind, err := kindFor(backend, fixture)
			if err != nil {
				return err
			}

			display := progress.NewProgressDisplayTo(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(env.UseColor))
			stage := progress.StageInfo{Name: kind.String(), Detail: fixture, Number: 1, TotalStages: 1}
			inv := lifecycle.Invocation{Command: "provision", Fixture: fixture, Backend: kind.String()}
			err = withHistory(cmd.Context(), env, inv, func(ctx context.Context) (history.Completion, error) {
				return history.Completion{}, display.Track(stage, func() error {
					h, err := env.Provisioner().Provision(ctx, kind, fixture, env.Options)
					if err != nil {
						return err
					}
					return h.Close(ctx)
				})
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "provisioned %s (%s)\n", fixture, kind)
			return nil
		},
	}
	cmd.GroupID = shared.GroupBenchmarks
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "Backend: compiled, script or bytecode")
	return cmd
}
