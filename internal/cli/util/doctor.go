package util

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	"github.com/mun-lang/munbench/internal/health"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"doc"},
		Short:   "Run health checks for munbench dependencies (doc)",
		Long: `Run health checks to verify that benchmarks can be provisioned.

This command checks for:
  - the compiler and runtime host commands (optional, needed for .mun fixtures)
  - the fixture directory
  - the embedded Lua interpreter and WebAssembly runtime
  - the negotiated terminal colour mode`,
		Example:      `  munbench doctor`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := shared.LoadEnv(cmd)
			if err != nil {
				return err
			}

			checker := &health.Checker{
				CompilerCmd:  env.Config.CompilerCmd,
				RuntimeCmd:   env.Config.RuntimeCmd,
				ColorMode:    env.ColorMode,
				ColorEnabled: &env.UseColor,
				Provisioner:  env.Provisioner(),
			}
			report := checker.Run(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

			if !report.Passed {
				return shared.NewExitError(shared.ExitMissingDependency)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	return cmd
}
