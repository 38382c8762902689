package bench

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/resource"
)

func newResolveCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Print the absolute location of benchmark fixtures",
		Long: `Print the absolute path of each fixture, resolved against the resource
root (resource_root, or the source checkout when unset).

Paths use forward slashes and are relative to benches/resources.`,
		Example: `  munbench resolve fibonacci.lua
  munbench resolve --check fibonacci.mun empty.wasm`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := shared.LoadEnv(cmd); err != nil {
				return err
			}
			r := resource.Default()
			for _, p := range args {
				abs := r.Resolve(p)
				if check {
					if _, err := os.Stat(abs); err != nil {
						return apperrors.FixtureNotFound(p, r.Dir())
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), abs)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupBenchmarks
	cmd.Flags().BoolVar(&check, "check", false, "Fail if a fixture does not exist")
	return cmd
}
