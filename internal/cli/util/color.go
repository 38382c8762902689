package util

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	"github.com/mun-lang/munbench/internal/display"
)

func newColorCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "color",
		Short: "Show whether colour output is enabled",
		Long: `Resolve the colour mode (--color, the color config key, or MUNBENCH_COLOR)
against the terminal and print "enabled" or "disabled".

In auto mode TERM decides when it is set: any value but "dumb" enables colour.
Without TERM, Windows consoles are probed with "ver" and, from Windows 10
build 10586 on, switched into ANSI mode.`,
		Example: `  munbench color
  munbench color --color disable
  munbench color --probe`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := shared.LoadEnv(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			state := "disabled"
			if env.UseColor {
				state = "enabled"
			}
			fmt.Fprintln(out, state)

			if probe {
				term, ok := display.Default().LookupEnv(display.TermEnvVar)
				if !ok {
					term = "(unset)"
				}
				fmt.Fprintf(out, "mode: %s\nTERM: %s\n", env.ColorMode, term)
			}
			return nil
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().BoolVar(&probe, "probe", false, "Also print the mode and TERM value used")
	return cmd
}
