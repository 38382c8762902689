package util

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/knadh/koanf/parsers/json"
	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	"github.com/mun-lang/munbench/internal/config"
)

func newConfigCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show every configuration key with its effective value and the environment
variable that overrides it.

Sources, lowest priority first: defaults, ~/.munbench/config.json, the local
config (--config), MUNBENCH_* environment variables.`,
		Example: `  munbench config
  munbench config --json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := shared.LoadEnv(cmd); err != nil {
				return err
			}

			configPath, _ := cmd.Flags().GetString("config")
			k, err := config.LoadKoanf(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if asJSON {
				data, err := k.Marshal(json.Parser())
				if err != nil {
					return fmt.Errorf("marshaling config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, formatValue(k.Get(key)), schema.EnvVar())
			}
			return tw.Flush()
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the configuration as JSON")
	return cmd
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, " ")
	case []interface{}:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}
