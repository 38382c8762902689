// Package bench provides the benchmark CLI commands: resolve, provision and run.
package bench

import (
	"github.com/spf13/cobra"
)

// Register adds the benchmark commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newProvisionCmd())
	rootCmd.AddCommand(newRunCmd())
}
