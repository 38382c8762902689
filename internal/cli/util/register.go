// Package util provides the utility CLI commands for munbench.
// Includes: color, doctor, history, config, version
package util

import (
	"github.com/spf13/cobra"
)

// Register adds all utility commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newColorCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}
