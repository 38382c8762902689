package util

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mun-lang/munbench/internal/cli/shared"
	apperrors "github.com/mun-lang/munbench/internal/errors"
	"github.com/mun-lang/munbench/internal/history"
)

type historyFilters struct {
	fixture string
	backend string
	status  string
	limit   int
}

func newHistoryCmd() *cobra.Command {
	var (
		f        historyFilters
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "View provisioning and benchmark history",
		Long: `View a log of provision and run commands with timestamp, fixture,
backend, status, exit code, duration and mean invocation time.`,
		Example: `  munbench history
  munbench history --backend bytecode -n 5
  munbench history --clear`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := shared.LoadEnv(cmd)
			if err != nil {
				return err
			}
			if f.limit < 0 {
				return apperrors.NewArgumentError(fmt.Sprintf("limit must be positive, got %d", f.limit))
			}
			return runHistory(cmd.OutOrStdout(), env.Config.StateDir, f, clearAll)
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().StringVarP(&f.fixture, "fixture", "f", "", "Filter by fixture path")
	cmd.Flags().StringVarP(&f.backend, "backend", "b", "", "Filter by backend (compiled, script, bytecode)")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (running, completed, failed)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Clear all history")
	return cmd
}

func runHistory(out io.Writer, stateDir string, f historyFilters, clearAll bool) error {
	if clearAll {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := filterEntries(histFile.Entries, f)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history available.")
		return nil
	}

	displayEntries(out, entries)
	return nil
}

// filterEntries filters and limits history entries.
func filterEntries(entries []history.HistoryEntry, f historyFilters) []history.HistoryEntry {
	var result []history.HistoryEntry

	for _, entry := range entries {
		if f.fixture != "" && entry.Fixture != f.fixture {
			continue
		}
		if f.backend != "" && entry.Backend != f.backend {
			continue
		}
		if f.status != "" && entry.Status != f.status {
			continue
		}
		result = append(result, entry)
	}

	if f.limit > 0 && len(result) > f.limit {
		result = result[len(result)-f.limit:]
	}

	return result
}

// displayEntries formats and displays history entries.
func displayEntries(out io.Writer, entries []history.HistoryEntry) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")
		statusStr := formatStatus(entry.Status, green, yellow, red)

		exitCodeStr := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCodeStr = green(exitCodeStr)
		} else {
			exitCodeStr = red(exitCodeStr)
		}

		avg := "-"
		if entry.AvgNs > 0 {
			avg = time.Duration(entry.AvgNs).String()
		}

		fmt.Fprintf(out, "%s  %s  %s  %-10s  %-9s  %-24s  exit=%s  %s  avg=%s\n",
			cyan(timestamp),
			shortID(entry.ID),
			statusStr,
			entry.Command,
			entry.Backend,
			entry.Fixture,
			exitCodeStr,
			entry.Duration,
			avg,
		)
	}
}

// formatStatus returns a color-coded status string.
func formatStatus(status string, green, yellow, red func(a ...interface{}) string) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case history.StatusCompleted:
		return green(padded)
	case history.StatusRunning:
		return yellow(padded)
	case history.StatusFailed:
		return red(padded)
	case "":
		return fmt.Sprintf("%-10s", "-")
	default:
		return padded
	}
}

// shortID returns the first UUID group, which is enough to tell runs apart.
func shortID(id string) string {
	if id == "" {
		return fmt.Sprintf("%-8s", "-")
	}
	if len(id) > 8 {
		return id[:8]
	}
	return fmt.Sprintf("%-8s", id)
}
