package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logOpts    workflows.LogOptions
	logOneline bool
	logJSON    bool
)

func init() {
	logCmd.Flags().IntVarP(&logOpts.Limit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logOpts.Reverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOpts.User, "user", "", "filter by user email")
	logCmd.Flags().StringVar(&logOpts.Operations, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logOpts.Since, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logOpts.Until, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	SecretCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays who changed the secrets state and when.

Examples:
  git secret log -n 10                        # Last 10 entries
  git secret log --reverse                    # Most recent first
  git secret log --user alice@example.com     # Filter by user
  git secret log --operation hide,reveal      # Filter by operation
  git secret log --since 2024-01-01           # Filter by date
  git secret log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	result, err := workflows.Log(commandContext(cmd), project, logOpts)
	if err != nil {
		return err
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	out := cmd.OutOrStdout()
	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Fprintln(out, "No audit log entries found.")
		} else {
			fmt.Fprintln(out, "No audit log entries found matching the filters.")
		}
		return nil
	}

	switch {
	case logJSON:
		return outputLogJSON(out, result.Entries)
	case logOneline:
		outputLogOneline(out, result.Entries)
	default:
		outputLogDefault(out, result.Entries)
	}
	return nil
}

func outputLogJSON(out io.Writer, entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func outputLogOneline(out io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.User, e.Operation, workflows.FormatDetailsOneline(e))
	}
}

func outputLogDefault(out io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%-19s  %-25s  %-12s  %s\n", workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, workflows.FormatDetails(e))
	}
}
