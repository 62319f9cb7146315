package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the tracked files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := workflows.List(commandContext(cmd), project)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), e.Path)
		}
		return nil
	},
}
