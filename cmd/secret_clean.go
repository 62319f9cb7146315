package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/utils"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the encrypted versions of all tracked files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")

		deleted, err := workflows.Clean(commandContext(cmd), project)
		if err != nil {
			return err
		}

		if len(deleted) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" No encrypted files found. Nothing to clean.")
			return nil
		}
		if Logger.Verbose {
			fmt.Fprint(cmd.OutOrStdout(), "Deleted:"+utils.FormatPaths(deleted))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+fmt.Sprintf(" Removed %d encrypted file(s)", len(deleted)))
		return nil
	},
}
