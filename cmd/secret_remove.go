package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/utils"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var removeCleanEncrypted bool

func init() {
	removeCmd.Flags().BoolVarP(&removeCleanEncrypted, "clean", "c", false, "also delete the encrypted files")
	SecretCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <pathspec>...",
	Short: "Stop tracking files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command")

		result, err := workflows.Untrack(commandContext(cmd), project, workflows.UntrackOptions{
			Pathspecs:      args,
			CleanEncrypted: removeCleanEncrypted,
		})
		if err != nil {
			return err
		}

		if len(result.Deleted) > 0 {
			fmt.Fprint(cmd.OutOrStdout(), "Deleted encrypted files:"+utils.FormatPaths(result.Deleted))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+fmt.Sprintf(" %d item(s) removed from index.", len(result.Removed)))
		return nil
	},
}
