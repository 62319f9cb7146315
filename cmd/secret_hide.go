package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var hideOpts workflows.HideOptions

func init() {
	hideCmd.Flags().BoolVarP(&hideOpts.CleanFirst, "clean", "c", false, "delete existing encrypted files first")
	hideCmd.Flags().BoolVarP(&hideOpts.ForceContinue, "force-continue", "F", false, "skip files that fail instead of stopping")
	hideCmd.Flags().BoolVarP(&hideOpts.PreservePermissions, "preserve-permissions", "P", false, "copy file permissions onto the encrypted files")
	hideCmd.Flags().BoolVarP(&hideOpts.DeleteUnencrypted, "delete", "d", false, "delete the plaintext files after encrypting")
	hideCmd.Flags().BoolVarP(&hideOpts.ModifiedOnly, "modified", "m", false, "only encrypt files changed since the last hide")
	hideCmd.Flags().BoolVarP(&hideOpts.Armor, "armor", "a", false, "write ASCII-armored encrypted files")
	SecretCmd.AddCommand(hideCmd)
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Encrypt all tracked files for the current recipients",
	Long: `Encrypts every tracked file with the public keys in the keyring.

The encrypted copy is written next to each file with the SECRETS_EXTENSION
suffix (.secret by default) and is safe to commit. Adding or removing a
recipient makes every file count as modified, so the next hide re-encrypts
all of them even with --modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting hide command")
		spinner, cleanup := startSpinner(cmd.OutOrStdout(), "Encrypting files...")
		defer cleanup()

		result, err := workflows.Hide(commandContext(cmd), project, hideOpts)
		if err != nil {
			return err
		}

		Logger.Infof("%d unchanged, %d failed", len(result.Unchanged), len(result.Failed))
		spinner.FinalMSG = fmt.Sprintf("%s Done. %d of %d files are hidden.",
			ui.Success.Sprint("✓"), len(result.Hidden), result.Total)
		return nil
	},
}
