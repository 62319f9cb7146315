package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	revealOpts  workflows.RevealOptions
	revealCreds credentialFlags
)

func init() {
	revealCmd.Flags().BoolVarP(&revealOpts.ForceOverwrite, "force", "f", false, "overwrite existing plaintext files")
	revealCmd.Flags().BoolVarP(&revealOpts.ForceContinue, "force-continue", "F", false, "skip files that fail instead of stopping")
	revealCmd.Flags().BoolVarP(&revealOpts.PreservePermissions, "preserve-permissions", "P", false, "copy permissions of the encrypted files")
	revealCreds.register(revealCmd)
	SecretCmd.AddCommand(revealCmd)
}

var revealCmd = &cobra.Command{
	Use:   "reveal [pathspec]...",
	Short: "Decrypt tracked files",
	Long: `Decrypts the encrypted version of each tracked file, or only the given
files. Existing plaintext is never overwritten without --force.

The private key is read from --private-key-stdin, --private-key, or the
GPG_PRIVATE_KEY environment variable (key text or a path).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting reveal command")

		creds, err := revealCreds.load()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner(cmd.OutOrStdout(), "Decrypting files...")
		defer cleanup()

		opts := revealOpts
		opts.Pathspecs = args
		opts.Credentials = creds

		result, err := workflows.Reveal(commandContext(cmd), project, opts)
		if err != nil {
			return err
		}

		spinner.FinalMSG = fmt.Sprintf("%s Done. %d of %d files are revealed.",
			ui.Success.Sprint("✓"), len(result.Revealed), result.Total)
		return nil
	},
}
