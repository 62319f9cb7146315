package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var tellOpts workflows.TellOptions

func init() {
	tellCmd.Flags().BoolVarP(&tellOpts.UseGitEmail, "me", "m", false, "use the current git user.email")
	tellCmd.Flags().StringVarP(&tellOpts.Homedir, "homedir", "d", "", "gpg home directory to export keys from")
	tellCmd.Flags().StringVarP(&tellOpts.KeyFile, "file", "f", "", "import a public key file instead of exporting from gpg")
	SecretCmd.AddCommand(tellCmd)
}

var tellCmd = &cobra.Command{
	Use:   "tell [email]...",
	Short: "Add people who can decrypt the secrets",
	Long: `Imports the public key of each given email into the keyring.

Keys are exported from the local gpg keyring, or read from a file with
--file. Every hidden file has to be hidden again afterwards so the new
recipient can decrypt it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting tell command")

		opts := tellOpts
		opts.Identities = args
		if len(opts.Identities) == 0 && !opts.UseGitEmail && opts.KeyFile == "" {
			return fmt.Errorf("at least one email, --me or --file is required")
		}

		result, err := workflows.Tell(commandContext(cmd), project, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Added) == 0 {
			fmt.Fprintln(out, ui.Warning.Sprint("!")+" No new users were added.")
			return nil
		}
		for _, r := range result.Added {
			fmt.Fprintf(out, "%s Added %s %s\n", ui.Success.Sprint("✓"),
				ui.Highlight.Sprint(r.PrimaryUserID()), ui.Muted.Sprint(r.KeyID()))
		}
		fmt.Fprintf(out, "%s Run %s to re-encrypt files for the new recipients\n",
			ui.Info.Sprint("→"), ui.Code.Sprint("git secret hide"))
		return nil
	},
}
