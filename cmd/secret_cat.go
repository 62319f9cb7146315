package cmd

import (
	"fmt"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var catCreds credentialFlags

func init() {
	catCreds.register(catCmd)
	SecretCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:   "cat <pathspec>...",
	Short: "Print the decrypted contents of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := catCreds.load()
		if err != nil {
			return err
		}

		result, err := workflows.Cat(commandContext(cmd), project, cmd.OutOrStdout(), workflows.CatOptions{
			Pathspecs:   args,
			Credentials: creds,
		})
		if err != nil {
			return err
		}
		if len(result.Printed) == 0 {
			return fmt.Errorf("%w: nothing could be decrypted", kerrors.ErrDecryptFailed)
		}
		return nil
	},
}
