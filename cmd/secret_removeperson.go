package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(removePersonCmd)
}

var removePersonCmd = &cobra.Command{
	Use:     "removeperson <email>...",
	Aliases: []string{"killperson"},
	Short:   "Remove people from the recipients",
	Long: `Deletes the public keys of the given people from the keyring.

Files that are already hidden can still be decrypted by them until they
are hidden again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.CalledAs() == "killperson" {
			Logger.Warnf("'killperson' is deprecated, use 'removeperson' instead")
		}

		result, err := workflows.RemovePerson(commandContext(cmd), project, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Total() == 0 {
			fmt.Fprintln(out, ui.Warning.Sprint("!")+" No keys removed.")
			return nil
		}
		for _, id := range args {
			if n := result.Removed[id]; n > 0 {
				fmt.Fprintf(out, "%s Removed %s\n", ui.Success.Sprint("✓"), ui.Highlight.Sprint(id))
			}
		}
		fmt.Fprintf(out, "%s %d key(s) removed.\n", ui.Success.Sprint("✓"), result.Total())
		fmt.Fprintf(out, "%s Run %s to re-encrypt files without them\n",
			ui.Info.Sprint("→"), ui.Code.Sprint("git secret hide"))
		return nil
	},
}
