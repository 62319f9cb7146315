package cmd

import (
	"fmt"
	"time"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var whoKnowsLong bool

func init() {
	whoKnowsCmd.Flags().BoolVarP(&whoKnowsLong, "long", "l", false, "show key IDs and expiration dates")
	SecretCmd.AddCommand(whoKnowsCmd)
}

var whoKnowsCmd = &cobra.Command{
	Use:   "whoknows",
	Short: "List the people who can decrypt the secrets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := workflows.WhoKnows(commandContext(cmd), project)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		now := time.Now()
		for _, info := range infos {
			if !whoKnowsLong {
				fmt.Fprintln(out, info.Name)
				continue
			}

			expires := "never"
			if info.HasExpiry {
				expires = info.Expires.Format("2006-01-02")
				if info.Expired(now) {
					expires = ui.Error.Sprint(expires + " (expired)")
				}
			}
			fmt.Fprintf(out, "%s (%s) expires: %s\n", info.Name, info.KeyID, expires)
		}
		return nil
	},
}
