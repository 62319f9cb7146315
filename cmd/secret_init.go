package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/utils"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Initialize git-secret in the current repository",
	Long:        `Creates the secrets directory (.gitsecret by default, see SECRETS_DIR) with an empty keyring and path mapping.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		ctx := commandContext(cmd)

		p, err := workflows.Open(ctx, workflows.OpenOptions{
			Settings: settings,
			VCS:      newVCS(),
			Log:      Logger,
		})
		if err != nil {
			return err
		}

		result, err := workflows.Init(ctx, p)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" git-secret initialized in "+ui.Path.Sprint(result.SecretsDir)+
			" for "+ui.Highlight.Sprint(utils.GetProjectName(p.Paths.Root)))
		if result.IgnoreUpdated {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("→")+" Updated "+ui.Path.Sprint(".gitignore"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("git secret tell <email>")+" to add the first recipient")
		return nil
	},
}
