package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/utils"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <pathspec>...",
	Short: "Start tracking files for encryption",
	Long: `Adds files to the path mapping so that hide encrypts them.

Files must exist and must not be committed to git. Files that git does not
ignore yet are appended to .gitignore. Globs such as 'config/**/*.env' are
expanded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")

		result, err := workflows.Track(commandContext(cmd), project, args)
		if err != nil {
			return err
		}

		if len(result.Ignored) > 0 {
			fmt.Fprint(cmd.OutOrStdout(), "Added to .gitignore:"+utils.FormatPaths(result.Ignored))
		}
		for _, rel := range result.AlreadyTracked {
			Logger.Infof("%s is already tracked", rel)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+fmt.Sprintf(" %d item(s) added.", len(result.Added)))
		return nil
	},
}
