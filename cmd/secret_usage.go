package cmd

import (
	"fmt"

	"github.com/PolarWolf314/gitsecret/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	SecretCmd.AddCommand(usageCmd)
}

var usageCmd = &cobra.Command{
	Use:         "usage",
	Short:       "Show an overview of the available commands",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !Logger.Verbose && !Logger.Debug {
			banner := figure.NewColorFigure("git-secret", "", "green", true)
			if color.NoColor {
				fmt.Fprintln(out, banner.String())
			} else {
				fmt.Fprintln(out, banner.ColorString())
			}
		}

		fmt.Fprintln(out, "usage: git secret [command] [options]")
		fmt.Fprintln(out)
		for _, c := range SecretCmd.Commands() {
			if !c.IsAvailableCommand() || c.Name() == "help" {
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", ui.Highlight.Sprint(c.Name()), c.Short)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Run %s for details on a command.\n", ui.Code.Sprint("git secret [command] --help"))
		return nil
	},
}
