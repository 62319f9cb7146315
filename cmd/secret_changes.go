package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
)

var changesCreds credentialFlags

func init() {
	changesCreds.register(changesCmd)
	SecretCmd.AddCommand(changesCmd)
}

var changesCmd = &cobra.Command{
	Use:   "changes [pathspec]...",
	Short: "Show differences between plaintext and the last hidden version",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := changesCreds.load()
		if err != nil {
			return err
		}

		changes, err := workflows.Changes(commandContext(cmd), project, workflows.ChangesOptions{
			Pathspecs:   args,
			Credentials: creds,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range changes {
			if c.Err != nil {
				Logger.Warnf("%v", c.Err)
				continue
			}
			fmt.Fprintf(out, "changes in %s:\n", ui.Path.Sprint(c.Path))
			printDiff(out, c.Diff)
		}
		return nil
	},
}

func printDiff(out io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(out, ui.Info.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(out, ui.Added.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(out, ui.Removed.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(out, ui.Info.Sprint(line))
		default:
			fmt.Fprint(out, line)
		}
	}
}
