package cmd

import (
	"context"

	"github.com/PolarWolf314/gitsecret/internal/configs"
	"github.com/PolarWolf314/gitsecret/internal/git"
	logger "github.com/PolarWolf314/gitsecret/internal/logging"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// skipProject marks commands that run without an initialized repository.
const skipProject = "skip-project"

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	settings configs.Settings
	project  *workflows.Project

	// newVCS is swapped out by tests.
	newVCS = func() git.VCS { return git.CLI{} }

	SecretCmd = &cobra.Command{
		Use:   "git-secret",
		Short: "Store private data inside a git repository",
		Long: `git-secret encrypts tracked files with the public keys of every trusted
collaborator, so that only they can decrypt them.

Typical flow:
  git secret init
  git secret tell alice@example.com
  git secret add .env
  git secret hide
  git secret reveal`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: preRun,
	}
)

func init() {
	SecretCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

// preRun configures logging and, for every command that needs one, opens
// the project: the working directory must be inside a git repository with
// an initialized, non-ignored secrets directory.
func preRun(cmd *cobra.Command, args []string) error {
	settings = configs.LoadSettings()
	Logger = logger.Logger{
		Verbose: verbose || settings.Verbose,
		Debug:   debug,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}
	Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.Name(), Logger.Verbose, debug)

	if cmd.Annotations[skipProject] == "true" {
		return nil
	}

	p, err := workflows.Open(commandContext(cmd), workflows.OpenOptions{
		Settings:    settings,
		VCS:         newVCS(),
		Log:         Logger,
		RequireInit: true,
	})
	if err != nil {
		return err
	}
	project = p
	Logger.Debugf("Project root: %s", p.Paths.Root)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ResetGlobalState resets all global variables and flags to their defaults
// for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	project = nil
	resetCobraFlagState(SecretCmd)
}

// resetCobraFlagState restores every flag of cmd and its children to its
// default so that one test's flags do not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		if flag.Changed {
			_ = flag.Value.Set(flag.DefValue)
			flag.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCobraFlagState(c)
	}
}
