package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/pgp"
	"github.com/PolarWolf314/gitsecret/internal/ui"
	"github.com/PolarWolf314/gitsecret/internal/utils"
	"github.com/PolarWolf314/gitsecret/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it to out.
func startSpinner(out io.Writer, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !Logger.Verbose && !Logger.Debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// credentialFlags are the private key options shared by reveal, cat and changes.
type credentialFlags struct {
	privateKey      string
	privateKeyStdin bool
	passphrase      string
}

func (c *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.privateKey, "private-key", "", "path to an armored private key (default $GPG_PRIVATE_KEY)")
	cmd.Flags().BoolVar(&c.privateKeyStdin, "private-key-stdin", false, "read the private key from stdin")
	cmd.Flags().StringVarP(&c.passphrase, "passphrase", "p", "", "passphrase of the private key (default $GPG_PASSPHRASE)")
}

// load resolves the private key and passphrase. The key comes from stdin,
// --private-key or GPG_PRIVATE_KEY, in that order. A locked key without a
// passphrase from -p or GPG_PASSPHRASE prompts on the terminal.
func (c *credentialFlags) load() (workflows.Credentials, error) {
	var creds workflows.Credentials

	switch {
	case c.privateKeyStdin:
		data, err := utils.ReadStdin()
		if err != nil {
			return creds, err
		}
		creds.PrivateKey = data
	case c.privateKey != "":
		data, err := utils.ReadFileOrValue(c.privateKey)
		if err != nil {
			return creds, err
		}
		creds.PrivateKey = data
	case os.Getenv("GPG_PRIVATE_KEY") != "":
		data, err := utils.ReadFileOrValue(os.Getenv("GPG_PRIVATE_KEY"))
		if err != nil {
			return creds, err
		}
		creds.PrivateKey = data
	default:
		return creds, kerrors.ErrPrivateKeyRequired
	}

	switch {
	case c.passphrase != "":
		creds.Passphrase = []byte(c.passphrase)
	case os.Getenv("GPG_PASSPHRASE") != "":
		creds.Passphrase = []byte(os.Getenv("GPG_PASSPHRASE"))
	case pgp.IsLocked(creds.PrivateKey):
		var (
			pass []byte
			err  error
		)
		if c.privateKeyStdin {
			if !utils.IsTTYAvailable() {
				return creds, kerrors.ErrPassphraseRequired
			}
			pass, err = utils.ReadPassphraseFromTTY("Enter passphrase for private key: ")
		} else {
			if !utils.IsTerminal() {
				return creds, kerrors.ErrPassphraseRequired
			}
			pass, err = utils.ReadPassphrase("Enter passphrase for private key: ")
		}
		if err != nil {
			return creds, err
		}
		creds.Passphrase = pass
	}

	return creds, nil
}

// FormatError renders a fatal error as the single diagnostic line printed
// before exiting, with a hint for conditions the user can fix.
func FormatError(err error) string {
	msg := ui.Error.Sprint("✗") + " " + err.Error()

	hint := ""
	switch {
	case errors.Is(err, kerrors.ErrNotInRepository):
		hint = "Run " + ui.Code.Sprint("git init") + " first"
	case errors.Is(err, kerrors.ErrNotInitialized):
		hint = "Run " + ui.Code.Sprint("git secret init") + " first"
	case errors.Is(err, kerrors.ErrSecretsDirIgnored):
		hint = "Remove the secrets directory from " + ui.Path.Sprint(".gitignore")
	case errors.Is(err, kerrors.ErrNoRecipients), errors.Is(err, kerrors.ErrNoPublicKeys):
		hint = "Run " + ui.Code.Sprint("git secret tell <email>") + " to add a recipient"
	case errors.Is(err, kerrors.ErrPrivateKeyRequired):
		hint = "Pass " + ui.Flag.Sprint("--private-key") + " or set " + ui.Code.Sprint("GPG_PRIVATE_KEY")
	case errors.Is(err, kerrors.ErrPassphraseRequired):
		hint = "Pass " + ui.Flag.Sprint("-p") + " or set " + ui.Code.Sprint("GPG_PASSPHRASE")
	case errors.Is(err, kerrors.ErrAlreadyExists):
		hint = "Use " + ui.Flag.Sprint("-f") + " to overwrite or " + ui.Flag.Sprint("-F") + " to skip it"
	}

	if hint != "" {
		msg += "\n" + ui.Info.Sprint("→") + " " + hint
	}
	return msg
}
