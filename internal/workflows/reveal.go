package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/pgp"
)

// Credentials is the private key material used to decrypt.
type Credentials struct {
	PrivateKey []byte
	Passphrase []byte
}

// Validate checks that the key parses and unlocks before any file is read.
func (c Credentials) Validate() error {
	_, err := pgp.UnlockPrivateKey(c.PrivateKey, c.Passphrase)
	return err
}

// RevealOptions configures the reveal workflow.
type RevealOptions struct {
	// Pathspecs selects files to reveal. Empty means every tracked file.
	Pathspecs []string

	// ForceOverwrite replaces existing plaintext files.
	ForceOverwrite bool

	// ForceContinue skips files that fail instead of aborting the run.
	ForceContinue bool

	// PreservePermissions copies the ciphertext mode bits onto the plaintext.
	PreservePermissions bool

	Credentials Credentials
}

// RevealResult contains the outcome of a reveal operation.
type RevealResult struct {
	// Revealed lists the plaintext files written.
	Revealed []string

	// Failed lists files skipped because of ForceContinue.
	Failed []string

	// Total is the number of targets considered.
	Total int
}

// Reveal decrypts ciphertext back into plaintext files.
//
// Returns ErrPrivateKeyRequired, ErrPassphraseRequired or
// ErrInvalidPrivateKey before touching any file when the credentials are
// unusable. Per-file failures (ciphertext-named target, missing ciphertext,
// existing plaintext, decryption failure) abort the run unless
// ForceContinue is set. Failing to preserve permissions is only a warning.
func Reveal(ctx context.Context, p *Project, opts RevealOptions) (*RevealResult, error) {
	opts.PreservePermissions = opts.PreservePermissions || p.Config.Reveal.PreservePermissions

	if err := opts.Credentials.Validate(); err != nil {
		return nil, err
	}

	targets, err := p.selectTargets(opts.Pathspecs)
	if err != nil {
		return nil, err
	}

	result := &RevealResult{Total: len(targets)}
	var runErr error

	for _, rel := range targets {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		outcome := p.revealOne(rel, opts)
		switch outcome.Kind {
		case Continue:
			result.Revealed = append(result.Revealed, rel)
		case Skip:
			result.Failed = append(result.Failed, rel)
			p.Log.Warnf("%v", outcome.Reason)
		case Fatal:
			runErr = outcome.Reason
		}
		if runErr != nil {
			break
		}
	}

	if len(result.Revealed) > 0 {
		entry := audit.NewEntry("reveal", "")
		entry.Files = result.Revealed
		entry.Count = len(result.Revealed)
		entry.Total = result.Total
		p.record(ctx, entry)
	}

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

func (p *Project) revealOne(rel string, opts RevealOptions) Outcome {
	if p.Paths.HasExtension(rel) {
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("%w: %s", kerrors.ErrCiphertextTarget, rel))
	}

	plainPath := p.Paths.Abs(rel)
	encPath := p.Paths.EncryptedPath(plainPath)

	ciphertext, err := os.ReadFile(encPath)
	if err != nil {
		if os.IsNotExist(err) {
			return warnOrAbort(opts.ForceContinue, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, p.Paths.EncryptedPath(rel)))
		}
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("failed to read %s: %w", p.Paths.EncryptedPath(rel), err))
	}

	if !opts.ForceOverwrite {
		exists, err := fileExists(plainPath)
		if err != nil {
			return warnOrAbort(opts.ForceContinue, err)
		}
		if exists {
			return warnOrAbort(opts.ForceContinue, fmt.Errorf("%w: %s (use -f to overwrite)", kerrors.ErrAlreadyExists, rel))
		}
	}

	plaintext, err := p.Cipher.Decrypt(ciphertext, opts.Credentials.PrivateKey, opts.Credentials.Passphrase)
	if err != nil {
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("%s: %w", p.Paths.EncryptedPath(rel), err))
	}

	if err := writeFileAtomic(plainPath, plaintext, 0600); err != nil {
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("failed to write %s: %w", rel, err))
	}

	if opts.PreservePermissions {
		if err := copyMode(encPath, plainPath); err != nil {
			p.Log.Warnf("%s: %v", rel, err)
		}
	}

	p.Log.Debugf("Decrypted %s", rel)
	return proceed()
}

// decryptTarget decrypts the ciphertext of a tracked path into memory.
func (p *Project) decryptTarget(rel string, creds Credentials) ([]byte, error) {
	if p.Paths.HasExtension(rel) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrCiphertextTarget, rel)
	}

	encRel := p.Paths.EncryptedPath(rel)
	ciphertext, err := os.ReadFile(p.Paths.Abs(encRel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, encRel)
		}
		return nil, err
	}

	plaintext, err := p.Cipher.Decrypt(ciphertext, creds.PrivateKey, creds.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", encRel, err)
	}
	return plaintext, nil
}
