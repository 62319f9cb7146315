package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/mapping"
	"github.com/PolarWolf314/gitsecret/internal/pgp"
)

// HideOptions configures the hide workflow.
type HideOptions struct {
	// CleanFirst deletes existing ciphertext before encrypting.
	CleanFirst bool

	// ForceContinue skips files that fail instead of aborting the run.
	ForceContinue bool

	// PreservePermissions copies the plaintext mode bits onto the ciphertext.
	PreservePermissions bool

	// DeleteUnencrypted removes the plaintext after it is encrypted.
	DeleteUnencrypted bool

	// ModifiedOnly skips files whose content matches the stored fingerprint.
	ModifiedOnly bool

	// Armor writes ASCII-armored ciphertext instead of binary.
	Armor bool
}

// HideResult contains the outcome of a hide operation.
type HideResult struct {
	// Hidden lists the files that were encrypted.
	Hidden []string

	// Unchanged lists files skipped by ModifiedOnly.
	Unchanged []string

	// Failed lists files skipped because of ForceContinue.
	Failed []string

	// Total is the number of tracked files considered.
	Total int
}

// Hide encrypts every tracked file for the current recipients.
//
// For each file, the plaintext is read once; the same bytes are hashed and
// encrypted. The ciphertext is written to a temporary file and renamed into
// place, and only then is the fingerprint stored, so a stored fingerprint
// always describes ciphertext that exists on disk.
//
// Returns ErrNoRecipients if the keyring is empty. Per-file failures abort
// the run unless ForceContinue is set.
func Hide(ctx context.Context, p *Project, opts HideOptions) (*HideResult, error) {
	opts.Armor = opts.Armor || p.Config.Hide.Armor
	opts.PreservePermissions = opts.PreservePermissions || p.Config.Hide.PreservePermissions

	entries, err := p.Store.List()
	if err != nil {
		return nil, err
	}

	recipients, err := p.recipients(kerrors.ErrNoRecipients)
	if err != nil {
		return nil, err
	}

	result := &HideResult{Total: len(entries)}
	var runErr error

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if opts.CleanFirst {
			p.removeCiphertext(entry.Path)
		}

		outcome := p.hideOne(entry, recipients, opts)
		switch outcome.Kind {
		case Continue:
			result.Hidden = append(result.Hidden, entry.Path)
		case Skip:
			if outcome.Reason == nil {
				result.Unchanged = append(result.Unchanged, entry.Path)
				p.Log.Infof("%s is unchanged, skipping", entry.Path)
				continue
			}
			result.Failed = append(result.Failed, entry.Path)
			p.Log.Warnf("%v", outcome.Reason)
		case Fatal:
			runErr = outcome.Reason
		}
		if runErr != nil {
			break
		}
	}

	if len(result.Hidden) > 0 {
		auditEntry := audit.NewEntry("hide", "")
		auditEntry.Files = result.Hidden
		auditEntry.Count = len(result.Hidden)
		auditEntry.Total = result.Total
		p.record(ctx, auditEntry)
	}

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

func (p *Project) hideOne(entry mapping.Entry, recipients []*pgp.Key, opts HideOptions) Outcome {
	plainPath := p.Paths.Abs(entry.Path)
	encPath := p.Paths.EncryptedPath(plainPath)

	plaintext, err := os.ReadFile(plainPath)
	if err != nil {
		if os.IsNotExist(err) {
			return warnOrAbort(opts.ForceContinue, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, entry.Path))
		}
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("failed to read %s: %w", entry.Path, err))
	}

	sum := mapping.Sum(plaintext)
	if opts.ModifiedOnly && entry.Fingerprint == sum {
		exists, err := fileExists(encPath)
		if err != nil {
			return warnOrAbort(opts.ForceContinue, err)
		}
		if exists {
			return skip(nil)
		}
	}

	ciphertext, err := p.Cipher.Encrypt(plaintext, recipients, opts.Armor)
	if err != nil {
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("%s: %w", entry.Path, err))
	}

	// #nosec G306 -- ciphertext is committed to the repository.
	if err := writeFileAtomic(encPath, ciphertext, 0644); err != nil {
		return warnOrAbort(opts.ForceContinue, fmt.Errorf("%w: writing %s: %v", kerrors.ErrEncryptFailed, p.Paths.EncryptedPath(entry.Path), err))
	}

	if opts.PreservePermissions {
		if err := copyMode(plainPath, encPath); err != nil {
			p.Log.Warnf("%s: %v", p.Paths.EncryptedPath(entry.Path), err)
		}
	}

	if _, err := p.Store.SetFingerprint(entry.Path, sum); err != nil {
		return fatal(fmt.Errorf("failed to store fingerprint for %s: %w", entry.Path, err))
	}

	if opts.DeleteUnencrypted {
		if err := os.Remove(plainPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.Log.Warnf("Failed to delete %s: %v", entry.Path, err)
		}
	}

	p.Log.Debugf("Encrypted %s for %d recipient(s)", entry.Path, len(recipients))
	return proceed()
}

// removeCiphertext deletes the ciphertext of a tracked path. A missing file
// is not an error; other failures are warnings.
func (p *Project) removeCiphertext(rel string) bool {
	encPath := p.Paths.EncryptedPath(p.Paths.Abs(rel))
	if err := os.Remove(encPath); err != nil {
		if !os.IsNotExist(err) {
			p.Log.Warnf("Failed to delete %s: %v", p.Paths.EncryptedPath(rel), err)
		}
		return false
	}
	p.Log.Debugf("Deleted %s", p.Paths.EncryptedPath(rel))
	return true
}

// Clean deletes the ciphertext of every tracked file and returns the
// deleted paths.
func Clean(ctx context.Context, p *Project) ([]string, error) {
	entries, err := p.Store.List()
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, e := range entries {
		if p.removeCiphertext(e.Path) {
			deleted = append(deleted, p.Paths.EncryptedPath(e.Path))
		}
	}

	if len(deleted) > 0 {
		entry := audit.NewEntry("clean", "")
		entry.Files = deleted
		entry.Count = len(deleted)
		p.record(ctx, entry)
	}
	return deleted, nil
}
