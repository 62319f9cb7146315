package workflows

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/keyring"
	"github.com/PolarWolf314/gitsecret/internal/utils"
)

// TellOptions configures the tell workflow.
type TellOptions struct {
	// Identities are emails to export from gpg.
	Identities []string

	// UseGitEmail adds the git user.email to Identities.
	UseGitEmail bool

	// Homedir selects the gpg home directory keys are exported from.
	Homedir string

	// KeyFile imports a public key file instead of exporting from gpg.
	KeyFile string
}

// TellResult contains the outcome of a tell operation.
type TellResult struct {
	Added []*keyring.Recipient

	// Skipped maps identities to the reason they were not added.
	Skipped map[string]error
}

// Tell adds recipients to the keyring. Adding at least one recipient clears
// every stored fingerprint, so the next hide re-encrypts all files.
//
// Invalid emails, duplicates and keys that fail to import are skipped with a
// warning and listed in Skipped. Nothing being added is not an error.
func Tell(ctx context.Context, p *Project, opts TellOptions) (*TellResult, error) {
	identities := append([]string(nil), opts.Identities...)
	if opts.UseGitEmail {
		email, err := p.VCS.UserEmail(ctx)
		if err != nil {
			return nil, err
		}
		if email == "" {
			return nil, fmt.Errorf("%w: git user.email is empty", kerrors.ErrNoIdentity)
		}
		identities = append(identities, email)
	}

	if opts.KeyFile != "" && len(identities) > 1 {
		return nil, kerrors.ErrKeyFileIdentities
	}

	result := &TellResult{Skipped: make(map[string]error)}
	valid := identities[:0]
	for _, id := range identities {
		if !utils.IsValidEmail(id) {
			err := fmt.Errorf("%w: %q", kerrors.ErrInvalidEmail, id)
			p.Log.Warnf("Skipping %s: %v", id, err)
			result.Skipped[id] = err
			continue
		}
		valid = append(valid, id)
	}
	identities = valid

	var sources []keyring.Source
	switch {
	case opts.KeyFile != "" && len(result.Skipped) > 0:
		// The only email given was invalid.
	case opts.KeyFile != "":
		data, err := os.ReadFile(opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		identity := ""
		if len(identities) == 1 {
			identity = identities[0]
		}
		sources = append(sources, keyring.Source{Identity: identity, KeyData: data})
	default:
		for _, id := range identities {
			sources = append(sources, keyring.Source{Identity: id})
		}
	}
	if len(sources) == 0 {
		if len(result.Skipped) > 0 {
			return result, nil
		}
		return nil, kerrors.ErrNoIdentity
	}

	kr := p.Keyring
	if opts.Homedir != "" {
		kr = keyring.New(p.Paths.KeysDir,
			keyring.WithExporter(keyring.GPGExporter{Binary: p.Settings.GPGCommand, Homedir: opts.Homedir}),
			keyring.WithInvalidator(p.Store),
			keyring.WithLogger(p.Log),
		)
	}

	for _, src := range sources {
		r, err := kr.AddRecipient(ctx, src)
		if err != nil {
			name := src.Identity
			if name == "" {
				name = opts.KeyFile
			}
			p.Log.Warnf("Skipping %s: %v", name, err)
			result.Skipped[name] = err
			continue
		}
		result.Added = append(result.Added, r)
	}

	if len(result.Added) == 0 {
		return result, nil
	}

	entry := audit.NewEntry("tell", "")
	for _, r := range result.Added {
		entry.Recipients = append(entry.Recipients, recipientName(r))
	}
	p.record(ctx, entry)

	return result, nil
}

// RemovePersonResult contains the outcome of a removeperson operation.
type RemovePersonResult struct {
	// Removed maps each identity to the number of key files deleted.
	Removed map[string]int
}

// Total returns the number of key files deleted.
func (r *RemovePersonResult) Total() int {
	n := 0
	for _, c := range r.Removed {
		n += c
	}
	return n
}

// RemovePerson deletes the keys of each identity from the keyring.
//
// Returns ErrNoPublicKeys when the keyring is already empty. An identity
// without keys is only a warning.
func RemovePerson(ctx context.Context, p *Project, identities []string) (*RemovePersonResult, error) {
	if _, err := p.recipients(kerrors.ErrNoPublicKeys); err != nil {
		return nil, err
	}

	result := &RemovePersonResult{Removed: make(map[string]int)}
	for _, id := range identities {
		n, err := p.Keyring.RemoveRecipient(id)
		if err != nil {
			return result, err
		}
		if n == 0 {
			p.Log.Warnf("%v: %s", kerrors.ErrRecipientNotFound, id)
		}
		result.Removed[id] = n
	}

	if result.Total() == 0 {
		return result, nil
	}

	entry := audit.NewEntry("removeperson", "")
	for _, id := range identities {
		if result.Removed[id] > 0 {
			entry.Recipients = append(entry.Recipients, id)
		}
	}
	entry.Count = result.Total()
	p.record(ctx, entry)

	return result, nil
}

// RecipientInfo describes one recipient for whoknows.
type RecipientInfo struct {
	Name    string
	KeyID   string
	Expires time.Time

	// HasExpiry is false for keys that never expire.
	HasExpiry bool
}

// Expired reports whether the key expired before now.
func (r RecipientInfo) Expired(now time.Time) bool {
	return r.HasExpiry && r.Expires.Before(now)
}

// WhoKnows lists the current recipients.
//
// Returns ErrNoPublicKeys if the keyring is empty.
func WhoKnows(ctx context.Context, p *Project) ([]RecipientInfo, error) {
	rs, err := p.Keyring.ListPublicKeys()
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, kerrors.ErrNoPublicKeys
	}

	infos := make([]RecipientInfo, len(rs))
	for i, r := range rs {
		expires, ok := r.Expiration()
		infos[i] = RecipientInfo{
			Name:      recipientName(r),
			KeyID:     r.KeyID(),
			Expires:   expires,
			HasExpiry: ok,
		}
	}
	return infos, nil
}

func recipientName(r *keyring.Recipient) string {
	if emails := r.Emails(); len(emails) > 0 {
		return emails[0]
	}
	return r.PrimaryUserID()
}
