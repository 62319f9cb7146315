package keyring

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	logger "github.com/PolarWolf314/gitsecret/internal/logging"
	"github.com/PolarWolf314/gitsecret/internal/pgp"
)

const keyFileExt = ".asc"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Recipient is a public key stored in the keyring.
type Recipient struct {
	*pgp.Key

	// Path is the key file inside the keyring directory.
	Path string
}

// Invalidator is notified when the recipient set changes.
type Invalidator interface {
	ClearFingerprints() error
}

// Source describes a key to import. KeyData wins over Identity when both
// are set; with only Identity, the key is fetched from the Exporter.
type Source struct {
	Identity string
	KeyData  []byte
}

// Keyring is a directory of armored public keys, one file per key.
type Keyring struct {
	dir         string
	exporter    Exporter
	invalidator Invalidator
	log         logger.Logger
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithExporter sets where keys are fetched from when importing by identity.
func WithExporter(e Exporter) Option {
	return func(k *Keyring) { k.exporter = e }
}

// WithInvalidator sets the hook run after the recipient set changes.
func WithInvalidator(i Invalidator) Option {
	return func(k *Keyring) { k.invalidator = i }
}

// WithLogger sets where skipped key files are reported.
func WithLogger(l logger.Logger) Option {
	return func(k *Keyring) { k.log = l }
}

// New returns a keyring rooted at dir.
func New(dir string, opts ...Option) *Keyring {
	k := &Keyring{dir: dir}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Dir returns the keyring directory.
func (k *Keyring) Dir() string {
	return k.dir
}

// ListPublicKeys returns every valid public key in the keyring, ordered by
// file name. Unparseable files and private keys are skipped with a warning.
// A missing directory is an empty keyring.
func (k *Keyring) ListPublicKeys() ([]*Recipient, error) {
	files, err := k.keyFiles()
	if err != nil {
		return nil, err
	}

	var recipients []*Recipient
	for _, path := range files {
		key, err := readKeyFile(path)
		if err != nil {
			k.log.Warnf("Could not parse key file %s: %v", filepath.Base(path), err)
			continue
		}
		if key.IsPrivate() {
			k.log.Warnf("Key file %s contains private key material, skipping", filepath.Base(path))
			continue
		}
		recipients = append(recipients, &Recipient{Key: key, Path: path})
	}

	return recipients, nil
}

// AddRecipient imports a public key into the keyring.
//
// Returns ErrInvalidKey if the key does not parse, ErrNotPublicKey for
// private key material, ErrNoIdentity if no email can be determined, and
// ErrDuplicateRecipient if a stored key already covers one of its addresses.
func (k *Keyring) AddRecipient(ctx context.Context, src Source) (*Recipient, error) {
	data := src.KeyData
	if len(data) == 0 {
		if src.Identity == "" {
			return nil, kerrors.ErrNoIdentity
		}
		if k.exporter == nil {
			return nil, fmt.Errorf("%w: no key exporter configured", kerrors.ErrKeyExportFailed)
		}
		exported, err := k.exporter.Export(ctx, src.Identity)
		if err != nil {
			return nil, err
		}
		data = exported
	}

	key, err := pgp.ReadKey(data)
	if err != nil {
		return nil, err
	}
	if key.IsPrivate() {
		return nil, kerrors.ErrNotPublicKey
	}

	identity := src.Identity
	if identity == "" {
		if emails := key.Emails(); len(emails) > 0 {
			identity = emails[0]
		}
	}
	if identity == "" {
		return nil, kerrors.ErrNoIdentity
	}

	existing, err := k.ListPublicKeys()
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if overlaps(r.Key, key, identity) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrDuplicateRecipient, identity)
		}
	}

	if err := os.MkdirAll(k.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}

	var armored bytes.Buffer
	if err := key.SerializeArmored(&armored); err != nil {
		return nil, fmt.Errorf("failed to serialize key for %s: %w", identity, err)
	}

	path := filepath.Join(k.dir, KeyFileName(identity, key.KeyID()))
	// #nosec G306 -- public keys are committed alongside the project.
	if err := os.WriteFile(path, armored.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	if err := k.invalidate(); err != nil {
		// Fingerprints still describe the old recipient set, so the key must go.
		if rmErr := os.Remove(path); rmErr != nil {
			k.log.Warnf("Failed to remove key file %s: %v", filepath.Base(path), rmErr)
		}
		return nil, err
	}
	k.log.Infof("Added key for %s to %s", identity, path)

	return &Recipient{Key: key, Path: path}, nil
}

// RemoveRecipient deletes every key file with a user ID matching identity
// and returns how many were deleted. Zero deletions leave the fingerprints
// untouched.
func (k *Keyring) RemoveRecipient(identity string) (int, error) {
	files, err := k.keyFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range files {
		key, err := readKeyFile(path)
		if err != nil {
			k.log.Warnf("Could not parse key file %s while checking for %s", filepath.Base(path), identity)
			continue
		}
		if !Matches(key, identity) {
			continue
		}
		if err := os.Remove(path); err != nil {
			k.log.Warnf("Failed to remove key file %s: %v", filepath.Base(path), err)
			continue
		}
		k.log.Infof("Removed key file %s for %s", filepath.Base(path), identity)
		removed++
	}

	if removed > 0 {
		if err := k.invalidate(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Matches reports whether one of key's user IDs names identity: the user ID
// equals it, contains it in angle brackets, or carries it as the address.
func Matches(key *pgp.Key, identity string) bool {
	want := strings.ToLower(strings.TrimSpace(identity))
	if want == "" {
		return false
	}
	for _, uid := range key.UserIDs() {
		lower := strings.ToLower(uid)
		if lower == want || strings.Contains(lower, "<"+want+">") {
			return true
		}
	}
	for _, email := range key.Emails() {
		if email == want {
			return true
		}
	}
	return false
}

// KeyFileName derives a collision-free file name for a key.
func KeyFileName(identity, keyID string) string {
	if start := strings.Index(identity, "<"); start >= 0 {
		if end := strings.Index(identity[start:], ">"); end > 0 {
			identity = identity[start+1 : start+end]
		}
	}
	identity = strings.Trim(identity, "<>")
	return unsafeFilenameChars.ReplaceAllString(identity, "_") + "." + strings.ToLower(keyID) + keyFileExt
}

func (k *Keyring) invalidate() error {
	if k.invalidator == nil {
		return nil
	}
	if err := k.invalidator.ClearFingerprints(); err != nil {
		return fmt.Errorf("failed to clear fingerprints after keyring change: %w", err)
	}
	k.log.Infof("Fingerprints cleared; run hide to re-encrypt for the new recipients")
	return nil
}

func (k *Keyring) keyFiles() ([]string, error) {
	entries, err := os.ReadDir(k.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), keyFileExt) {
			files = append(files, filepath.Join(k.dir, e.Name()))
		}
	}
	return files, nil
}

func readKeyFile(path string) (*pgp.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pgp.ReadKey(data)
}

// overlaps reports whether an existing key already covers the new key:
// same primary key, or an email address in common.
func overlaps(existing, candidate *pgp.Key, identity string) bool {
	if existing.Fingerprint() == candidate.Fingerprint() {
		return true
	}
	have := make(map[string]bool)
	for _, email := range existing.Emails() {
		have[email] = true
	}
	want := append(candidate.Emails(), strings.ToLower(identity))
	if e := pgp.EmailFromUserID(identity); e != "" {
		want = append(want, e)
	}
	for _, email := range want {
		if have[email] {
			return true
		}
	}
	return false
}
