package workflows

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/keyring"
	"github.com/PolarWolf314/gitsecret/internal/pgp/pgptest"
)

type mapExporter map[string][]byte

func (m mapExporter) Export(_ context.Context, identity string) ([]byte, error) {
	if data, ok := m[identity]; ok {
		return data, nil
	}
	return nil, kerrors.ErrKeyExportFailed
}

func TestTell(t *testing.T) {
	ctx := context.Background()
	alice := pgptest.NewKeyPair(t, "Alice", "alice@example.com")
	bob := pgptest.NewKeyPair(t, "Bob", "bob@example.com")

	t.Run("exports identities", func(t *testing.T) {
		tp := newTestProject(t)
		tp.Keyring = keyring.New(tp.Paths.KeysDir,
			keyring.WithExporter(mapExporter{"alice@example.com": alice.Public, "bob@example.com": bob.Public}),
			keyring.WithInvalidator(tp.Store),
		)

		result, err := Tell(ctx, tp.Project, TellOptions{Identities: []string{"alice@example.com", "bob@example.com"}})
		if err != nil {
			t.Fatalf("Tell failed: %v", err)
		}
		if len(result.Added) != 2 {
			t.Errorf("Expected 2 recipients, got %d", len(result.Added))
		}
	})

	t.Run("uses git email", func(t *testing.T) {
		tp := newTestProject(t)
		tp.vcs.email = "alice@example.com"
		tp.Keyring = keyring.New(tp.Paths.KeysDir, keyring.WithExporter(mapExporter{"alice@example.com": alice.Public}))

		result, err := Tell(ctx, tp.Project, TellOptions{UseGitEmail: true})
		if err != nil {
			t.Fatalf("Tell failed: %v", err)
		}
		if len(result.Added) != 1 {
			t.Errorf("Expected 1 recipient, got %d", len(result.Added))
		}
	})

	t.Run("duplicate is skipped", func(t *testing.T) {
		tp := newTestProject(t)
		tp.tell(t, alice)

		keyFile := filepath.Join(t.TempDir(), "alice.asc")
		writeTestFile(t, keyFile, string(alice.Public))
		result, err := Tell(ctx, tp.Project, TellOptions{KeyFile: keyFile})
		if err != nil {
			t.Fatalf("Tell failed: %v", err)
		}
		if len(result.Added) != 0 {
			t.Errorf("Expected nothing added, got %d", len(result.Added))
		}
		if !errors.Is(result.Skipped[keyFile], kerrors.ErrDuplicateRecipient) {
			t.Errorf("Expected ErrDuplicateRecipient for %s, got %v", keyFile, result.Skipped)
		}
	})

	t.Run("invalid email is skipped", func(t *testing.T) {
		tp := newTestProject(t)
		tp.Keyring = keyring.New(tp.Paths.KeysDir,
			keyring.WithExporter(mapExporter{"alice@example.com": alice.Public}),
			keyring.WithInvalidator(tp.Store),
		)

		result, err := Tell(ctx, tp.Project, TellOptions{Identities: []string{"not-an-email", "alice@example.com"}})
		if err != nil {
			t.Fatalf("Tell failed: %v", err)
		}
		if len(result.Added) != 1 {
			t.Errorf("Expected 1 recipient, got %d", len(result.Added))
		}
		if !errors.Is(result.Skipped["not-an-email"], kerrors.ErrInvalidEmail) {
			t.Errorf("Expected ErrInvalidEmail, got %v", result.Skipped)
		}
	})

	t.Run("key file with several emails", func(t *testing.T) {
		tp := newTestProject(t)
		keyFile := filepath.Join(t.TempDir(), "alice.asc")
		writeTestFile(t, keyFile, string(alice.Public))

		_, err := Tell(ctx, tp.Project, TellOptions{
			KeyFile:    keyFile,
			Identities: []string{"alice@example.com", "bob@example.com"},
		})
		if !errors.Is(err, kerrors.ErrKeyFileIdentities) {
			t.Fatalf("Expected ErrKeyFileIdentities, got %v", err)
		}
		rs, err := tp.Keyring.ListPublicKeys()
		if err != nil {
			t.Fatal(err)
		}
		if len(rs) != 0 {
			t.Errorf("Expected empty keyring, got %d keys", len(rs))
		}
	})

	t.Run("nothing to add", func(t *testing.T) {
		tp := newTestProject(t)
		if _, err := Tell(ctx, tp.Project, TellOptions{}); !errors.Is(err, kerrors.ErrNoIdentity) {
			t.Fatalf("Expected ErrNoIdentity, got %v", err)
		}
	})
}

func TestRemovePerson(t *testing.T) {
	ctx := context.Background()
	alice := pgptest.NewKeyPair(t, "Alice", "alice@example.com")
	bob := pgptest.NewKeyPair(t, "Bob", "bob@example.com")

	t.Run("removes key and clears fingerprints", func(t *testing.T) {
		tp := newTestProject(t)
		tp.tell(t, alice)
		tp.tell(t, bob)
		tp.track(t, "a.env", "A=1")
		if _, err := Hide(ctx, tp.Project, HideOptions{}); err != nil {
			t.Fatal(err)
		}

		result, err := RemovePerson(ctx, tp.Project, []string{"bob@example.com"})
		if err != nil {
			t.Fatalf("RemovePerson failed: %v", err)
		}
		if result.Total() != 1 {
			t.Errorf("Expected 1 key removed, got %d", result.Total())
		}
		if fp := tp.fingerprint(t, "a.env"); fp != "" {
			t.Errorf("Expected fingerprint to be cleared, got %s", fp)
		}
	})

	t.Run("unknown identity keeps fingerprints", func(t *testing.T) {
		tp := newTestProject(t)
		tp.tell(t, alice)
		tp.track(t, "a.env", "A=1")
		if _, err := Hide(ctx, tp.Project, HideOptions{}); err != nil {
			t.Fatal(err)
		}

		result, err := RemovePerson(ctx, tp.Project, []string{"nobody@example.com"})
		if err != nil {
			t.Fatalf("RemovePerson failed: %v", err)
		}
		if !strings.Contains(tp.warnings.String(), "nobody@example.com") {
			t.Errorf("Expected a warning for the unknown identity, got %q", tp.warnings.String())
		}
		if result.Total() != 0 {
			t.Errorf("Expected 0 removals, got %d", result.Total())
		}
		if fp := tp.fingerprint(t, "a.env"); fp == "" {
			t.Error("Fingerprint must survive a no-op removal")
		}
	})

	t.Run("empty keyring", func(t *testing.T) {
		tp := newTestProject(t)
		if _, err := RemovePerson(ctx, tp.Project, []string{"alice@example.com"}); !errors.Is(err, kerrors.ErrNoPublicKeys) {
			t.Fatalf("Expected ErrNoPublicKeys, got %v", err)
		}
	})
}

func TestWhoKnows(t *testing.T) {
	ctx := context.Background()

	t.Run("lists recipients", func(t *testing.T) {
		tp := newTestProject(t)
		alice := pgptest.NewKeyPair(t, "Alice", "alice@example.com")
		tp.tell(t, alice)
		tp.tell(t, pgptest.NewKeyPair(t, "Bob", "bob@example.com"))

		infos, err := WhoKnows(ctx, tp.Project)
		if err != nil {
			t.Fatalf("WhoKnows failed: %v", err)
		}
		if len(infos) != 2 {
			t.Fatalf("Expected 2 recipients, got %d", len(infos))
		}
		if infos[0].Name != "alice@example.com" || infos[0].KeyID != alice.KeyID {
			t.Errorf("Unexpected first recipient: %+v", infos[0])
		}
		if infos[0].Expired(time.Now()) {
			t.Error("Generated keys never expire")
		}
	})

	t.Run("empty keyring", func(t *testing.T) {
		tp := newTestProject(t)
		if _, err := WhoKnows(ctx, tp.Project); !errors.Is(err, kerrors.ErrNoPublicKeys) {
			t.Fatalf("Expected ErrNoPublicKeys, got %v", err)
		}
	})
}

func TestRecipientInfoExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		info RecipientInfo
		want bool
	}{
		{"no expiry", RecipientInfo{}, false},
		{"future", RecipientInfo{HasExpiry: true, Expires: now.Add(time.Hour)}, false},
		{"past", RecipientInfo{HasExpiry: true, Expires: now.Add(-time.Hour)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
