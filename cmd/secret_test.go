package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/git"
	"github.com/PolarWolf314/gitsecret/internal/pgp/pgptest"
)

// stubVCS treats root as the repository and nothing as tracked or ignored.
type stubVCS struct {
	root string
}

func (s stubVCS) Root(context.Context) (string, error) { return s.root, nil }

func (s stubVCS) IsTracked(context.Context, string) (bool, error) { return false, nil }

func (s stubVCS) IsIgnored(context.Context, string) (bool, error) { return false, nil }

func (s stubVCS) AddToIgnore(_ context.Context, pattern string) (bool, error) {
	return git.AppendIgnorePattern(filepath.Join(s.root, ".gitignore"), pattern)
}

func (s stubVCS) UserEmail(context.Context) (string, error) { return "tester@example.com", nil }

// setupTestRepo changes into a fresh repository directory and points the
// commands at it.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}
	root := t.TempDir()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	originalVCS := newVCS
	newVCS = func() git.VCS { return stubVCS{root: root} }

	for _, env := range []string{"SECRETS_DIR", "SECRETS_EXTENSION", "SECRETS_VERBOSE", "GPG_PRIVATE_KEY", "GPG_PASSPHRASE"} {
		t.Setenv(env, "")
	}

	t.Cleanup(func() {
		newVCS = originalVCS
		ResetGlobalState()
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
	})
	return root
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	ResetGlobalState()
	var stdout, stderr bytes.Buffer
	SecretCmd.SetOut(&stdout)
	SecretCmd.SetErr(&stderr)
	SecretCmd.SetArgs(args)
	err := SecretCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := run(t, args...)
	if err != nil {
		t.Fatalf("git secret %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestSecretCommands(t *testing.T) {
	t.Run("CommandsRequireInit", func(t *testing.T) {
		setupTestRepo(t)

		_, _, err := run(t, "list")
		if !errors.Is(err, kerrors.ErrNotInitialized) {
			t.Errorf("Expected ErrNotInitialized, got %v", err)
		}
	})

	t.Run("InitTwice", func(t *testing.T) {
		root := setupTestRepo(t)

		out := mustRun(t, "init")
		if !strings.Contains(out, "git-secret initialized") {
			t.Errorf("Expected success message, got: %s", out)
		}
		if _, err := os.Stat(filepath.Join(root, ".gitsecret", "paths", "mapping.cfg")); err != nil {
			t.Errorf("Expected mapping file to exist: %v", err)
		}

		_, _, err := run(t, "init")
		if !errors.Is(err, kerrors.ErrAlreadyInitialized) {
			t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
		}
	})

	t.Run("HideAndReveal", func(t *testing.T) {
		root := setupTestRepo(t)
		kp := pgptest.NewKeyPair(t, "Alice", "alice@example.com")

		keyDir := t.TempDir()
		publicKey := filepath.Join(keyDir, "alice.pub.asc")
		privateKey := filepath.Join(keyDir, "alice.asc")
		writeFile(t, publicKey, string(kp.Public))
		writeFile(t, privateKey, string(kp.Private))
		writeFile(t, filepath.Join(root, ".env"), "TOKEN=abc\n")

		mustRun(t, "init")
		mustRun(t, "tell", "-f", publicKey)

		out := mustRun(t, "add", ".env")
		if !strings.Contains(out, "1 item(s) added.") {
			t.Errorf("Unexpected add output: %s", out)
		}
		if out := mustRun(t, "list"); strings.TrimSpace(out) != ".env" {
			t.Errorf("Expected list to print .env, got %q", out)
		}

		out = mustRun(t, "hide")
		if !strings.Contains(out, "Done. 1 of 1 files are hidden.") {
			t.Errorf("Unexpected hide output: %s", out)
		}
		if _, err := os.Stat(filepath.Join(root, ".env.secret")); err != nil {
			t.Fatalf("Expected encrypted file: %v", err)
		}

		if err := os.Remove(filepath.Join(root, ".env")); err != nil {
			t.Fatalf("Failed to remove plaintext: %v", err)
		}
		out = mustRun(t, "reveal", "--private-key", privateKey)
		if !strings.Contains(out, "Done. 1 of 1 files are revealed.") {
			t.Errorf("Unexpected reveal output: %s", out)
		}
		data, err := os.ReadFile(filepath.Join(root, ".env"))
		if err != nil {
			t.Fatalf("Failed to read revealed file: %v", err)
		}
		if string(data) != "TOKEN=abc\n" {
			t.Errorf("Revealed content = %q", data)
		}

		_, _, err = run(t, "reveal", "--private-key", privateKey)
		if !errors.Is(err, kerrors.ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists on second reveal, got %v", err)
		}

		out = mustRun(t, "cat", "--private-key", privateKey, ".env")
		if out != "TOKEN=abc\n" {
			t.Errorf("cat printed %q", out)
		}
	})

	t.Run("RevealWithoutKey", func(t *testing.T) {
		setupTestRepo(t)
		mustRun(t, "init")

		_, _, err := run(t, "reveal")
		if !errors.Is(err, kerrors.ErrPrivateKeyRequired) {
			t.Errorf("Expected ErrPrivateKeyRequired, got %v", err)
		}
	})

	t.Run("WhoKnowsAndRemovePerson", func(t *testing.T) {
		setupTestRepo(t)
		kp := pgptest.NewKeyPair(t, "Bob", "bob@example.com")
		publicKey := filepath.Join(t.TempDir(), "bob.asc")
		writeFile(t, publicKey, string(kp.Public))

		mustRun(t, "init")
		mustRun(t, "tell", "-f", publicKey)

		if out := mustRun(t, "whoknows"); strings.TrimSpace(out) != "bob@example.com" {
			t.Errorf("whoknows printed %q", out)
		}
		out := mustRun(t, "whoknows", "-l")
		if !strings.Contains(out, kp.KeyID) || !strings.Contains(out, "expires: never") {
			t.Errorf("Unexpected long whoknows output: %s", out)
		}

		if out := mustRun(t, "tell", "-f", publicKey); !strings.Contains(out, "No new users were added.") {
			t.Errorf("Expected duplicate tell to add nobody, got: %s", out)
		}
		if out := mustRun(t, "removeperson", "nobody@example.com"); !strings.Contains(out, "No keys removed.") {
			t.Errorf("Expected unknown removeperson to remove nothing, got: %s", out)
		}

		_, _, err := run(t, "tell", "-f", publicKey, "a@example.com", "b@example.com")
		if !errors.Is(err, kerrors.ErrKeyFileIdentities) {
			t.Errorf("Expected ErrKeyFileIdentities, got %v", err)
		}

		out, stderr, err := run(t, "killperson", "bob@example.com")
		if err != nil {
			t.Fatalf("killperson failed: %v", err)
		}
		if !strings.Contains(out, "1 key(s) removed.") {
			t.Errorf("Expected removal summary, got: %s", out)
		}
		if !strings.Contains(stderr, "deprecated") {
			t.Errorf("Expected deprecation warning, got: %s", stderr)
		}

		_, _, err = run(t, "whoknows")
		if !errors.Is(err, kerrors.ErrNoPublicKeys) {
			t.Errorf("Expected ErrNoPublicKeys, got %v", err)
		}
	})

	t.Run("Log", func(t *testing.T) {
		setupTestRepo(t)
		mustRun(t, "init")

		out := mustRun(t, "log", "--oneline")
		if !strings.Contains(out, "tester@example.com init") {
			t.Errorf("Expected init entry, got: %s", out)
		}

		out = mustRun(t, "log", "--operation", "hide")
		if !strings.Contains(out, "matching the filters") {
			t.Errorf("Expected no matches, got: %s", out)
		}

		_, _, err := run(t, "log", "--since", "yesterday")
		if !errors.Is(err, kerrors.ErrInvalidDateFormat) {
			t.Errorf("Expected ErrInvalidDateFormat, got %v", err)
		}
	})

	t.Run("Usage", func(t *testing.T) {
		setupTestRepo(t)

		out := mustRun(t, "usage")
		if !strings.Contains(out, "usage: git secret") {
			t.Errorf("Expected usage line, got: %s", out)
		}
		if !strings.Contains(out, "whoknows") {
			t.Errorf("Expected command list, got: %s", out)
		}
	})
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		err  error
		hint string
	}{
		{kerrors.ErrNotInitialized, "git secret init"},
		{kerrors.ErrNoRecipients, "git secret tell"},
		{kerrors.ErrPrivateKeyRequired, "GPG_PRIVATE_KEY"},
		{kerrors.ErrAlreadyExists, "-f"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			msg := FormatError(tt.err)
			if !strings.Contains(msg, tt.err.Error()) {
				t.Errorf("Expected message to contain %q, got %q", tt.err.Error(), msg)
			}
			if !strings.Contains(msg, tt.hint) {
				t.Errorf("Expected hint %q, got %q", tt.hint, msg)
			}
		})
	}

	if msg := FormatError(errors.New("boom")); strings.Contains(msg, "→") {
		t.Errorf("Expected no hint for unknown errors, got %q", msg)
	}
}
