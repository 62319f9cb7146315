package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

func TestLoadSettings(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("SECRETS_DIR", "")
		t.Setenv("SECRETS_EXTENSION", "")
		t.Setenv("SECRETS_VERBOSE", "")
		t.Setenv("SECRETS_GPG_COMMAND", "")

		s := LoadSettings()
		if s.SecretsDirName != ".gitsecret" {
			t.Errorf("Expected default secrets dir, got %q", s.SecretsDirName)
		}
		if s.Extension != ".secret" {
			t.Errorf("Expected default extension, got %q", s.Extension)
		}
		if s.Verbose {
			t.Error("Verbose should default to false")
		}
		if s.GPGCommand != "gpg" {
			t.Errorf("Expected default gpg command, got %q", s.GPGCommand)
		}
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("SECRETS_DIR", ".vault")
		t.Setenv("SECRETS_EXTENSION", ".enc")
		t.Setenv("SECRETS_VERBOSE", "1")
		t.Setenv("SECRETS_GPG_COMMAND", "gpg2")

		s := LoadSettings()
		if s.SecretsDirName != ".vault" || s.Extension != ".enc" || !s.Verbose || s.GPGCommand != "gpg2" {
			t.Errorf("Environment overrides not applied: %+v", s)
		}
	})

	t.Run("VerboseZeroIsOff", func(t *testing.T) {
		t.Setenv("SECRETS_VERBOSE", "0")
		if LoadSettings().Verbose {
			t.Error("SECRETS_VERBOSE=0 should not enable verbose output")
		}
	})
}

func TestPaths(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(root, Settings{SecretsDirName: ".gitsecret", Extension: ".secret"})

	if want := filepath.Join(root, ".gitsecret", "paths", "mapping.cfg"); p.MappingFile != want {
		t.Errorf("MappingFile = %q, want %q", p.MappingFile, want)
	}
	if want := filepath.Join(root, ".gitsecret", "keys"); p.KeysDir != want {
		t.Errorf("KeysDir = %q, want %q", p.KeysDir, want)
	}

	t.Run("EncryptedPath", func(t *testing.T) {
		if got := p.EncryptedPath("/a/db.yml"); got != "/a/db.yml.secret" {
			t.Errorf("EncryptedPath = %q", got)
		}
		if got := p.EncryptedPath("/a/db.yml.secret"); got != "/a/db.yml.secret" {
			t.Errorf("EncryptedPath should not double the extension, got %q", got)
		}
	})

	t.Run("RelAndAbs", func(t *testing.T) {
		abs := filepath.Join(root, "config", "db.yml")
		rel, ok := p.Rel(abs)
		if !ok || rel != "config/db.yml" {
			t.Errorf("Rel = %q, %t", rel, ok)
		}
		if p.Abs(rel) != abs {
			t.Errorf("Abs(%q) = %q, want %q", rel, p.Abs(rel), abs)
		}
		if _, ok := p.Rel(filepath.Dir(root)); ok {
			t.Error("Paths outside the root should not be relativized")
		}
		if p.RelSecretsDir() != ".gitsecret" {
			t.Errorf("RelSecretsDir = %q", p.RelSecretsDir())
		}
	})

	t.Run("IsInitialized", func(t *testing.T) {
		ok, err := p.IsInitialized()
		if err != nil || ok {
			t.Fatalf("Expected uninitialized project, got %t, %v", ok, err)
		}
		if err := os.MkdirAll(p.SecretsDir, 0755); err != nil {
			t.Fatal(err)
		}
		ok, err = p.IsInitialized()
		if err != nil || !ok {
			t.Fatalf("Expected initialized project, got %t, %v", ok, err)
		}
	})
}

func TestProjectConfig(t *testing.T) {
	p := NewPaths(t.TempDir(), Settings{SecretsDirName: ".gitsecret", Extension: ".secret"})

	t.Run("MissingFileYieldsDefaults", func(t *testing.T) {
		config, err := LoadProjectConfig(p)
		if err != nil {
			t.Fatalf("LoadProjectConfig failed: %v", err)
		}
		if config.Hide.Armor || config.Project.UUID != "" {
			t.Errorf("Expected zero config, got %+v", config)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		config := NewProjectConfig()
		config.Hide.Armor = true
		if err := SaveProjectConfig(p, config); err != nil {
			t.Fatalf("SaveProjectConfig failed: %v", err)
		}

		loaded, err := LoadProjectConfig(p)
		if err != nil {
			t.Fatalf("LoadProjectConfig failed: %v", err)
		}
		if loaded.Project.UUID != config.Project.UUID {
			t.Errorf("UUID = %q, want %q", loaded.Project.UUID, config.Project.UUID)
		}
		if !loaded.Project.CreatedAt.Equal(config.Project.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", loaded.Project.CreatedAt, config.Project.CreatedAt)
		}
		if !loaded.Hide.Armor {
			t.Error("Expected hide.armor to round-trip")
		}
	})

	t.Run("ReadsProjectTable", func(t *testing.T) {
		data := "[project]\nuuid = \"0b6c3f4e-5d1a-4c2b-9e8f-7a6b5c4d3e2f\"\n\n[reveal]\npreserve_permissions = true\n"
		if err := os.WriteFile(p.ConfigFile, []byte(data), 0600); err != nil {
			t.Fatal(err)
		}
		loaded, err := LoadProjectConfig(p)
		if err != nil {
			t.Fatalf("LoadProjectConfig failed: %v", err)
		}
		if loaded.Project.UUID != "0b6c3f4e-5d1a-4c2b-9e8f-7a6b5c4d3e2f" {
			t.Errorf("UUID = %q", loaded.Project.UUID)
		}
		if !loaded.Reveal.PreservePermissions {
			t.Error("Expected reveal.preserve_permissions to be read")
		}
	})

	t.Run("InvalidFile", func(t *testing.T) {
		if err := os.WriteFile(p.ConfigFile, []byte("[project\nbroken"), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadProjectConfig(p)
		if !errors.Is(err, kerrors.ErrInvalidProjectConfig) {
			t.Errorf("Expected ErrInvalidProjectConfig, got %v", err)
		}
	})
}
