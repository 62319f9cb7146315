package workflows

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/gitsecret/internal/configs"
	"github.com/PolarWolf314/gitsecret/internal/git"
	logger "github.com/PolarWolf314/gitsecret/internal/logging"
	"github.com/PolarWolf314/gitsecret/internal/pgp/pgptest"
)

// fakeVCS answers repository questions from in-memory sets keyed by
// absolute path.
type fakeVCS struct {
	root    string
	tracked map[string]bool
	ignored map[string]bool
	email   string
}

func newFakeVCS(root string) *fakeVCS {
	return &fakeVCS{
		root:    root,
		tracked: make(map[string]bool),
		ignored: make(map[string]bool),
		email:   "tester@example.com",
	}
}

func (f *fakeVCS) Root(context.Context) (string, error) { return f.root, nil }

func (f *fakeVCS) IsTracked(_ context.Context, path string) (bool, error) {
	return f.tracked[path], nil
}

func (f *fakeVCS) IsIgnored(_ context.Context, path string) (bool, error) {
	return f.ignored[path], nil
}

func (f *fakeVCS) AddToIgnore(_ context.Context, pattern string) (bool, error) {
	return git.AppendIgnorePattern(filepath.Join(f.root, ".gitignore"), pattern)
}

func (f *fakeVCS) UserEmail(context.Context) (string, error) { return f.email, nil }

type testProject struct {
	*Project
	vcs      *fakeVCS
	warnings *bytes.Buffer
}

func testSettings() configs.Settings {
	return configs.Settings{
		SecretsDirName: configs.DefaultSecretsDirName,
		Extension:      configs.DefaultExtension,
		GPGCommand:     configs.DefaultGPGCommand,
	}
}

// newTestProject returns an initialized project in a temporary repository.
func newTestProject(t *testing.T) *testProject {
	t.Helper()

	tp := openTestProject(t, t.TempDir(), false)
	if _, err := Init(context.Background(), tp.Project); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return tp
}

func openTestProject(t *testing.T, root string, requireInit bool) *testProject {
	t.Helper()

	vcs := newFakeVCS(root)
	var warnings bytes.Buffer
	p, err := Open(context.Background(), OpenOptions{
		Settings:    testSettings(),
		VCS:         vcs,
		Log:         logger.Logger{Out: &bytes.Buffer{}, Err: &warnings},
		RequireInit: requireInit,
		WorkDir:     root,
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return &testProject{Project: p, vcs: vcs, warnings: &warnings}
}

// tell imports kp's public key through a key file.
func (tp *testProject) tell(t *testing.T, kp pgptest.KeyPair) {
	t.Helper()
	keyFile := filepath.Join(t.TempDir(), "key.asc")
	writeTestFile(t, keyFile, string(kp.Public))
	if _, err := Tell(context.Background(), tp.Project, TellOptions{KeyFile: keyFile}); err != nil {
		t.Fatalf("Tell failed for %s: %v", kp.Email, err)
	}
}

// track writes content to rel and adds it to the mapping.
func (tp *testProject) track(t *testing.T, rel, content string) {
	t.Helper()
	writeTestFile(t, tp.Paths.Abs(rel), content)
	if _, err := Track(context.Background(), tp.Project, []string{rel}); err != nil {
		t.Fatalf("Track failed for %s: %v", rel, err)
	}
}

// fingerprint returns the stored fingerprint of rel, or "" when it was
// cleared.
func (tp *testProject) fingerprint(t *testing.T, rel string) string {
	t.Helper()
	tracked, err := tp.Store.Has(rel)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !tracked {
		t.Fatalf("%s is not tracked", rel)
	}
	fp, _, err := tp.Store.Fingerprint(rel)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	return fp
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func credentials(kp pgptest.KeyPair) Credentials {
	return Credentials{PrivateKey: kp.Private}
}
