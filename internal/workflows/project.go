package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	"github.com/PolarWolf314/gitsecret/internal/configs"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/git"
	"github.com/PolarWolf314/gitsecret/internal/keyring"
	logger "github.com/PolarWolf314/gitsecret/internal/logging"
	"github.com/PolarWolf314/gitsecret/internal/mapping"
	"github.com/PolarWolf314/gitsecret/internal/pgp"
	"github.com/PolarWolf314/gitsecret/internal/utils"
)

// Cipher is the OpenPGP capability used by hide and reveal.
type Cipher interface {
	Encrypt(plaintext []byte, recipients []*pgp.Key, armored bool) ([]byte, error)
	Decrypt(ciphertext, privateKey, passphrase []byte) ([]byte, error)
}

// Project bundles everything a workflow needs for one repository.
// It is built once per command invocation and holds no cached state:
// the store and keyring are re-read on every call.
type Project struct {
	Settings configs.Settings
	Paths    configs.Paths
	Config   *configs.ProjectConfig
	Store    *mapping.Store
	Keyring  *keyring.Keyring
	VCS      git.VCS
	Cipher   Cipher
	Log      logger.Logger
	Audit    *audit.Trail

	// WorkDir resolves relative command-line paths. Defaults to the process
	// working directory.
	WorkDir string
}

// OpenOptions configures Open.
type OpenOptions struct {
	Settings configs.Settings
	VCS      git.VCS
	Log      logger.Logger

	// Cipher defaults to pgp.Engine.
	Cipher Cipher

	// Exporter defaults to gpg run with Settings.GPGCommand.
	Exporter keyring.Exporter

	// RequireInit fails with ErrNotInitialized when the secrets directory
	// is missing. Only init opens a project without it.
	RequireInit bool

	WorkDir string
}

// Open locates the repository and wires up the project collaborators.
//
// Returns ErrNotInRepository outside a git work tree, ErrNotInitialized when
// RequireInit is set and the secrets directory is missing, and
// ErrSecretsDirIgnored when git ignores the secrets directory.
func Open(ctx context.Context, opts OpenOptions) (*Project, error) {
	vcs := opts.VCS
	if vcs == nil {
		vcs = git.CLI{}
	}

	root, err := vcs.Root(ctx)
	if err != nil {
		return nil, err
	}

	settings := opts.Settings
	if settings.SecretsDirName == "" {
		settings = configs.LoadSettings()
	}
	paths := configs.NewPaths(root, settings)

	initialized, err := paths.IsInitialized()
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", paths.SecretsDir, err)
	}
	if opts.RequireInit && !initialized {
		return nil, kerrors.ErrNotInitialized
	}

	if initialized {
		ignored, err := vcs.IsIgnored(ctx, paths.SecretsDir)
		if err != nil {
			return nil, fmt.Errorf("checking ignore rules: %w", err)
		}
		if ignored {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrSecretsDirIgnored, paths.RelSecretsDir())
		}
	}

	config, err := configs.LoadProjectConfig(paths)
	if err != nil {
		return nil, err
	}

	cipher := opts.Cipher
	if cipher == nil {
		cipher = pgp.Engine{}
	}

	exporter := opts.Exporter
	if exporter == nil {
		exporter = keyring.GPGExporter{Binary: settings.GPGCommand}
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	store := mapping.New(paths.MappingFile)
	return &Project{
		Settings: settings,
		Paths:    paths,
		Config:   config,
		Store:    store,
		Keyring: keyring.New(paths.KeysDir,
			keyring.WithExporter(exporter),
			keyring.WithInvalidator(store),
			keyring.WithLogger(opts.Log),
		),
		VCS:     vcs,
		Cipher:  cipher,
		Log:     opts.Log,
		Audit:   audit.New(paths.AuditFile),
		WorkDir: workDir,
	}, nil
}

// RelPath converts a command-line path to the root-relative slash form
// stored in the mapping.
func (p *Project) RelPath(arg string) (string, error) {
	abs := arg
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.WorkDir, arg)
	}
	abs = filepath.Clean(abs)
	rel, ok := p.Paths.Rel(abs)
	if !ok {
		// The working directory may have been reached through a symlink
		// while the root is a physical path.
		rel, ok = p.physicalRel(abs)
	}
	if !ok || rel == "." {
		return "", fmt.Errorf("%w: %s is outside the repository", kerrors.ErrInvalidPath, arg)
	}
	return rel, nil
}

func (p *Project) physicalRel(abs string) (string, bool) {
	root, err := filepath.EvalSymlinks(p.Paths.Root)
	if err != nil {
		return "", false
	}
	dir := resolveExisting(filepath.Dir(abs))
	return configs.Paths{Root: root}.Rel(filepath.Join(dir, filepath.Base(abs)))
}

// resolveExisting resolves symlinks in the longest existing prefix of dir.
func resolveExisting(dir string) string {
	rest := ""
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join(dir, rest)
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// recipients returns the current public keys, failing when there are none.
func (p *Project) recipients(missing error) ([]*pgp.Key, error) {
	rs, err := p.Keyring.ListPublicKeys()
	if err != nil {
		return nil, fmt.Errorf("reading keyring: %w", err)
	}
	if len(rs) == 0 {
		return nil, missing
	}
	keys := make([]*pgp.Key, len(rs))
	for i, r := range rs {
		keys[i] = r.Key
	}
	return keys, nil
}

// selectTargets returns the tracked paths selected by pathspecs. Literal
// arguments are taken as given, tracked or not; glob arguments are matched
// against the tracked entries. No pathspecs selects every entry.
func (p *Project) selectTargets(pathspecs []string) ([]string, error) {
	entries, err := p.Store.List()
	if err != nil {
		return nil, err
	}

	if len(pathspecs) == 0 {
		targets := make([]string, len(entries))
		for i, e := range entries {
			targets[i] = e.Path
		}
		return targets, nil
	}

	var targets []string
	seen := make(map[string]bool)
	add := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			targets = append(targets, rel)
		}
	}

	for _, arg := range pathspecs {
		rel, err := p.RelPath(arg)
		if err != nil {
			return nil, err
		}
		if !strings.ContainsAny(arg, "*?[{") {
			add(rel)
			continue
		}
		matched := false
		for _, e := range entries {
			if utils.MatchAny([]string{rel}, e.Path) {
				add(e.Path)
				matched = true
			}
		}
		if !matched {
			p.Log.Warnf("No tracked files match %s", arg)
		}
	}
	return targets, nil
}

// record appends an audit entry attributed to the git user.
func (p *Project) record(ctx context.Context, entry audit.Entry) {
	if entry.User == "" {
		entry.User = p.user(ctx)
	}
	p.Audit.Log(entry)
}

func (p *Project) user(ctx context.Context) string {
	if email, err := p.VCS.UserEmail(ctx); err == nil && email != "" {
		return email
	}
	if name, err := utils.GetUsername(); err == nil {
		return name
	}
	return "unknown"
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// writeFileAtomic writes data next to path, syncs it and renames it over
// path, so a crash never leaves a truncated file behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// copyMode copies the permission bits of src onto dst.
func copyMode(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPermission, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPermission, err)
	}
	return nil
}
