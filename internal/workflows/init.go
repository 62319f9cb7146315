package workflows

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	"github.com/PolarWolf314/gitsecret/internal/configs"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// SecretsDir is the created directory, relative to the root.
	SecretsDir string

	// ProjectUUID identifies the project in config.toml.
	ProjectUUID string

	// IgnoreUpdated reports whether .gitignore gained new patterns.
	IgnoreUpdated bool
}

// Init creates the secrets directory layout: keys/, paths/mapping.cfg and
// config.toml. It also makes sure git ignores plaintext leftovers that must
// never be committed.
//
// Returns ErrAlreadyInitialized if the secrets directory exists.
// Returns ErrSecretsDirIgnored if .gitignore would hide the secrets directory.
func Init(ctx context.Context, p *Project) (*InitResult, error) {
	initialized, err := p.Paths.IsInitialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrAlreadyInitialized, p.Paths.RelSecretsDir())
	}

	ignored, err := p.VCS.IsIgnored(ctx, p.Paths.SecretsDir)
	if err != nil {
		return nil, fmt.Errorf("checking ignore rules: %w", err)
	}
	if ignored {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSecretsDirIgnored, p.Paths.RelSecretsDir())
	}

	if err := os.MkdirAll(p.Paths.KeysDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keys directory: %w", err)
	}
	// #nosec G301 -- the mapping is committed and read by every collaborator.
	if err := os.MkdirAll(p.Paths.PathsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create paths directory: %w", err)
	}
	// #nosec G306 -- see above.
	if err := os.WriteFile(p.Paths.MappingFile, nil, 0644); err != nil {
		return nil, fmt.Errorf("failed to create mapping file: %w", err)
	}

	config := configs.NewProjectConfig()
	if err := configs.SaveProjectConfig(p.Paths, config); err != nil {
		return nil, err
	}
	p.Config = config

	result := &InitResult{
		SecretsDir:  p.Paths.RelSecretsDir(),
		ProjectUUID: config.Project.UUID,
	}

	// gpg leaves random_seed in its home directory; keys/ doubles as one
	// when users point --homedir at it.
	patterns := []string{
		path.Join(result.SecretsDir, "keys", "random_seed"),
		"!*" + p.Paths.Extension,
	}
	for _, pattern := range patterns {
		changed, err := p.VCS.AddToIgnore(ctx, pattern)
		if err != nil {
			return nil, err
		}
		result.IgnoreUpdated = result.IgnoreUpdated || changed
	}

	p.Log.Infof("Initialized %s with project %s", result.SecretsDir, result.ProjectUUID)

	entry := audit.NewEntry("init", "")
	p.record(ctx, entry)

	return result, nil
}
