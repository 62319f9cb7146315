package configs

import (
	"fmt"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"

	"github.com/google/uuid"
)

// ProjectConfig is the content of <secrets dir>/config.toml.
type ProjectConfig struct {
	Project Project      `toml:"project"`
	Hide    HideConfig   `toml:"hide"`
	Reveal  RevealConfig `toml:"reveal"`
}

type Project struct {
	UUID      string    `toml:"uuid"`
	CreatedAt time.Time `toml:"created_at"`
}

// HideConfig holds defaults for hide. Flags can enable these but not disable them.
type HideConfig struct {
	Armor               bool `toml:"armor"`
	PreservePermissions bool `toml:"preserve_permissions"`
}

type RevealConfig struct {
	PreservePermissions bool `toml:"preserve_permissions"`
}

// NewProjectConfig returns a config for a freshly initialized project.
func NewProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Project: Project{
			UUID:      uuid.New().String(),
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
}

// LoadProjectConfig loads the project config. A missing file yields defaults.
func LoadProjectConfig(p Paths) (*ProjectConfig, error) {
	config := &ProjectConfig{}

	if _, err := os.Stat(p.ConfigFile); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(p.ConfigFile, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidProjectConfig, err)
	}

	return config, nil
}

// SaveProjectConfig writes the project config.
func SaveProjectConfig(p Paths, config *ProjectConfig) error {
	if err := SaveTOML(p.ConfigFile, config); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}
	return nil
}
