package configs

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	DefaultSecretsDirName = ".gitsecret"
	DefaultExtension      = ".secret"
	DefaultGPGCommand     = "gpg"

	keysDirName     = "keys"
	pathsDirName    = "paths"
	mappingFileName = "mapping.cfg"
	configFileName  = "config.toml"
	auditFileName   = "audit.jsonl"
)

// Settings holds process-level options read from the environment.
type Settings struct {
	SecretsDirName string
	Extension      string
	Verbose        bool
	GPGCommand     string
}

// LoadSettings reads settings from the environment, falling back to defaults.
func LoadSettings() Settings {
	s := Settings{
		SecretsDirName: DefaultSecretsDirName,
		Extension:      DefaultExtension,
		GPGCommand:     DefaultGPGCommand,
	}
	if v := os.Getenv("SECRETS_DIR"); v != "" {
		s.SecretsDirName = v
	}
	if v := os.Getenv("SECRETS_EXTENSION"); v != "" {
		s.Extension = v
	}
	if v := os.Getenv("SECRETS_GPG_COMMAND"); v != "" {
		s.GPGCommand = v
	}
	if v := os.Getenv("SECRETS_VERBOSE"); v != "" && v != "0" {
		s.Verbose = true
	}
	return s
}

// Paths is the resolved on-disk layout for one repository.
type Paths struct {
	Root        string
	SecretsDir  string
	KeysDir     string
	PathsDir    string
	MappingFile string
	ConfigFile  string
	AuditFile   string
	Extension   string
}

// NewPaths resolves the layout under the given repository root.
func NewPaths(root string, s Settings) Paths {
	secretsDir := filepath.Join(root, s.SecretsDirName)
	pathsDir := filepath.Join(secretsDir, pathsDirName)
	return Paths{
		Root:        root,
		SecretsDir:  secretsDir,
		KeysDir:     filepath.Join(secretsDir, keysDirName),
		PathsDir:    pathsDir,
		MappingFile: filepath.Join(pathsDir, mappingFileName),
		ConfigFile:  filepath.Join(secretsDir, configFileName),
		AuditFile:   filepath.Join(secretsDir, auditFileName),
		Extension:   s.Extension,
	}
}

// IsInitialized reports whether the secrets directory exists.
func (p Paths) IsInitialized() (bool, error) {
	info, err := os.Stat(p.SecretsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// Abs converts a root-relative slash path to an absolute OS path.
func (p Paths) Abs(relPath string) string {
	return filepath.Join(p.Root, filepath.FromSlash(relPath))
}

// Rel converts an absolute path to a root-relative slash path.
// ok is false when the path lies outside the repository.
func (p Paths) Rel(absPath string) (rel string, ok bool) {
	r, err := filepath.Rel(p.Root, absPath)
	if err != nil {
		return "", false
	}
	r = filepath.ToSlash(r)
	if r == ".." || strings.HasPrefix(r, "../") {
		return "", false
	}
	return path.Clean(r), true
}

// EncryptedPath returns the ciphertext path for a plaintext path. A path that
// already carries the extension is returned unchanged.
func (p Paths) EncryptedPath(plainPath string) string {
	if strings.HasSuffix(plainPath, p.Extension) {
		return plainPath
	}
	return plainPath + p.Extension
}

// HasExtension reports whether the path carries the ciphertext extension.
func (p Paths) HasExtension(filePath string) bool {
	return strings.HasSuffix(filePath, p.Extension)
}

// RelSecretsDir returns the secrets directory relative to the root, in slash form.
func (p Paths) RelSecretsDir() string {
	rel, _ := p.Rel(p.SecretsDir)
	return rel
}
