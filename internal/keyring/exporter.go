package keyring

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

// Exporter fetches an armored public key for an identity.
type Exporter interface {
	Export(ctx context.Context, identity string) ([]byte, error)
}

// GPGExporter exports keys from a local gpg keyring.
type GPGExporter struct {
	// Binary defaults to "gpg".
	Binary string

	// Homedir selects a non-default gpg home directory.
	Homedir string
}

// Export runs gpg --export for identity. Empty output means gpg has no
// matching key and is reported as ErrKeyExportFailed.
func (g GPGExporter) Export(ctx context.Context, identity string) ([]byte, error) {
	binary := g.Binary
	if binary == "" {
		binary = "gpg"
	}

	var args []string
	if g.Homedir != "" {
		args = append(args, "--homedir", g.Homedir)
	}
	args = append(args, "--batch", "--export", "--armor", "--", identity)

	// #nosec G204 -- identity is passed after "--" and never interpreted by a shell.
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w for %q: %s", kerrors.ErrKeyExportFailed, identity, firstNonEmpty(stderr.String(), err.Error()))
	}
	// gpg exits 0 with empty output when no key matches.
	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return nil, fmt.Errorf("%w for %q: no such key in the gpg keyring", kerrors.ErrKeyExportFailed, identity)
	}
	return stdout.Bytes(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
