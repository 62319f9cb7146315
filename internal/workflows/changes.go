package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// ChangesOptions configures the changes workflow.
type ChangesOptions struct {
	Pathspecs   []string
	Credentials Credentials
}

// FileChange is the difference between a file's last hidden content and
// its current plaintext.
type FileChange struct {
	Path string

	// Diff is a unified diff from the decrypted ciphertext to the
	// plaintext. Empty when they are equal.
	Diff string

	// Err is set when the file could not be compared.
	Err error
}

// Changed reports whether the plaintext differs from the ciphertext.
func (c FileChange) Changed() bool {
	return c.Diff != ""
}

// Changes compares each file's ciphertext with its current plaintext.
func Changes(ctx context.Context, p *Project, opts ChangesOptions) ([]FileChange, error) {
	if err := opts.Credentials.Validate(); err != nil {
		return nil, err
	}

	targets, err := p.selectTargets(opts.Pathspecs)
	if err != nil {
		return nil, err
	}

	changes := make([]FileChange, 0, len(targets))
	for _, rel := range targets {
		if err := ctx.Err(); err != nil {
			return changes, err
		}

		change := FileChange{Path: rel}
		hidden, err := p.decryptTarget(rel, opts.Credentials)
		if err != nil {
			change.Err = err
			changes = append(changes, change)
			continue
		}

		current, err := os.ReadFile(p.Paths.Abs(rel))
		if err != nil && !os.IsNotExist(err) {
			change.Err = fmt.Errorf("failed to read %s: %w", rel, err)
			changes = append(changes, change)
			continue
		}

		change.Diff = UnifiedDiff(p.Paths.EncryptedPath(rel), rel, string(hidden), string(current))
		changes = append(changes, change)
	}
	return changes, nil
}

// UnifiedDiff renders a unified diff from before to after. It returns an
// empty string for identical inputs.
func UnifiedDiff(fromName, toName, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(fromName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, before, edits))
}
