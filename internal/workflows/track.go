package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
	"github.com/PolarWolf314/gitsecret/internal/git"
	"github.com/PolarWolf314/gitsecret/internal/mapping"
	"github.com/PolarWolf314/gitsecret/internal/utils"
)

// TrackResult contains the outcome of an add operation.
type TrackResult struct {
	// Added lists paths newly inserted into the mapping.
	Added []string

	// AlreadyTracked lists paths that were in the mapping before.
	AlreadyTracked []string

	// Ignored lists paths appended to .gitignore.
	Ignored []string
}

// Track adds files to the mapping so that hide encrypts them.
//
// Every file must exist and must not be committed to git in plaintext.
// Files that git does not ignore yet are added to .gitignore.
//
// Returns ErrFileNotFound for a missing file, ErrTrackedInGit for a
// committed file and ErrInvalidPath for paths the mapping cannot store.
// Validation happens for every argument before anything is written.
func Track(ctx context.Context, p *Project, pathspecs []string) (*TrackResult, error) {
	files, err := utils.ExpandPathspecs(pathspecs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileNotFound, err)
	}

	type candidate struct {
		rel, abs string
	}
	var candidates []candidate

	for _, f := range files {
		rel, err := p.RelPath(f)
		if err != nil {
			return nil, err
		}
		if err := mapping.ValidatePath(rel); err != nil {
			return nil, err
		}
		if p.Paths.HasExtension(rel) {
			return nil, fmt.Errorf("%w: %s is already an encrypted file", kerrors.ErrInvalidPath, rel)
		}

		abs := p.Paths.Abs(rel)
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, rel)
			}
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", kerrors.ErrInvalidPath, rel)
		}

		tracked, err := p.VCS.IsTracked(ctx, abs)
		if err != nil {
			return nil, err
		}
		if tracked {
			return nil, fmt.Errorf("%w: %s (run 'git rm --cached %s' first)", kerrors.ErrTrackedInGit, rel, rel)
		}

		candidates = append(candidates, candidate{rel: rel, abs: abs})
	}

	result := &TrackResult{}
	for _, c := range candidates {
		ignored, err := p.VCS.IsIgnored(ctx, c.abs)
		if err != nil {
			return nil, err
		}
		if !ignored {
			if _, err := p.VCS.AddToIgnore(ctx, "/"+git.EscapePattern(c.rel)); err != nil {
				return nil, err
			}
			result.Ignored = append(result.Ignored, c.rel)
			p.Log.Infof("Added %s to .gitignore", c.rel)
		}

		added, err := p.Store.Add(c.rel, "")
		if err != nil {
			return nil, err
		}
		if added {
			result.Added = append(result.Added, c.rel)
		} else {
			result.AlreadyTracked = append(result.AlreadyTracked, c.rel)
		}
	}

	if len(result.Added) > 0 {
		entry := audit.NewEntry("add", "")
		entry.Files = result.Added
		p.record(ctx, entry)
	}

	return result, nil
}

// UntrackOptions configures the remove workflow.
type UntrackOptions struct {
	Pathspecs []string

	// CleanEncrypted also deletes the ciphertext of each removed file.
	CleanEncrypted bool
}

// UntrackResult contains the outcome of a remove operation.
type UntrackResult struct {
	Removed    []string
	NotTracked []string

	// Deleted lists ciphertext files that were deleted.
	Deleted []string
}

// Untrack removes files from the mapping. Paths that are not tracked are
// reported, not treated as errors.
func Untrack(ctx context.Context, p *Project, opts UntrackOptions) (*UntrackResult, error) {
	result := &UntrackResult{}

	for _, arg := range opts.Pathspecs {
		rel, err := p.RelPath(arg)
		if err != nil {
			return nil, err
		}

		removed, err := p.Store.Remove(rel)
		if err != nil {
			return nil, err
		}
		if !removed {
			result.NotTracked = append(result.NotTracked, rel)
			p.Log.Warnf("%s is not tracked", rel)
			continue
		}
		result.Removed = append(result.Removed, rel)

		if opts.CleanEncrypted {
			encrypted := p.Paths.EncryptedPath(p.Paths.Abs(rel))
			if err := os.Remove(encrypted); err == nil {
				result.Deleted = append(result.Deleted, p.Paths.EncryptedPath(rel))
			} else if !os.IsNotExist(err) {
				p.Log.Warnf("Failed to delete %s: %v", p.Paths.EncryptedPath(rel), err)
			}
		}
	}

	if len(result.Removed) > 0 {
		entry := audit.NewEntry("remove", "")
		entry.Files = result.Removed
		p.record(ctx, entry)
	}

	return result, nil
}

// List returns the tracked entries in mapping order.
func List(ctx context.Context, p *Project) ([]mapping.Entry, error) {
	return p.Store.List()
}
