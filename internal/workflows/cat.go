package workflows

import (
	"context"
	"io"
)

// CatOptions configures the cat workflow.
type CatOptions struct {
	Pathspecs   []string
	Credentials Credentials
}

// CatResult contains the outcome of a cat operation.
type CatResult struct {
	Printed []string
	Failed  []string
}

// Cat decrypts files and writes their plaintext to w, one after another.
// A file that cannot be decrypted is reported and skipped.
func Cat(ctx context.Context, p *Project, w io.Writer, opts CatOptions) (*CatResult, error) {
	if err := opts.Credentials.Validate(); err != nil {
		return nil, err
	}

	targets, err := p.selectTargets(opts.Pathspecs)
	if err != nil {
		return nil, err
	}

	result := &CatResult{}
	for _, rel := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		plaintext, err := p.decryptTarget(rel, opts.Credentials)
		if err != nil {
			p.Log.Warnf("%v", err)
			result.Failed = append(result.Failed, rel)
			continue
		}
		if _, err := w.Write(plaintext); err != nil {
			return result, err
		}
		result.Printed = append(result.Printed, rel)
	}
	return result, nil
}
