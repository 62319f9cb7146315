// Package workflows provides high-level orchestration for git-secret commands.
//
// Workflows coordinate the mapping store, the keyring, the OpenPGP engine,
// git and the audit trail to implement complete user-facing features. Each
// workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Opens the Project and calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating prerequisites (repository, initialization, recipients)
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Init: creates the secrets directory layout
//   - Track / Untrack: add and remove files from the mapping
//   - Hide: encrypts every tracked file for the current recipients
//   - Reveal: decrypts ciphertext back into plaintext
//   - Cat / Changes: decrypt to memory for printing or diffing
//   - Tell / RemovePerson / WhoKnows: manage recipients
//   - Clean / List / Log: housekeeping and inspection
//
// # Per-file failures
//
// Hide and Reveal process files one at a time. Each step returns an Outcome:
// continue, skip the file with a warning, or abort the run. With
// ForceContinue set, failures that would abort become skips instead.
// Structural problems (no recipients, no private key) always abort before
// any file is touched.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Hide(ctx, project, opts)
//	if errors.Is(err, kerrors.ErrNoRecipients) {
//	    // Suggest running tell
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// It is passed to git and gpg subprocesses and checked between files.
package workflows
