// Package errors provides typed error values for git-secret.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Repository errors: structural preconditions (ErrNotInRepository, ErrNotInitialized)
//   - Keyring errors: recipient problems (ErrNoRecipients, ErrInvalidKey, ErrDuplicateRecipient)
//   - File errors: per-entry problems (ErrFileNotFound, ErrAlreadyExists)
//   - Crypto errors: failures reported by OpenPGP (ErrEncryptFailed, ErrDecryptFailed)
//
// Structural errors always abort a command. Per-entry errors abort only when
// the caller did not ask to continue past failures.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Hide(ctx, project, opts)
//	if errors.Is(err, kerrors.ErrNoRecipients) {
//	    // Show user-friendly message
//	}
package errors
