// Package audit records who changed the secret state of a project and when.
//
// Every operation that changes tracked files, the keyring, or ciphertext
// (add, remove, hide, reveal, tell, removeperson, clean) appends one entry
// to a project-level JSON Lines log:
//
//	.gitsecret/audit.jsonl
//
// Each entry contains:
//   - A random entry ID
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - The git user.email of whoever ran the command
//   - Operation name
//   - Operation-specific details (files, recipients, counts)
//
// # Usage
//
//	trail := audit.New(paths.AuditFile)
//	entry := audit.NewEntry("hide", userEmail)
//	entry.Files = hidden
//	trail.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. A failed write never fails the operation
// being recorded.
//
// # Reading Logs
//
// ReadEntries parses the log for the log command. Malformed lines are
// skipped so a partial write cannot make the whole log unreadable.
package audit
