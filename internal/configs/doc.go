// Package configs resolves git-secret settings and the on-disk layout.
//
// Settings come from two places:
//
//   - Environment: SECRETS_DIR, SECRETS_EXTENSION, SECRETS_VERBOSE and
//     SECRETS_GPG_COMMAND select the secrets directory name, the ciphertext
//     suffix, default verbosity and the gpg binary used for key export.
//   - Project config: <secrets dir>/config.toml holds the project UUID and
//     per-command defaults (armored output, permission preservation).
//
// # Layout
//
// All persisted state lives under the secrets directory at the repository root:
//
//	.gitsecret/
//	    config.toml        project config
//	    audit.jsonl        audit trail
//	    keys/*.asc         one public key per recipient
//	    paths/mapping.cfg  tracked files and their fingerprints
//
// Nothing here is cached between invocations; callers build a Paths value
// for the current repository root and re-read files on every operation.
package configs
