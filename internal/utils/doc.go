// Package utils provides shared helpers for the git-secret commands.
//
// # Pathspec Utilities
//
// Functions for turning command-line arguments into tracked paths:
//   - ExpandPathspecs: expands ** globs against the filesystem
//   - MatchAny: filters tracked paths by glob
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetProjectName: returns the repository directory name
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//   - ReadFileOrValue: reads key material given as a path or inline text
//
// # Terminal Utilities
//
// Functions for terminal detection and passphrase prompts:
//   - IsTerminal: checks if stdin is a terminal
//   - ReadPassphrase: prompts without echoing input
package utils
