// Package mapping implements the path mapping store: the durable list of
// tracked files and the fingerprint of each file's plaintext at its last
// successful encryption.
//
// # Format
//
// The store is a text file (paths/mapping.cfg) with one entry per line:
//
//	config/db.yml
//	config/api.env:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
//
// A line without a fingerprint means the file has not been encrypted since
// it was added or since the last keyring change. Blank lines are ignored.
//
// # Consistency
//
// Every mutating call re-reads the file, applies the change and replaces the
// file atomically (write to a temp file, then rename). There is no locking:
// two processes mutating the same store concurrently may lose one update.
package mapping
