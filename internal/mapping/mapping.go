package mapping

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

const separator = ":"

// Entry is one tracked file.
type Entry struct {
	// Path is relative to the repository root, with forward slashes.
	Path string

	// Fingerprint is the hex SHA-256 of the plaintext that produced the most
	// recent ciphertext. Empty means the file must be re-encrypted.
	Fingerprint string
}

// HasFingerprint reports whether the entry carries a fingerprint.
func (e Entry) HasFingerprint() bool {
	return e.Fingerprint != ""
}

// Store is a path mapping store backed by a single file.
type Store struct {
	path string
}

// New returns a store backed by the file at path. The file need not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns every entry in insertion order. A missing file is an empty store.
func (s *Store) List() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return Parse(data)
}

// Has reports whether filePath is tracked.
func (s *Store) Has(filePath string) (bool, error) {
	entries, err := s.List()
	if err != nil {
		return false, err
	}
	return indexOf(entries, filePath) >= 0, nil
}

// Add inserts filePath with an optional fingerprint. It returns false, and
// leaves the store untouched, if the path is already tracked.
func (s *Store) Add(filePath, fingerprint string) (bool, error) {
	if err := ValidatePath(filePath); err != nil {
		return false, err
	}
	if fingerprint != "" && !isFingerprint(fingerprint) {
		return false, fmt.Errorf("%w: invalid fingerprint %q", kerrors.ErrMalformedMapping, fingerprint)
	}

	entries, err := s.List()
	if err != nil {
		return false, err
	}
	if indexOf(entries, filePath) >= 0 {
		return false, nil
	}

	entries = append(entries, Entry{Path: filePath, Fingerprint: fingerprint})
	if err := s.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes filePath. It returns false if the path was not tracked.
func (s *Store) Remove(filePath string) (bool, error) {
	entries, err := s.List()
	if err != nil {
		return false, err
	}

	i := indexOf(entries, filePath)
	if i < 0 {
		return false, nil
	}

	entries = append(entries[:i], entries[i+1:]...)
	if err := s.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Fingerprint returns the stored fingerprint of filePath. ok is false when
// the path is untracked or has no fingerprint.
func (s *Store) Fingerprint(filePath string) (fingerprint string, ok bool, err error) {
	entries, err := s.List()
	if err != nil {
		return "", false, err
	}

	i := indexOf(entries, filePath)
	if i < 0 || !entries[i].HasFingerprint() {
		return "", false, nil
	}
	return entries[i].Fingerprint, true, nil
}

// SetFingerprint records the fingerprint of filePath. It returns false if
// the path is not tracked.
func (s *Store) SetFingerprint(filePath, fingerprint string) (bool, error) {
	if !isFingerprint(fingerprint) {
		return false, fmt.Errorf("%w: invalid fingerprint %q", kerrors.ErrMalformedMapping, fingerprint)
	}

	entries, err := s.List()
	if err != nil {
		return false, err
	}

	i := indexOf(entries, filePath)
	if i < 0 {
		return false, nil
	}

	entries[i].Fingerprint = fingerprint
	if err := s.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// ClearFingerprints drops every stored fingerprint so the next hide
// re-encrypts every file. The store is not rewritten when nothing changes.
func (s *Store) ClearFingerprints() error {
	entries, err := s.List()
	if err != nil {
		return err
	}

	changed := false
	for i := range entries {
		if entries[i].HasFingerprint() {
			entries[i].Fingerprint = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.write(entries)
}

func (s *Store) write(entries []Entry) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".mapping-*")
	if err != nil {
		return fmt.Errorf("failed to write path mapping: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(Format(entries)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write path mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write path mapping: %w", err)
	}
	// #nosec G302 -- mapping.cfg is committed and must be readable by the team.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to write path mapping: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write path mapping: %w", err)
	}
	return nil
}

// Parse decodes mapping file content. The fingerprint is whatever follows
// the last separator and must be a SHA-256 hex digest.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := Entry{Path: line}
		if i := strings.LastIndex(line, separator); i >= 0 {
			entry.Path = line[:i]
			entry.Fingerprint = strings.ToLower(line[i+1:])
			if entry.Fingerprint != "" && !isFingerprint(entry.Fingerprint) {
				return nil, fmt.Errorf("%w: line %d: %q", kerrors.ErrMalformedMapping, lineNo, line)
			}
		}
		if entry.Path == "" {
			return nil, fmt.Errorf("%w: line %d: empty path", kerrors.ErrMalformedMapping, lineNo)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Format encodes entries in mapping file format.
func Format(entries []Entry) []byte {
	var b bytes.Buffer
	for _, e := range entries {
		b.WriteString(e.Path)
		if e.HasFingerprint() {
			b.WriteString(separator)
			b.WriteString(e.Fingerprint)
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ValidatePath rejects paths that cannot round-trip through the file format.
func ValidatePath(filePath string) error {
	switch {
	case filePath == "":
		return fmt.Errorf("%w: empty path", kerrors.ErrInvalidPath)
	case strings.ContainsAny(filePath, ":\r\n"):
		return fmt.Errorf("%w: %q contains a reserved character", kerrors.ErrInvalidPath, filePath)
	case strings.HasPrefix(filePath, "/") || path.Clean(filePath) != filePath:
		return fmt.Errorf("%w: %q is not a clean repository-relative path", kerrors.ErrInvalidPath, filePath)
	case filePath == ".." || strings.HasPrefix(filePath, "../"):
		return fmt.Errorf("%w: %q is outside the repository", kerrors.ErrInvalidPath, filePath)
	}
	return nil
}

// Sum returns the fingerprint of plaintext bytes.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isFingerprint(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func indexOf(entries []Entry, filePath string) int {
	for i, e := range entries {
		if e.Path == filePath {
			return i
		}
	}
	return -1
}
