// Package git answers the repository questions git-secret needs: where the
// work tree root is, whether a path is committed or ignored, and the
// configured user email. It shells out to the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

// VCS is the repository query surface used by the workflows. Paths passed
// to it are absolute paths inside the work tree.
type VCS interface {
	// Root returns the absolute path of the work tree root.
	Root(ctx context.Context) (string, error)

	// IsTracked reports whether path is committed or staged.
	IsTracked(ctx context.Context, path string) (bool, error)

	// IsIgnored reports whether path matches an ignore rule.
	IsIgnored(ctx context.Context, path string) (bool, error)

	// AddToIgnore appends pattern to the root .gitignore unless present.
	// It reports whether the file changed.
	AddToIgnore(ctx context.Context, pattern string) (bool, error)

	// UserEmail returns `git config user.email`.
	UserEmail(ctx context.Context) (string, error)
}

// CLI implements VCS with the git command line.
type CLI struct {
	// Dir is the directory git runs in; empty means the working directory.
	Dir string

	// Binary defaults to "git".
	Binary string
}

// Root returns the top-level directory of the work tree.
func (g CLI) Root(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrNotInRepository, err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", kerrors.ErrNotInRepository
	}
	return filepath.FromSlash(root), nil
}

// IsTracked reports whether path is in the git index.
func (g CLI) IsTracked(ctx context.Context, path string) (bool, error) {
	_, err := g.run(ctx, "ls-files", "--error-unmatch", "--", path)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

// IsIgnored reports whether .gitignore rules exclude path.
func (g CLI) IsIgnored(ctx context.Context, path string) (bool, error) {
	// check-ignore exits 0 when ignored, 1 when not, 128 on fatal errors.
	_, err := g.run(ctx, "check-ignore", "-q", "--", path)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, err
}

// AddToIgnore appends pattern to the .gitignore at the repository root.
func (g CLI) AddToIgnore(ctx context.Context, pattern string) (bool, error) {
	root, err := g.Root(ctx)
	if err != nil {
		return false, err
	}
	return AppendIgnorePattern(filepath.Join(root, ".gitignore"), pattern)
}

// UserEmail returns the configured user.email.
func (g CLI) UserEmail(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "config", "user.email")
	if err != nil {
		return "", fmt.Errorf("git config user.email is not set: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (g CLI) run(ctx context.Context, args ...string) (string, error) {
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}

	// #nosec G204 -- arguments are fixed subcommands plus paths after "--".
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = g.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", &commandError{msg: msg, err: err}
		}
		return "", err
	}
	return stdout.String(), nil
}

type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// EscapePattern quotes a literal path for use as a .gitignore pattern.
func EscapePattern(path string) string {
	trimmed := strings.TrimRight(path, " ")
	var b strings.Builder
	for _, r := range trimmed {
		switch r {
		case '\\', '[', ']', '*', '?', '!', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	// Trailing spaces are dropped by git unless escaped.
	for i, n := 0, len(path)-len(trimmed); i < n; i++ {
		b.WriteString("\\ ")
	}
	return b.String()
}

// AppendIgnorePattern adds pattern as its own line to the ignore file at
// path, creating the file if needed. Existing patterns are left alone.
func AppendIgnorePattern(path, pattern string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimRight(line, "\r") == pattern {
			return false, nil
		}
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		b.WriteByte('\n')
	}
	b.WriteString(pattern)
	b.WriteByte('\n')

	// #nosec G306 -- .gitignore is a committed, world-readable file.
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return false, fmt.Errorf("failed to update %s: %w", path, err)
	}
	return true, nil
}
