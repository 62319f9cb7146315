package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is empty, is a terminal (no piped data), or cannot be read.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe your private key to this command)")
	}

	return readAllNonEmpty(os.Stdin, "stdin")
}

// ReadFileOrValue returns the contents of the file named by v, or v itself
// when it looks like inline key material. CI systems usually put the key
// text straight into an environment variable.
func ReadFileOrValue(v string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(v), "-----BEGIN") {
		return []byte(v), nil
	}

	f, err := os.Open(v)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer f.Close()

	return readAllNonEmpty(f, v)
}

func readAllNonEmpty(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read from %s: %w", name, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}

	return data, nil
}
