package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // git user.email of the caller.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Files      []string `json:"files,omitempty"`      // For add/remove/hide/reveal.
	Recipients []string `json:"recipients,omitempty"` // For tell/removeperson.
	Count      int      `json:"count,omitempty"`      // For hide/reveal/clean.
	Total      int      `json:"total,omitempty"`      // For hide/reveal.
}

// NewEntry returns an entry for op with the ID and timestamp filled in.
func NewEntry(op, user string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(timestampFormat),
		User:      user,
		Operation: op,
	}
}

// Time parses the entry timestamp. The zero time is returned for entries
// written with a malformed timestamp.
func (e Entry) Time() time.Time {
	t, err := time.Parse(timestampFormat, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Trail is an append-only audit log file.
type Trail struct {
	path string
}

// New returns a trail writing to path. An empty path disables logging.
func New(path string) *Trail {
	return &Trail{path: path}
}

// Path returns the log file location.
func (t *Trail) Path() string {
	return t.path
}

// Log appends an entry to the audit log. Failures are ignored.
func (t *Trail) Log(entry Entry) {
	if t == nil || t.path == "" {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampFormat)
	}

	// #nosec G306 -- audit log is committed and read by the whole team.
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	if t == nil || t.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Filter returns the entries matching every non-empty criterion.
func Filter(entries []Entry, op, user string, since time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if op != "" && e.Operation != op {
			continue
		}
		if user != "" && e.User != user {
			continue
		}
		if !since.IsZero() && e.Time().Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out
}
