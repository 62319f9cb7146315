package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/gitsecret/internal/audit"
	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"
)

const dateFormat = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by user email.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit trail.
//
// Returns ErrInvalidDateFormat if a date filter is not YYYY-MM-DD.
func Log(ctx context.Context, p *Project, opts LogOptions) (*LogResult, error) {
	entries, err := p.Audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := entries

	if opts.User != "" {
		filtered = filterByUser(filtered, opts.User)
	}

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Since != "" {
		since, err := time.Parse(dateFormat, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		filtered = audit.Filter(filtered, "", "", since)
	}

	if opts.Until != "" {
		until, err := time.Parse(dateFormat, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		filtered = filterUntil(filtered, until.Add(24*time.Hour-time.Nanosecond))
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			// When not reversed, limit takes last N (most recent).
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

// filterByUser filters entries by user email (case-insensitive).
func filterByUser(entries []audit.Entry, user string) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if strings.EqualFold(e.User, user) {
			result = append(result, e)
		}
	}
	return result
}

func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

// filterUntil keeps entries at or before until. Entries with an unreadable
// timestamp are dropped.
func filterUntil(entries []audit.Entry, until time.Time) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t := e.Time()
		if t.IsZero() || t.After(until) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	if err != nil {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format(dateFormat)
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails formats the details for a log entry in verbose format.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case "add", "remove", "hide", "reveal", "clean":
		if len(e.Files) == 0 {
			return ""
		}
		details := strings.Join(e.Files, ", ")
		if len(e.Files) > 3 {
			details = fmt.Sprintf("%d files", len(e.Files))
		}
		if e.Total > 0 {
			details += fmt.Sprintf(" (%d of %d)", e.Count, e.Total)
		}
		return details
	case "tell", "removeperson":
		return strings.Join(e.Recipients, ", ")
	default:
		return ""
	}
}

// FormatDetailsOneline formats the details for a log entry in oneline format.
func FormatDetailsOneline(e audit.Entry) string {
	switch e.Operation {
	case "add", "remove", "hide", "reveal", "clean":
		if len(e.Files) == 0 {
			return ""
		}
		return fmt.Sprintf("%d files", len(e.Files))
	case "tell", "removeperson":
		return strings.Join(e.Recipients, ",")
	default:
		return ""
	}
}
