package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	logFileName   = "activity.jsonl"
	maxLogEntries = 1000
)

// LogEntry is one line of the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	CardID    string    `json:"card_id"`
	Detail    string    `json:"detail"`
}

// LogFilterOptions narrows ReadLog results.
type LogFilterOptions struct {
	Since  time.Time
	Action string
	CardID string
	Limit  int
}

// AppendLog adds an entry to the board's activity log. Once the log grows past
// maxLogEntries the oldest entries are dropped.
func AppendLog(dir string, entry LogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	line = append(line, '\n')

	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode) //nolint:gosec // path within board dir
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing activity log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing activity log: %w", err)
	}
	return truncateLog(path)
}

func truncateLog(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path within board dir
	if err != nil {
		return fmt.Errorf("reading activity log: %w", err)
	}
	if bytes.Count(data, []byte{'\n'}) <= maxLogEntries {
		return nil
	}
	lines := bytes.SplitAfter(bytes.TrimRight(data, "\n"), []byte{'\n'})
	kept := bytes.Join(lines[len(lines)-maxLogEntries:], nil)
	if !bytes.HasSuffix(kept, []byte{'\n'}) {
		kept = append(kept, '\n')
	}
	return writeAtomic(path, kept)
}

// ReadLog returns log entries oldest first. A missing log yields nil.
// Malformed lines are skipped.
func ReadLog(dir string, opts LogFilterOptions) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(dir, logFileName)) //nolint:gosec // path within board dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e LogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		if !opts.Since.IsZero() && e.Timestamp.Before(opts.Since) {
			continue
		}
		if opts.Action != "" && e.Action != opts.Action {
			continue
		}
		if opts.CardID != "" && e.CardID != opts.CardID {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	if entries == nil {
		entries = []LogEntry{}
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}
	return entries, nil
}
