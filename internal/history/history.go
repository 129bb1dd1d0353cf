// Package history records stamped versions for a project as JSON Lines,
// one entry per stamp, under the project's .blaze directory.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/blaze-data/blaze/internal/system"
)

// Entry represents one recorded stamp.
type Entry struct {
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	FullRevisionID string    `json:"full-revisionid,omitempty"`
	Dirty          bool      `json:"dirty,omitempty"`
	Style          string    `json:"style,omitempty"`
	File           string    `json:"file,omitempty"`
}

// Log appends and reads stamp entries for a project.
// Entries are stored in {root}/.blaze/history.jsonl.
type Log struct {
	fsys system.FileSystem
	root string
}

// NewLog creates a stamp log rooted at the project directory.
func NewLog(fsys system.FileSystem, root string) *Log {
	return &Log{fsys: fsys, root: root}
}

func (l *Log) path() string {
	return filepath.Join(l.root, ".blaze", "history.jsonl")
}

// Append records an entry. A zero timestamp is filled in with now.
func (l *Log) Append(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	path := l.path()
	if err := l.fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	existing, err := l.fsys.ReadFile(path)
	if err != nil && !isNotExist(err) {
		return fmt.Errorf("failed to open history log: %w", err)
	}

	if err := l.fsys.WriteFile(path, append(existing, append(data, '\n')...), 0644); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	return nil
}

// Entries reads all recorded stamps in chronological order. A missing
// log is an empty history, not an error.
func (l *Log) Entries() ([]Entry, error) {
	data, err := l.fsys.ReadFile(l.path())
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // Skip malformed lines
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("error reading history log: %w", err)
	}

	return entries, nil
}

// Tail returns the most recent n entries, oldest first. A non-positive
// n returns everything.
func (l *Log) Tail(n int) ([]Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Remove deletes the history log.
func (l *Log) Remove() error {
	if err := l.fsys.Remove(l.path()); err != nil && !isNotExist(err) {
		return err
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
