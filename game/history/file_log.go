package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFile is the log location used when none is configured
const DefaultFile = "history.txt"

// FileLog implements an append-only outcome log on the local file system
type FileLog struct {
	path string
}

// NewFileLog creates a file log at path, creating the parent directory if needed.
// The file itself is created on first append.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		path = DefaultFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	return &FileLog{path: path}, nil
}

// Path returns the log file location
func (l *FileLog) Path() string {
	return l.path
}

// Append writes one record at the end of the log
func (l *FileLog) Append(record OutcomeRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}

	// Single write per record keeps interleaving windows small
	if _, err := f.WriteString(record.Line() + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write history record: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}

	return nil
}

// ReadAll returns every well-formed record in append order.
// A missing log is an empty history, not an error.
func (l *FileLog) ReadAll() ([]OutcomeRecord, error) {
	records, _, err := l.Inspect()
	return records, err
}

// Inspect returns the well-formed records and the malformed lines of the log
func (l *FileLog) Inspect() ([]OutcomeRecord, []LineIssue, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	return Inspect(f)
}

// Recent returns at most n of the latest well-formed records, oldest first
func (l *FileLog) Recent(n int) ([]OutcomeRecord, error) {
	records, err := l.ReadAll()
	if err != nil {
		return nil, err
	}

	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}

	return records, nil
}
