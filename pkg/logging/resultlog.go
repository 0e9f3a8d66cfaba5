package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ResultLog is the append-only record of discovered numbers: one line per
// positive result, carrying the timestamp, the candidate, the screenshot
// path, and a short summary of the results page.
type ResultLog struct {
	file *os.File
	mu   sync.Mutex
}

// OpenResultLog opens (or creates) the results log at path in append mode,
// creating parent directories as needed.
func OpenResultLog(path string) (*ResultLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open results log %s: %w", path, err)
	}
	return &ResultLog{file: file}, nil
}

// Record appends one result line. Fields are tab-separated; the summary has
// tabs and newlines flattened so each result stays on one line.
func (r *ResultLog) Record(at time.Time, candidate, screenshotPath, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
		at.Format(time.RFC3339), candidate, screenshotPath, flatten(summary))
	if _, err := r.file.WriteString(line); err != nil {
		return fmt.Errorf("failed to append result for %s: %w", candidate, err)
	}
	return nil
}

// Close closes the underlying file.
func (r *ResultLog) Close() error {
	return r.file.Close()
}

func flatten(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '\t', '\n', '\r':
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
