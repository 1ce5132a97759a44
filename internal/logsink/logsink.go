// Package logsink appends timestamped entries to the monitoring log file.
package logsink

import (
	"fmt"
	"os"
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// Sink is the shared append-only log. Every Append opens, writes and closes
// the file so concurrent writers never share a handle; ordering across
// writers is whatever the filesystem's append atomicity gives us, which is
// all the monitoring loops need.
type Sink struct {
	path string
	now  func() time.Time
}

func New(path string) *Sink {
	return &Sink{path: path, now: time.Now}
}

// Path returns the backing file path, for the report assembler.
func (s *Sink) Path() string {
	return s.path
}

// Append writes one entry as "[yyyy-MM-dd HH:mm:ss] <message>" with a
// trailing newline. Messages may contain embedded newlines; they stay part
// of the same logical entry.
func (s *Sink) Append(message string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	_, werr := fmt.Fprintf(f, "[%s] %s\n", s.now().Format(timeFormat), message)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write log: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close log: %w", cerr)
	}
	return nil
}
