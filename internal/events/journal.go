package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Source yields diagnostic records from some OS log, newest last, limited
// to the given providers and to records at or after since.
type Source interface {
	Query(ctx context.Context, providers []string, since time.Time) ([]Record, error)
}

// Runner executes one external command and captures its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// JournalSource reads the systemd journal through journalctl's JSON
// output, one object per line.
type JournalSource struct {
	runner Runner
}

func NewJournalSource(runner Runner) *JournalSource {
	return &JournalSource{runner: runner}
}

// journalEntry is the subset of journalctl -o json fields we consume.
type journalEntry struct {
	Priority   string `json:"PRIORITY"`
	Realtime   string `json:"__REALTIME_TIMESTAMP"` // microseconds since epoch
	Identifier string `json:"SYSLOG_IDENTIFIER"`
	PID        string `json:"_PID"`
	Message    string `json:"MESSAGE"`
}

func (s *JournalSource) Query(ctx context.Context, providers []string, since time.Time) ([]Record, error) {
	args := []string{"-o", "json", "--no-pager", "--since", since.Format("2006-01-02 15:04:05")}
	for _, p := range providers {
		args = append(args, "-t", p)
	}

	out, err := s.runner.Run(ctx, "journalctl", args...)
	if err != nil {
		return nil, fmt.Errorf("journalctl: %w", err)
	}

	var recs []Record
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry journalEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// journald encodes non-UTF8 messages as byte arrays; skip
			// anything we cannot decode rather than failing the batch
			log.Warn().Err(err).Msg("skipping unreadable journal record")
			continue
		}

		recs = append(recs, Record{
			Level:    levelFromPriority(entry.Priority),
			Time:     timeFromRealtime(entry.Realtime),
			Provider: entry.Identifier,
			ID:       entry.PID,
			Message:  entry.Message,
		})
	}
	return recs, nil
}

// levelFromPriority maps syslog priorities (0 emerg .. 7 debug) onto Level.
func levelFromPriority(priority string) Level {
	p, err := strconv.Atoi(priority)
	if err != nil {
		return LevelInfo
	}
	switch {
	case p <= 2:
		return LevelCritical
	case p == 3:
		return LevelError
	case p == 4:
		return LevelWarning
	case p <= 6:
		return LevelInfo
	default:
		return LevelDebug
	}
}

func timeFromRealtime(usec string) time.Time {
	n, err := strconv.ParseInt(usec, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMicro(n)
}
