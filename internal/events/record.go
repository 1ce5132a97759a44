// Package events harvests OS diagnostic records relevant to wireless
// connectivity and writes them to the monitoring log.
package events

import "time"

// Level orders severities from worst to mildest, so "at most warning"
// is a plain numeric comparison.
type Level int

const (
	LevelCritical Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Record is one externally-sourced diagnostic record. Read-only once built.
type Record struct {
	Level    Level
	Time     time.Time
	Provider string
	ID       string
	Message  string
}
