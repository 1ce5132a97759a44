package events

import "testing"

func TestRelevantSeverityAlwaysIncluded(t *testing.T) {
	for _, level := range []Level{LevelCritical, LevelError, LevelWarning} {
		rec := Record{Level: level, Message: "totally unrelated text"}
		if !Relevant(rec) {
			t.Errorf("level %s must always be relevant", level)
		}
	}
}

func TestRelevantKeywordGating(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"wifi keyword", "wifi link quality degraded", true},
		{"uppercase keyword", "WLAN0: DEAUTH from ap", true},
		{"mixed case", "New USB device found", true},
		{"driver mention", "iwlwifi Driver loaded", true},
		{"link down phrase", "eth0: Link is Down", true},
		{"unrelated", "session opened for user root", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{Level: LevelInfo, Message: tc.message}
			if got := Relevant(rec); got != tc.want {
				t.Errorf("Relevant(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}

// Lowering severity (holding the message fixed) can only remove a record
// from the log, never add it.
func TestRelevantMonotonicInSeverity(t *testing.T) {
	messages := []string{
		"wifi link lost",
		"nothing of interest",
		"usb 1-4: device descriptor read error",
		"",
	}
	levels := []Level{LevelCritical, LevelError, LevelWarning, LevelInfo, LevelDebug}

	for _, msg := range messages {
		prev := true
		for _, level := range levels {
			got := Relevant(Record{Level: level, Message: msg})
			if got && !prev {
				t.Errorf("message %q: level %s relevant but a worse level was not", msg, level)
			}
			prev = got
		}
	}
}
