package events

import "strings"

// relevanceKeywords gate informational records: an info-level record is
// only worth logging when its message mentions something connectivity or
// hardware related. Matching is case-insensitive substring.
var relevanceKeywords = []string{
	"wifi",
	"wireless",
	"wlan",
	"802.11",
	"network",
	"adapter",
	"driver",
	"firmware",
	"hardware",
	"usb",
	"disconnect",
	"link down",
	"link is down",
	"deauth",
	"dhcp",
	"authentication",
}

// Relevant reports whether a hardware/driver record belongs in the log.
// Warning or worse is always relevant regardless of message text; milder
// records are relevant only on a keyword match.
func Relevant(rec Record) bool {
	if rec.Level <= LevelWarning {
		return true
	}
	msg := strings.ToLower(rec.Message)
	for _, kw := range relevanceKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
