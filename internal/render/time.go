package render

import (
	"strings"
	"time"
)

// ParseCreatedAt parses a backend timestamp. Timestamps without an offset
// are treated as UTC by appending "Z" before parsing; the backend omits
// the suffix on some platforms but always means UTC.
func ParseCreatedAt(createdAt string) (time.Time, error) {
	s := createdAt
	if !strings.HasSuffix(s, "Z") && !strings.Contains(s, "+") {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Some timestamps carry fractional seconds without a T separator.
		t, err = time.Parse("2006-01-02 15:04:05Z07:00", s)
	}
	return t, err
}

// FormatTime formats an alert timestamp as local HH:MM:SS with zone name.
// Unparseable timestamps are returned verbatim.
func FormatTime(createdAt string) string {
	t, err := ParseCreatedAt(createdAt)
	if err != nil {
		return createdAt
	}
	return t.Local().Format("15:04:05 MST")
}

// FormatDateTime formats an alert timestamp as a full local date-time with
// zone name, for the text sink header line.
func FormatDateTime(createdAt string) string {
	t, err := ParseCreatedAt(createdAt)
	if err != nil {
		return createdAt
	}
	return t.Local().Format("2006-01-02 15:04:05 MST")
}

// LocalClock returns the current local wall-clock time, for the
// heartbeat indicator.
func LocalClock() string {
	return time.Now().Format("15:04:05")
}
