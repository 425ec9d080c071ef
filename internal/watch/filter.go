package watch

import (
	"strings"

	"github.com/neonalpha/alpha-term/internal/api"
)

// Criteria filters fetched alerts. Zero-value fields impose no constraint;
// set fields must all match (logical AND).
type Criteria struct {
	// Handle matches the author handle, case-insensitively, ignoring a
	// leading "@" on the criterion.
	Handle string
	// Keyword is a case-insensitive substring match on the alert text.
	Keyword string
}

// Empty reports whether the criteria impose no constraint.
func (c Criteria) Empty() bool {
	return c.Handle == "" && c.Keyword == ""
}

// Match reports whether a single alert satisfies all set criteria.
func (c Criteria) Match(a *api.Alert) bool {
	if c.Handle != "" {
		want := strings.ToLower(strings.TrimPrefix(c.Handle, "@"))
		if !strings.EqualFold(strings.TrimPrefix(a.AuthorHandle, "@"), want) {
			return false
		}
	}
	if c.Keyword != "" {
		if !strings.Contains(strings.ToLower(a.Text), strings.ToLower(c.Keyword)) {
			return false
		}
	}
	return true
}

// Apply returns the alerts satisfying the criteria, preserving order. The
// input slice is never mutated.
func (c Criteria) Apply(alerts []api.Alert) []api.Alert {
	if c.Empty() {
		out := make([]api.Alert, len(alerts))
		copy(out, alerts)
		return out
	}

	out := make([]api.Alert, 0, len(alerts))
	for i := range alerts {
		if c.Match(&alerts[i]) {
			out = append(out, alerts[i])
		}
	}
	return out
}
