package sink

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/render"
)

// csvColumns is the fixed export header. The follower/like/retweet counts
// are reserved columns the backend does not populate yet.
var csvColumns = []string{
	"timestamp", "platform", "source", "priority", "handle", "name",
	"followers", "likes", "retweets", "text", "url",
}

// CSVSink appends surfaced alerts to a CSV export file. Write errors are
// swallowed: a broken export must never interrupt the watch loop.
type CSVSink struct {
	path     string
	monitors map[string]api.Monitor
}

// NewCSVSink creates a CSV sink. monitors maps monitor ID to its rule, for
// the source and priority columns; it may be nil.
func NewCSVSink(path string, monitors map[string]api.Monitor) *CSVSink {
	return &CSVSink{path: path, monitors: monitors}
}

// Name returns "csv".
func (s *CSVSink) Name() string {
	return "csv"
}

// Write appends one row, writing the header first if the file is missing
// or empty. Errors are dropped by design.
func (s *CSVSink) Write(ctx context.Context, alert *api.Alert) error {
	s.writeRow(alert)
	return nil
}

func (s *CSVSink) writeRow(alert *api.Alert) {
	needHeader := true
	if info, err := os.Stat(s.path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		w.Write(csvColumns)
	}
	w.Write(s.row(alert))
	w.Flush()
}

func (s *CSVSink) row(alert *api.Alert) []string {
	source := "Account: @" + alert.AuthorHandle
	priority := ""
	if m, ok := s.monitors[alert.MonitorID]; ok {
		if m.MonitorType == "search" {
			source = "Search: " + m.Target
		}
		priority = m.Priority
	}

	return []string{
		alert.CreatedAt,
		string(alert.EffectivePlatform()),
		source,
		priority,
		alert.AuthorHandle,
		alert.AuthorName,
		"", // followers
		"", // likes
		"", // retweets
		strings.ReplaceAll(alert.Text, "\n", " "),
		render.PostURL(alert),
	}
}

// Close is a no-op; the file is opened per write.
func (s *CSVSink) Close() error {
	return nil
}
