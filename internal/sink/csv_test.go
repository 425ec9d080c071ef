package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/neonalpha/alpha-term/internal/api"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestCSVSinkQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.csv")
	s := NewCSVSink(path, nil)

	alert := api.Alert{
		ID:           "1",
		Platform:     api.PlatformTwitter,
		PostID:       "99",
		AuthorHandle: "trader",
		AuthorName:   "Trader, The \"Great\"",
		Text:         "He said, \"buy now\"\nthen vanished",
		CreatedAt:    "2025-06-01T10:00:00Z",
	}
	if err := s.Write(context.Background(), &alert); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}

	row := rows[1]
	if row[5] != "Trader, The \"Great\"" {
		t.Errorf("name column = %q, commas and quotes must survive the round trip", row[5])
	}
	if row[9] != "He said, \"buy now\" then vanished" {
		t.Errorf("text column = %q, newlines must become spaces", row[9])
	}
	if row[10] != "https://x.com/trader/status/99" {
		t.Errorf("url column = %q", row[10])
	}
}

func TestCSVSinkHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.csv")
	s := NewCSVSink(path, nil)

	for _, id := range []string{"1", "2", "3"} {
		alert := api.Alert{ID: id, AuthorHandle: "a", CreatedAt: "2025-06-01T10:00:00Z"}
		if err := s.Write(context.Background(), &alert); err != nil {
			t.Fatalf("Write(%s) = %v", id, err)
		}
	}

	rows := readCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][10] != "url" {
		t.Errorf("header = %v", rows[0])
	}
	for i, row := range rows[1:] {
		if row[0] == "timestamp" {
			t.Errorf("row %d repeats the header", i+1)
		}
	}
}

func TestCSVSinkMonitorColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.csv")
	monitors := map[string]api.Monitor{
		"m-search": {ID: "m-search", MonitorType: "search", Target: "bitcoin", Priority: "high"},
		"m-acct":   {ID: "m-acct", MonitorType: "account", Target: "whale", Priority: "low"},
	}
	s := NewCSVSink(path, monitors)

	alerts := []api.Alert{
		{ID: "1", MonitorID: "m-search", AuthorHandle: "alice"},
		{ID: "2", MonitorID: "m-acct", AuthorHandle: "bob"},
		{ID: "3", MonitorID: "m-unknown", AuthorHandle: "carol"},
	}
	for i := range alerts {
		if err := s.Write(context.Background(), &alerts[i]); err != nil {
			t.Fatalf("Write() = %v", err)
		}
	}

	rows := readCSV(t, path)
	tests := []struct {
		row      int
		source   string
		priority string
	}{
		{1, "Search: bitcoin", "high"},
		{2, "Account: @bob", "low"},
		{3, "Account: @carol", ""},
	}
	for _, tt := range tests {
		if rows[tt.row][2] != tt.source {
			t.Errorf("row %d source = %q, want %q", tt.row, rows[tt.row][2], tt.source)
		}
		if rows[tt.row][3] != tt.priority {
			t.Errorf("row %d priority = %q, want %q", tt.row, rows[tt.row][3], tt.priority)
		}
	}
}

func TestCSVSinkSwallowsWriteErrors(t *testing.T) {
	// Unwritable directory path: the sink must stay silent.
	s := NewCSVSink(filepath.Join(t.TempDir(), "missing", "alerts.csv"), nil)

	if err := s.Write(context.Background(), &api.Alert{ID: "1"}); err != nil {
		t.Errorf("Write() = %v, want nil (export errors are swallowed)", err)
	}
}
