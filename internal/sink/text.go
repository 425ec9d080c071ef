package sink

import (
	"context"
	"fmt"
	"os"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/render"
)

// TextSink appends surfaced alerts to a plain-text log file. The file is
// created on first write. Writes are best-effort.
type TextSink struct {
	path string
}

// NewTextSink creates a text sink writing to the given path.
func NewTextSink(path string) *TextSink {
	return &TextSink{path: path}
}

// Name returns "text".
func (s *TextSink) Name() string {
	return "text"
}

// Write appends one alert block to the file.
func (s *TextSink) Write(ctx context.Context, alert *api.Alert) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open save file: %w", err)
	}
	defer f.Close()

	block := fmt.Sprintf("--- @%s | %s ---\n%s\nID: %s\n\n",
		alert.AuthorHandle,
		render.FormatDateTime(alert.CreatedAt),
		alert.Text,
		alert.ID)

	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("append save file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per write.
func (s *TextSink) Close() error {
	return nil
}
