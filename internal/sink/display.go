package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/render"
)

// DisplaySink writes surfaced alerts to the terminal, either as rendered
// cards or as raw JSON.
type DisplaySink struct {
	out  io.Writer
	json bool
}

// NewDisplaySink creates a display sink writing to out.
func NewDisplaySink(out io.Writer, jsonMode bool) *DisplaySink {
	return &DisplaySink{out: out, json: jsonMode}
}

// Name returns "display".
func (s *DisplaySink) Name() string {
	return "display"
}

// Write renders one alert.
func (s *DisplaySink) Write(ctx context.Context, alert *api.Alert) error {
	if s.json {
		data, err := json.MarshalIndent(alert, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal alert: %w", err)
		}
		fmt.Fprintln(s.out, string(data))
		return nil
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, render.Card(alert))
	return nil
}

// Close is a no-op.
func (s *DisplaySink) Close() error {
	return nil
}
