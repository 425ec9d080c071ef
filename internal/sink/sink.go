// Package sink routes surfaced alerts to their destinations.
package sink

import (
	"context"
	"fmt"
	"log"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/metrics"
)

// Sink is a destination for surfaced alerts.
type Sink interface {
	// Name returns the sink name (e.g., "text", "csv").
	Name() string
	// Write records one alert.
	Write(ctx context.Context, alert *api.Alert) error
	// Close releases any resources.
	Close() error
}

// Fanout routes each alert to every registered sink. A failing sink never
// prevents the remaining sinks from receiving the alert.
type Fanout struct {
	sinks   []Sink
	verbose bool
}

// NewFanout creates an empty fan-out.
func NewFanout() *Fanout {
	return &Fanout{}
}

// SetVerbose enables logging of per-sink failures.
func (f *Fanout) SetVerbose(v bool) {
	f.verbose = v
}

// Register adds a sink. Sinks receive alerts in registration order.
func (f *Fanout) Register(s Sink) {
	f.sinks = append(f.sinks, s)
}

// Len returns the number of registered sinks.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Write sends an alert to all sinks. Per-sink errors are collected and
// returned for logging; the alert still reaches every other sink.
func (f *Fanout) Write(ctx context.Context, alert *api.Alert) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Write(ctx, alert); err != nil {
			metrics.SinkErrorsTotal.WithLabelValues(s.Name()).Inc()
			if f.verbose {
				log.Printf("[sink] %s: %v", s.Name(), err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		metrics.SinkWritesTotal.WithLabelValues(s.Name()).Inc()
	}

	if len(errs) > 0 {
		return fmt.Errorf("sink errors: %v", errs)
	}
	return nil
}

// Close closes all registered sinks.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	f.sinks = nil

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
