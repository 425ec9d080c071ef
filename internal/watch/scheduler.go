package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/metrics"
	"github.com/neonalpha/alpha-term/internal/render"
	"github.com/neonalpha/alpha-term/internal/sink"
)

// fetchLimit is how many recent alerts each poll requests.
const fetchLimit = 50

// Fetcher is the slice of the API client the scheduler needs.
type Fetcher interface {
	Alerts(ctx context.Context, limit int) ([]api.Alert, error)
}

// ErrSessionExpired is returned by Run when a poll hits an unrecoverable
// 401: the scheduler cannot self-heal a revoked session.
var ErrSessionExpired = errors.New("session expired")

// Options configures a Scheduler.
type Options struct {
	// Interval between cycle starts; fixed for the session. Default 30s.
	Interval time.Duration
	// Criteria filters every fetch.
	Criteria Criteria
	// Sound rings the terminal bell when a cycle surfaces alerts.
	Sound bool
	// Out receives the summary and heartbeat lines. Defaults to io.Discard.
	Out io.Writer
	// Verbose enables scheduler logging.
	Verbose bool
}

// Scheduler drives the fetch-filter-dedup-sink cycle at a fixed cadence.
// Cycles are strictly sequential: the next delay starts only after the
// previous cycle, including all sink writes, has finished. That keeps the
// ledger and sink files single-writer without locks.
type Scheduler struct {
	fetcher  Fetcher
	fanout   *sink.Fanout
	ledger   *Ledger
	opts     Options
	baseline bool
	total    int
}

// NewScheduler creates a scheduler. The fanout may be empty but not nil.
func NewScheduler(fetcher Fetcher, fanout *sink.Fanout, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Scheduler{
		fetcher: fetcher,
		fanout:  fanout,
		ledger:  NewLedger(),
		opts:    opts,
	}
}

// Total returns the number of alerts surfaced so far this session.
func (s *Scheduler) Total() int {
	return s.total
}

// Run polls until the context is canceled or the session expires. The
// first successful fetch only seeds the ledger; alerts are displayed from
// the second fetch onward. Returns ErrSessionExpired on an unrecoverable
// 401, or the context error on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.cycle(ctx); err != nil {
			if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNotLoggedIn) {
				fmt.Fprintf(s.opts.Out, "\n%sSession expired. Please run 'alpha-term login' to sign in again.%s\n\n",
					render.Red, render.Reset)
				return ErrSessionExpired
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.Interval):
		}
	}
}

// cycle performs one fetch-filter-dedup-sink pass.
func (s *Scheduler) cycle(ctx context.Context) error {
	alerts, err := s.fetcher.Alerts(ctx, fetchLimit)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrNotLoggedIn):
			metrics.PollCyclesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return err
		case errors.Is(err, api.ErrRateLimited):
			// Transient: nothing is recorded, the next cycle re-fetches
			// from scratch.
			metrics.PollCyclesTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			fmt.Fprintf(s.opts.Out, "%sRate limited. Waiting before next check...%s\n", render.Yellow, render.Reset)
			return nil
		default:
			metrics.PollCyclesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			fmt.Fprintf(s.opts.Out, "%sError fetching alerts:%s %v\n", render.Red, render.Reset, err)
			return nil
		}
	}

	filtered := s.opts.Criteria.Apply(alerts)

	if !s.baseline {
		ids := make([]string, len(filtered))
		for i := range filtered {
			ids[i] = filtered[i].ID
		}
		s.ledger.Bootstrap(ids)
		s.baseline = true
		s.logf("baseline established with %d alert(s)", len(ids))
		metrics.PollCyclesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		return nil
	}

	fresh := make([]api.Alert, 0, len(filtered))
	for i := range filtered {
		if s.ledger.IsNew(filtered[i].ID) {
			fresh = append(fresh, filtered[i])
		}
	}

	// The API returns newest first; surface oldest first.
	reverse(fresh)

	if len(fresh) > 0 {
		// Clear the heartbeat line before printing alerts.
		fmt.Fprintf(s.opts.Out, "\r%s", render.ClearLine)
	}

	for i := range fresh {
		a := &fresh[i]
		s.total++
		s.ledger.Record(a.ID)
		metrics.AlertsSurfacedTotal.Inc()

		// Sink failures are isolated per sink and already counted; the
		// cycle always continues.
		if err := s.fanout.Write(ctx, a); err != nil {
			s.logf("sink write for %s: %v", a.ID, err)
		}
	}

	if len(fresh) > 0 {
		if s.opts.Sound {
			fmt.Fprint(s.opts.Out, "\a")
		}
		fmt.Fprintf(s.opts.Out, "%s✓ Got %d new alert(s) · %d total this session%s\n",
			render.Green, len(fresh), s.total, render.Reset)
	} else {
		fmt.Fprintf(s.opts.Out, "\r%s%s· listening ━━━━━━━━━━ %s%s",
			render.ClearLine, render.Dim, render.LocalClock(), render.Reset)
	}

	s.ledger.Evict()
	metrics.PollCyclesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

func reverse(alerts []api.Alert) {
	for i, j := 0, len(alerts)-1; i < j; i, j = i+1, j-1 {
		alerts[i], alerts[j] = alerts[j], alerts[i]
	}
}

func (s *Scheduler) logf(format string, args ...interface{}) {
	if s.opts.Verbose {
		log.Printf("[watch] "+format, args...)
	}
}
