package watch

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/sink"
)

// scriptedFetcher returns one scripted batch per call. Once the script is
// exhausted it cancels the watch context so Run terminates.
type scriptedFetcher struct {
	batches [][]api.Alert
	errs    []error
	calls   int
	cancel  context.CancelFunc
}

func (f *scriptedFetcher) Alerts(ctx context.Context, limit int) ([]api.Alert, error) {
	if f.calls >= len(f.batches) {
		f.cancel()
		return nil, ctx.Err()
	}
	i := f.calls
	f.calls++
	return f.batches[i], f.errs[i]
}

type captureSink struct {
	ids []string
	err error
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Write(ctx context.Context, a *api.Alert) error {
	c.ids = append(c.ids, a.ID)
	return c.err
}

func (c *captureSink) Close() error { return nil }

func runScript(t *testing.T, fetcher *scriptedFetcher, sinks ...sink.Sink) (*Scheduler, error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetcher.cancel = cancel

	fanout := sink.NewFanout()
	for _, s := range sinks {
		fanout.Register(s)
	}

	sched := NewScheduler(fetcher, fanout, Options{
		Interval: time.Millisecond,
		Out:      &bytes.Buffer{},
	})
	return sched, sched.Run(ctx)
}

func TestSchedulerBaselineSuppressesFirstFetch(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{{ID: "a"}, {ID: "b"}},
			{{ID: "c"}, {ID: "a"}, {ID: "b"}},
		},
		errs: []error{nil, nil},
	}
	capture := &captureSink{}

	sched, err := runScript(t, fetcher, capture)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	if len(capture.ids) != 1 || capture.ids[0] != "c" {
		t.Errorf("sink received %v, want [c] (baseline alerts must not surface)", capture.ids)
	}
	if sched.Total() != 1 {
		t.Errorf("Total() = %d, want 1", sched.Total())
	}
}

func TestSchedulerDeduplicatesAcrossCycles(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{},
			{{ID: "a"}},
			{{ID: "a"}, {ID: "b"}},
			{{ID: "b"}, {ID: "a"}},
		},
		errs: []error{nil, nil, nil, nil},
	}
	capture := &captureSink{}

	_, err := runScript(t, fetcher, capture)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	want := []string{"a", "b"}
	if len(capture.ids) != len(want) {
		t.Fatalf("sink received %v, want %v", capture.ids, want)
	}
	for i := range want {
		if capture.ids[i] != want[i] {
			t.Fatalf("sink received %v, want %v", capture.ids, want)
		}
	}
}

func TestSchedulerSurfacesOldestFirst(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{},
			// API order is newest first.
			{{ID: "newest"}, {ID: "middle"}, {ID: "oldest"}},
		},
		errs: []error{nil, nil},
	}
	capture := &captureSink{}

	_, err := runScript(t, fetcher, capture)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	want := []string{"oldest", "middle", "newest"}
	for i := range want {
		if i >= len(capture.ids) || capture.ids[i] != want[i] {
			t.Fatalf("sink received %v, want %v", capture.ids, want)
		}
	}
}

func TestSchedulerSurvivesRateLimit(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{{ID: "a"}},
			nil,
			{{ID: "a"}, {ID: "b"}},
		},
		errs: []error{nil, api.ErrRateLimited, nil},
	}
	capture := &captureSink{}

	sched, err := runScript(t, fetcher, capture)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	if len(capture.ids) != 1 || capture.ids[0] != "b" {
		t.Errorf("sink received %v, want [b] (rate-limited cycle must not record anything)", capture.ids)
	}
	if sched.Total() != 1 {
		t.Errorf("Total() = %d, want 1", sched.Total())
	}
}

func TestSchedulerSurvivesTransientError(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			nil,
			{{ID: "a"}},
			{{ID: "a"}, {ID: "b"}},
		},
		errs: []error{errors.New("connection reset"), nil, nil},
	}
	capture := &captureSink{}

	_, err := runScript(t, fetcher, capture)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	// The failed cycle must not count as the baseline: the first
	// successful fetch (a) seeds the ledger, so only b surfaces.
	if len(capture.ids) != 1 || capture.ids[0] != "b" {
		t.Errorf("sink received %v, want [b]", capture.ids)
	}
}

func TestSchedulerTerminatesOnUnauthorized(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{{ID: "a"}},
			nil,
		},
		errs: []error{nil, api.ErrUnauthorized},
	}
	capture := &captureSink{}

	_, err := runScript(t, fetcher, capture)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Run() = %v, want ErrSessionExpired", err)
	}
	if len(capture.ids) != 0 {
		t.Errorf("sink received %v, want none", capture.ids)
	}
}

func TestSchedulerContinuesAfterSinkFailure(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{},
			{{ID: "a"}, {ID: "b"}},
		},
		errs: []error{nil, nil},
	}
	failing := &captureSink{err: errors.New("disk full")}
	healthy := &captureSink{}

	sched, err := runScript(t, fetcher, failing, healthy)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	// Both alerts reach both sinks despite the failure.
	if len(failing.ids) != 2 || len(healthy.ids) != 2 {
		t.Errorf("failing sink got %v, healthy sink got %v, want 2 writes each",
			failing.ids, healthy.ids)
	}
	if sched.Total() != 2 {
		t.Errorf("Total() = %d, want 2", sched.Total())
	}
}

func TestSchedulerAppliesFilterBeforeLedger(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]api.Alert{
			{{ID: "a", AuthorHandle: "alice"}},
			{{ID: "b", AuthorHandle: "bob"}, {ID: "a", AuthorHandle: "alice"}},
			{{ID: "c", AuthorHandle: "alice"}, {ID: "b", AuthorHandle: "bob"}},
		},
		errs: []error{nil, nil, nil},
	}
	capture := &captureSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetcher.cancel = cancel

	fanout := sink.NewFanout()
	fanout.Register(capture)

	sched := NewScheduler(fetcher, fanout, Options{
		Interval: time.Millisecond,
		Criteria: Criteria{Handle: "alice"},
		Out:      &bytes.Buffer{},
	})
	if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	if len(capture.ids) != 1 || capture.ids[0] != "c" {
		t.Errorf("sink received %v, want [c] (bob's alerts filtered out)", capture.ids)
	}
}
