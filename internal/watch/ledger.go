// Package watch implements the alert polling loop: session gate, filter
// pipeline, dedup ledger, and poll scheduler.
package watch

import (
	"github.com/neonalpha/alpha-term/internal/metrics"
)

// Ledger eviction bounds. When the ledger grows past maxEntries it is
// trimmed to the keepEntries most recently recorded IDs.
const (
	maxEntries  = 1000
	keepEntries = 500
)

// Ledger tracks which alert IDs have already been surfaced this session.
// Insertion order is retained for eviction; within a session it coincides
// with fetch order, so the trim drops the oldest-seen half.
type Ledger struct {
	seen  map[string]struct{}
	order []string
	max   int
	keep  int
}

// NewLedger creates an empty ledger with the default bounds.
func NewLedger() *Ledger {
	return &Ledger{
		seen: make(map[string]struct{}),
		max:  maxEntries,
		keep: keepEntries,
	}
}

// IsNew reports whether id has not been recorded yet.
func (l *Ledger) IsNew(id string) bool {
	_, ok := l.seen[id]
	return !ok
}

// Record marks id as seen. Recording a known ID is a no-op.
func (l *Ledger) Record(id string) {
	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = struct{}{}
	l.order = append(l.order, id)
	metrics.LedgerSize.Set(float64(len(l.order)))
}

// Bootstrap seeds the ledger with the first fetch's IDs. Bootstrapped IDs
// count as seen but are never displayed: the first cycle only establishes
// the baseline.
func (l *Ledger) Bootstrap(ids []string) {
	for _, id := range ids {
		l.Record(id)
	}
}

// Evict trims the ledger to the most recently recorded IDs once it exceeds
// its bound. Called once per poll cycle after recording.
func (l *Ledger) Evict() {
	if len(l.order) <= l.max {
		return
	}

	kept := l.order[len(l.order)-l.keep:]
	l.order = append(make([]string, 0, l.max), kept...)
	l.seen = make(map[string]struct{}, len(l.order))
	for _, id := range l.order {
		l.seen[id] = struct{}{}
	}
	metrics.LedgerSize.Set(float64(len(l.order)))
}

// Len returns the ledger cardinality.
func (l *Ledger) Len() int {
	return len(l.order)
}
