package alerts

import "sync"

// AlertThreshold is the fill percentage above which a bin is considered full
// enough to alert on.
const AlertThreshold = 80

// Latch is an edge-triggered per-bin notification latch: one notification per
// upward threshold crossing, re-armed only after the fill level returns to or
// below the threshold. All transitions are serialized under a single mutex so
// concurrent aggregations cannot double-send.
type Latch struct {
	mu    sync.Mutex
	fired map[string]bool
}

// NewLatch creates a Latch with every bin in the armed state.
func NewLatch() *Latch {
	return &Latch{fired: make(map[string]bool)}
}

// ShouldNotify reports whether an alert should fire for the given fill level
// and advances the latch state in the same critical section.
func (l *Latch) ShouldNotify(binID string, fillPct float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fillPct <= AlertThreshold {
		delete(l.fired, binID)
		return false
	}
	if l.fired[binID] {
		return false
	}
	l.fired[binID] = true
	return true
}
