package weather

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/mailer"
	"smartbin-backend/internal/store"
)

// CurrentFetcher is the slice of Client the monitor needs; tests inject a
// fake.
type CurrentFetcher interface {
	Current(ctx context.Context, lat, lon float64) (Current, error)
}

// Monitor polls the weather at a fixed coordinate and, on rain, sends an
// advisory email to every registered operator. An atomic gate limits real
// checks to one per interval no matter how often it is invoked; the gate
// advances even when the fetch fails so a dead upstream cannot cause a retry
// storm.
type Monitor struct {
	fetcher  CurrentFetcher
	mailer   mailer.Mailer
	store    store.Store
	lat, lon float64
	interval time.Duration
	log      *logrus.Entry

	lastCheckMs atomic.Int64
}

// NewMonitor creates a Monitor for the given coordinate and check interval.
func NewMonitor(fetcher CurrentFetcher, m mailer.Mailer, st store.Store, lat, lon float64, interval time.Duration, log *logrus.Entry) *Monitor {
	return &Monitor{
		fetcher:  fetcher,
		mailer:   m,
		store:    st,
		lat:      lat,
		lon:      lon,
		interval: interval,
		log:      log,
	}
}

// MaybeCheck performs a weather check if the interval has elapsed since the
// last one. Concurrent callers race on a compare-and-swap; exactly one wins
// the gate. All failures are logged and swallowed.
func (m *Monitor) MaybeCheck(ctx context.Context, now time.Time) {
	last := m.lastCheckMs.Load()
	if now.UnixMilli()-last < m.interval.Milliseconds() {
		return
	}
	if !m.lastCheckMs.CompareAndSwap(last, now.UnixMilli()) {
		return
	}

	cur, err := m.fetcher.Current(ctx, m.lat, m.lon)
	if err != nil {
		m.log.Errorf("weather check failed: %v", err)
		return
	}
	if !cur.IsRain() {
		return
	}

	m.log.Infof("🌧️ Rain detected (%s), sending weather alerts", cur.Description)

	ops, err := m.store.Operators(ctx)
	if err != nil {
		m.log.Errorf("loading operators for weather alert failed: %v", err)
		return
	}

	for id, op := range ops {
		if op.Email == "" {
			continue
		}
		body := fmt.Sprintf(
			"Dear %s,\n\nRain is expected in your area. Please check your assigned bins for potential overflow issues.\n\n"+
				"Weather Details:\n- Condition: %s\n- Temperature: %.1f°C\n- Humidity: %.0f%%\n\n"+
				"Please ensure bins are properly secured and monitor for overflow.\n\n"+
				"Best regards,\nSmart Bin Monitoring System",
			op.Name, cur.Description, cur.TempC, cur.HumidityPct,
		)
		if err := m.mailer.Send(ctx, op.Email, "🌧️ Weather Alert: Rain Expected - Bin Monitoring Required", body); err != nil {
			m.log.Errorf("weather alert email to operator %s failed: %v", id, err)
		} else {
			m.log.Infof("📧 weather alert email sent to %s", op.Name)
		}
	}
}
