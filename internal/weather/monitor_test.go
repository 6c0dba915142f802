package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/store"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	current Current
	err     error
}

func (f *fakeFetcher) Current(_ context.Context, _, _ float64) (Current, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.current, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fanoutMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fanoutMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func TestMonitorIntervalGate(t *testing.T) {
	fetcher := &fakeFetcher{current: Current{ConditionID: 800}}
	m := NewMonitor(fetcher, &fanoutMailer{}, store.NewDemoStore(), 40.7, -74.0, 3*time.Hour, testLog())

	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	m.MaybeCheck(context.Background(), now)
	m.MaybeCheck(context.Background(), now.Add(time.Millisecond))

	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("fetches within interval = %d, want 1", got)
	}

	m.MaybeCheck(context.Background(), now.Add(3*time.Hour+time.Millisecond))
	if got := fetcher.callCount(); got != 2 {
		t.Fatalf("fetches after interval = %d, want 2", got)
	}
}

func TestMonitorGateAdvancesOnFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	m := NewMonitor(fetcher, &fanoutMailer{}, store.NewDemoStore(), 40.7, -74.0, 3*time.Hour, testLog())

	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	m.MaybeCheck(context.Background(), now)
	m.MaybeCheck(context.Background(), now.Add(time.Minute))

	// The failed check consumed the interval; no immediate retry.
	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("fetches = %d, want 1 (no retry storm)", got)
	}
}

func TestMonitorRainFansOutToAllOperators(t *testing.T) {
	fetcher := &fakeFetcher{current: Current{
		ConditionID: 501,
		Condition:   "Rain",
		Description: "moderate rain",
		TempC:       14.2,
		HumidityPct: 91,
	}}
	mail := &fanoutMailer{}
	m := NewMonitor(fetcher, mail, store.NewDemoStore(), 40.7, -74.0, 3*time.Hour, testLog())

	m.MaybeCheck(context.Background(), time.Now())

	if len(mail.sent) != 2 {
		t.Fatalf("weather advisories sent to %d operators, want 2", len(mail.sent))
	}
	recipients := map[string]bool{}
	for _, to := range mail.sent {
		recipients[to] = true
	}
	if !recipients["john.smith@smartbins.com"] || !recipients["sarah.johnson@smartbins.com"] {
		t.Errorf("recipients = %v, want both demo operators", mail.sent)
	}
}

func TestMonitorNoRainSendsNothing(t *testing.T) {
	fetcher := &fakeFetcher{current: Current{ConditionID: 800, Condition: "Clear"}}
	mail := &fanoutMailer{}
	m := NewMonitor(fetcher, mail, store.NewDemoStore(), 40.7, -74.0, 3*time.Hour, testLog())

	m.MaybeCheck(context.Background(), time.Now())

	if len(mail.sent) != 0 {
		t.Fatalf("sent %d advisories on clear weather, want 0", len(mail.sent))
	}
}

func TestCurrentIsRainBand(t *testing.T) {
	cases := []struct {
		id   int
		want bool
	}{
		{499, false},
		{500, true},
		{531, true},
		{599, true},
		{600, false},
		{800, false},
	}
	for _, tc := range cases {
		if got := (Current{ConditionID: tc.id}).IsRain(); got != tc.want {
			t.Errorf("IsRain(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
