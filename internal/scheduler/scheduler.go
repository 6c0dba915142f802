package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/weather"
)

// Scheduler drives the weather monitor on a fixed cadence so rain advisories
// go out even when no one is polling the dashboard. The monitor's own
// interval gate still decides whether a cadence tick does real work.
type Scheduler struct {
	scheduler *gocron.Scheduler
	monitor   *weather.Monitor
	cadence   time.Duration
	log       *logrus.Entry
}

// New creates a Scheduler around the given monitor.
func New(monitor *weather.Monitor, cadence time.Duration, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		monitor:   monitor,
		cadence:   cadence,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.cadence.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.monitor.MaybeCheck(ctx, time.Now())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infof("weather check scheduled every %d minutes", minutes)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
