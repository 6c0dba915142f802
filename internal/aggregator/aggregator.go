package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/alerts"
	"smartbin-backend/internal/generator"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/store"
)

// SensorBinID is the one hardware-backed bin. Its telemetry comes from the
// realtime feed; every other bin gets synthetic telemetry derived from it.
const SensorBinID = "bin1"

// WeatherChecker is invoked opportunistically after each aggregation.
type WeatherChecker interface {
	MaybeCheck(ctx context.Context, now time.Time)
}

// Broadcaster pushes the merged bin set to live subscribers.
type Broadcaster interface {
	BroadcastBins(bins map[string]models.BinView)
}

// Service merges the authoritative sensor feed, synthetic telemetry and bin
// configuration into the unified view the dashboard consumes, firing
// threshold alerts and the weather check as side effects of being read.
type Service struct {
	store   store.Store
	gen     *generator.Generator
	latch   *alerts.Latch
	disp    *alerts.Dispatcher
	weather WeatherChecker
	hub     Broadcaster
	log     *logrus.Entry
	now     func() time.Time
}

// New creates the aggregation service. weather and hub may be nil.
func New(st store.Store, gen *generator.Generator, latch *alerts.Latch, disp *alerts.Dispatcher, weather WeatherChecker, hub Broadcaster, log *logrus.Entry) *Service {
	return &Service{
		store:   st,
		gen:     gen,
		latch:   latch,
		disp:    disp,
		weather: weather,
		hub:     hub,
		log:     log,
		now:     time.Now,
	}
}

// SetClock overrides the service clock, used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ListBins returns the merged bin map and runs the alert and weather side
// effects over it.
func (s *Service) ListBins(ctx context.Context) (map[string]models.BinView, error) {
	views, err := s.merge(ctx)
	if err != nil {
		return nil, err
	}

	operators, err := s.store.Operators(ctx)
	if err != nil {
		s.log.Errorf("loading operators: %v", err)
		operators = map[string]models.Operator{}
	}

	for id, view := range views {
		if s.latch.ShouldNotify(id, view.FillPct) {
			s.disp.Enqueue(view, resolveOperator(operators, view.OperatorID))
		}
	}

	if s.weather != nil {
		s.weather.MaybeCheck(ctx, s.now())
	}
	if s.hub != nil {
		s.hub.BroadcastBins(views)
	}

	return views, nil
}

// GetBin returns the merged view for a single bin. The sensor bin is served
// straight from the hardware feed; anything else is configuration overlaid
// with synthetic telemetry.
func (s *Service) GetBin(ctx context.Context, id string) (models.BinView, error) {
	now := s.now()

	if id == SensorBinID {
		reading, err := s.store.SensorReading(ctx)
		if err != nil {
			return models.BinView{}, fmt.Errorf("sensor feed: %w", err)
		}
		if reading == nil {
			return models.BinView{}, store.ErrNotFound
		}
		return sensorView(*reading, now), nil
	}

	bin, err := s.store.Bin(ctx, id)
	if err != nil {
		return models.BinView{}, err
	}

	reading, err := s.store.SensorReading(ctx)
	if err != nil {
		s.log.Errorf("sensor feed unavailable, generating from fallback: %v", err)
		reading = nil
	}
	return mergeBin(id, bin, s.gen.Generate(reading, id), now), nil
}

// BinHistory returns the ordered historical readings for a bin.
func (s *Service) BinHistory(ctx context.Context, id string) ([]models.HistoryEntry, error) {
	if id == SensorBinID {
		return s.store.SensorHistory(ctx)
	}
	bin, err := s.store.Bin(ctx, id)
	if err != nil {
		return nil, err
	}
	if bin.History == nil {
		return []models.HistoryEntry{}, nil
	}
	return bin.History, nil
}

// Stats computes summary statistics over the current merged aggregate.
// Unlike ListBins it has no side effects.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	views, err := s.merge(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{
		TotalBins:   len(views),
		LastUpdated: s.now(),
	}
	for _, view := range views {
		switch {
		case view.FillPct > 80:
			stats.FullBins++
		case view.FillPct > 60:
			stats.WarningBins++
		default:
			stats.NormalBins++
		}
		stats.AverageFillLevel += view.FillPct
		stats.TotalWeight += view.WeightKg
	}
	if stats.TotalBins > 0 {
		stats.AverageFillLevel /= float64(stats.TotalBins)
	}
	return stats, nil
}

// merge builds the unified bin map: the authoritative reading plus one
// synthetic reading per configured bin, stamped with a fresh fetch time.
func (s *Service) merge(ctx context.Context) (map[string]models.BinView, error) {
	now := s.now()
	views := make(map[string]models.BinView)

	reading, err := s.store.SensorReading(ctx)
	if err != nil {
		s.log.Errorf("sensor feed unavailable: %v", err)
		reading = nil
	}
	if reading != nil {
		views[SensorBinID] = sensorView(*reading, now)
	}

	bins, err := s.store.Bins(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bins: %w", err)
	}
	for id, bin := range bins {
		if id == SensorBinID {
			continue
		}
		views[id] = mergeBin(id, bin, s.gen.Generate(reading, id), now)
	}

	return views, nil
}

func sensorView(reading models.SensorReading, now time.Time) models.BinView {
	status := reading.Status
	if status == "" {
		status = models.StatusFromFill(reading.FillPct)
	}
	return models.BinView{
		ID:          SensorBinID,
		WeightKg:    reading.WeightKg,
		FillPct:     reading.FillPct,
		Status:      status,
		UpdatedAt:   reading.UpdatedAt,
		LastFetched: now,
	}
}

// mergeBin overlays telemetry on configuration. Telemetry always wins for
// weight, fill and status; configuration supplies the descriptive fields.
func mergeBin(id string, bin models.Bin, reading models.SensorReading, now time.Time) models.BinView {
	return models.BinView{
		ID:          id,
		Name:        bin.Name,
		Location:    bin.Location,
		Capacity:    bin.Capacity,
		OperatorID:  bin.OperatorID,
		WeightKg:    reading.WeightKg,
		FillPct:     reading.FillPct,
		Status:      reading.Status,
		UpdatedAt:   reading.UpdatedAt,
		LastFetched: now,
	}
}

func resolveOperator(operators map[string]models.Operator, operatorID string) *models.Operator {
	if operatorID == "" {
		return nil
	}
	op, ok := operators[operatorID]
	if !ok {
		return nil
	}
	return &op
}
