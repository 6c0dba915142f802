package store

import (
	"context"
	"errors"

	"smartbin-backend/internal/models"
)

// ErrNotFound is returned when a bin or operator id does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence surface for bin configuration, operators and the
// authoritative sensor feed. Real deployments back it with Firebase; demo
// mode uses the seeded in-memory implementation.
type Store interface {
	// SensorReading returns the authoritative hardware reading, or nil when
	// the feed has no data. Absence is not an error.
	SensorReading(ctx context.Context) (*models.SensorReading, error)
	// SensorHistory returns the authoritative feed's historical samples.
	SensorHistory(ctx context.Context) ([]models.HistoryEntry, error)

	Bins(ctx context.Context) (map[string]models.Bin, error)
	Bin(ctx context.Context, id string) (models.Bin, error)
	PutBin(ctx context.Context, id string, bin models.Bin) error
	DeleteBin(ctx context.Context, id string) error

	Operators(ctx context.Context) (map[string]models.Operator, error)
	Operator(ctx context.Context, id string) (models.Operator, error)
	PutOperator(ctx context.Context, id string, op models.Operator) error
	DeleteOperator(ctx context.Context, id string) error
}

// fallbackStore reads from primary and degrades to the fallback when the
// primary is unavailable. Not-found is a definitive answer, never a reason
// to fall back. Writes always target the primary.
type fallbackStore struct {
	primary  Store
	fallback Store
}

// WithFallback wraps primary so reads degrade to fallback on store failure.
func WithFallback(primary, fallback Store) Store {
	return &fallbackStore{primary: primary, fallback: fallback}
}

func (s *fallbackStore) SensorReading(ctx context.Context) (*models.SensorReading, error) {
	r, err := s.primary.SensorReading(ctx)
	if err != nil {
		return s.fallback.SensorReading(ctx)
	}
	return r, nil
}

func (s *fallbackStore) SensorHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	h, err := s.primary.SensorHistory(ctx)
	if err != nil {
		return s.fallback.SensorHistory(ctx)
	}
	return h, nil
}

func (s *fallbackStore) Bins(ctx context.Context) (map[string]models.Bin, error) {
	bins, err := s.primary.Bins(ctx)
	if err != nil {
		return s.fallback.Bins(ctx)
	}
	return bins, nil
}

func (s *fallbackStore) Bin(ctx context.Context, id string) (models.Bin, error) {
	bin, err := s.primary.Bin(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s.fallback.Bin(ctx, id)
	}
	return bin, err
}

func (s *fallbackStore) PutBin(ctx context.Context, id string, bin models.Bin) error {
	return s.primary.PutBin(ctx, id, bin)
}

func (s *fallbackStore) DeleteBin(ctx context.Context, id string) error {
	return s.primary.DeleteBin(ctx, id)
}

func (s *fallbackStore) Operators(ctx context.Context) (map[string]models.Operator, error) {
	ops, err := s.primary.Operators(ctx)
	if err != nil {
		return s.fallback.Operators(ctx)
	}
	return ops, nil
}

func (s *fallbackStore) Operator(ctx context.Context, id string) (models.Operator, error) {
	op, err := s.primary.Operator(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s.fallback.Operator(ctx, id)
	}
	return op, err
}

func (s *fallbackStore) PutOperator(ctx context.Context, id string, op models.Operator) error {
	return s.primary.PutOperator(ctx, id, op)
}

func (s *fallbackStore) DeleteOperator(ctx context.Context, id string) error {
	return s.primary.DeleteOperator(ctx, id)
}
