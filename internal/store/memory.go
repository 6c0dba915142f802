package store

import (
	"context"
	"sync"
	"time"

	"smartbin-backend/internal/models"
)

// MemoryStore is a concurrency-safe in-memory Store. It backs demo mode when
// Firebase is not configured and serves as the fallback dataset when the
// external store is unreachable.
type MemoryStore struct {
	mu        sync.RWMutex
	reading   *models.SensorReading
	bins      map[string]models.Bin
	operators map[string]models.Operator
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bins:      make(map[string]models.Bin),
		operators: make(map[string]models.Operator),
	}
}

// NewDemoStore creates a MemoryStore seeded with the built-in demo bins and
// operators. The demo dataset has no authoritative sensor feed.
func NewDemoStore() *MemoryStore {
	s := NewMemoryStore()
	now := time.Now()

	s.bins["bin2"] = models.Bin{
		Name:       "Main Street Bin",
		Location:   "Main Street, Downtown",
		Capacity:   50,
		OperatorID: "op1",
		Status:     models.StatusFull,
		History: []models.HistoryEntry{
			{Ts: "2025-09-20 10:00", WeightKg: 10, FillPct: 70},
			{Ts: "2025-09-20 11:00", WeightKg: 12, FillPct: 85},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.bins["bin3"] = models.Bin{
		Name:       "Park Avenue Bin",
		Location:   "Park Avenue, Central Park",
		Capacity:   40,
		OperatorID: "op2",
		Status:     models.StatusNormal,
		History: []models.HistoryEntry{
			{Ts: "2025-09-20 10:00", WeightKg: 6, FillPct: 45},
			{Ts: "2025-09-20 11:00", WeightKg: 7, FillPct: 50},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.operators["op1"] = models.Operator{
		Name:         "John Smith",
		Email:        "john.smith@smartbins.com",
		Phone:        "+1-555-0123",
		AssignedBins: []string{"bin2"},
		CreatedAt:    now,
	}
	s.operators["op2"] = models.Operator{
		Name:         "Sarah Johnson",
		Email:        "sarah.johnson@smartbins.com",
		Phone:        "+1-555-0124",
		AssignedBins: []string{"bin3"},
		CreatedAt:    now,
	}
	return s
}

// SetSensorReading seeds the authoritative feed, used by tests.
func (s *MemoryStore) SetSensorReading(r *models.SensorReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = r
}

func (s *MemoryStore) SensorReading(ctx context.Context) (*models.SensorReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.reading == nil {
		return nil, nil
	}
	r := *s.reading
	return &r, nil
}

func (s *MemoryStore) SensorHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	return []models.HistoryEntry{}, nil
}

func (s *MemoryStore) Bins(ctx context.Context) (map[string]models.Bin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bins := make(map[string]models.Bin, len(s.bins))
	for id, b := range s.bins {
		bins[id] = b
	}
	return bins, nil
}

func (s *MemoryStore) Bin(ctx context.Context, id string) (models.Bin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bin, ok := s.bins[id]
	if !ok {
		return models.Bin{}, ErrNotFound
	}
	return bin, nil
}

func (s *MemoryStore) PutBin(ctx context.Context, id string, bin models.Bin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bins[id] = bin
	return nil
}

func (s *MemoryStore) DeleteBin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bins[id]; !ok {
		return ErrNotFound
	}
	delete(s.bins, id)
	return nil
}

func (s *MemoryStore) Operators(ctx context.Context) (map[string]models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ops := make(map[string]models.Operator, len(s.operators))
	for id, op := range s.operators {
		ops[id] = op
	}
	return ops, nil
}

func (s *MemoryStore) Operator(ctx context.Context, id string) (models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operators[id]
	if !ok {
		return models.Operator{}, ErrNotFound
	}
	return op, nil
}

func (s *MemoryStore) PutOperator(ctx context.Context, id string, op models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[id] = op
	return nil
}

func (s *MemoryStore) DeleteOperator(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[id]; !ok {
		return ErrNotFound
	}
	delete(s.operators, id)
	return nil
}
