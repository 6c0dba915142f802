package models

import "time"

// Bin fill status, derived from fill percentage.
const (
	StatusNormal  = "Normal"
	StatusWarning = "Warning"
	StatusFull    = "Full"
)

// StatusFromFill derives a bin status from its fill percentage.
// Boundaries are exclusive: exactly 60 is Normal, exactly 80 is Warning.
func StatusFromFill(fillPct float64) string {
	if fillPct > 80 {
		return StatusFull
	}
	if fillPct > 60 {
		return StatusWarning
	}
	return StatusNormal
}

// SensorReading is a single telemetry sample for a bin, either read from the
// hardware feed or synthesized by the generator.
type SensorReading struct {
	WeightKg  float64   `json:"weightKg"`
	FillPct   float64   `json:"fillPct"`
	Status    string    `json:"status,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry is one historical telemetry sample.
type HistoryEntry struct {
	Ts       string  `json:"ts" firestore:"ts"`
	WeightKg float64 `json:"weightKg" firestore:"weightKg"`
	FillPct  float64 `json:"fillPct" firestore:"fillPct"`
}

// Bin is the management record for a bin: configuration, not telemetry.
type Bin struct {
	Name       string         `json:"name" firestore:"name"`
	Location   string         `json:"location" firestore:"location"`
	Capacity   int            `json:"capacity" firestore:"capacity"`
	OperatorID string         `json:"operatorId" firestore:"operatorId"`
	Status     string         `json:"status" firestore:"status"`
	History    []HistoryEntry `json:"history,omitempty" firestore:"history"`
	CreatedAt  time.Time      `json:"createdAt,omitempty" firestore:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt,omitempty" firestore:"updatedAt"`
}

// BinView is the merged object returned by the aggregation endpoints:
// configuration fields overlaid with current (real or synthetic) telemetry.
type BinView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Location    string    `json:"location,omitempty"`
	Capacity    int       `json:"capacity,omitempty"`
	OperatorID  string    `json:"operatorId,omitempty"`
	WeightKg    float64   `json:"weightKg"`
	FillPct     float64   `json:"fillPct"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
	LastFetched time.Time `json:"lastFetched"`
}

// CreateBinRequest is the request body for POST /bins.
type CreateBinRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Capacity   int    `json:"capacity"`
	OperatorID string `json:"operatorId"`
	Status     string `json:"status"`
}

// UpdateBinRequest is the request body for PUT /bins/{id}. Empty fields keep
// their existing values.
type UpdateBinRequest struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Capacity   int    `json:"capacity"`
	OperatorID string `json:"operatorId"`
	Status     string `json:"status"`
}

// Stats summarizes the current aggregate across all bins.
type Stats struct {
	TotalBins        int       `json:"totalBins"`
	NormalBins       int       `json:"normalBins"`
	WarningBins      int       `json:"warningBins"`
	FullBins         int       `json:"fullBins"`
	AverageFillLevel float64   `json:"averageFillLevel"`
	TotalWeight      float64   `json:"totalWeight"`
	LastUpdated      time.Time `json:"lastUpdated"`
}
