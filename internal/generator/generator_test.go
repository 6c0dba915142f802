package generator

import (
	"math/rand"
	"testing"
	"time"

	"smartbin-backend/internal/models"
)

// fixedRand always returns the same value; 0.5 yields zero perturbation.
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func testClock() time.Time {
	return time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
}

func TestGenerateAppliesWeightFactor(t *testing.T) {
	gen := NewWith(fixedRand{0.5}, testClock)
	real := &models.SensorReading{WeightKg: 100, FillPct: 100}

	got := gen.Generate(real, "bin2") // factor 0.3

	if got.WeightKg != 30 {
		t.Errorf("weight = %v, want 30", got.WeightKg)
	}
	if got.FillPct != 30 {
		t.Errorf("fill = %v, want 30", got.FillPct)
	}
	if got.Status != models.StatusNormal {
		t.Errorf("status = %s, want %s", got.Status, models.StatusNormal)
	}
	if !got.UpdatedAt.Equal(testClock()) {
		t.Errorf("updatedAt = %v, want %v", got.UpdatedAt, testClock())
	}
}

func TestGenerateUnknownBinUsesDefaultFactor(t *testing.T) {
	gen := NewWith(fixedRand{0.5}, testClock)
	real := &models.SensorReading{WeightKg: 100, FillPct: 100}

	got := gen.Generate(real, "binX")

	if got.WeightKg != 50 || got.FillPct != 50 {
		t.Errorf("got %v/%v, want 50/50 from default factor", got.WeightKg, got.FillPct)
	}
}

func TestGenerateDerivesStatusFromPerturbedFill(t *testing.T) {
	// Max positive perturbation pushes bin4 (factor 0.7) from 70 to 76:
	// floor(70 * 1.1) = 77 minus float wiggle lands above the Warning line.
	gen := NewWith(fixedRand{0.999}, testClock)
	real := &models.SensorReading{WeightKg: 100, FillPct: 100}

	got := gen.Generate(real, "bin4")

	if got.FillPct <= 60 {
		t.Fatalf("fill = %v, expected above warning threshold", got.FillPct)
	}
	if got.Status != models.StatusFromFill(got.FillPct) {
		t.Errorf("status %s inconsistent with fill %v", got.Status, got.FillPct)
	}
}

func TestGenerateClampsFill(t *testing.T) {
	gen := NewWith(fixedRand{0.999}, testClock)
	real := &models.SensorReading{WeightKg: 500, FillPct: 200}

	got := gen.Generate(real, "bin3")

	if got.FillPct > 100 {
		t.Errorf("fill = %v, want clamped to 100", got.FillPct)
	}
	if got.WeightKg < 0 {
		t.Errorf("weight = %v, want non-negative", got.WeightKg)
	}
}

func TestGenerateFallbackBounds(t *testing.T) {
	gen := NewWith(rand.New(rand.NewSource(1)), testClock)

	for i := 0; i < 1000; i++ {
		got := gen.Generate(nil, "bin2")
		if got.WeightKg < 5 || got.WeightKg >= 25 {
			t.Fatalf("trial %d: weight %v out of [5,25)", i, got.WeightKg)
		}
		if got.FillPct < 10 || got.FillPct >= 90 {
			t.Fatalf("trial %d: fill %v out of [10,90)", i, got.FillPct)
		}
		if got.Status != models.StatusNormal {
			t.Fatalf("trial %d: status %s, want Normal", i, got.Status)
		}
	}
}

func TestGenerateMissingWeightFallsBack(t *testing.T) {
	gen := NewWith(fixedRand{0.5}, testClock)

	// A reading with no weight is treated the same as no reading at all.
	got := gen.Generate(&models.SensorReading{FillPct: 90}, "bin2")

	if got.Status != models.StatusNormal {
		t.Errorf("status = %s, want Normal fallback", got.Status)
	}
	if got.WeightKg < 5 || got.WeightKg >= 25 {
		t.Errorf("weight = %v, want fallback range [5,25)", got.WeightKg)
	}
}
