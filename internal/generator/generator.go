package generator

import (
	"math"
	"math/rand"
	"time"

	"smartbin-backend/internal/models"
)

// Rand is the random source consumed by the generator. Tests inject a
// deterministic implementation.
type Rand interface {
	Float64() float64
}

// DefaultWeightFactors maps each synthetic bin to the multiplier applied to
// the authoritative hardware reading.
var DefaultWeightFactors = map[string]float64{
	"bin2": 0.3,
	"bin3": 0.5,
	"bin4": 0.7,
	"bin5": 0.4,
	"bin6": 0.6,
}

const defaultFactor = 0.5

// Generator derives plausible synthetic readings for virtual bins from the
// authoritative sensor reading. It is pure: no state beyond the injected
// random source and clock.
type Generator struct {
	factors map[string]float64
	rand    Rand
	now     func() time.Time
}

// New creates a Generator with the default weight factor table and a seeded
// math/rand source.
func New() *Generator {
	return NewWith(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWith creates a Generator with an injected random source and clock.
func NewWith(r Rand, now func() time.Time) *Generator {
	return &Generator{
		factors: DefaultWeightFactors,
		rand:    r,
		now:     now,
	}
}

// Generate produces a synthetic reading for binID.
//
// With no usable hardware reading it falls back to a loose uniform draw:
// weight in [5,25) kg, fill in [10,90) %, status Normal. Otherwise the real
// weight and fill are scaled by the bin's weight factor, floored, perturbed
// by a single uniform draw in [-10%,+10%], clamped, and the status derived
// from the clamped fill.
func (g *Generator) Generate(real *models.SensorReading, binID string) models.SensorReading {
	if real == nil || real.WeightKg <= 0 {
		return models.SensorReading{
			WeightKg:  math.Floor(g.rand.Float64()*20) + 5,
			FillPct:   math.Floor(g.rand.Float64()*80) + 10,
			Status:    models.StatusNormal,
			UpdatedAt: g.now(),
		}
	}

	factor, ok := g.factors[binID]
	if !ok {
		factor = defaultFactor
	}

	weight := math.Floor(real.WeightKg * factor)
	fill := math.Floor(real.FillPct * factor)

	// Same perturbation applied to both values, matching how the hardware
	// feed drifts as a whole.
	variation := (g.rand.Float64() - 0.5) * 0.2
	weight = math.Max(0, math.Floor(weight*(1+variation)))
	fill = math.Max(0, math.Min(100, math.Floor(fill*(1+variation))))

	return models.SensorReading{
		WeightKg:  weight,
		FillPct:   fill,
		Status:    models.StatusFromFill(fill),
		UpdatedAt: g.now(),
	}
}
