package profile

import (
	"fmt"
	"math"
	"math/rand"

	"microgrid-valuation/internal/model"

	"gonum.org/v1/gonum/floats"
)

const (
	DaysPerYear  = 365
	HoursPerYear = DaysPerYear * 24
)

// Archetype selects the shape of the building load curve.
type Archetype string

const (
	ArchetypeWorkday Archetype = "workday"
	Archetype24h     Archetype = "24h"
	ArchetypeSchool  Archetype = "school"
)

// Archetypes lists the supported load shapes.
func Archetypes() []Archetype {
	return []Archetype{ArchetypeWorkday, Archetype24h, ArchetypeSchool}
}

// Params are the annual targets a Profile is rescaled to.
type Params struct {
	AnnualLoadKWh float64
	PVCapacityKW  float64
	YieldHours    float64
	Archetype     Archetype
}

// Profile holds two aligned 8760-hour series in kWh per hour.
type Profile struct {
	Generation []float64
	Load       []float64
}

// Generator synthesises annual PV and load series.
// Rand drives the multiplicative load noise; nil disables the noise.
type Generator struct {
	Rand *rand.Rand
}

func (g *Generator) Generate(p Params) (*Profile, error) {
	if p.AnnualLoadKWh < 0 || p.PVCapacityKW < 0 || p.YieldHours < 0 {
		return nil, fmt.Errorf("%w: load, capacity and yield hours must be >= 0", model.ErrInvalidConfiguration)
	}
	load, err := g.loadShape(p.Archetype)
	if err != nil {
		return nil, err
	}
	gen := pvShape()

	rescale(gen, p.PVCapacityKW*p.YieldHours)
	rescale(load, p.AnnualLoadKWh)
	return &Profile{Generation: gen, Load: load}, nil
}

// pvShape is a daylight sine between 06:00 and 18:00 scaled by a seasonal
// factor that peaks around day 80. Both endpoints are exactly zero, so only
// hours 07-17 are written.
func pvShape() []float64 {
	out := make([]float64, HoursPerYear)
	for d := 0; d < DaysPerYear; d++ {
		season := 1 + 0.3*math.Sin(2*math.Pi*(float64(d)+11.25)/DaysPerYear)
		for h := 7; h < 18; h++ {
			out[d*24+h] = math.Sin(math.Pi*float64(h-6)/12) * season
		}
	}
	return out
}

func (g *Generator) loadShape(a Archetype) ([]float64, error) {
	out := make([]float64, HoursPerYear)
	switch a {
	case ArchetypeWorkday, "":
		for d := 0; d < DaysPerYear; d++ {
			weekend := d%7 == 6
			for h := 0; h < 24; h++ {
				f := 0.3
				switch {
				case weekend:
					f = 0.2
				case h >= 8 && h < 18:
					f = 1.0
				}
				out[d*24+h] = f * g.noise()
			}
		}
	case Archetype24h:
		for i := range out {
			out[i] = g.noise()
		}
	case ArchetypeSchool:
		for d := 0; d < DaysPerYear; d++ {
			if d%7 >= 5 {
				continue
			}
			f := 1.0
			if (d >= 15 && d <= 45) || (d >= 180 && d <= 240) {
				f = 0.2
			}
			for h := 8; h < 17; h++ {
				out[d*24+h] = f
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown load archetype %q", model.ErrInvalidConfiguration, a)
	}
	return out, nil
}

func (g *Generator) noise() float64 {
	if g == nil || g.Rand == nil {
		return 1
	}
	return 0.8 + 0.4*g.Rand.Float64()
}

// rescale scales s in place so it sums to total. A shape summing to zero
// becomes all zeros.
func rescale(s []float64, total float64) {
	sum := floats.Sum(s)
	if sum <= 0 || total <= 0 {
		for i := range s {
			s[i] = 0
		}
		return
	}
	floats.Scale(total/sum, s)
}
