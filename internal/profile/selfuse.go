package profile

import (
	"fmt"

	"microgrid-valuation/internal/model"

	"gonum.org/v1/gonum/floats"
)

// SelfUse is the split of on-site generation between local use and feed-in.
type SelfUse struct {
	SelfUsed      []float64
	FeedIn        []float64
	SelfUsedKWh   float64
	FeedInKWh     float64
	GenerationKWh float64
	Ratio         float64
}

// AnalyzeSelfUse matches generation against load hour by hour.
func AnalyzeSelfUse(gen, load []float64) (SelfUse, error) {
	if len(gen) != len(load) {
		return SelfUse{}, fmt.Errorf("%w: generation has %d hours, load has %d", model.ErrInvalidCurveLength, len(gen), len(load))
	}
	su := SelfUse{
		SelfUsed: make([]float64, len(gen)),
		FeedIn:   make([]float64, len(gen)),
	}
	for i := range gen {
		su.SelfUsed[i] = min(gen[i], load[i])
		su.FeedIn[i] = gen[i] - su.SelfUsed[i]
	}
	su.SelfUsedKWh = floats.Sum(su.SelfUsed)
	su.FeedInKWh = floats.Sum(su.FeedIn)
	su.GenerationKWh = floats.Sum(gen)
	if su.GenerationKWh > 0 {
		su.Ratio = su.SelfUsedKWh / su.GenerationKWh
	}
	return su, nil
}
