package pricing

import (
	"sort"

	"microgrid-valuation/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpreadStats summarises the price range of a curve.
type SpreadStats struct {
	Min     float64
	Max     float64
	Spread  float64
	Mean    float64
	MinHour int
	MaxHour int
}

// Spread returns zero stats for an empty curve.
func Spread(curve []float64) SpreadStats {
	if len(curve) == 0 {
		return SpreadStats{}
	}
	minHour := floats.MinIdx(curve)
	maxHour := floats.MaxIdx(curve)
	return SpreadStats{
		Min:     curve[minHour],
		Max:     curve[maxHour],
		Spread:  curve[maxHour] - curve[minHour],
		Mean:    stat.Mean(curve, nil),
		MinHour: minHour,
		MaxHour: maxHour,
	}
}

// OptimalHours returns the n cheapest and n dearest hours of curve, each in
// ascending hour order. n is capped at len(curve).
func OptimalHours(curve []float64, n int) (charge, discharge []int) {
	if n <= 0 || len(curve) == 0 {
		return nil, nil
	}
	if n > len(curve) {
		n = len(curve)
	}
	idx := make([]int, len(curve))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return curve[idx[a]] < curve[idx[b]] })

	charge = append([]int(nil), idx[:n]...)
	discharge = append([]int(nil), idx[len(idx)-n:]...)
	sort.Ints(charge)
	sort.Ints(discharge)
	return charge, discharge
}

// HourClass tags an hour for the price-driven decision log.
type HourClass string

const (
	HourExtremeHigh  HourClass = "extreme_high"
	HourDeepNegative HourClass = "deep_negative"
	HourNegativeTrap HourClass = "negative_trap"
	HourLow          HourClass = "low"
	HourNeutral      HourClass = "neutral"
)

// ClassifyHour buckets a spot price. Between -fee and 0 the effective buy
// price (price + fee) is still positive, so those hours are a trap rather than
// a charging opportunity.
func ClassifyHour(price, fee float64, th model.Thresholds) HourClass {
	switch {
	case price > th.HighPrice:
		return HourExtremeHigh
	case price < -fee:
		return HourDeepNegative
	case price < 0:
		return HourNegativeTrap
	case price < th.LowPrice:
		return HourLow
	default:
		return HourNeutral
	}
}
