package pricing

import (
	"fmt"
	"math"

	"microgrid-valuation/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Fixed-schedule windows used by the arbitrage estimator, [start, end).
const (
	FixedChargeStart    = 0
	FixedChargeEnd      = 4
	FixedDischargeStart = 14
	FixedDischargeEnd   = 18
)

// ArbitrageParams describes a storage system for a one-day arbitrage
// estimate. Efficiency is round-trip and applied to discharged energy.
type ArbitrageParams struct {
	CapacityKWh   float64
	PowerKW       float64
	Efficiency    float64
	GridFee       float64
	CyclesPerDay  float64 // default 2
	OperatingDays float64 // default 330
	AI            bool
}

// ArbitrageEstimate is the closed-form result of one estimate.
type ArbitrageEstimate struct {
	ChargePrice    float64
	DischargePrice float64
	ChargeHours    []int
	DischargeHours []int
	CycleProfit    float64
	DailyProfit    float64
	AnnualProfit   float64
}

// EstimateArbitrage values a buy-low/sell-high cycle on a 24-hour curve.
// Without AI the charge and discharge windows are fixed; with AI the cheapest
// and dearest hours are picked, as many as a full charge at rated power takes.
func EstimateArbitrage(curve []float64, p ArbitrageParams) (ArbitrageEstimate, error) {
	if len(curve) != HoursPerDay {
		return ArbitrageEstimate{}, fmt.Errorf("%w: got %d prices, want %d", model.ErrInvalidCurveLength, len(curve), HoursPerDay)
	}
	if !model.Finite(p.CapacityKWh, p.PowerKW, p.Efficiency, p.GridFee, p.CyclesPerDay, p.OperatingDays) {
		return ArbitrageEstimate{}, fmt.Errorf("%w: storage parameters must be finite", model.ErrInvalidConfiguration)
	}
	if err := checkPrices(curve); err != nil {
		return ArbitrageEstimate{}, err
	}
	if p.CapacityKWh < 0 || p.PowerKW < 0 || p.GridFee < 0 {
		return ArbitrageEstimate{}, fmt.Errorf("%w: capacity, power and grid fee must be >= 0", model.ErrInvalidConfiguration)
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return ArbitrageEstimate{}, fmt.Errorf("%w: efficiency must be in (0, 1]", model.ErrInvalidConfiguration)
	}
	if p.CyclesPerDay == 0 {
		p.CyclesPerDay = 2
	}
	if p.OperatingDays == 0 {
		p.OperatingDays = 330
	}

	var est ArbitrageEstimate
	if p.AI {
		hours := 1
		if p.PowerKW > 0 {
			hours = int(math.Ceil(p.CapacityKWh / p.PowerKW))
		}
		hours = max(1, min(hours, HoursPerDay/2))
		est.ChargeHours, est.DischargeHours = OptimalHours(curve, hours)
	} else {
		est.ChargeHours = hourRange(FixedChargeStart, FixedChargeEnd)
		est.DischargeHours = hourRange(FixedDischargeStart, FixedDischargeEnd)
	}
	est.ChargePrice = meanAt(curve, est.ChargeHours)
	est.DischargePrice = meanAt(curve, est.DischargeHours)

	est.CycleProfit = p.CapacityKWh*p.Efficiency*est.DischargePrice - p.CapacityKWh*(est.ChargePrice+p.GridFee)
	est.DailyProfit = est.CycleProfit * p.CyclesPerDay
	est.AnnualProfit = est.DailyProfit * p.OperatingDays
	return est, nil
}

func hourRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for h := start; h < end; h++ {
		out = append(out, h)
	}
	return out
}

func meanAt(curve []float64, hours []int) float64 {
	if len(hours) == 0 {
		return 0
	}
	vals := make([]float64, len(hours))
	for i, h := range hours {
		vals[i] = curve[h]
	}
	return stat.Mean(vals, nil)
}
