package models

import "microgrid-valuation/internal/config"

// SimulationRequest is the body of POST /api/v1/simulation/run.
type SimulationRequest struct {
	// Preset names a file in the preset directory whose sections are
	// overlaid by Config, Finance and Pricing.
	Preset           string                 `json:"preset,omitempty"`
	Config           config.MicrogridConfig `json:"config"`
	Finance          config.FinanceConfig   `json:"finance"`
	Pricing          config.PricingConfig   `json:"pricing"`
	Scenario         string                 `json:"scenario" binding:"required"`
	Weather          string                 `json:"weather,omitempty"`                        // default: sunny
	Hours            int                    `json:"hours,omitempty" binding:"gte=0,lte=8760"` // 0 = config hours
	IncludeSnapshots bool                   `json:"include_snapshots,omitempty"`
}

// CompareRequest is the body of POST /api/v1/simulation/compare.
type CompareRequest struct {
	Preset  string                 `json:"preset,omitempty"`
	Config  config.MicrogridConfig `json:"config"`
	Pricing config.PricingConfig   `json:"pricing"`
	Weather string                 `json:"weather,omitempty"`
	Hours   int                    `json:"hours,omitempty" binding:"gte=0,lte=8760"`
}

// CurveRequest is the body of POST /api/v1/pricing/curve.
type CurveRequest struct {
	config.PricingConfig
	// OptimalHours is how many cheapest/dearest hours to report. Default 4.
	OptimalHours int     `json:"optimal_hours,omitempty"`
	GridFee      float64 `json:"grid_fee,omitempty"`
}

// ArbitrageRequest is the body of POST /api/v1/pricing/arbitrage.
type ArbitrageRequest struct {
	Pricing       config.PricingConfig `json:"pricing"`
	CapacityKWh   float64              `json:"capacity_kwh" binding:"gte=0"`
	PowerKW       float64              `json:"power_kw" binding:"gte=0"`
	Efficiency    float64              `json:"efficiency,omitempty"` // default 0.9025
	GridFee       float64              `json:"grid_fee,omitempty"`
	CyclesPerDay  float64              `json:"cycles_per_day,omitempty"`
	OperatingDays float64              `json:"operating_days,omitempty"`
	AIEnabled     bool                 `json:"ai_enabled,omitempty"`
}

// ProfileRequest is the body of POST /api/v1/profile.
type ProfileRequest struct {
	AnnualLoadKWh float64 `json:"annual_load_kwh" binding:"gte=0"`
	PVCapacityKW  float64 `json:"pv_capacity_kw" binding:"gte=0"`
	YieldHours    float64 `json:"yield_hours" binding:"gte=0"`
	Archetype     string  `json:"archetype,omitempty"` // default: workday
	Seed          int64   `json:"seed,omitempty"`      // 0 = no noise
}
