package model

import (
	"fmt"
	"maps"
)

// Thresholds holds the tunable decision constants used by the AI policies.
// Prices are in currency/kWh, SOC values are fractions [0,1].
type Thresholds struct {
	// LowPrice is the price under which storage and EV charging run at full power.
	LowPrice float64
	// HighPrice is the price above which storage discharges and EV charging is throttled.
	HighPrice float64
	// ChargeCeilingSOC stops grid charging once SOC reaches it.
	ChargeCeilingSOC float64

	EVPVThresholdKW  float64
	EVPVShare        float64
	EVHighPriceShare float64
	EVDefaultShare   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LowPrice:         0.4,
		HighPrice:        1.0,
		ChargeCeilingSOC: 0.9,
		EVPVThresholdKW:  100,
		EVPVShare:        0.5,
		EVHighPriceShare: 0.3,
		EVDefaultShare:   0.6,
	}
}

// MicrogridConfig is the static configuration of one simulation run.
// Units:
// - capacities and powers: kW / kWh
// - RoundTripEfficiency: (0,1]
// - SOC bounds and CriticalLoadRatio: fractions [0,1]
// - GridFee: currency/kWh added on every grid import
type MicrogridConfig struct {
	PVCapacityKW        float64
	StorageCapacityKWh  float64
	StoragePowerKW      float64
	RoundTripEfficiency float64
	ChargingPowerKW     float64

	ACCapacityKW     float64
	LightingPowerKW  float64
	ProductionLoadKW float64

	Hours     int
	AIEnabled bool

	WeatherFactors    map[Weather]float64
	CriticalLoadRatio float64

	SOCMin float64
	SOCMax float64

	GridFee    float64
	Thresholds Thresholds
}

func DefaultMicrogridConfig() MicrogridConfig {
	return MicrogridConfig{
		PVCapacityKW:        1000,
		StorageCapacityKWh:  500,
		StoragePowerKW:      200,
		RoundTripEfficiency: 0.9025,
		ChargingPowerKW:     70,
		ACCapacityKW:        300,
		LightingPowerKW:     50,
		ProductionLoadKW:    500,
		Hours:               24,
		AIEnabled:           true,
		WeatherFactors: map[Weather]float64{
			WeatherSunny:  1.0,
			WeatherCloudy: 0.6,
			WeatherRainy:  0.3,
		},
		CriticalLoadRatio: 0.7,
		SOCMin:            0.2,
		SOCMax:            0.95,
		Thresholds:        DefaultThresholds(),
	}
}

// Clone returns a deep copy so a run can never observe another run's edits.
func (c *MicrogridConfig) Clone() *MicrogridConfig {
	out := *c
	out.WeatherFactors = maps.Clone(c.WeatherFactors)
	return &out
}

// WeatherFactor returns the PV multiplier for w. Conditions missing from the
// map fall back to 1.
func (c *MicrogridConfig) WeatherFactor(w Weather) float64 {
	if f, ok := c.WeatherFactors[w]; ok {
		return f
	}
	return 1
}

type namedValue struct {
	name string
	v    float64
}

func (c *MicrogridConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	nonNeg := []namedValue{
		{"pv_capacity_kw", c.PVCapacityKW},
		{"storage_capacity_kwh", c.StorageCapacityKWh},
		{"storage_power_kw", c.StoragePowerKW},
		{"charging_power_kw", c.ChargingPowerKW},
		{"ac_capacity_kw", c.ACCapacityKW},
		{"lighting_power_kw", c.LightingPowerKW},
		{"production_load_kw", c.ProductionLoadKW},
		{"grid_fee", c.GridFee},
	}
	t := c.Thresholds
	finite := append(nonNeg[:len(nonNeg):len(nonNeg)], []namedValue{
		{"round_trip_efficiency", c.RoundTripEfficiency},
		{"soc_min", c.SOCMin},
		{"soc_max", c.SOCMax},
		{"critical_load_ratio", c.CriticalLoadRatio},
		{"low_price", t.LowPrice},
		{"high_price", t.HighPrice},
		{"charge_ceiling_soc", t.ChargeCeilingSOC},
		{"ev_pv_threshold_kw", t.EVPVThresholdKW},
		{"ev_pv_share", t.EVPVShare},
		{"ev_high_price_share", t.EVHighPriceShare},
		{"ev_default_share", t.EVDefaultShare},
	}...)
	for _, f := range finite {
		if !Finite(f.v) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfiguration, f.name)
		}
	}
	for w, f := range c.WeatherFactors {
		if !Finite(f) {
			return fmt.Errorf("%w: weather factor for %s must be finite", ErrInvalidConfiguration, w)
		}
	}
	for _, f := range nonNeg {
		if f.v < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidConfiguration, f.name)
		}
	}
	if c.RoundTripEfficiency <= 0 || c.RoundTripEfficiency > 1 {
		return fmt.Errorf("%w: round_trip_efficiency must be in (0, 1]", ErrInvalidConfiguration)
	}
	if c.Hours <= 0 {
		return fmt.Errorf("%w: hours must be > 0", ErrInvalidConfiguration)
	}
	if c.SOCMin < 0 || c.SOCMin > 1 || c.SOCMax < 0 || c.SOCMax > 1 || c.SOCMin > c.SOCMax {
		return fmt.Errorf("%w: soc_min/soc_max must satisfy 0<=soc_min<=soc_max<=1", ErrInvalidConfiguration)
	}
	if c.CriticalLoadRatio < 0 || c.CriticalLoadRatio > 1 {
		return fmt.Errorf("%w: critical_load_ratio must be in [0, 1]", ErrInvalidConfiguration)
	}
	for w, f := range c.WeatherFactors {
		if f < 0 {
			return fmt.Errorf("%w: weather factor for %s must be >= 0", ErrInvalidConfiguration, w)
		}
	}
	if t.LowPrice <= 0 || t.HighPrice <= 0 || t.ChargeCeilingSOC <= 0 || t.ChargeCeilingSOC > 1 {
		return fmt.Errorf("%w: price thresholds and charge ceiling must be > 0", ErrInvalidConfiguration)
	}
	if t.EVPVThresholdKW <= 0 || t.EVPVShare <= 0 || t.EVHighPriceShare <= 0 || t.EVDefaultShare <= 0 {
		return fmt.Errorf("%w: ev thresholds must be > 0", ErrInvalidConfiguration)
	}
	return nil
}
