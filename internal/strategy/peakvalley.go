package strategy

import (
	"fmt"
	"math"
)

// FixedPeakValley charges and discharges on a fixed daily schedule, ignoring
// the price signal.
type FixedPeakValley struct {
	Params ScheduleParams

	charge    window
	discharge window
}

func NewFixedPeakValley(p ScheduleParams) (*FixedPeakValley, error) {
	charge, discharge, err := p.windows()
	if err != nil {
		return nil, err
	}
	return &FixedPeakValley{Params: p, charge: charge, discharge: discharge}, nil
}

func (s *FixedPeakValley) Name() string { return "fixed_peak_valley" }

func (s *FixedPeakValley) Decide(ctx Context) Decision {
	cfg := ctx.Config
	switch {
	case s.charge.contains(ctx.Hour):
		if ctx.SOC < cfg.Thresholds.ChargeCeilingSOC {
			return Decision{
				GridChargeKW: cfg.StoragePowerKW,
				Description:  "valley window: fixed charge",
			}
		}
	case s.discharge.contains(ctx.Hour):
		if ctx.SOC > cfg.SOCMin {
			return Decision{
				GridDischargeKW: ctx.Storage.MaxDischargeKW(ctx.SOC, cfg.SOCMin),
				Description:     "peak window: fixed discharge",
			}
		}
	}
	return Decision{Description: "idle"}
}

// AIPeakValley stores PV surplus first and trades against the price
// thresholds in the config.
type AIPeakValley struct{}

func (AIPeakValley) Name() string { return "ai_peak_valley" }

func (AIPeakValley) Decide(ctx Context) Decision {
	cfg := ctx.Config
	th := cfg.Thresholds
	var d Decision

	if ctx.SOC < cfg.SOCMax && ctx.PVKW > ctx.LoadKW {
		d.PVToStorageKW = math.Min(ctx.PVKW-ctx.LoadKW, ctx.Storage.MaxChargeKW(ctx.SOC, cfg.SOCMax))
		d.Description = fmt.Sprintf("pv surplus %.1f kW to storage", d.PVToStorageKW)
	}

	switch {
	case ctx.Price < th.LowPrice:
		if ctx.SOC < th.ChargeCeilingSOC {
			if kw := gridChargeNeed(ctx); kw > 0 {
				d.GridChargeKW = kw
				d.Description = joinDesc(d.Description, fmt.Sprintf("low price (%.2f): charge", ctx.Price))
			} else {
				d.Description = joinDesc(d.Description, fmt.Sprintf("low price (%.2f): no peak left to serve", ctx.Price))
			}
		}
	case ctx.Price > th.HighPrice:
		if ctx.SOC > cfg.SOCMin {
			d.GridDischargeKW = ctx.Storage.MaxDischargeKW(ctx.SOC, cfg.SOCMin)
			d.Description = joinDesc(d.Description, fmt.Sprintf("high price (%.2f): discharge", ctx.Price))
		}
	}
	if d.Description == "" {
		d.Description = "idle"
	}
	return d
}

// gridChargeNeed is the grid charge power, capped at rated power, needed so
// the stored energy above soc_min covers the remaining peak hours at full
// discharge power.
func gridChargeNeed(ctx Context) float64 {
	cfg := ctx.Config
	eta := ctx.Storage.Efficiency()
	deliverable := math.Max(0, ctx.SOC-cfg.SOCMin) * cfg.StorageCapacityKWh * eta
	need := float64(ctx.PeakHoursAhead)*cfg.StoragePowerKW - deliverable
	if need <= 0 {
		return 0
	}
	return math.Min(cfg.StoragePowerKW, need/(eta*eta))
}

func joinDesc(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
