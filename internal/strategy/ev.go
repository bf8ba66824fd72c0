package strategy

import (
	"fmt"
	"math"
)

// EVFixed charges vehicles at nominal power every hour.
type EVFixed struct{}

func (EVFixed) Name() string { return "ev_fixed" }

func (EVFixed) Decide(ctx Context) Decision {
	p := ctx.Config.ChargingPowerKW
	return Decision{EVPowerKW: p, Description: fmt.Sprintf("EV charging %.1f kW", p)}
}

// EVAI modulates charging power on price and PV availability. The first
// matching rule wins:
//   - price below LowPrice: nominal power
//   - PV above EVPVThresholdKW: a share of PV, capped at nominal
//   - price above HighPrice: EVHighPriceShare of nominal
//   - otherwise EVDefaultShare of nominal
type EVAI struct{}

func (EVAI) Name() string { return "ev_ai" }

func (EVAI) Decide(ctx Context) Decision {
	nominal := ctx.Config.ChargingPowerKW
	th := ctx.Config.Thresholds

	var p float64
	var why string
	switch {
	case ctx.Price < th.LowPrice:
		p, why = nominal, "low price"
	case ctx.PVKW > th.EVPVThresholdKW:
		p, why = math.Min(nominal, ctx.PVKW*th.EVPVShare), "pv available"
	case ctx.Price > th.HighPrice:
		p, why = nominal*th.EVHighPriceShare, "high price"
	default:
		p, why = nominal*th.EVDefaultShare, "flat price"
	}
	return Decision{EVPowerKW: p, Description: fmt.Sprintf("EV charging %.1f kW (%s)", p, why)}
}
