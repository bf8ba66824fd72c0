package strategy

import (
	"microgrid-valuation/internal/balance"
	"microgrid-valuation/internal/model"
)

// Context is what a policy sees for one hour. LoadKW is the load the policy
// must serve: the critical share in island mode, everything but EV charging
// in the EV scenario. PeakHoursAhead counts the later hours of the run priced
// above the high threshold.
type Context struct {
	Hour           int
	SOC            float64
	Price          float64
	PVKW           float64
	LoadKW         float64
	PeakHoursAhead int
	Config         *model.MicrogridConfig
	Storage        *balance.Balancer
}

// Decision is a policy's output for one hour. Powers are kW magnitudes.
type Decision struct {
	GridChargeKW    float64
	GridDischargeKW float64
	PVToStorageKW   float64

	// EVPowerKW replaces the nominal charging load when set by an EV policy.
	EVPowerKW float64
	Islanded  bool

	Description string
}

// Request converts the storage part of a decision for the balancer.
func (d Decision) Request() balance.Request {
	return balance.Request{
		GridChargeKW:    d.GridChargeKW,
		GridDischargeKW: d.GridDischargeKW,
		PVToStorageKW:   d.PVToStorageKW,
	}
}

// Policy decides one hour at a time. Implementations hold no state between
// hours; SOC arrives through Context.
type Policy interface {
	Name() string
	Decide(ctx Context) Decision
}
