package strategy

import (
	"fmt"
	"math"
)

// Island runs the site off-grid: PV above the critical load is stored, any
// deficit is drawn from storage down to empty. Whatever storage cannot cover
// is shed by the balancer.
type Island struct{}

func (Island) Name() string { return "island" }

func (Island) Decide(ctx Context) Decision {
	d := Decision{Islanded: true}
	net := ctx.PVKW - ctx.LoadKW
	switch {
	case net > 0:
		d.PVToStorageKW = math.Min(net, ctx.Storage.MaxChargeKW(ctx.SOC, 1))
		d.Description = fmt.Sprintf("island: storing %.1f kW surplus", d.PVToStorageKW)
	case net < 0:
		d.GridDischargeKW = math.Min(-net, ctx.Config.StoragePowerKW)
		d.Description = fmt.Sprintf("island: covering %.1f kW deficit", -net)
	default:
		d.Description = "island: balanced"
	}
	return d
}
