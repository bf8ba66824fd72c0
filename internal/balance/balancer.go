package balance

import (
	"fmt"
	"math"

	"microgrid-valuation/internal/model"
)

// Request is the storage setpoint a policy asks for in one hour. All values
// are kW magnitudes; negative values are treated as zero.
type Request struct {
	GridChargeKW    float64
	GridDischargeKW float64
	PVToStorageKW   float64
}

// Load is one named load category for the hour.
type Load struct {
	Name string
	KW   float64
}

// Input is everything the balancer needs to settle one hour.
// Price and GridFee are currency/kWh; every grid import pays Price+GridFee.
type Input struct {
	SOC      float64
	Request  Request
	PVKW     float64
	Loads    []Load
	Price    float64
	GridFee  float64
	Islanded bool
}

// Output captures what happened in one hour. Powers are kW over a one-hour
// step, so they double as kWh.
type Output struct {
	SOCStart float64
	SOC      float64

	PVToStorageKW   float64
	GridToStorageKW float64
	DischargeKW     float64
	PVDirectKW      float64
	GridToLoadKW    float64
	ExportKW        float64
	CurtailedKW     float64
	ShedKW          float64

	TotalLoadKW float64
	Cost        float64

	Flows []model.EnergyFlow
	Nodes map[string]model.NodeState
}

func (o Output) ChargeKW() float64 { return o.PVToStorageKW + o.GridToStorageKW }

// StoragePowerKW follows the storage node convention: discharge - charge.
func (o Output) StoragePowerKW() float64 { return o.DischargeKW - o.ChargeKW() }

// GridPowerKW follows the grid node convention: export - import.
func (o Output) GridPowerKW() float64 {
	return o.ExportKW - o.GridToLoadKW - o.GridToStorageKW
}

// ServedKW is the load actually supplied (total minus shed).
func (o Output) ServedKW() float64 { return o.TotalLoadKW - o.ShedKW }

// Balancer settles one hour of energy flows and advances SOC.
//
// Efficiency convention: RoundTripEfficiency is split evenly, so each direction
// uses eta = sqrt(RoundTripEfficiency). Charging stores energy*eta, discharging
// withdraws energy/eta.
type Balancer struct {
	CapacityKWh         float64
	PowerKW             float64
	RoundTripEfficiency float64
}

func New(capacityKWh, powerKW, roundTrip float64) (*Balancer, error) {
	b := &Balancer{
		CapacityKWh:         capacityKWh,
		PowerKW:             powerKW,
		RoundTripEfficiency: roundTrip,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromConfig builds the balancer for a microgrid's storage.
func FromConfig(cfg *model.MicrogridConfig) (*Balancer, error) {
	return New(cfg.StorageCapacityKWh, cfg.StoragePowerKW, cfg.RoundTripEfficiency)
}

func (b *Balancer) Validate() error {
	if !model.Finite(b.CapacityKWh, b.PowerKW, b.RoundTripEfficiency) {
		return fmt.Errorf("%w: storage parameters must be finite", model.ErrInvalidConfiguration)
	}
	if b.CapacityKWh < 0 {
		return fmt.Errorf("%w: storage capacity must be >= 0", model.ErrInvalidConfiguration)
	}
	if b.PowerKW < 0 {
		return fmt.Errorf("%w: storage power must be >= 0", model.ErrInvalidConfiguration)
	}
	if b.RoundTripEfficiency <= 0 || b.RoundTripEfficiency > 1 {
		return fmt.Errorf("%w: round-trip efficiency must be in (0, 1]", model.ErrInvalidConfiguration)
	}
	return nil
}

// Efficiency returns the per-direction efficiency.
func (b *Balancer) Efficiency() float64 {
	return math.Sqrt(b.RoundTripEfficiency)
}

// MaxDischargeKW is the power deliverable in one hour before SOC reaches floor.
func (b *Balancer) MaxDischargeKW(soc, floor float64) float64 {
	withdrawable := (soc - floor) * b.CapacityKWh
	if withdrawable <= 0 {
		return 0
	}
	return math.Min(withdrawable*b.Efficiency(), b.PowerKW)
}

// MaxChargeKW is the input power accepted in one hour before SOC reaches ceiling.
func (b *Balancer) MaxChargeKW(soc, ceiling float64) float64 {
	storable := (ceiling - soc) * b.CapacityKWh
	if storable <= 0 {
		return 0
	}
	return math.Min(storable/b.Efficiency(), b.PowerKW)
}

// Step settles one hour:
//   - PV->storage is limited by available PV and rated power
//   - grid->storage uses whatever rated power is left, never when islanded
//   - total charge is limited by the headroom to SOC 1, grid charge cut first
//   - PV serves the load directly, storage discharge covers the residual
//   - the rest comes from the grid, or is shed when islanded
//   - unused PV is exported, or curtailed when islanded
func (b *Balancer) Step(in Input) Output {
	eta := b.Efficiency()
	soc := clamp01(in.SOC)
	req := Request{
		GridChargeKW:    math.Max(0, in.Request.GridChargeKW),
		GridDischargeKW: math.Max(0, in.Request.GridDischargeKW),
		PVToStorageKW:   math.Max(0, in.Request.PVToStorageKW),
	}

	out := Output{SOCStart: soc}
	for _, l := range in.Loads {
		out.TotalLoadKW += math.Max(0, l.KW)
	}
	pv := math.Max(0, in.PVKW)
	hasStorage := b.CapacityKWh > 0 && b.PowerKW > 0

	if hasStorage {
		out.PVToStorageKW = min(req.PVToStorageKW, pv, b.PowerKW)
		if !in.Islanded {
			out.GridToStorageKW = min(req.GridChargeKW, b.PowerKW-out.PVToStorageKW)
		}
		headroom := (1 - soc) * b.CapacityKWh / eta
		if excess := out.ChargeKW() - headroom; excess > 0 {
			cut := math.Min(excess, out.GridToStorageKW)
			out.GridToStorageKW -= cut
			out.PVToStorageKW = math.Max(0, out.PVToStorageKW-(excess-cut))
		}
	}

	out.PVDirectKW = math.Min(pv-out.PVToStorageKW, out.TotalLoadKW)
	residual := out.TotalLoadKW - out.PVDirectKW

	if hasStorage {
		out.DischargeKW = min(req.GridDischargeKW, b.PowerKW, soc*b.CapacityKWh*eta, residual)
	}
	residual = math.Max(0, residual-out.DischargeKW)

	surplus := math.Max(0, pv-out.PVToStorageKW-out.PVDirectKW)
	if in.Islanded {
		out.ShedKW = residual
		out.CurtailedKW = surplus
	} else {
		out.GridToLoadKW = residual
		out.ExportKW = surplus
	}

	unit := in.Price + in.GridFee
	out.Cost = (out.GridToStorageKW + out.GridToLoadKW) * unit

	switch {
	case b.CapacityKWh <= 0:
		out.SOC = 0
	default:
		net := out.ChargeKW()*eta - out.DischargeKW/eta
		out.SOC = clamp01(soc + net/b.CapacityKWh)
	}

	out.Flows = out.flows(unit)
	out.Nodes = out.nodes(pv, in.Loads, !in.Islanded)
	return out
}

func (o *Output) flows(unit float64) []model.EnergyFlow {
	flows := make([]model.EnergyFlow, 0, 6)
	add := func(from, to string, kw, cost float64) {
		if kw > 0 {
			flows = append(flows, model.EnergyFlow{From: from, To: to, PowerKW: kw, Cost: cost})
		}
	}
	add(model.NodeGrid, model.NodeStorage, o.GridToStorageKW, o.GridToStorageKW*unit)
	add(model.NodePV, model.NodeStorage, o.PVToStorageKW, 0)
	add(model.NodePV, model.NodeLoad, o.PVDirectKW, 0)
	add(model.NodeStorage, model.NodeLoad, o.DischargeKW, 0)
	add(model.NodeGrid, model.NodeLoad, o.GridToLoadKW, o.GridToLoadKW*unit)
	add(model.NodePV, model.NodeGrid, o.ExportKW, 0)
	return flows
}

func (o *Output) nodes(pv float64, loads []Load, gridConnected bool) map[string]model.NodeState {
	nodes := make(map[string]model.NodeState, len(loads)+4)
	nodes[model.NodePV] = model.NewNodeState(model.NodePV, pv)

	storage := model.NewNodeState(model.NodeStorage, o.StoragePowerKW())
	soc := o.SOC
	storage.SOC = &soc
	nodes[model.NodeStorage] = storage

	if gridConnected {
		nodes[model.NodeGrid] = model.NewNodeState(model.NodeGrid, o.GridPowerKW())
	}
	nodes[model.NodeLoad] = model.NewNodeState(model.NodeLoad, o.TotalLoadKW)
	for _, l := range loads {
		nodes[l.Name] = model.NewNodeState(l.Name, math.Max(0, l.KW))
	}
	return nodes
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
