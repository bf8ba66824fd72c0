// Package finance turns simulated hours into annual cash flows, investment
// returns and avoided emissions.
package finance

import (
	"fmt"
	"math"

	"microgrid-valuation/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Params are the cost and market assumptions of an evaluation.
type Params struct {
	PVCostPerW        float64 // currency per W installed
	StorageCostPerKWh float64
	ChargingCostPerKW float64
	PlatformCost      float64

	MaintenanceRate float64 // share of investment per year
	BaselinePrice   float64 // currency/kWh paid without the retrofit
	OperatingDays   int
	LifespanYears   int

	// EmissionFactor is tCO2 per MWh of grid electricity.
	EmissionFactor float64
	// AnnualDegradation linearly reduces net cash flow each year after the first.
	AnnualDegradation float64
}

func DefaultParams() Params {
	return Params{
		PVCostPerW:        3.0,
		StorageCostPerKWh: 1300,
		ChargingCostPerKW: 3000,
		PlatformCost:      200000,
		MaintenanceRate:   0.02,
		BaselinePrice:     0.8,
		OperatingDays:     330,
		LifespanYears:     10,
		EmissionFactor:    0.5703,
	}
}

func (p Params) Validate() error {
	switch {
	case !model.Finite(p.PVCostPerW, p.StorageCostPerKWh, p.ChargingCostPerKW, p.PlatformCost,
		p.MaintenanceRate, p.BaselinePrice, p.EmissionFactor, p.AnnualDegradation):
		return fmt.Errorf("%w: finance parameters must be finite", model.ErrInvalidConfiguration)
	case p.PVCostPerW < 0 || p.StorageCostPerKWh < 0 || p.ChargingCostPerKW < 0 || p.PlatformCost < 0:
		return fmt.Errorf("%w: unit costs must be >= 0", model.ErrInvalidConfiguration)
	case p.MaintenanceRate < 0 || p.BaselinePrice < 0 || p.EmissionFactor < 0:
		return fmt.Errorf("%w: rates and prices must be >= 0", model.ErrInvalidConfiguration)
	case p.OperatingDays <= 0 || p.OperatingDays > 366:
		return fmt.Errorf("%w: operating_days must be in [1, 366]", model.ErrInvalidConfiguration)
	case p.LifespanYears <= 0:
		return fmt.Errorf("%w: lifespan_years must be > 0", model.ErrInvalidConfiguration)
	case p.AnnualDegradation < 0 || p.AnnualDegradation >= 1:
		return fmt.Errorf("%w: annual_degradation must be in [0, 1)", model.ErrInvalidConfiguration)
	}
	return nil
}

// Result is the financial and carbon summary of one run.
type Result struct {
	AnnualCost        float64 `json:"annual_cost"`
	BaselineCost      float64 `json:"baseline_cost"`
	AnnualRevenue     float64 `json:"annual_revenue"`
	Investment        float64 `json:"investment"`
	AnnualMaintenance float64 `json:"annual_maintenance"`
	NetCashFlow       float64 `json:"net_cash_flow"`

	// PaybackYears is nil when the project never pays back.
	PaybackYears *float64 `json:"payback_years"`
	ROIPercent   float64  `json:"roi_percent"`
	IRRPercent   float64  `json:"irr_percent"`

	AnnualPVGenerationKWh float64 `json:"annual_pv_generation_kwh"`
	CarbonReductionTons   float64 `json:"carbon_reduction_tons"`
}

// Investment is the up-front cost of the installed equipment plus the platform.
func Investment(cfg *model.MicrogridConfig, p Params) float64 {
	return cfg.PVCapacityKW*1000*p.PVCostPerW +
		cfg.StorageCapacityKWh*p.StorageCostPerKWh +
		cfg.ChargingPowerKW*p.ChargingCostPerKW +
		p.PlatformCost
}

// Aggregate annualizes the simulated hours and evaluates the investment.
func Aggregate(snaps []model.HourlySnapshot, cfg *model.MicrogridConfig, p Params) Result {
	r := Result{Investment: Investment(cfg, p)}
	r.AnnualMaintenance = r.Investment * p.MaintenanceRate

	if n := len(snaps); n > 0 {
		days := float64(n) / 24
		annualize := float64(p.OperatingDays) / days

		cost := make([]float64, n)
		load := make([]float64, n)
		pv := make([]float64, n)
		for i := range snaps {
			cost[i] = snaps[i].Metric(model.MetricInstantCost)
			load[i] = snaps[i].Metric(model.MetricTotalLoad)
			pv[i] = snaps[i].Metric(model.MetricPVGeneration)
		}
		r.AnnualCost = floats.Sum(cost) * annualize
		r.BaselineCost = p.BaselinePrice * stat.Mean(load, nil) * 24 * float64(p.OperatingDays)
		r.AnnualRevenue = math.Max(0, r.BaselineCost-r.AnnualCost)
		r.AnnualPVGenerationKWh = floats.Sum(pv) * annualize
		r.CarbonReductionTons = r.AnnualPVGenerationKWh / 1000 * p.EmissionFactor
	}
	r.NetCashFlow = r.AnnualRevenue - r.AnnualMaintenance

	ev := Evaluate(r.Investment, r.NetCashFlow, p.LifespanYears, p.AnnualDegradation)
	r.PaybackYears = ev.PaybackYears
	r.ROIPercent = ev.ROIPercent
	r.IRRPercent = ev.IRRPercent
	return r
}

// Returns holds the investment metrics of a cash-flow series.
type Returns struct {
	CashFlows    []float64
	PaybackYears *float64
	ROIPercent   float64
	IRRPercent   float64
}

// CashFlows returns [-investment, net_1 .. net_lifespan] where each year loses
// degradation of the first year's net flow.
func CashFlows(investment, net float64, lifespan int, degradation float64) []float64 {
	flows := make([]float64, 0, lifespan+1)
	flows = append(flows, -investment)
	for k := 1; k <= lifespan; k++ {
		flows = append(flows, net*(1-degradation*float64(k-1)))
	}
	return flows
}

// Evaluate computes payback, ROI and IRR. Degenerate inputs yield nil payback
// and zero ratios, never NaN or Inf.
func Evaluate(investment, net float64, lifespan int, degradation float64) Returns {
	flows := CashFlows(investment, net, max(lifespan, 0), degradation)
	r := Returns{CashFlows: flows}
	if net > 0 && investment >= 0 {
		pb := investment / net
		r.PaybackYears = &pb
	}
	if investment > 0 {
		total := floats.Sum(flows[1:])
		r.ROIPercent = (total - investment) / investment * 100
		r.IRRPercent = IRR(flows) * 100
	}
	return r
}

const (
	irrGuess         = 0.1
	irrMaxIterations = 100
	irrTolerance     = 1e-7
)

// IRR solves NPV(r) = 0 with Newton's method. It returns 0 when the first flow
// is not an outflow or the iteration diverges or fails to converge.
func IRR(flows []float64) float64 {
	if len(flows) < 2 || flows[0] >= 0 {
		return 0
	}
	r := irrGuess
	for i := 0; i < irrMaxIterations; i++ {
		var npv, d float64
		for k, cf := range flows {
			disc := math.Pow(1+r, float64(k))
			npv += cf / disc
			d -= float64(k) * cf / (disc * (1 + r))
		}
		if math.Abs(d) < 1e-12 {
			return 0
		}
		next := r - npv/d
		if math.IsNaN(next) || math.Abs(next) > 10 || next <= -1 {
			return 0
		}
		if math.Abs(next-r) < irrTolerance {
			return next
		}
		r = next
	}
	return 0
}
