package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"microgrid-valuation/internal/balance"
	"microgrid-valuation/internal/log"
	"microgrid-valuation/internal/metrics"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/strategy"

	"github.com/google/uuid"
)

// TypicalPVShape is the per-unit output of a sunny day, peak normalised to 1.
var TypicalPVShape = [24]float64{
	0, 0, 0, 0, 0, 0, 20.0 / 450, 80.0 / 450,
	150.0 / 450, 250.0 / 450, 350.0 / 450, 420.0 / 450, 1, 1, 420.0 / 450, 350.0 / 450,
	250.0 / 450, 150.0 / 450, 80.0 / 450, 20.0 / 450, 0, 0, 0, 0,
}

// TypicalLoadProfile is the per-unit load factor of a commercial building.
var TypicalLoadProfile = [24]float64{
	0.5, 0.4, 0.4, 0.4, 0.5, 0.6, 0.8, 0.9,
	1.0, 1.0, 1.0, 1.0, 0.9, 0.9, 1.0, 1.0,
	0.9, 0.8, 0.9, 1.0, 0.8, 0.7, 0.6, 0.5,
}

// Initial SOC per scenario. Island runs start pre-charged.
const (
	DefaultInitialSOC = 0.5
	IslandInitialSOC  = 0.8
)

// Engine drives the hour loop of a scenario. An Engine is read-only once
// built and can serve concurrent runs.
type Engine struct {
	PriceCurve []float64
	PVShape    [24]float64
	LoadShape  [24]float64
}

// New copies curve and uses the typical PV and load shapes.
func New(curve []float64) *Engine {
	return &Engine{
		PriceCurve: append([]float64(nil), curve...),
		PVShape:    TypicalPVShape,
		LoadShape:  TypicalLoadProfile,
	}
}

// Run simulates scenario for hours (cfg.Hours when hours <= 0). All inputs are
// validated before the first hour; on error no snapshots are returned.
// The ai_optimization scenario returns the annotated AI run of Compare.
func (e *Engine) Run(ctx context.Context, cfg *model.MicrogridConfig, scenario model.Scenario, weather model.Weather, hours int) (*Result, error) {
	if scenario == model.ScenarioAIOptimization {
		cmp, err := e.Compare(ctx, cfg, weather, hours)
		if err != nil {
			return nil, err
		}
		return cmp.AI, nil
	}

	run, hours, err := e.prepare(cfg, scenario, weather, hours)
	if err != nil {
		metrics.ObserveRun(scenario, 0, 0, err)
		return nil, err
	}
	policy, err := strategy.For(scenario, run.AIEnabled)
	if err != nil {
		return nil, err
	}
	return e.simulate(ctx, run, scenario, weather, hours, policy)
}

// prepare validates every input and returns a private copy of cfg.
func (e *Engine) prepare(cfg *model.MicrogridConfig, scenario model.Scenario, weather model.Weather, hours int) (*model.MicrogridConfig, int, error) {
	if !scenario.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", model.ErrUnsupportedScenario, scenario)
	}
	if !weather.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", model.ErrUnsupportedWeather, weather)
	}
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	run := cfg.Clone()
	if hours > 0 {
		run.Hours = hours
	}
	if n := len(e.PriceCurve); n != 24 && n != run.Hours {
		return nil, 0, fmt.Errorf("%w: price curve has %d values, want 24 or %d", model.ErrInvalidCurveLength, n, run.Hours)
	}
	if !model.Finite(e.PriceCurve...) {
		return nil, 0, fmt.Errorf("%w: price curve has non-finite values", model.ErrInvalidConfiguration)
	}
	return run, run.Hours, nil
}

func (e *Engine) simulate(ctx context.Context, cfg *model.MicrogridConfig, scenario model.Scenario, weather model.Weather, hours int, policy strategy.Policy) (*Result, error) {
	start := time.Now()
	storage, err := balance.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.New(),
		Scenario:  scenario,
		Weather:   weather,
		Policy:    policy.Name(),
		Hours:     hours,
		Snapshots: make([]model.HourlySnapshot, 0, hours),
	}
	ctx = log.WithAttrs(ctx, slog.String("run_id", res.RunID.String()), slog.String("scenario", string(scenario)))

	soc := DefaultInitialSOC
	if scenario == model.ScenarioIslandMode {
		soc = IslandInitialSOC
	}
	weatherFactor := cfg.WeatherFactor(weather)
	peaksAhead := e.peakHoursAhead(hours, cfg.Thresholds.HighPrice)
	var demandKWh float64

	for h := 0; h < hours; h++ {
		pv := cfg.PVCapacityKW * e.PVShape[h%24] * weatherFactor
		price := e.PriceCurve[h%len(e.PriceCurve)]
		loads := e.loads(cfg, scenario, h)

		d := policy.Decide(strategy.Context{
			Hour:           h,
			SOC:            soc,
			Price:          price,
			PVKW:           pv,
			LoadKW:         sumLoads(loads),
			PeakHoursAhead: peaksAhead[h],
			Config:         cfg,
			Storage:        storage,
		})
		if scenario == model.ScenarioEVCharging {
			loads = append(loads, balance.Load{Name: model.NodeCharging, KW: d.EVPowerKW})
		}

		out := storage.Step(balance.Input{
			SOC:      soc,
			Request:  d.Request(),
			PVKW:     pv,
			Loads:    loads,
			Price:    price,
			GridFee:  cfg.GridFee,
			Islanded: d.Islanded,
		})
		soc = out.SOC

		snap := model.HourlySnapshot{
			Hour:     h,
			Scenario: scenario,
			Weather:  weather,
			Nodes:    out.Nodes,
			Flows:    out.Flows,
			Metrics: map[string]float64{
				model.MetricSOC:          out.SOC,
				model.MetricPVGeneration: pv,
				model.MetricTotalLoad:    out.TotalLoadKW,
				model.MetricStoragePower: out.StoragePowerKW(),
				model.MetricInstantCost:  out.Cost,
			},
			Decision: d.Description,
		}
		switch scenario {
		case model.ScenarioIslandMode:
			reliability := 1.0
			if out.TotalLoadKW > 0 {
				reliability = 1 - out.ShedKW/out.TotalLoadKW
			}
			snap.Metrics[model.MetricLoadShedding] = out.ShedKW
			snap.Metrics[model.MetricIslandDuration] = float64(h + 1)
			snap.Metrics[model.MetricReliability] = reliability
		default:
			snap.Metrics[model.MetricPrice] = price
			snap.Metrics[model.MetricGridPower] = out.GridPowerKW()
			if scenario == model.ScenarioEVCharging {
				snap.Metrics[model.MetricEVChargingPower] = d.EVPowerKW
			}
		}
		res.Snapshots = append(res.Snapshots, snap)

		res.TotalCost += out.Cost
		res.TotalPVKWh += pv
		res.TotalLoadKWh += out.TotalLoadKW
		res.TotalShedKWh += out.ShedKW
		res.TotalImportKWh += out.GridToLoadKW + out.GridToStorageKW
		res.TotalExportKWh += out.ExportKW
		demandKWh += out.TotalLoadKW

		log.Ctx(ctx).DebugContext(ctx, "hour settled",
			slog.Int("hour", h),
			slog.Float64("soc", out.SOC),
			slog.Float64("price", price),
			slog.Float64("pv_kw", pv),
			slog.Float64("load_kw", out.TotalLoadKW),
			slog.Float64("cost", out.Cost),
			slog.String("decision", d.Description),
		)
	}

	res.FinalSOC = soc
	res.Reliability = 1
	if demandKWh > 0 {
		res.Reliability = 1 - res.TotalShedKWh/demandKWh
	}

	took := time.Since(start)
	metrics.ObserveRun(scenario, hours, took, nil)
	if scenario == model.ScenarioIslandMode {
		metrics.ObserveShed(weather, res.TotalShedKWh)
	}
	log.Ctx(ctx).InfoContext(ctx, "scenario run complete",
		slog.String("policy", res.Policy),
		slog.Int("hours", hours),
		slog.Float64("total_cost", res.TotalCost),
		slog.Float64("final_soc", res.FinalSOC),
		slog.Duration("took", took),
	)
	return res, nil
}

// peakHoursAhead returns, for each hour of the run, how many later hours are
// priced above high.
func (e *Engine) peakHoursAhead(hours int, high float64) []int {
	out := make([]int, hours)
	for h := hours - 2; h >= 0; h-- {
		out[h] = out[h+1]
		if e.PriceCurve[(h+1)%len(e.PriceCurve)] > high {
			out[h]++
		}
	}
	return out
}

// loads returns the per-category loads for hour h. Island runs keep only the
// critical share of the building loads and drop EV charging; the EV scenario
// leaves charging out so the policy can set it.
func (e *Engine) loads(cfg *model.MicrogridConfig, scenario model.Scenario, h int) []balance.Load {
	f := e.LoadShape[h%24]
	loads := []balance.Load{
		{Name: model.NodeAC, KW: cfg.ACCapacityKW * f},
		{Name: model.NodeLighting, KW: cfg.LightingPowerKW * f},
		{Name: model.NodeProduction, KW: cfg.ProductionLoadKW * f},
	}
	switch scenario {
	case model.ScenarioIslandMode:
		for i := range loads {
			loads[i].KW *= cfg.CriticalLoadRatio
		}
	case model.ScenarioEVCharging:
	default:
		loads = append(loads, balance.Load{Name: model.NodeCharging, KW: cfg.ChargingPowerKW * f})
	}
	return loads
}

func sumLoads(loads []balance.Load) float64 {
	sum := 0.0
	for _, l := range loads {
		sum += l.KW
	}
	return sum
}
