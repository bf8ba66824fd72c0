package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/config"
	"microgrid-valuation/internal/data"
	"microgrid-valuation/internal/finance"
	"microgrid-valuation/internal/log"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulationHandler handles scenario runs and follow-up requests on their
// cached results.
type SimulationHandler struct {
	cache   *data.RunCache
	presets *PresetHandler
}

func NewSimulationHandler(cache *data.RunCache, presets *PresetHandler) *SimulationHandler {
	return &SimulationHandler{cache: cache, presets: presets}
}

// project resolves the optional preset and overlays the request sections.
func (h *SimulationHandler) project(preset string, mg config.MicrogridConfig, fin config.FinanceConfig, pr config.PricingConfig) (*config.Config, error) {
	p := &config.Config{}
	if preset != "" {
		if h.presets == nil {
			return nil, fmt.Errorf("%w: presets are not configured", model.ErrInvalidConfiguration)
		}
		loaded, err := h.presets.Load(preset)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	p.Microgrid = config.MergeMicrogrid(p.Microgrid, mg)
	p.Finance = config.MergeFinance(p.Finance, fin)
	if len(pr.Prices) > 0 || pr.Mode != "" || pr.Template != "" {
		p.Pricing = pr
	}
	return p, nil
}

func parseWeather(s string) (model.Weather, error) {
	if s == "" {
		return model.WeatherSunny, nil
	}
	return model.ParseWeather(s)
}

// RunSimulation handles POST /api/v1/simulation/run
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	scenario, err := model.ParseScenario(req.Scenario)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	weather, err := parseWeather(req.Weather)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	proj, err := h.project(req.Preset, req.Config, req.Finance, req.Pricing)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	params := proj.Finance.ToParams()
	if err := params.Validate(); err != nil {
		writeDomainError(c, err)
		return
	}
	curve, err := proj.Pricing.Curve()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	cfg := proj.Microgrid.ToModel()

	ctx := c.Request.Context()
	res, err := simulation.New(curve).Run(ctx, &cfg, scenario, weather, req.Hours)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	fin := finance.Aggregate(res.Snapshots, &cfg, params)
	h.cache.Set(&data.Run{Result: res, Config: cfg, Financials: fin})

	log.Ctx(ctx).InfoContext(ctx, "simulation served",
		slog.String("run_id", res.RunID.String()),
		slog.String("scenario", string(scenario)),
		slog.Float64("total_cost", res.TotalCost),
	)

	resp := models.SimulationResponse{
		ID:         res.RunID.String(),
		Status:     "completed",
		Scenario:   string(res.Scenario),
		Weather:    string(res.Weather),
		Policy:     res.Policy,
		Summary:    summarize(res),
		Financials: financials(fin),
	}
	if req.IncludeSnapshots {
		resp.Snapshots = res.Snapshots
	}
	c.JSON(http.StatusOK, resp)
}

// CompareSimulations handles POST /api/v1/simulation/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	weather, err := parseWeather(req.Weather)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	proj, err := h.project(req.Preset, req.Config, config.FinanceConfig{}, req.Pricing)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	curve, err := proj.Pricing.Curve()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	cfg := proj.Microgrid.ToModel()
	params := proj.Finance.ToParams()

	cmp, err := simulation.New(curve).Compare(c.Request.Context(), &cfg, weather, req.Hours)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	for _, r := range []*simulation.Result{cmp.AI, cmp.Fixed} {
		h.cache.Set(&data.Run{Result: r, Config: cfg, Financials: finance.Aggregate(r.Snapshots, &cfg, params)})
	}

	hours := make([]int, len(cmp.AI.Snapshots))
	for i := range hours {
		hours[i] = i
	}
	c.JSON(http.StatusOK, models.CompareResponse{
		AIRunID:       cmp.AI.RunID.String(),
		FixedRunID:    cmp.Fixed.RunID.String(),
		AI:            summarize(cmp.AI),
		Fixed:         summarize(cmp.Fixed),
		TotalSaving:   money(cmp.TotalSaving),
		SavingPercent: money(cmp.SavingPercent),
		Series: models.CompareSeries{
			Hours:          hours,
			AICosts:        cmp.AISeries.Costs,
			FixedCosts:     cmp.FixedSeries.Costs,
			AISOC:          cmp.AISeries.SOC,
			FixedSOC:       cmp.FixedSeries.SOC,
			AIGridPower:    cmp.AISeries.GridPower,
			FixedGridPower: cmp.FixedSeries.GridPower,
		},
	})
}

func (h *SimulationHandler) lookup(c *gin.Context) (*data.Run, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a UUID")
		return nil, false
	}
	run, ok := h.cache.Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Sprintf("no run with id %s (runs expire)", id))
		return nil, false
	}
	return run, true
}

// GetSnapshots handles GET /api/v1/simulation/:id/snapshots
func (h *SimulationHandler) GetSnapshots(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        run.Result.RunID.String(),
		"scenario":  run.Result.Scenario,
		"snapshots": run.Result.Snapshots,
	})
}

// GetSankey handles GET /api/v1/simulation/:id/sankey?hour=
func (h *SimulationHandler) GetSankey(c *gin.Context) {
	hour := simulation.DefaultSankeyHour
	if q := c.Query("hour"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "hour must be an integer")
			return
		}
		hour = v
	}
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, simulation.SankeyAt(run.Result, hour))
}

// ExportCSV handles GET /api/v1/simulation/:id/export.csv
func (h *SimulationHandler) ExportCSV(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, run.Result.Scenario, run.Result.RunID))
	c.Status(http.StatusOK)
	if err := simulation.WriteSnapshotsCSV(c.Writer, run.Result.Snapshots); err != nil {
		ctx := c.Request.Context()
		log.Ctx(ctx).ErrorContext(ctx, "csv export failed", slog.String("error", err.Error()))
	}
}

func summarize(r *simulation.Result) models.SimulationSummary {
	return models.SimulationSummary{
		Hours:          r.Hours,
		TotalCost:      money(r.TotalCost),
		FinalSOC:       round4(r.FinalSOC),
		TotalPVKWh:     round4(r.TotalPVKWh),
		TotalLoadKWh:   round4(r.TotalLoadKWh),
		TotalImportKWh: round4(r.TotalImportKWh),
		TotalExportKWh: round4(r.TotalExportKWh),
		TotalShedKWh:   round4(r.TotalShedKWh),
		Reliability:    round4(r.Reliability),
	}
}

func financials(f finance.Result) models.FinancialSummary {
	return models.FinancialSummary{
		Investment:            money(f.Investment),
		AnnualCost:            money(f.AnnualCost),
		BaselineCost:          money(f.BaselineCost),
		AnnualRevenue:         money(f.AnnualRevenue),
		AnnualMaintenance:     money(f.AnnualMaintenance),
		NetCashFlow:           money(f.NetCashFlow),
		PaybackYears:          roundPtr(f.PaybackYears),
		ROIPercent:            money(f.ROIPercent),
		IRRPercent:            money(f.IRRPercent),
		AnnualPVGenerationKWh: round4(f.AnnualPVGenerationKWh),
		CarbonReductionTons:   round4(f.CarbonReductionTons),
	}
}
