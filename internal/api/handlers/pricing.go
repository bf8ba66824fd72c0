package handlers

import (
	"net/http"

	"microgrid-valuation/internal/analysis"
	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/pricing"

	"github.com/gin-gonic/gin"
)

const defaultOptimalHours = 4

// DescribeCurve handles POST /api/v1/pricing/curve
func DescribeCurve(c *gin.Context) {
	var req models.CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	curve, err := req.PricingConfig.Curve()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	n := req.OptimalHours
	if n <= 0 {
		n = defaultOptimalHours
	}

	th := model.DefaultThresholds()
	classes := make([]string, len(curve))
	for h, p := range curve {
		classes[h] = string(pricing.ClassifyHour(p, req.GridFee, th))
	}
	stats := pricing.Spread(curve)
	charge, discharge := pricing.OptimalHours(curve, n)
	c.JSON(http.StatusOK, models.CurveResponse{
		Prices:         curve,
		Min:            stats.Min,
		Max:            stats.Max,
		Spread:         stats.Spread,
		Mean:           round4(stats.Mean),
		ChargeHours:    charge,
		DischargeHours: discharge,
		Classes:        classes,
	})
}

// ListTemplates handles GET /api/v1/pricing/templates, ranked by the
// arbitrage upper bound of a canonical battery.
func ListTemplates(c *gin.Context) {
	curves := map[string][]float64{}
	for _, name := range pricing.TemplateNames() {
		curve, err := pricing.TemplateCurve(name)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		curves[name] = curve
	}
	ranked := analysis.RankByOracleProfit(curves)
	out := make([]models.TemplateInfo, len(ranked))
	for i, r := range ranked {
		r.OracleProfit = money(r.OracleProfit)
		out[i] = models.TemplateInfo{Rank: i + 1, CurvePotential: r, Prices: curves[r.Name]}
	}
	c.JSON(http.StatusOK, gin.H{"templates": out, "default": pricing.DefaultTemplate})
}

// EstimateArbitrage handles POST /api/v1/pricing/arbitrage
func EstimateArbitrage(c *gin.Context) {
	var req models.ArbitrageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	curve, err := req.Pricing.Curve()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	eff := req.Efficiency
	if eff == 0 {
		eff = model.DefaultMicrogridConfig().RoundTripEfficiency
	}
	est, err := pricing.EstimateArbitrage(curve, pricing.ArbitrageParams{
		CapacityKWh:   req.CapacityKWh,
		PowerKW:       req.PowerKW,
		Efficiency:    eff,
		GridFee:       req.GridFee,
		CyclesPerDay:  req.CyclesPerDay,
		OperatingDays: req.OperatingDays,
		AI:            req.AIEnabled,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ArbitrageResponse{
		ChargePrice:    round4(est.ChargePrice),
		DischargePrice: round4(est.DischargePrice),
		ChargeHours:    est.ChargeHours,
		DischargeHours: est.DischargeHours,
		CycleProfit:    money(est.CycleProfit),
		DailyProfit:    money(est.DailyProfit),
		AnnualProfit:   money(est.AnnualProfit),
	})
}
