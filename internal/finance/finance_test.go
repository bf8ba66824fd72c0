package finance

import (
	"math"
	"testing"

	"microgrid-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateReferenceProject(t *testing.T) {
	r := Evaluate(1e6, 2e5, 10, 0)

	require.NotNil(t, r.PaybackYears)
	assert.InDelta(t, 5, *r.PaybackYears, 1e-12)
	assert.InDelta(t, 100, r.ROIPercent, 1e-9)
	assert.InDelta(t, 15.10, r.IRRPercent, 0.01)
	assert.Len(t, r.CashFlows, 11)
	assert.Equal(t, -1e6, r.CashFlows[0])
}

func TestEvaluateDegenerate(t *testing.T) {
	t.Run("no net flow", func(t *testing.T) {
		r := Evaluate(1e6, 0, 10, 0)
		assert.Nil(t, r.PaybackYears)
		assert.InDelta(t, -100, r.ROIPercent, 1e-9)
		assert.Equal(t, 0.0, r.IRRPercent)
	})
	t.Run("negative net flow", func(t *testing.T) {
		r := Evaluate(1e6, -5e4, 10, 0)
		assert.Nil(t, r.PaybackYears)
		assert.Equal(t, 0.0, r.IRRPercent)
	})
	t.Run("zero investment", func(t *testing.T) {
		r := Evaluate(0, 1e5, 10, 0)
		require.NotNil(t, r.PaybackYears)
		assert.Equal(t, 0.0, *r.PaybackYears)
		assert.Equal(t, 0.0, r.ROIPercent)
		assert.Equal(t, 0.0, r.IRRPercent)
	})
}

func TestEvaluateDegradation(t *testing.T) {
	flat := Evaluate(1e6, 2e5, 10, 0)
	worn := Evaluate(1e6, 2e5, 10, 0.02)

	assert.InDelta(t, 2e5*(1-0.02*9), worn.CashFlows[10], 1e-9)
	assert.Less(t, worn.ROIPercent, flat.ROIPercent)
	assert.Less(t, worn.IRRPercent, flat.IRRPercent)
}

func TestIRR(t *testing.T) {
	assert.InDelta(t, 0.1, IRR([]float64{-100, 110}), 1e-9)
	assert.Equal(t, 0.0, IRR([]float64{100, 10}))
	assert.Equal(t, 0.0, IRR([]float64{-100}))
}

func TestInvestment(t *testing.T) {
	cfg := model.DefaultMicrogridConfig()
	got := Investment(&cfg, DefaultParams())
	// 1000 kW * 1000 * 3 + 500 * 1300 + 70 * 3000 + 200000
	assert.InDelta(t, 3e6+650000+210000+200000, got, 1e-6)
}

func snapshots(hours int, cost, load, pv float64) []model.HourlySnapshot {
	out := make([]model.HourlySnapshot, hours)
	for h := range out {
		out[h] = model.HourlySnapshot{Hour: h, Metrics: map[string]float64{
			model.MetricInstantCost:  cost,
			model.MetricTotalLoad:    load,
			model.MetricPVGeneration: pv,
		}}
	}
	return out
}

func TestAggregate(t *testing.T) {
	cfg := model.DefaultMicrogridConfig()
	p := DefaultParams()

	r := Aggregate(snapshots(24, 100, 500, 200), &cfg, p)

	assert.InDelta(t, 2400*330, r.AnnualCost, 1e-6)
	assert.InDelta(t, 0.8*500*24*330, r.BaselineCost, 1e-6)
	assert.InDelta(t, r.BaselineCost-r.AnnualCost, r.AnnualRevenue, 1e-6)
	assert.InDelta(t, r.Investment*0.02, r.AnnualMaintenance, 1e-6)
	assert.InDelta(t, r.AnnualRevenue-r.AnnualMaintenance, r.NetCashFlow, 1e-6)
	assert.InDelta(t, 4800*330, r.AnnualPVGenerationKWh, 1e-6)
	assert.InDelta(t, 4800*330/1000.0*0.5703, r.CarbonReductionTons, 1e-9)
	require.NotNil(t, r.PaybackYears)
	assert.InDelta(t, r.Investment/r.NetCashFlow, *r.PaybackYears, 1e-9)
}

func TestAggregateAnnualizesMultiDayRuns(t *testing.T) {
	cfg := model.DefaultMicrogridConfig()
	one := Aggregate(snapshots(24, 10, 100, 50), &cfg, DefaultParams())
	two := Aggregate(snapshots(48, 10, 100, 50), &cfg, DefaultParams())
	assert.InDelta(t, one.AnnualCost, two.AnnualCost, 1e-6)
	assert.InDelta(t, one.CarbonReductionTons, two.CarbonReductionTons, 1e-9)
}

func TestAggregateRevenueNeverNegative(t *testing.T) {
	cfg := model.DefaultMicrogridConfig()
	r := Aggregate(snapshots(24, 1000, 10, 0), &cfg, DefaultParams())
	assert.Equal(t, 0.0, r.AnnualRevenue)
	assert.Nil(t, r.PaybackYears)
}

func TestAggregateEmpty(t *testing.T) {
	cfg := model.DefaultMicrogridConfig()
	r := Aggregate(nil, &cfg, DefaultParams())
	assert.Equal(t, 0.0, r.AnnualCost)
	assert.Equal(t, 0.0, r.AnnualRevenue)
	assert.Nil(t, r.PaybackYears)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	p := DefaultParams()
	p.OperatingDays = 0
	assert.ErrorIs(t, p.Validate(), model.ErrInvalidConfiguration)
	p = DefaultParams()
	p.AnnualDegradation = 1
	assert.ErrorIs(t, p.Validate(), model.ErrInvalidConfiguration)
	p = DefaultParams()
	p.BaselinePrice = math.NaN()
	assert.ErrorIs(t, p.Validate(), model.ErrInvalidConfiguration)
	p = DefaultParams()
	p.PVCostPerW = math.Inf(1)
	assert.ErrorIs(t, p.Validate(), model.ErrInvalidConfiguration)
}
