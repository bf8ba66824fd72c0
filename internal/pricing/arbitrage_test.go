package pricing

import (
	"math"
	"testing"

	"microgrid-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{"guangdong", "jiangsu"}, TemplateNames())

	curve, err := TemplateCurve("guangdong")
	require.NoError(t, err)
	require.Len(t, curve, HoursPerDay)
	assert.Equal(t, 0.32, curve[0])
	assert.Equal(t, 1.05, curve[8])
	assert.Equal(t, 0.68, curve[12])
	assert.Equal(t, 1.35, curve[20])
	assert.Equal(t, 0.32, curve[23])

	_, err = Template("mars")
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestSpread(t *testing.T) {
	curve, err := TemplateCurve("guangdong")
	require.NoError(t, err)

	s := Spread(curve)
	assert.Equal(t, 0.32, s.Min)
	assert.Equal(t, 1.35, s.Max)
	assert.InDelta(t, 1.03, s.Spread, 1e-9)
	assert.Equal(t, 0, s.MinHour)
	assert.Equal(t, 19, s.MaxHour)

	assert.Equal(t, SpreadStats{}, Spread(nil))
}

func TestOptimalHours(t *testing.T) {
	curve := DynamicBase()
	charge, discharge := OptimalHours(curve, 3)
	assert.Equal(t, []int{4, 5, 6}, charge)
	assert.Equal(t, []int{18, 19, 20}, discharge)

	charge, discharge = OptimalHours(curve, 0)
	assert.Nil(t, charge)
	assert.Nil(t, discharge)
}

func TestClassifyHour(t *testing.T) {
	th := model.DefaultThresholds()
	assert.Equal(t, HourExtremeHigh, ClassifyHour(1.2, 0.2, th))
	assert.Equal(t, HourDeepNegative, ClassifyHour(-0.3, 0.2, th))
	assert.Equal(t, HourNegativeTrap, ClassifyHour(-0.1, 0.2, th))
	assert.Equal(t, HourLow, ClassifyHour(0.3, 0.2, th))
	assert.Equal(t, HourNeutral, ClassifyHour(0.7, 0.2, th))
}

func TestEstimateArbitrageFixedSchedule(t *testing.T) {
	curve, err := TemplateCurve("guangdong")
	require.NoError(t, err)

	est, err := EstimateArbitrage(curve, ArbitrageParams{
		CapacityKWh: 1000,
		PowerKW:     500,
		Efficiency:  0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, est.ChargeHours)
	assert.Equal(t, []int{14, 15, 16, 17}, est.DischargeHours)
	assert.InDelta(t, 0.32, est.ChargePrice, 1e-9)
	assert.InDelta(t, 1.05, est.DischargePrice, 1e-9)
	assert.InDelta(t, 625, est.CycleProfit, 1e-6)
	assert.InDelta(t, 1250, est.DailyProfit, 1e-6)
	assert.InDelta(t, 412500, est.AnnualProfit, 1e-4)

	t.Run("grid fee reduces profit", func(t *testing.T) {
		withFee, err := EstimateArbitrage(curve, ArbitrageParams{CapacityKWh: 1000, PowerKW: 500, Efficiency: 0.9, GridFee: 0.2})
		require.NoError(t, err)
		assert.InDelta(t, 425, withFee.CycleProfit, 1e-6)
	})
}

func TestEstimateArbitrageAI(t *testing.T) {
	curve, err := TemplateCurve("guangdong")
	require.NoError(t, err)

	est, err := EstimateArbitrage(curve, ArbitrageParams{
		CapacityKWh: 1000,
		PowerKW:     500,
		Efficiency:  0.9,
		AI:          true,
	})
	require.NoError(t, err)
	assert.Len(t, est.ChargeHours, 2)
	assert.Len(t, est.DischargeHours, 2)
	assert.InDelta(t, 0.32, est.ChargePrice, 1e-9)
	assert.InDelta(t, 1.35, est.DischargePrice, 1e-9)
	assert.InDelta(t, 895, est.CycleProfit, 1e-6)
}

func TestEstimateArbitrageValidation(t *testing.T) {
	_, err := EstimateArbitrage(make([]float64, 25), ArbitrageParams{CapacityKWh: 1, PowerKW: 1, Efficiency: 0.9})
	assert.ErrorIs(t, err, model.ErrInvalidCurveLength)

	_, err = EstimateArbitrage(make([]float64, 24), ArbitrageParams{CapacityKWh: 1, PowerKW: 1, Efficiency: 0})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	_, err = EstimateArbitrage(make([]float64, 24), ArbitrageParams{CapacityKWh: math.Inf(1), PowerKW: 1, Efficiency: 0.9})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	curve := make([]float64, 24)
	curve[0] = math.NaN()
	_, err = EstimateArbitrage(curve, ArbitrageParams{CapacityKWh: 1, PowerKW: 1, Efficiency: 0.9})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}
