package pricing

import (
	"math"
	"math/rand"
	"testing"

	"microgrid-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCurve(t *testing.T) {
	p := &Provider{Mode: ModeFixed, FixedPrice: 0.8}
	curve, err := p.Curve()
	require.NoError(t, err)
	require.Len(t, curve, HoursPerDay)
	for _, v := range curve {
		assert.Equal(t, 0.8, v)
	}
}

func TestNonFinitePricesRejected(t *testing.T) {
	_, err := (&Provider{Mode: ModeFixed, FixedPrice: math.NaN()}).Curve()
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	_, err = (&Provider{Mode: ModeTOU, Periods: []TOUPeriod{
		{Name: "all", StartHour: 0, EndHour: 24, Price: math.Inf(1)},
	}}).Curve()
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	_, err = (&Provider{Mode: ModeDynamic, Volatility: math.NaN()}).Curve()
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	spot := DynamicBase()
	spot[3] = math.NaN()
	assert.ErrorIs(t, (&Provider{Mode: ModeDynamic}).SetDynamicCurve(spot), model.ErrInvalidConfiguration)
}

func TestTOULookup(t *testing.T) {
	p := &Provider{Mode: ModeTOU, Periods: []TOUPeriod{
		{Name: "valley", StartHour: 0, EndHour: 8, Price: 0.32},
		{Name: "peak", StartHour: 8, EndHour: 12, Price: 1.05},
		{Name: "flat", StartHour: 12, EndHour: 14, Price: 0.68},
	}}

	assert.Equal(t, 0.32, p.PriceAt(7))
	assert.Equal(t, 1.05, p.PriceAt(8))
	assert.Equal(t, 0.68, p.PriceAt(13))

	t.Run("uncovered hours fall back to first period", func(t *testing.T) {
		assert.Equal(t, 0.32, p.PriceAt(20))
	})

	t.Run("idempotent", func(t *testing.T) {
		a, err := p.Curve()
		require.NoError(t, err)
		b, err := p.Curve()
		require.NoError(t, err)
		assert.Equal(t, a, b)

		a[0] = 99
		c, err := p.Curve()
		require.NoError(t, err)
		assert.Equal(t, 0.32, c[0])
	})
}

func TestTOUPeriodWrapsMidnight(t *testing.T) {
	night := TOUPeriod{StartHour: 22, EndHour: 6, Price: 0.3}
	assert.True(t, night.Contains(23))
	assert.True(t, night.Contains(0))
	assert.True(t, night.Contains(5))
	assert.False(t, night.Contains(6))
	assert.False(t, night.Contains(12))
	assert.False(t, TOUPeriod{StartHour: 3, EndHour: 3}.Contains(3))
}

func TestTOUWithoutPeriods(t *testing.T) {
	_, err := (&Provider{Mode: ModeTOU}).Curve()
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestDynamicCurve(t *testing.T) {
	t.Run("nil rand returns base shape", func(t *testing.T) {
		curve, err := (&Provider{Mode: ModeDynamic, Volatility: 0.1}).Curve()
		require.NoError(t, err)
		assert.Equal(t, DynamicBase(), curve)
	})

	t.Run("seeded noise is reproducible and bounded", func(t *testing.T) {
		a, err := (&Provider{Mode: ModeDynamic, Volatility: 0.1, Rand: rand.New(rand.NewSource(7))}).Curve()
		require.NoError(t, err)
		b, err := (&Provider{Mode: ModeDynamic, Volatility: 0.1, Rand: rand.New(rand.NewSource(7))}).Curve()
		require.NoError(t, err)
		assert.Equal(t, a, b)

		base := DynamicBase()
		for h := range a {
			assert.GreaterOrEqual(t, a[h], base[h]*0.9-1e-12)
			assert.LessOrEqual(t, a[h], base[h]*1.1+1e-12)
		}
	})

	t.Run("supplied curve", func(t *testing.T) {
		p := &Provider{Mode: ModeDynamic}
		supplied := make([]float64, HoursPerDay)
		for h := range supplied {
			supplied[h] = float64(h) / 10
		}
		require.NoError(t, p.SetDynamicCurve(supplied))
		supplied[0] = 42

		curve, err := p.Curve()
		require.NoError(t, err)
		assert.Equal(t, 0.0, curve[0])
		assert.Equal(t, 2.3, curve[23])
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		p := &Provider{Mode: ModeDynamic}
		assert.ErrorIs(t, p.SetDynamicCurve(make([]float64, 25)), model.ErrInvalidCurveLength)
		assert.ErrorIs(t, p.SetDynamicCurve(nil), model.ErrInvalidCurveLength)
	})

	t.Run("bad volatility", func(t *testing.T) {
		_, err := (&Provider{Mode: ModeDynamic, Volatility: 1.5}).Curve()
		assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
	})
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("time-of-use")
	require.NoError(t, err)
	assert.Equal(t, ModeTOU, m)

	_, err = ParseMode("auction")
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}
