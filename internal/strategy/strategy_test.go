package strategy

import (
	"testing"

	"microgrid-valuation/internal/balance"
	"microgrid-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) Context {
	t.Helper()
	cfg := model.DefaultMicrogridConfig()
	storage, err := balance.FromConfig(&cfg)
	require.NoError(t, err)
	return Context{Config: &cfg, Storage: storage}
}

func TestInWindow(t *testing.T) {
	assert.True(t, inWindow(0, 0, 480))
	assert.False(t, inWindow(480, 0, 480))
	assert.True(t, inWindow(23*60, 22*60, 6*60))
	assert.True(t, inWindow(60, 22*60, 6*60))
	assert.False(t, inWindow(12*60, 22*60, 6*60))
	assert.False(t, inWindow(100, 300, 300))
}

func TestParseHHMM(t *testing.T) {
	m, err := parseHHMM("14:30")
	require.NoError(t, err)
	assert.Equal(t, 870, m)

	m, err = parseHHMM("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	for _, bad := range []string{"", "25:00", "12", "aa:bb", "10:75"} {
		_, err := parseHHMM(bad)
		assert.Error(t, err, bad)
	}
}

func TestFixedPeakValley(t *testing.T) {
	s, err := NewFixedPeakValley(DefaultSchedule())
	require.NoError(t, err)
	ctx := testContext(t)

	t.Run("charges in valley window", func(t *testing.T) {
		for h := 0; h < 8; h++ {
			ctx.Hour, ctx.SOC = h, 0.5
			d := s.Decide(ctx)
			assert.Equal(t, ctx.Config.StoragePowerKW, d.GridChargeKW, "hour %d", h)
			assert.Zero(t, d.GridDischargeKW)
		}
	})

	t.Run("stops charging at ceiling", func(t *testing.T) {
		ctx.Hour, ctx.SOC = 3, 0.9
		assert.Zero(t, s.Decide(ctx).GridChargeKW)
	})

	t.Run("discharges in peak window", func(t *testing.T) {
		for h := 14; h < 22; h++ {
			ctx.Hour, ctx.SOC = h, 0.8
			assert.Equal(t, ctx.Config.StoragePowerKW, s.Decide(ctx).GridDischargeKW, "hour %d", h)
		}
	})

	t.Run("discharge respects soc_min", func(t *testing.T) {
		ctx.Hour, ctx.SOC = 15, 0.25
		d := s.Decide(ctx)
		assert.InDelta(t, 0.05*500*0.95, d.GridDischargeKW, 1e-9)

		ctx.SOC = 0.2
		assert.Zero(t, s.Decide(ctx).GridDischargeKW)
	})

	t.Run("idle otherwise", func(t *testing.T) {
		for _, h := range []int{8, 10, 12, 13, 22, 23} {
			ctx.Hour, ctx.SOC = h, 0.5
			d := s.Decide(ctx)
			assert.Zero(t, d.GridChargeKW)
			assert.Zero(t, d.GridDischargeKW)
			assert.Equal(t, "idle", d.Description)
		}
	})

	t.Run("hours past the first day wrap", func(t *testing.T) {
		ctx.Hour, ctx.SOC = 24+2, 0.5
		assert.Equal(t, ctx.Config.StoragePowerKW, s.Decide(ctx).GridChargeKW)
	})

	_, err = NewFixedPeakValley(ScheduleParams{ChargeStart: "bad"})
	assert.Error(t, err)
}

func TestAIPeakValley(t *testing.T) {
	ctx := testContext(t)
	p := AIPeakValley{}

	t.Run("low price charges", func(t *testing.T) {
		ctx.SOC, ctx.Price, ctx.PeakHoursAhead = 0.5, 0.32, 12
		d := p.Decide(ctx)
		assert.Equal(t, 200.0, d.GridChargeKW)
		assert.Contains(t, d.Description, "low price")
	})

	t.Run("low price without peak ahead idles", func(t *testing.T) {
		c := ctx
		c.SOC, c.Price, c.PeakHoursAhead = 0.5, 0.32, 0
		d := p.Decide(c)
		assert.Zero(t, d.GridChargeKW)
		assert.Contains(t, d.Description, "no peak left")
	})

	t.Run("low price charges only what remaining peaks use", func(t *testing.T) {
		c := ctx
		c.SOC, c.Price, c.PeakHoursAhead = 0.5, 0.32, 1
		// 200 kWh of peak minus 0.3*500*0.95 already deliverable, grossed up by both directions.
		assert.InDelta(t, (200-0.3*500*0.95)/0.9025, p.Decide(c).GridChargeKW, 1e-9)

		c.SOC = 0.7
		assert.Zero(t, p.Decide(c).GridChargeKW)
	})

	t.Run("high price discharges", func(t *testing.T) {
		ctx.SOC, ctx.Price = 0.8, 1.35
		d := p.Decide(ctx)
		assert.Equal(t, 200.0, d.GridDischargeKW)

		ctx.SOC = 0.5
		assert.InDelta(t, 0.3*500*0.95, p.Decide(ctx).GridDischargeKW, 1e-9, "bounded by soc_min")
	})

	t.Run("thresholds are tunable", func(t *testing.T) {
		cfg := ctx.Config.Clone()
		cfg.Thresholds.HighPrice = 1.5
		c := ctx
		c.Config, c.SOC, c.Price = cfg, 0.5, 1.35
		assert.Zero(t, p.Decide(c).GridDischargeKW)
	})

	t.Run("pv surplus goes to storage regardless of price", func(t *testing.T) {
		ctx.SOC, ctx.Price, ctx.PVKW, ctx.LoadKW = 0.5, 0.68, 900, 800
		d := p.Decide(ctx)
		assert.InDelta(t, 100, d.PVToStorageKW, 1e-9)
		assert.Zero(t, d.GridChargeKW)
		assert.Zero(t, d.GridDischargeKW)
	})

	t.Run("pv surplus bounded by soc_max", func(t *testing.T) {
		ctx.SOC, ctx.PVKW, ctx.LoadKW = 0.95, 900, 100
		assert.Zero(t, p.Decide(ctx).PVToStorageKW)
	})

	t.Run("flat price idles", func(t *testing.T) {
		ctx.SOC, ctx.Price, ctx.PVKW, ctx.LoadKW = 0.5, 0.68, 0, 100
		assert.Equal(t, "idle", p.Decide(ctx).Description)
	})
}

func TestIsland(t *testing.T) {
	ctx := testContext(t)
	p := Island{}

	ctx.SOC, ctx.PVKW, ctx.LoadKW = 0.5, 500, 300
	d := p.Decide(ctx)
	assert.True(t, d.Islanded)
	assert.InDelta(t, 200, d.PVToStorageKW, 1e-9)

	ctx.PVKW, ctx.LoadKW = 100, 250
	d = p.Decide(ctx)
	assert.InDelta(t, 150, d.GridDischargeKW, 1e-9)

	ctx.PVKW, ctx.LoadKW = 0, 900
	d = p.Decide(ctx)
	assert.InDelta(t, 200, d.GridDischargeKW, 1e-9, "bounded by storage power")
}

func TestEVPolicies(t *testing.T) {
	ctx := testContext(t)

	ctx.Price = 1.2
	assert.Equal(t, 70.0, EVFixed{}.Decide(ctx).EVPowerKW)

	tests := []struct {
		name  string
		price float64
		pv    float64
		want  float64
	}{
		{"low price", 0.3, 500, 70},
		{"pv available", 0.68, 120, 60},
		{"pv plenty", 0.68, 800, 70},
		{"high price", 1.35, 50, 21},
		{"default", 0.68, 50, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx.Price, ctx.PVKW = tt.price, tt.pv
			assert.InDelta(t, tt.want, EVAI{}.Decide(ctx).EVPowerKW, 1e-9)
		})
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		scenario model.Scenario
		ai       bool
		want     string
	}{
		{model.ScenarioPeakValley, false, "fixed_peak_valley"},
		{model.ScenarioPeakValley, true, "ai_peak_valley"},
		{model.ScenarioAIOptimization, true, "ai_peak_valley"},
		{model.ScenarioIslandMode, true, "island"},
		{model.ScenarioEVCharging, false, "ev_fixed"},
		{model.ScenarioEVCharging, true, "ev_ai"},
	}
	for _, tt := range tests {
		p, err := For(tt.scenario, tt.ai)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Name())
	}

	_, err := For("vpp", true)
	assert.ErrorIs(t, err, model.ErrUnsupportedScenario)
}
