package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMicrogridConfigIsValid(t *testing.T) {
	cfg := DefaultMicrogridConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24, cfg.Hours)
	assert.Equal(t, 0.3, cfg.WeatherFactor(WeatherRainy))
}

func TestMicrogridConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *MicrogridConfig)
	}{
		{"negative pv", func(c *MicrogridConfig) { c.PVCapacityKW = -1 }},
		{"negative storage", func(c *MicrogridConfig) { c.StorageCapacityKWh = -10 }},
		{"zero efficiency", func(c *MicrogridConfig) { c.RoundTripEfficiency = 0 }},
		{"efficiency above one", func(c *MicrogridConfig) { c.RoundTripEfficiency = 1.1 }},
		{"zero hours", func(c *MicrogridConfig) { c.Hours = 0 }},
		{"inverted soc bounds", func(c *MicrogridConfig) { c.SOCMin, c.SOCMax = 0.9, 0.1 }},
		{"critical ratio", func(c *MicrogridConfig) { c.CriticalLoadRatio = 1.5 }},
		{"negative weather", func(c *MicrogridConfig) { c.WeatherFactors[WeatherCloudy] = -0.1 }},
		{"zero low price", func(c *MicrogridConfig) { c.Thresholds.LowPrice = 0 }},
		{"nan efficiency", func(c *MicrogridConfig) { c.RoundTripEfficiency = math.NaN() }},
		{"infinite pv", func(c *MicrogridConfig) { c.PVCapacityKW = math.Inf(1) }},
		{"nan soc_min", func(c *MicrogridConfig) { c.SOCMin = math.NaN() }},
		{"nan critical ratio", func(c *MicrogridConfig) { c.CriticalLoadRatio = math.NaN() }},
		{"infinite high price", func(c *MicrogridConfig) { c.Thresholds.HighPrice = math.Inf(1) }},
		{"nan ev share", func(c *MicrogridConfig) { c.Thresholds.EVPVShare = math.NaN() }},
		{"nan weather", func(c *MicrogridConfig) { c.WeatherFactors[WeatherSunny] = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMicrogridConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
		})
	}

	var nilCfg *MicrogridConfig
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidConfiguration)
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite())
	assert.True(t, Finite(0, -1, 1e300))
	assert.False(t, Finite(1, math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))
}

func TestMicrogridConfigCloneIsDeep(t *testing.T) {
	cfg := DefaultMicrogridConfig()
	clone := cfg.Clone()
	clone.AIEnabled = false
	clone.WeatherFactors[WeatherSunny] = 0.5

	assert.True(t, cfg.AIEnabled)
	assert.Equal(t, 1.0, cfg.WeatherFactors[WeatherSunny])
	assert.Equal(t, 0.5, clone.WeatherFactor(WeatherSunny))
}

func TestWeatherFactorFallback(t *testing.T) {
	cfg := DefaultMicrogridConfig()
	cfg.WeatherFactors = nil
	assert.Equal(t, 1.0, cfg.WeatherFactor(WeatherCloudy))
}
