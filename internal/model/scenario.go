package model

import (
	"fmt"
	"strings"
)

// Scenario identifies one of the microgrid coordination scenarios.
type Scenario string

const (
	ScenarioPeakValley     Scenario = "peak_valley"
	ScenarioIslandMode     Scenario = "island_mode"
	ScenarioEVCharging     Scenario = "ev_charging"
	ScenarioAIOptimization Scenario = "ai_optimization"
)

// Scenarios lists every supported scenario in display order.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioPeakValley,
		ScenarioIslandMode,
		ScenarioEVCharging,
		ScenarioAIOptimization,
	}
}

func (s Scenario) Valid() bool {
	switch s {
	case ScenarioPeakValley, ScenarioIslandMode, ScenarioEVCharging, ScenarioAIOptimization:
		return true
	}
	return false
}

// ParseScenario accepts the canonical identifiers case-insensitively.
func ParseScenario(s string) (Scenario, error) {
	sc := Scenario(strings.ToLower(strings.TrimSpace(s)))
	if !sc.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScenario, s)
	}
	return sc, nil
}

// Weather is the sky condition applied to PV output.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherSunny, WeatherCloudy, WeatherRainy:
		return true
	}
	return false
}

func ParseWeather(s string) (Weather, error) {
	w := Weather(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedWeather, s)
	}
	return w, nil
}
