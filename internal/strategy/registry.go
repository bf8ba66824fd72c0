package strategy

import (
	"fmt"

	"microgrid-valuation/internal/model"
)

type factory func(aiEnabled bool) (Policy, error)

var table = map[model.Scenario]factory{
	model.ScenarioPeakValley:     peakValley,
	model.ScenarioAIOptimization: peakValley,
	model.ScenarioIslandMode: func(bool) (Policy, error) {
		return Island{}, nil
	},
	model.ScenarioEVCharging: func(ai bool) (Policy, error) {
		if ai {
			return EVAI{}, nil
		}
		return EVFixed{}, nil
	},
}

func peakValley(ai bool) (Policy, error) {
	if ai {
		return AIPeakValley{}, nil
	}
	return NewFixedPeakValley(DefaultSchedule())
}

// For returns the policy that drives scenario.
func For(scenario model.Scenario, aiEnabled bool) (Policy, error) {
	f, ok := table[scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedScenario, scenario)
	}
	return f(aiEnabled)
}
