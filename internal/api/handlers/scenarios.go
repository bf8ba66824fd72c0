package handlers

import (
	"net/http"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/model"

	"github.com/gin-gonic/gin"
)

var scenarioDescriptions = map[model.Scenario]struct {
	desc     string
	policies []string
}{
	model.ScenarioPeakValley: {
		"Grid-connected arbitrage. Charges in cheap hours and discharges in expensive ones, on a fixed schedule or price-driven when ai_enabled.",
		[]string{"fixed_peak_valley", "ai_peak_valley"},
	},
	model.ScenarioIslandMode: {
		"Grid outage. Only the critical share of the building load is served from PV and storage; the rest is shed.",
		[]string{"island"},
	},
	model.ScenarioEVCharging: {
		"EV charging load is scheduled by price and PV availability.",
		[]string{"ev_fixed", "ev_ai"},
	},
	model.ScenarioAIOptimization: {
		"Runs the fixed and AI peak-valley policies side by side and reports the hourly saving.",
		[]string{"ai_peak_valley"},
	},
}

var microgridParameters = func() []models.ParameterInfo {
	d := model.DefaultMicrogridConfig()
	return []models.ParameterInfo{
		{Name: "pv_capacity_kw", Type: "float", Description: "Installed PV capacity (kW)", Default: d.PVCapacityKW},
		{Name: "storage_capacity_kwh", Type: "float", Description: "Storage energy capacity (kWh)", Default: d.StorageCapacityKWh},
		{Name: "storage_power_kw", Type: "float", Description: "Storage rated power (kW)", Default: d.StoragePowerKW},
		{Name: "round_trip_efficiency", Type: "float", Description: "Storage round-trip efficiency, split evenly between charge and discharge", Default: d.RoundTripEfficiency},
		{Name: "charging_power_kw", Type: "float", Description: "EV charging power (kW)", Default: d.ChargingPowerKW},
		{Name: "ac_capacity_kw", Type: "float", Description: "Air-conditioning load (kW)", Default: d.ACCapacityKW},
		{Name: "lighting_power_kw", Type: "float", Description: "Lighting load (kW)", Default: d.LightingPowerKW},
		{Name: "production_load_kw", Type: "float", Description: "Production load (kW)", Default: d.ProductionLoadKW},
		{Name: "hours", Type: "int", Description: "Simulated horizon in hours", Default: d.Hours},
		{Name: "ai_enabled", Type: "bool", Description: "Use the price-driven policies", Default: d.AIEnabled},
		{Name: "critical_load_ratio", Type: "float", Description: "Share of building load kept in island mode", Default: d.CriticalLoadRatio},
		{Name: "soc_min", Type: "float", Description: "Lowest SOC reached in grid-connected operation", Default: d.SOCMin},
		{Name: "soc_max", Type: "float", Description: "SOC at which charging stops", Default: d.SOCMax},
		{Name: "grid_fee", Type: "float", Description: "Fee added to every imported kWh", Default: d.GridFee},
		{Name: "low_price", Type: "float", Description: "Price under which the AI policies charge", Default: d.Thresholds.LowPrice},
		{Name: "high_price", Type: "float", Description: "Price above which the AI policies discharge", Default: d.Thresholds.HighPrice},
	}
}()

// ListScenarios handles GET /api/v1/scenarios
func ListScenarios(c *gin.Context) {
	out := make([]models.ScenarioInfo, 0, len(model.Scenarios()))
	for _, s := range model.Scenarios() {
		d := scenarioDescriptions[s]
		out = append(out, models.ScenarioInfo{
			Name:        string(s),
			Description: d.desc,
			Policies:    d.policies,
			Parameters:  microgridParameters,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"scenarios": out,
		"weather":   []model.Weather{model.WeatherSunny, model.WeatherCloudy, model.WeatherRainy},
	})
}
