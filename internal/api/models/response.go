package models

import (
	"microgrid-valuation/internal/analysis"
	"microgrid-valuation/internal/model"
)

// SimulationResponse represents the response from a scenario run.
type SimulationResponse struct {
	ID         string                 `json:"id"`
	Status     string                 `json:"status"`
	Scenario   string                 `json:"scenario"`
	Weather    string                 `json:"weather"`
	Policy     string                 `json:"policy"`
	Summary    SimulationSummary      `json:"summary"`
	Financials FinancialSummary       `json:"financials"`
	Snapshots  []model.HourlySnapshot `json:"snapshots,omitempty"`
}

// SimulationSummary contains aggregated run results. Currency is rounded to
// cents.
type SimulationSummary struct {
	Hours          int     `json:"hours"`
	TotalCost      float64 `json:"total_cost"`
	FinalSOC       float64 `json:"final_soc"`
	TotalPVKWh     float64 `json:"total_pv_kwh"`
	TotalLoadKWh   float64 `json:"total_load_kwh"`
	TotalImportKWh float64 `json:"total_import_kwh"`
	TotalExportKWh float64 `json:"total_export_kwh"`
	TotalShedKWh   float64 `json:"total_shed_kwh"`
	Reliability    float64 `json:"reliability"`
}

// FinancialSummary is the investment view of a run.
type FinancialSummary struct {
	Investment            float64  `json:"investment"`
	AnnualCost            float64  `json:"annual_cost"`
	BaselineCost          float64  `json:"baseline_cost"`
	AnnualRevenue         float64  `json:"annual_revenue"`
	AnnualMaintenance     float64  `json:"annual_maintenance"`
	NetCashFlow           float64  `json:"net_cash_flow"`
	PaybackYears          *float64 `json:"payback_years"`
	ROIPercent            float64  `json:"roi_percent"`
	IRRPercent            float64  `json:"irr_percent"`
	AnnualPVGenerationKWh float64  `json:"annual_pv_generation_kwh"`
	CarbonReductionTons   float64  `json:"carbon_reduction_tons"`
}

// CompareResponse represents an AI vs fixed-schedule comparison.
type CompareResponse struct {
	AIRunID       string            `json:"ai_run_id"`
	FixedRunID    string            `json:"fixed_run_id"`
	AI            SimulationSummary `json:"ai"`
	Fixed         SimulationSummary `json:"fixed"`
	TotalSaving   float64           `json:"total_saving"`
	SavingPercent float64           `json:"saving_percent"`
	Series        CompareSeries     `json:"series"`
}

// CompareSeries holds aligned per-hour traces for charting.
type CompareSeries struct {
	Hours          []int     `json:"hours"`
	AICosts        []float64 `json:"ai_costs"`
	FixedCosts     []float64 `json:"fixed_costs"`
	AISOC          []float64 `json:"ai_soc"`
	FixedSOC       []float64 `json:"fixed_soc"`
	AIGridPower    []float64 `json:"ai_grid_power"`
	FixedGridPower []float64 `json:"fixed_grid_power"`
}

// CurveResponse describes a price curve.
type CurveResponse struct {
	Prices         []float64 `json:"prices"`
	Min            float64   `json:"min"`
	Max            float64   `json:"max"`
	Spread         float64   `json:"spread"`
	Mean           float64   `json:"mean"`
	ChargeHours    []int     `json:"charge_hours"`
	DischargeHours []int     `json:"discharge_hours"`
	Classes        []string  `json:"classes"`
}

// ArbitrageResponse is a one-day arbitrage estimate.
type ArbitrageResponse struct {
	ChargePrice    float64 `json:"charge_price"`
	DischargePrice float64 `json:"discharge_price"`
	ChargeHours    []int   `json:"charge_hours"`
	DischargeHours []int   `json:"discharge_hours"`
	CycleProfit    float64 `json:"cycle_profit"`
	DailyProfit    float64 `json:"daily_profit"`
	AnnualProfit   float64 `json:"annual_profit"`
}

// TemplateInfo is a named tariff with its ranking stats.
type TemplateInfo struct {
	Rank int `json:"rank"`
	analysis.CurvePotential
	Prices []float64 `json:"prices"`
}

// ProfileResponse summarises an annual profile.
type ProfileResponse struct {
	Hours         int     `json:"hours"`
	GenerationKWh float64 `json:"generation_kwh"`
	LoadKWh       float64 `json:"load_kwh"`
	SelfUsedKWh   float64 `json:"self_used_kwh"`
	FeedInKWh     float64 `json:"feed_in_kwh"`
	SelfUseRatio  float64 `json:"self_use_ratio"`
	// MonthlyGenerationKWh and MonthlyLoadKWh use 30-day months; the last
	// month takes the remaining 35 days.
	MonthlyGenerationKWh []float64 `json:"monthly_generation_kwh"`
	MonthlyLoadKWh       []float64 `json:"monthly_load_kwh"`
}

// ScenarioInfo represents information about a scenario.
type ScenarioInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Policies    []string        `json:"policies"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a tunable parameter.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "float", "int", "bool", "string"
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// PresetInfo represents a project preset file.
type PresetInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	File         string  `json:"file"`
	PVCapacityKW float64 `json:"pv_capacity_kw"`
	StorageKWh   float64 `json:"storage_capacity_kwh"`
	StorageKW    float64 `json:"storage_power_kw"`
	Tariff       string  `json:"tariff,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
