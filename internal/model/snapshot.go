package model

// Node names used in NodeState maps and EnergyFlow endpoints.
const (
	NodePV         = "pv"
	NodeStorage    = "storage"
	NodeGrid       = "grid"
	NodeLoad       = "load"
	NodeAC         = "ac"
	NodeLighting   = "lighting"
	NodeProduction = "production"
	NodeCharging   = "charging"
)

// LoadCategories is the fixed order of per-category load nodes.
var LoadCategories = []string{NodeAC, NodeLighting, NodeProduction, NodeCharging}

var nodeColors = map[string]string{
	NodePV:         "#FFD700",
	NodeStorage:    "#4CAF50",
	NodeGrid:       "#666666",
	NodeLoad:       "#F44336",
	NodeAC:         "#2196F3",
	NodeLighting:   "#FFEB3B",
	NodeProduction: "#9C27B0",
	NodeCharging:   "#FF5722",
}

// NodeColor returns the display colour for a node, grey when unknown.
func NodeColor(name string) string {
	if c, ok := nodeColors[name]; ok {
		return c
	}
	return "#999999"
}

// Metric keys carried in HourlySnapshot.Metrics.
const (
	MetricSOC             = "soc"
	MetricPrice           = "price"
	MetricPVGeneration    = "pv_generation"
	MetricTotalLoad       = "total_load"
	MetricGridPower       = "grid_power"
	MetricStoragePower    = "storage_power"
	MetricInstantCost     = "instant_cost"
	MetricEVChargingPower = "ev_charging_power"
	MetricLoadShedding    = "load_shedding_kwh"
	MetricIslandDuration  = "island_duration"
	MetricReliability     = "reliability"
	MetricCostSaving      = "cost_saving"
)

// NodeState is the instantaneous power of one energy node.
// Sign convention:
// - pv: generation
// - storage: discharge - charge
// - grid: export - import (negative = buying)
// - load nodes: consumption
type NodeState struct {
	Name    string   `json:"name"`
	PowerKW float64  `json:"power_kw"`
	SOC     *float64 `json:"soc,omitempty"` // storage only
	Color   string   `json:"color"`
}

func NewNodeState(name string, powerKW float64) NodeState {
	return NodeState{Name: name, PowerKW: powerKW, Color: NodeColor(name)}
}

// EnergyFlow is a directed transfer recorded for one hour.
type EnergyFlow struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	PowerKW float64 `json:"power_kw"`
	Cost    float64 `json:"cost"`
}

// HourlySnapshot is the output of one simulated hour.
type HourlySnapshot struct {
	Hour     int                  `json:"hour"`
	Scenario Scenario             `json:"scenario"`
	Weather  Weather              `json:"weather"`
	Nodes    map[string]NodeState `json:"nodes"`
	Flows    []EnergyFlow         `json:"flows"`
	Metrics  map[string]float64   `json:"metrics"`
	Decision string               `json:"decision,omitempty"`
}

// Metric returns the named metric, 0 when absent.
func (s *HourlySnapshot) Metric(key string) float64 {
	return s.Metrics[key]
}
