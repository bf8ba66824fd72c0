package simulation

import (
	"microgrid-valuation/internal/model"

	"github.com/google/uuid"
)

// Result is the output of one scenario run. Snapshots are in hour order.
type Result struct {
	RunID    uuid.UUID
	Scenario model.Scenario
	Weather  model.Weather
	Policy   string
	Hours    int

	Snapshots []model.HourlySnapshot

	TotalCost      float64
	FinalSOC       float64
	TotalPVKWh     float64
	TotalLoadKWh   float64
	TotalImportKWh float64
	TotalExportKWh float64

	// TotalShedKWh and Reliability are only non-trivial in island runs.
	TotalShedKWh float64
	Reliability  float64
}

// Series extracts one metric across all snapshots.
func (r *Result) Series(key string) []float64 {
	out := make([]float64, len(r.Snapshots))
	for i := range r.Snapshots {
		out[i] = r.Snapshots[i].Metric(key)
	}
	return out
}
