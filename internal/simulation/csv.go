package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"microgrid-valuation/internal/model"
)

var csvHeader = []string{
	"hour",
	"scenario",
	"weather",
	"action",
	"price",
	"pv_generation_kw",
	"total_load_kw",
	"soc",
	"storage_power_kw",
	"grid_power_kw",
	"instant_cost",
	"load_shedding_kwh",
	"cost_saving",
	"decision",
}

// WriteSnapshotsCSV writes one row per simulated hour.
func WriteSnapshotsCSV(w io.Writer, snaps []model.HourlySnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range snaps {
		s := &snaps[i]
		row := []string{
			strconv.Itoa(s.Hour),
			string(s.Scenario),
			string(s.Weather),
			string(model.ActionFromStorageKW(s.Metric(model.MetricStoragePower))),
			fmtFloat(s.Metric(model.MetricPrice)),
			fmtFloat(s.Metric(model.MetricPVGeneration)),
			fmtFloat(s.Metric(model.MetricTotalLoad)),
			fmtFloat(s.Metric(model.MetricSOC)),
			fmtFloat(s.Metric(model.MetricStoragePower)),
			fmtFloat(s.Metric(model.MetricGridPower)),
			fmtFloat(s.Metric(model.MetricInstantCost)),
			fmtFloat(s.Metric(model.MetricLoadShedding)),
			fmtFloat(s.Metric(model.MetricCostSaving)),
			s.Decision,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSnapshotsCSVFile creates path and writes the snapshots to it.
func WriteSnapshotsCSVFile(path string, snaps []model.HourlySnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSnapshotsCSV(f, snaps)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
