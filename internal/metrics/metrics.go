package metrics

import (
	"time"

	"microgrid-valuation/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microgrid_simulation_runs_total",
		Help: "Scenario runs by scenario and outcome.",
	}, []string{"scenario", "status"})

	simulationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "microgrid_simulation_duration_seconds",
		Help:    "Wall time of one scenario run.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"scenario"})

	simulatedHours = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microgrid_simulated_hours_total",
		Help: "Hours simulated across all runs.",
	}, []string{"scenario"})

	loadShedKWh = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microgrid_load_shed_kwh_total",
		Help: "Critical load shed during island runs.",
	}, []string{"weather"})
)

// InvalidLabel replaces scenario and weather values outside the known set so
// label cardinality stays bounded.
const InvalidLabel = "invalid"

func scenarioLabel(s model.Scenario) string {
	if !s.Valid() {
		return InvalidLabel
	}
	return string(s)
}

func weatherLabel(w model.Weather) string {
	if !w.Valid() {
		return InvalidLabel
	}
	return string(w)
}

// ObserveRun records the outcome of one scenario run.
func ObserveRun(scenario model.Scenario, hours int, took time.Duration, err error) {
	label := scenarioLabel(scenario)
	status := "ok"
	if err != nil {
		status = "error"
	}
	simulationRuns.WithLabelValues(label, status).Inc()
	if err != nil {
		return
	}
	simulationDuration.WithLabelValues(label).Observe(took.Seconds())
	simulatedHours.WithLabelValues(label).Add(float64(hours))
}

// ObserveShed adds island-mode shedding for a weather condition.
func ObserveShed(weather model.Weather, kwh float64) {
	if kwh > 0 {
		loadShedKWh.WithLabelValues(weatherLabel(weather)).Add(kwh)
	}
}
