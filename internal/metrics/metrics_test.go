package metrics

import (
	"errors"
	"testing"
	"time"

	"microgrid-valuation/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	okBefore := testutil.ToFloat64(simulationRuns.WithLabelValues("peak_valley", "ok"))
	errBefore := testutil.ToFloat64(simulationRuns.WithLabelValues("peak_valley", "error"))
	hoursBefore := testutil.ToFloat64(simulatedHours.WithLabelValues("peak_valley"))

	ObserveRun(model.ScenarioPeakValley, 24, time.Millisecond, nil)
	ObserveRun(model.ScenarioPeakValley, 24, time.Millisecond, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(simulationRuns.WithLabelValues("peak_valley", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(simulationRuns.WithLabelValues("peak_valley", "error")))
	assert.Equal(t, hoursBefore+24, testutil.ToFloat64(simulatedHours.WithLabelValues("peak_valley")))
}

func TestObserveRunBucketsUnknownScenarios(t *testing.T) {
	before := testutil.ToFloat64(simulationRuns.WithLabelValues(InvalidLabel, "error"))
	series := testutil.CollectAndCount(simulationRuns)

	ObserveRun(model.Scenario("tidal-1"), 0, 0, errors.New("unsupported"))
	ObserveRun(model.Scenario("tidal-2"), 0, 0, errors.New("unsupported"))

	assert.Equal(t, before+2, testutil.ToFloat64(simulationRuns.WithLabelValues(InvalidLabel, "error")))
	assert.Equal(t, series, testutil.CollectAndCount(simulationRuns))
}

func TestObserveShed(t *testing.T) {
	before := testutil.ToFloat64(loadShedKWh.WithLabelValues("rainy"))
	ObserveShed(model.WeatherRainy, 12.5)
	ObserveShed(model.WeatherRainy, 0)
	assert.Equal(t, before+12.5, testutil.ToFloat64(loadShedKWh.WithLabelValues("rainy")))

	invalid := testutil.ToFloat64(loadShedKWh.WithLabelValues(InvalidLabel))
	ObserveShed(model.Weather("hail"), 1)
	assert.Equal(t, invalid+1, testutil.ToFloat64(loadShedKWh.WithLabelValues(InvalidLabel)))
}
