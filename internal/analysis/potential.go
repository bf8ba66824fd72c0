package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CanonicalDurationHours is the energy/power ratio of the reference battery
// used to compare curves: 1 kW power, 1 kWh energy.
const CanonicalDurationHours = 1

// CurvePotential is a curve-level summary you can use for ranking. It does not
// depend on a specific site; it includes both raw price stats and an "oracle"
// profit for a canonical battery.
type CurvePotential struct {
	Name  string `json:"name"`
	Count int    `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// OracleProfit is the best possible profit (currency per kW of storage)
	// with perfect foresight:
	// - 1 kW power, CanonicalDurationHours kWh energy
	// - lossless, SOC bounds [0,1], initial SOC 0.5
	// - hourly dispatch choices {-1, 0, +1} kW
	OracleProfit float64 `json:"oracle_profit"`
}

func ComputePotential(name string, curve []float64) CurvePotential {
	p := CurvePotential{Name: name, Count: len(curve)}
	if len(curve) == 0 {
		return p
	}
	sorted := append([]float64(nil), curve...)
	sort.Float64s(sorted)

	p.Min = sorted[0]
	p.Max = sorted[len(sorted)-1]
	p.Mean = stat.Mean(sorted, nil)
	p.P05 = stat.Quantile(0.05, stat.LinInterp, sorted, nil)
	p.P95 = stat.Quantile(0.95, stat.LinInterp, sorted, nil)
	p.SpreadP95P05 = p.P95 - p.P05

	p.OracleProfit = OracleProfit(curve, CanonicalDurationHours)
	return p
}

// OracleProfit computes an upper bound on arbitrage profit using a DP over
// SOC discretized in 1 kWh steps, for a 1 kW battery holding durationHours kWh.
func OracleProfit(curve []float64, durationHours int) float64 {
	if len(curve) == 0 || durationHours < 1 {
		return 0
	}
	steps := durationHours
	negInf := math.Inf(-1)
	dp := make([]float64, steps+1)
	next := make([]float64, steps+1)
	for i := range dp {
		dp[i] = negInf
	}
	dp[int(math.Round(0.5*float64(steps)))] = 0

	for _, price := range curve {
		for i := range next {
			next[i] = negInf
		}
		for soc, v := range dp {
			if math.IsInf(v, -1) {
				continue
			}
			next[soc] = math.Max(next[soc], v)
			if soc < steps {
				next[soc+1] = math.Max(next[soc+1], v-price)
			}
			if soc > 0 {
				next[soc-1] = math.Max(next[soc-1], v+price)
			}
		}
		dp, next = next, dp
	}

	best := floats.Max(dp)
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
