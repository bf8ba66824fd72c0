package analysis

import "sort"

// RankByOracleProfit computes potentials per curve and sorts descending by
// OracleProfit, then by name.
func RankByOracleProfit(curves map[string][]float64) []CurvePotential {
	out := make([]CurvePotential, 0, len(curves))
	for name, curve := range curves {
		out = append(out, ComputePotential(name, curve))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OracleProfit != out[j].OracleProfit {
			return out[i].OracleProfit > out[j].OracleProfit
		}
		return out[i].Name < out[j].Name
	})
	return out
}
