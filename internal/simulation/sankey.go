package simulation

import "microgrid-valuation/internal/model"

// DefaultSankeyHour is the hour charted when the caller does not pick one.
const DefaultSankeyHour = 12

type SankeyNode struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type SankeyLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// SankeyData is the energy flow diagram of one hour.
type SankeyData struct {
	Hour  int          `json:"hour"`
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// Sankey builds a diagram from the flows of one snapshot. Served load is split
// across the load categories in proportion to their demand.
func Sankey(snap *model.HourlySnapshot) SankeyData {
	out := SankeyData{Hour: snap.Hour}
	seen := map[string]bool{}
	addNode := func(name string) {
		if !seen[name] {
			seen[name] = true
			out.Nodes = append(out.Nodes, SankeyNode{Name: name, Color: model.NodeColor(name)})
		}
	}
	addLink := func(from, to string, v float64) {
		if v <= 0 {
			return
		}
		addNode(from)
		addNode(to)
		out.Links = append(out.Links, SankeyLink{Source: from, Target: to, Value: v})
	}

	served := 0.0
	for _, f := range snap.Flows {
		addLink(f.From, f.To, f.PowerKW)
		if f.To == model.NodeLoad {
			served += f.PowerKW
		}
	}

	total := snap.Metric(model.MetricTotalLoad)
	if total <= 0 || served <= 0 {
		return out
	}
	share := served / total
	for _, c := range model.LoadCategories {
		if n, ok := snap.Nodes[c]; ok {
			addLink(model.NodeLoad, c, n.PowerKW*share)
		}
	}
	return out
}

// SankeyAt charts the snapshot at hour, clamped to the run. An empty run
// yields an empty diagram.
func SankeyAt(r *Result, hour int) SankeyData {
	if len(r.Snapshots) == 0 {
		return SankeyData{Hour: hour}
	}
	hour = max(0, min(hour, len(r.Snapshots)-1))
	return Sankey(&r.Snapshots[hour])
}
