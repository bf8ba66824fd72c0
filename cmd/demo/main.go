package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"microgrid-valuation/internal/config"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/simulation"
)

// Demo:
// - build the default site (or load one via --config)
// - run every scenario for a few hours on the default tariff
// - print the hourly decisions to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to YAML project config (optional)")
	weatherName := flag.String("weather", "sunny", "Weather: sunny, cloudy, rainy")
	n := flag.Int("n", 12, "Number of hours to print per scenario")
	jsonOut := flag.String("json", "", "Optional path to write every snapshot as JSON")
	flag.Parse()

	proj := &config.Config{}
	if *cfgPath != "" {
		var err error
		if proj, err = config.Load(*cfgPath); err != nil {
			panic(err)
		}
	}
	weather, err := model.ParseWeather(*weatherName)
	if err != nil {
		panic(err)
	}
	curve, err := proj.Pricing.Curve()
	if err != nil {
		panic(err)
	}
	cfg := proj.Microgrid.ToModel()
	engine := simulation.New(curve)

	all := map[model.Scenario][]model.HourlySnapshot{}
	for _, sc := range model.Scenarios() {
		res, err := engine.Run(context.Background(), &cfg, sc, weather, 0)
		if err != nil {
			panic(err)
		}
		all[sc] = res.Snapshots

		fmt.Printf("== %s (policy=%s)\n", sc, res.Policy)
		for i := 0; i < min(*n, len(res.Snapshots)); i++ {
			s := res.Snapshots[i]
			fmt.Printf("%02d:00 price=%5.2f pv=%7.1f load=%7.1f soc=%.3f action=%-11s cost=%8.2f  %s\n",
				s.Hour,
				s.Metric(model.MetricPrice),
				s.Metric(model.MetricPVGeneration),
				s.Metric(model.MetricTotalLoad),
				s.Metric(model.MetricSOC),
				model.ActionFromStorageKW(s.Metric(model.MetricStoragePower)),
				s.Metric(model.MetricInstantCost),
				s.Decision,
			)
		}
		fmt.Printf("total cost=%.2f final SOC=%.3f reliability=%.3f\n\n", res.TotalCost, res.FinalSOC, res.Reliability)
	}

	if *jsonOut != "" {
		raw, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			panic(err)
		}
		if err := os.WriteFile(*jsonOut, raw, 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote JSON: %s\n", *jsonOut)
	}
}
