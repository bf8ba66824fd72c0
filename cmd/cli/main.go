package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"microgrid-valuation/internal/analysis"
	"microgrid-valuation/internal/config"
	"microgrid-valuation/internal/data"
	"microgrid-valuation/internal/finance"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/profile"
	"microgrid-valuation/internal/simulation"

	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(os.Args[2:])
	case "rank":
		err = cmdRank(os.Args[2:])
	case "profile":
		err = cmdProfile(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config project.yaml --scenario peak_valley --weather sunny --out results/snapshots.csv")
	fmt.Println("  cli rank --data curves/")
	fmt.Println("  cli profile --load 1000000 --pv 1000 --yield 1100 --archetype workday")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one CSV row per hour with action=CHARGING/IDLE/DISCHARGING")
	fmt.Println("  - scenario ai_optimization also prints the fixed-schedule baseline")
	fmt.Println("  - rank orders price curves by the arbitrage upper bound of a 1 kW / 1 kWh battery")
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML project config (defaults when empty)")
	scenarioName := fs.String("scenario", string(model.ScenarioPeakValley), "Scenario: peak_valley, island_mode, ev_charging, ai_optimization")
	weatherName := fs.String("weather", string(model.WeatherSunny), "Weather: sunny, cloudy, rainy")
	hours := fs.Int("hours", 0, "Simulated hours (0 = config hours)")
	curvePath := fs.String("curve", "", "Optional price-curve JSON, overrides the config pricing")
	outPath := fs.String("out", "results/snapshots.csv", "Output CSV path")
	_ = fs.Parse(args)

	proj := &config.Config{}
	if *cfgPath != "" {
		var err error
		if proj, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	scenario, err := model.ParseScenario(*scenarioName)
	if err != nil {
		return err
	}
	weather, err := model.ParseWeather(*weatherName)
	if err != nil {
		return err
	}

	if *curvePath != "" {
		proj.Pricing.CurveFile = *curvePath
	}
	var curve []float64
	if proj.Pricing.CurveFile != "" {
		curve, err = data.LoadFirstCurve(proj.Pricing.CurveFile)
	} else {
		curve, err = proj.Pricing.Curve()
	}
	if err != nil {
		return err
	}

	cfg := proj.Microgrid.ToModel()
	params := proj.Finance.ToParams()
	engine := simulation.New(curve)
	ctx := context.Background()

	var res *simulation.Result
	if scenario == model.ScenarioAIOptimization {
		cmp, err := engine.Compare(ctx, &cfg, weather, *hours)
		if err != nil {
			return err
		}
		fmt.Printf("Fixed schedule cost=%s  AI cost=%s  saving=%s (%s%%)\n",
			money(cmp.Fixed.TotalCost), money(cmp.AI.TotalCost), money(cmp.TotalSaving), money(cmp.SavingPercent))
		res = cmp.AI
	} else {
		if res, err = engine.Run(ctx, &cfg, scenario, weather, *hours); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := simulation.WriteSnapshotsCSVFile(*outPath, res.Snapshots); err != nil {
		return err
	}

	fmt.Printf("Wrote %d rows to %s\n", len(res.Snapshots), *outPath)
	fmt.Printf("Policy=%s Total cost=%s Final SOC=%.3f\n", res.Policy, money(res.TotalCost), res.FinalSOC)
	if scenario == model.ScenarioIslandMode {
		fmt.Printf("Shed=%.1f kWh Reliability=%.2f%%\n", res.TotalShedKWh, res.Reliability*100)
	}
	printFinancials(finance.Aggregate(res.Snapshots, &cfg, params))
	return nil
}

func printFinancials(f finance.Result) {
	payback := "never"
	if f.PaybackYears != nil {
		payback = decimal.NewFromFloat(*f.PaybackYears).StringFixed(1) + " years"
	}
	fmt.Println("")
	fmt.Printf("%-24s %14s\n", "investment", money(f.Investment))
	fmt.Printf("%-24s %14s\n", "annual cost", money(f.AnnualCost))
	fmt.Printf("%-24s %14s\n", "baseline cost", money(f.BaselineCost))
	fmt.Printf("%-24s %14s\n", "annual revenue", money(f.AnnualRevenue))
	fmt.Printf("%-24s %14s\n", "annual maintenance", money(f.AnnualMaintenance))
	fmt.Printf("%-24s %14s\n", "net cash flow", money(f.NetCashFlow))
	fmt.Printf("%-24s %14s\n", "payback", payback)
	fmt.Printf("%-24s %13s%%\n", "roi", money(f.ROIPercent))
	fmt.Printf("%-24s %13s%%\n", "irr", money(f.IRRPercent))
	fmt.Printf("%-24s %14s\n", "carbon reduction (t)", decimal.NewFromFloat(f.CarbonReductionTons).StringFixed(1))
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

func cmdRank(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	dataPaths := fs.String("data", "curves", "Comma-separated price-curve JSON paths or directories")
	_ = fs.Parse(args)

	curves, err := data.LoadCurves(splitPaths(*dataPaths))
	if err != nil {
		return err
	}
	ranked := analysis.RankByOracleProfit(curves)
	fmt.Printf("%-4s %-20s %-6s %-10s %-12s %-10s\n", "rank", "curve", "count", "p95-p05", "min/max", "oracle")
	for i, r := range ranked {
		fmt.Printf("%-4d %-20s %-6d %-10.3f %-5.2f/%-6.2f %-10s\n",
			i+1, r.Name, r.Count, r.SpreadP95P05, r.Min, r.Max, money(r.OracleProfit))
	}
	return nil
}

func cmdProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	load := fs.Float64("load", 1e6, "Annual load (kWh)")
	pv := fs.Float64("pv", 1000, "PV capacity (kW)")
	yield := fs.Float64("yield", 1100, "PV full-load hours per year")
	archetype := fs.String("archetype", string(profile.ArchetypeWorkday), "Load shape: workday, 24h, school")
	seed := fs.Int64("seed", 0, "Noise seed (0 = no noise)")
	_ = fs.Parse(args)

	g := &profile.Generator{}
	if *seed != 0 {
		g.Rand = rand.New(rand.NewSource(*seed))
	}
	p, err := g.Generate(profile.Params{
		AnnualLoadKWh: *load,
		PVCapacityKW:  *pv,
		YieldHours:    *yield,
		Archetype:     profile.Archetype(*archetype),
	})
	if err != nil {
		return err
	}
	su, err := profile.AnalyzeSelfUse(p.Generation, p.Load)
	if err != nil {
		return err
	}
	fmt.Printf("hours=%d generation=%.0f kWh self-used=%.0f kWh feed-in=%.0f kWh self-use ratio=%.1f%%\n",
		len(p.Load), su.GenerationKWh, su.SelfUsedKWh, su.FeedInKWh, su.Ratio*100)
	return nil
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
