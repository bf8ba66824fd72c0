package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"microgrid-valuation/internal/model"
)

// Curve is a named price curve in currency/kWh.
type Curve struct {
	Name   string    `json:"name"`
	Prices []float64 `json:"prices"`
}

// curveFile accepts either a single curve or {"curves": [...]}.
type curveFile struct {
	Curve
	Curves []Curve `json:"curves"`
}

// LoadCurveJSON reads a price-curve file. Curves without a name are named
// after the file (and their position when the file holds several).
func LoadCurveJSON(path string) ([]Curve, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f curveFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var out []Curve
	switch {
	case len(f.Curves) > 0:
		for i, c := range f.Curves {
			if c.Name == "" {
				c.Name = fmt.Sprintf("%s[%d]", base, i)
			}
			out = append(out, c)
		}
	case len(f.Prices) > 0:
		c := f.Curve
		if c.Name == "" {
			c.Name = base
		}
		out = append(out, c)
	default:
		return nil, fmt.Errorf("%w: %s holds no prices", model.ErrInvalidCurveLength, path)
	}
	for _, c := range out {
		for _, p := range c.Prices {
			if p < 0 {
				return nil, fmt.Errorf("%w: curve %q has a negative price", model.ErrInvalidConfiguration, c.Name)
			}
		}
	}
	return out, nil
}

// LoadFirstCurve returns the prices of the first curve in path.
func LoadFirstCurve(path string) ([]float64, error) {
	curves, err := LoadCurveJSON(path)
	if err != nil {
		return nil, err
	}
	return curves[0].Prices, nil
}

// LoadCurves reads every path, expanding directories to their *.json files,
// and keys the curves by name. Later duplicates replace earlier ones.
func LoadCurves(paths []string) (map[string][]float64, error) {
	out := map[string][]float64{}
	for _, p := range paths {
		files, err := expand(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			curves, err := LoadCurveJSON(f)
			if err != nil {
				return nil, err
			}
			for _, c := range curves {
				out[c.Name] = c.Prices
			}
		}
	}
	return out, nil
}

func expand(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
