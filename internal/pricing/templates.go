package pricing

import (
	"fmt"
	"sort"

	"microgrid-valuation/internal/model"
)

var templates = map[string][]TOUPeriod{
	"guangdong": {
		{Name: "valley", StartHour: 0, EndHour: 8, Price: 0.32},
		{Name: "peak", StartHour: 8, EndHour: 12, Price: 1.05},
		{Name: "flat", StartHour: 12, EndHour: 14, Price: 0.68},
		{Name: "peak", StartHour: 14, EndHour: 19, Price: 1.05},
		{Name: "sharp", StartHour: 19, EndHour: 22, Price: 1.35},
		{Name: "valley", StartHour: 22, EndHour: 24, Price: 0.32},
	},
	"jiangsu": {
		{Name: "valley", StartHour: 0, EndHour: 8, Price: 0.35},
		{Name: "peak", StartHour: 8, EndHour: 11, Price: 1.10},
		{Name: "sharp", StartHour: 11, EndHour: 13, Price: 1.50},
		{Name: "flat", StartHour: 13, EndHour: 17, Price: 0.72},
		{Name: "peak", StartHour: 17, EndHour: 21, Price: 1.10},
		{Name: "valley", StartHour: 21, EndHour: 24, Price: 0.35},
	},
}

// DefaultTemplate is the tariff used when a caller supplies no pricing.
const DefaultTemplate = "guangdong"

// TemplateNames returns the known tariff template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Template returns a TOU provider for a named tariff.
func Template(name string) (*Provider, error) {
	periods, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tariff template %q", model.ErrInvalidConfiguration, name)
	}
	return &Provider{
		Mode:    ModeTOU,
		Periods: append([]TOUPeriod(nil), periods...),
	}, nil
}

// TemplateCurve is a shortcut for Template(name).Curve().
func TemplateCurve(name string) ([]float64, error) {
	p, err := Template(name)
	if err != nil {
		return nil, err
	}
	return p.Curve()
}
