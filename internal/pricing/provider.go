package pricing

import (
	"fmt"
	"math/rand"
	"sync"

	"microgrid-valuation/internal/model"
)

// HoursPerDay is the length of every curve produced by a Provider.
const HoursPerDay = 24

// Mode selects how a Provider builds its curve.
type Mode string

const (
	ModeFixed   Mode = "fixed"
	ModeTOU     Mode = "tou"
	ModeDynamic Mode = "dynamic"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeFixed, ModeTOU, ModeDynamic:
		return m, nil
	case "time-of-use", "time_of_use":
		return ModeTOU, nil
	}
	return "", fmt.Errorf("%w: unknown pricing mode %q", model.ErrInvalidConfiguration, s)
}

// TOUPeriod is a named tariff segment covering [StartHour, EndHour).
// A period with StartHour > EndHour wraps across midnight.
type TOUPeriod struct {
	Name      string
	StartHour int
	EndHour   int
	Price     float64
}

// Contains reports whether hour (0..23) falls inside the period.
func (p TOUPeriod) Contains(hour int) bool {
	if p.StartHour == p.EndHour {
		return false
	}
	if p.StartHour < p.EndHour {
		return hour >= p.StartHour && hour < p.EndHour
	}
	return hour >= p.StartHour || hour < p.EndHour
}

// dynamicBase is the shape of a typical spot-market day.
var dynamicBase = [HoursPerDay]float64{
	0.20, 0.18, 0.15, 0.12, 0.10, 0.08, 0.10, 0.25,
	0.45, 0.60, 0.75, 0.90, 0.70, 0.50, 0.55, 0.65,
	0.80, 1.00, 1.20, 1.50, 1.30, 0.90, 0.50, 0.30,
}

// DynamicBase returns a copy of the base spot shape.
func DynamicBase() []float64 {
	out := make([]float64, HoursPerDay)
	copy(out, dynamicBase[:])
	return out
}

// Provider produces a 24-hour price curve in currency/kWh.
//
// Rand is the only source of nondeterminism: a dynamic provider with a nil
// Rand returns the base shape unperturbed.
type Provider struct {
	Mode       Mode
	FixedPrice float64
	Periods    []TOUPeriod
	Volatility float64
	Rand       *rand.Rand

	mu      sync.Mutex
	dynamic []float64
}

// SetDynamicCurve installs an externally supplied spot curve.
func (p *Provider) SetDynamicCurve(curve []float64) error {
	if len(curve) != HoursPerDay {
		return fmt.Errorf("%w: dynamic curve has %d values, want %d", model.ErrInvalidCurveLength, len(curve), HoursPerDay)
	}
	if err := checkPrices(curve); err != nil {
		return err
	}
	c := make([]float64, HoursPerDay)
	copy(c, curve)

	p.mu.Lock()
	p.dynamic = c
	p.mu.Unlock()
	return nil
}

// Curve returns a fresh 24-element slice.
func (p *Provider) Curve() ([]float64, error) {
	switch p.Mode {
	case ModeFixed:
		if p.FixedPrice < 0 || !model.Finite(p.FixedPrice) {
			return nil, fmt.Errorf("%w: fixed price must be >= 0", model.ErrInvalidConfiguration)
		}
		out := make([]float64, HoursPerDay)
		for h := range out {
			out[h] = p.FixedPrice
		}
		return out, nil
	case ModeTOU:
		if len(p.Periods) == 0 {
			return nil, fmt.Errorf("%w: time-of-use mode needs at least one period", model.ErrInvalidConfiguration)
		}
		out := make([]float64, HoursPerDay)
		for h := range out {
			out[h] = p.PriceAt(h)
		}
		if err := checkPrices(out); err != nil {
			return nil, err
		}
		return out, nil
	case ModeDynamic:
		return p.dynamicCurve()
	default:
		return nil, fmt.Errorf("%w: unknown pricing mode %q", model.ErrInvalidConfiguration, p.Mode)
	}
}

// PriceAt looks hour up in the TOU periods. When no period matches, the first
// period's price is used.
func (p *Provider) PriceAt(hour int) float64 {
	if len(p.Periods) == 0 {
		return p.FixedPrice
	}
	hour = ((hour % HoursPerDay) + HoursPerDay) % HoursPerDay
	for _, period := range p.Periods {
		if period.Contains(hour) {
			return period.Price
		}
	}
	return p.Periods[0].Price
}

// checkPrices rejects negative or non-finite prices.
func checkPrices(curve []float64) error {
	for h, v := range curve {
		if v < 0 || !model.Finite(v) {
			return fmt.Errorf("%w: price at hour %d must be a finite value >= 0", model.ErrInvalidConfiguration, h)
		}
	}
	return nil
}

func (p *Provider) dynamicCurve() ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dynamic != nil {
		out := make([]float64, HoursPerDay)
		copy(out, p.dynamic)
		return out, nil
	}
	if !(p.Volatility >= 0 && p.Volatility < 1) {
		return nil, fmt.Errorf("%w: volatility must be in [0, 1)", model.ErrInvalidConfiguration)
	}
	out := DynamicBase()
	if p.Rand == nil || p.Volatility == 0 {
		return out, nil
	}
	for h := range out {
		noise := (p.Rand.Float64()*2 - 1) * p.Volatility
		out[h] *= 1 + noise
	}
	return out, nil
}
