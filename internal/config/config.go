package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"microgrid-valuation/internal/finance"
	"microgrid-valuation/internal/model"
	"microgrid-valuation/internal/pricing"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk project shape (YAML). The same section types are
// accepted as JSON by the API.
type Config struct {
	// Optional: load a project preset (e.g. presets/*.yaml) and overlay the
	// sections below onto it.
	PresetFile string          `yaml:"preset_file"`
	Name       string          `yaml:"name"`
	Microgrid  MicrogridConfig `yaml:"microgrid"`
	Finance    FinanceConfig   `yaml:"finance"`
	Pricing    PricingConfig   `yaml:"pricing"`
}

// MicrogridConfig is the file shape of model.MicrogridConfig. Zero fields
// mean "use the default".
type MicrogridConfig struct {
	PVCapacityKW        float64            `yaml:"pv_capacity_kw" json:"pv_capacity_kw"`
	StorageCapacityKWh  float64            `yaml:"storage_capacity_kwh" json:"storage_capacity_kwh"`
	StoragePowerKW      float64            `yaml:"storage_power_kw" json:"storage_power_kw"`
	RoundTripEfficiency float64            `yaml:"round_trip_efficiency" json:"round_trip_efficiency"`
	ChargingPowerKW     float64            `yaml:"charging_power_kw" json:"charging_power_kw"`
	ACCapacityKW        float64            `yaml:"ac_capacity_kw" json:"ac_capacity_kw"`
	LightingPowerKW     float64            `yaml:"lighting_power_kw" json:"lighting_power_kw"`
	ProductionLoadKW    float64            `yaml:"production_load_kw" json:"production_load_kw"`
	Hours               int                `yaml:"hours" json:"hours"`
	AIEnabled           *bool              `yaml:"ai_enabled" json:"ai_enabled"`
	WeatherFactors      map[string]float64 `yaml:"weather_factors" json:"weather_factors"`
	CriticalLoadRatio   float64            `yaml:"critical_load_ratio" json:"critical_load_ratio"`
	SOCMin              float64            `yaml:"soc_min" json:"soc_min"`
	SOCMax              float64            `yaml:"soc_max" json:"soc_max"`
	GridFee             float64            `yaml:"grid_fee" json:"grid_fee"`
	LowPrice            float64            `yaml:"low_price" json:"low_price"`
	HighPrice           float64            `yaml:"high_price" json:"high_price"`
	ChargeCeilingSOC    float64            `yaml:"charge_ceiling_soc" json:"charge_ceiling_soc"`
}

type FinanceConfig struct {
	PVCostPerW        float64 `yaml:"pv_cost_per_w" json:"pv_cost_per_w"`
	StorageCostPerKWh float64 `yaml:"storage_cost_per_kwh" json:"storage_cost_per_kwh"`
	ChargingCostPerKW float64 `yaml:"charging_cost_per_kw" json:"charging_cost_per_kw"`
	PlatformCost      float64 `yaml:"platform_cost" json:"platform_cost"`
	MaintenanceRate   float64 `yaml:"maintenance_rate" json:"maintenance_rate"`
	BaselinePrice     float64 `yaml:"baseline_price" json:"baseline_price"`
	OperatingDays     int     `yaml:"operating_days" json:"operating_days"`
	LifespanYears     int     `yaml:"lifespan_years" json:"lifespan_years"`
	EmissionFactor    float64 `yaml:"emission_factor" json:"emission_factor"`
	AnnualDegradation float64 `yaml:"annual_degradation" json:"annual_degradation"`
}

type PeriodConfig struct {
	Name      string  `yaml:"name" json:"name"`
	StartHour int     `yaml:"start_hour" json:"start_hour"`
	EndHour   int     `yaml:"end_hour" json:"end_hour"`
	Price     float64 `yaml:"price" json:"price"`
}

// PricingConfig selects a tariff. Precedence: Prices, then Mode, then
// Template, then the default template.
type PricingConfig struct {
	Template   string         `yaml:"template" json:"template"`
	Mode       string         `yaml:"mode" json:"mode"`
	FixedPrice float64        `yaml:"fixed_price" json:"fixed_price"`
	Periods    []PeriodConfig `yaml:"periods" json:"periods"`
	Volatility float64        `yaml:"volatility" json:"volatility"`
	// Seed drives dynamic-mode noise. 0 means no noise.
	Seed int64 `yaml:"seed" json:"seed"`
	// Prices is an explicit curve of 24 or horizon-length values.
	Prices []float64 `yaml:"prices" json:"prices"`
	// CurveFile points at a price-curve JSON file. It is resolved by the caller.
	CurveFile string `yaml:"curve_file" json:"-"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.PresetFile != "" {
		preset, err := LoadPreset(resolve(path, c.PresetFile))
		if err != nil {
			return nil, err
		}
		c.Microgrid = MergeMicrogrid(preset.Microgrid, c.Microgrid)
		c.Finance = MergeFinance(preset.Finance, c.Finance)
		if c.Pricing.empty() {
			c.Pricing = preset.Pricing
		}
		if c.Name == "" {
			c.Name = preset.Name
		}
	}
	if c.Pricing.CurveFile != "" {
		c.Pricing.CurveFile = resolve(path, c.Pricing.CurveFile)
	}
	return &c, nil
}

// resolve interprets rel relative to the directory of the file that named it,
// falling back to rel as given when that does not exist.
func resolve(from, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	cand := filepath.Join(filepath.Dir(from), rel)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return rel
}

// LoadPreset reads a preset file. Presets have the Config shape and cannot
// chain to another preset.
func LoadPreset(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if c.PresetFile != "" {
		return nil, fmt.Errorf("%w: preset %s sets preset_file", model.ErrInvalidConfiguration, path)
	}
	if c.Name == "" {
		c.Name = trimExt(filepath.Base(path))
	}
	return &c, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	mg := c.Microgrid.ToModel()
	if err := mg.Validate(); err != nil {
		return fmt.Errorf("microgrid config invalid: %w", err)
	}
	if err := c.Finance.ToParams().Validate(); err != nil {
		return fmt.Errorf("finance config invalid: %w", err)
	}
	if c.Pricing.CurveFile == "" {
		if _, err := c.Pricing.Curve(); err != nil {
			return fmt.Errorf("pricing config invalid: %w", err)
		}
	}
	return nil
}

// ToModel overlays the non-zero fields onto model.DefaultMicrogridConfig.
func (m MicrogridConfig) ToModel() model.MicrogridConfig {
	out := model.DefaultMicrogridConfig()
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&out.PVCapacityKW, m.PVCapacityKW)
	setF(&out.StorageCapacityKWh, m.StorageCapacityKWh)
	setF(&out.StoragePowerKW, m.StoragePowerKW)
	setF(&out.RoundTripEfficiency, m.RoundTripEfficiency)
	setF(&out.ChargingPowerKW, m.ChargingPowerKW)
	setF(&out.ACCapacityKW, m.ACCapacityKW)
	setF(&out.LightingPowerKW, m.LightingPowerKW)
	setF(&out.ProductionLoadKW, m.ProductionLoadKW)
	setF(&out.CriticalLoadRatio, m.CriticalLoadRatio)
	setF(&out.SOCMin, m.SOCMin)
	setF(&out.SOCMax, m.SOCMax)
	setF(&out.GridFee, m.GridFee)
	setF(&out.Thresholds.LowPrice, m.LowPrice)
	setF(&out.Thresholds.HighPrice, m.HighPrice)
	setF(&out.Thresholds.ChargeCeilingSOC, m.ChargeCeilingSOC)
	if m.Hours != 0 {
		out.Hours = m.Hours
	}
	if m.AIEnabled != nil {
		out.AIEnabled = *m.AIEnabled
	}
	for name, f := range m.WeatherFactors {
		out.WeatherFactors[model.Weather(name)] = f
	}
	return out
}

// MergeMicrogrid overlays non-zero fields from override onto base.
func MergeMicrogrid(base, override MicrogridConfig) MicrogridConfig {
	out := base
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&out.PVCapacityKW, override.PVCapacityKW)
	setF(&out.StorageCapacityKWh, override.StorageCapacityKWh)
	setF(&out.StoragePowerKW, override.StoragePowerKW)
	setF(&out.RoundTripEfficiency, override.RoundTripEfficiency)
	setF(&out.ChargingPowerKW, override.ChargingPowerKW)
	setF(&out.ACCapacityKW, override.ACCapacityKW)
	setF(&out.LightingPowerKW, override.LightingPowerKW)
	setF(&out.ProductionLoadKW, override.ProductionLoadKW)
	setF(&out.CriticalLoadRatio, override.CriticalLoadRatio)
	setF(&out.SOCMin, override.SOCMin)
	setF(&out.SOCMax, override.SOCMax)
	setF(&out.GridFee, override.GridFee)
	setF(&out.LowPrice, override.LowPrice)
	setF(&out.HighPrice, override.HighPrice)
	setF(&out.ChargeCeilingSOC, override.ChargeCeilingSOC)
	if override.Hours != 0 {
		out.Hours = override.Hours
	}
	if override.AIEnabled != nil {
		v := *override.AIEnabled
		out.AIEnabled = &v
	}
	if len(override.WeatherFactors) > 0 {
		merged := make(map[string]float64, len(base.WeatherFactors)+len(override.WeatherFactors))
		for k, v := range base.WeatherFactors {
			merged[k] = v
		}
		for k, v := range override.WeatherFactors {
			merged[k] = v
		}
		out.WeatherFactors = merged
	}
	return out
}

// ToParams overlays the non-zero fields onto finance.DefaultParams.
func (f FinanceConfig) ToParams() finance.Params {
	p := finance.DefaultParams()
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&p.PVCostPerW, f.PVCostPerW)
	setF(&p.StorageCostPerKWh, f.StorageCostPerKWh)
	setF(&p.ChargingCostPerKW, f.ChargingCostPerKW)
	setF(&p.PlatformCost, f.PlatformCost)
	setF(&p.MaintenanceRate, f.MaintenanceRate)
	setF(&p.BaselinePrice, f.BaselinePrice)
	setF(&p.EmissionFactor, f.EmissionFactor)
	setF(&p.AnnualDegradation, f.AnnualDegradation)
	if f.OperatingDays != 0 {
		p.OperatingDays = f.OperatingDays
	}
	if f.LifespanYears != 0 {
		p.LifespanYears = f.LifespanYears
	}
	return p
}

// MergeFinance overlays non-zero fields from override onto base.
func MergeFinance(base, override FinanceConfig) FinanceConfig {
	out := base
	if override.PVCostPerW != 0 {
		out.PVCostPerW = override.PVCostPerW
	}
	if override.StorageCostPerKWh != 0 {
		out.StorageCostPerKWh = override.StorageCostPerKWh
	}
	if override.ChargingCostPerKW != 0 {
		out.ChargingCostPerKW = override.ChargingCostPerKW
	}
	if override.PlatformCost != 0 {
		out.PlatformCost = override.PlatformCost
	}
	if override.MaintenanceRate != 0 {
		out.MaintenanceRate = override.MaintenanceRate
	}
	if override.BaselinePrice != 0 {
		out.BaselinePrice = override.BaselinePrice
	}
	if override.OperatingDays != 0 {
		out.OperatingDays = override.OperatingDays
	}
	if override.LifespanYears != 0 {
		out.LifespanYears = override.LifespanYears
	}
	if override.EmissionFactor != 0 {
		out.EmissionFactor = override.EmissionFactor
	}
	if override.AnnualDegradation != 0 {
		out.AnnualDegradation = override.AnnualDegradation
	}
	return out
}

func (p PricingConfig) empty() bool {
	return p.Template == "" && p.Mode == "" && len(p.Prices) == 0 && p.CurveFile == ""
}

// Provider builds the pricing provider. It does not handle Prices or CurveFile.
func (p PricingConfig) Provider() (*pricing.Provider, error) {
	if p.Mode == "" {
		name := p.Template
		if name == "" {
			name = pricing.DefaultTemplate
		}
		return pricing.Template(name)
	}
	mode, err := pricing.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}
	prov := &pricing.Provider{
		Mode:       mode,
		FixedPrice: p.FixedPrice,
		Volatility: p.Volatility,
	}
	for _, per := range p.Periods {
		prov.Periods = append(prov.Periods, pricing.TOUPeriod{
			Name:      per.Name,
			StartHour: per.StartHour,
			EndHour:   per.EndHour,
			Price:     per.Price,
		})
	}
	if p.Seed != 0 {
		prov.Rand = rand.New(rand.NewSource(p.Seed))
	}
	return prov, nil
}

// Curve returns the explicit Prices when set, otherwise the provider curve.
func (p PricingConfig) Curve() ([]float64, error) {
	if len(p.Prices) > 0 {
		for _, v := range p.Prices {
			if v < 0 || !model.Finite(v) {
				return nil, fmt.Errorf("%w: prices must be finite and >= 0", model.ErrInvalidConfiguration)
			}
		}
		return append([]float64(nil), p.Prices...), nil
	}
	prov, err := p.Provider()
	if err != nil {
		return nil, err
	}
	return prov.Curve()
}
