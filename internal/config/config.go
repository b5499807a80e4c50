package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gwplab/internal/gas"
	"github.com/san-kum/gwplab/internal/gwp"
	"gopkg.in/yaml.v3"
)

const (
	DefaultReference  = "co2"
	DefaultQuadrature = "simpson"
	DefaultPulseKg    = 1e9 // 1 Mt, the pulse size of the reference figure
)

var DefaultHorizons = []float64{20, 100, 500}

// Config describes one evaluation run: which gases, against which
// reference, over which horizons, and with what numerical settings.
type Config struct {
	Gases      []string    `yaml:"gases"`            // preset ids
	Custom     []GasConfig `yaml:"custom,omitempty"` // fully specified gases
	Reference  string      `yaml:"reference"`
	Horizons   []float64   `yaml:"horizons"`
	Quadrature string      `yaml:"quadrature"`
	Samples    int         `yaml:"samples,omitempty"` // 0 = density policy
	PulseKg    float64     `yaml:"pulse_mass_kg,omitempty"`
	Mode       string      `yaml:"mode,omitempty"` // fail_fast | collect
}

// GasConfig declares a gas inline. Either a single lifetime or explicit
// decay terms; radiative efficiency is per kg airborne.
type GasConfig struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name,omitempty"`
	Efficiency float64      `yaml:"radiative_efficiency"`
	Lifetime   float64      `yaml:"lifetime,omitempty"`
	Terms      []TermConfig `yaml:"decay_terms,omitempty"`
}

type TermConfig struct {
	Amplitude    float64 `yaml:"amplitude"`
	TimeConstant float64 `yaml:"time_constant,omitempty"`
	Permanent    bool    `yaml:"permanent,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Gases:      gas.PresetIDs(),
		Reference:  DefaultReference,
		Horizons:   append([]float64(nil), DefaultHorizons...),
		Quadrature: DefaultQuadrature,
		PulseKg:    DefaultPulseKg,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs the validated gas record.
func (gc GasConfig) Build() (*gas.Gas, error) {
	if len(gc.Terms) == 0 {
		return gas.SingleLifetime(gc.ID, gc.Name, gc.Efficiency, gc.Lifetime)
	}
	terms := make([]gas.Term, len(gc.Terms))
	for i, tc := range gc.Terms {
		if tc.Permanent {
			terms[i] = gas.Permanent(tc.Amplitude)
		} else {
			terms[i] = gas.Exponential(tc.Amplitude, tc.TimeConstant)
		}
	}
	return gas.New(gc.ID, gc.Name, gc.Efficiency, terms...)
}

// ResolveGases materializes the run's gas set (presets first, then custom
// declarations) and its reference gas.
func (c *Config) ResolveGases() ([]*gas.Gas, *gas.Gas, error) {
	byID := make(map[string]*gas.Gas)
	var gases []*gas.Gas
	for _, id := range c.Gases {
		g, ok := gas.Preset(id)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown preset gas %q (have %v)", gas.ErrInvalidInput, id, gas.PresetIDs())
		}
		gases = append(gases, g)
		byID[g.ID] = g
	}
	for _, gc := range c.Custom {
		g, err := gc.Build()
		if err != nil {
			return nil, nil, err
		}
		gases = append(gases, g)
		byID[g.ID] = g
	}

	ref, ok := byID[c.Reference]
	if !ok {
		ref, ok = gas.Preset(c.Reference)
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown reference gas %q", gas.ErrInvalidInput, c.Reference)
	}
	return gases, ref, nil
}

// BatchMode maps the config string onto the calculator policy. The empty
// string keeps the fail-fast default.
func (c *Config) BatchMode() (gwp.Mode, error) {
	switch c.Mode {
	case "", "fail_fast":
		return gwp.FailFast, nil
	case "collect":
		return gwp.Collect, nil
	default:
		return gwp.FailFast, fmt.Errorf("%w: unknown batch mode %q", gas.ErrInvalidInput, c.Mode)
	}
}
