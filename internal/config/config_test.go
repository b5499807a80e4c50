package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/gwplab/internal/gas"
	"github.com/san-kum/gwplab/internal/gwp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Reference != "co2" {
		t.Errorf("expected co2 reference, got %s", cfg.Reference)
	}
	if len(cfg.Gases) == 0 {
		t.Error("expected the full inventory by default")
	}
	if len(cfg.Horizons) != 3 {
		t.Errorf("expected 3 default horizons, got %v", cfg.Horizons)
	}
	if cfg.Quadrature != "simpson" {
		t.Errorf("expected simpson default, got %s", cfg.Quadrature)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Horizons = []float64{20, 100}
	cfg.Samples = 5000
	cfg.Mode = "collect"
	cfg.Custom = []GasConfig{{
		ID:         "lab1",
		Efficiency: 0.5,
		Lifetime:   7.3,
	}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Samples != 5000 || loaded.Mode != "collect" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Custom) != 1 || loaded.Custom[0].Lifetime != 7.3 {
		t.Errorf("round trip lost custom gas: %+v", loaded.Custom)
	}
}

func TestResolveGases(t *testing.T) {
	cfg := &Config{
		Gases:     []string{"ch4", "co2"},
		Reference: "co2",
		Custom: []GasConfig{{
			ID:         "lab1",
			Efficiency: 1.0,
			Terms: []TermConfig{
				{Amplitude: 0.4, Permanent: true},
				{Amplitude: 0.6, TimeConstant: 30},
			},
		}},
	}
	gases, ref, err := cfg.ResolveGases()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gases) != 3 {
		t.Fatalf("expected 3 gases, got %d", len(gases))
	}
	if ref.ID != "co2" {
		t.Errorf("expected co2 reference, got %s", ref.ID)
	}
	if gases[2].PermanentFraction() != 0.4 {
		t.Errorf("custom permanent fraction lost: %g", gases[2].PermanentFraction())
	}
}

func TestResolveGasesUnknownPreset(t *testing.T) {
	cfg := &Config{Gases: []string{"argon"}, Reference: "co2"}
	if _, _, err := cfg.ResolveGases(); !errors.Is(err, gas.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	cfg = &Config{Gases: []string{"ch4"}, Reference: "argon"}
	if _, _, err := cfg.ResolveGases(); !errors.Is(err, gas.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown reference, got %v", err)
	}
}

func TestResolveGasesBadCustom(t *testing.T) {
	cfg := &Config{
		Reference: "co2",
		Custom:    []GasConfig{{ID: "bad", Efficiency: 1.0, Lifetime: -3}},
	}
	if _, _, err := cfg.ResolveGases(); !errors.Is(err, gas.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    gwp.Mode
		wantErr bool
	}{
		{"", gwp.FailFast, false},
		{"fail_fast", gwp.FailFast, false},
		{"collect", gwp.Collect, false},
		{"lenient", gwp.FailFast, true},
	}
	for _, tt := range tests {
		cfg := &Config{Mode: tt.in}
		got, err := cfg.BatchMode()
		if tt.wantErr != (err != nil) {
			t.Errorf("mode %q: error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("mode %q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}
