package kernel

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gwplab/internal/gas"
)

func mustGas(t *testing.T, id string, efficiency float64, terms ...gas.Term) *gas.Gas {
	t.Helper()
	g, err := gas.New(id, "", efficiency, terms...)
	if err != nil {
		t.Fatalf("bad fixture gas %s: %v", id, err)
	}
	return g
}

func TestRemainingFractionAtZero(t *testing.T) {
	gases := []*gas.Gas{
		mustGas(t, "single", 1.0, gas.Exponential(1.0, 12.4)),
		mustGas(t, "multi", 1.0,
			gas.Permanent(0.2173),
			gas.Exponential(0.2240, 394.4),
			gas.Exponential(0.2824, 36.54),
			gas.Exponential(0.2763, 4.304),
		),
	}
	for _, g := range gases {
		f, err := RemainingFraction(g, 0)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", g.ID, err)
		}
		if math.Abs(f-1.0) > 1e-9 {
			t.Errorf("%s: fraction at t=0 is %.12f, want 1", g.ID, f)
		}
	}
}

func TestRemainingFractionMonotonicDecay(t *testing.T) {
	g := mustGas(t, "decay", 1.0, gas.Exponential(0.7, 5), gas.Exponential(0.3, 50))
	prev := math.Inf(1)
	for _, tt := range []float64{0, 0.5, 1, 2, 5, 10, 50, 200, 1000} {
		f, err := RemainingFraction(g, tt)
		if err != nil {
			t.Fatalf("unexpected error at t=%g: %v", tt, err)
		}
		if f > prev {
			t.Errorf("fraction increased at t=%g: %g > %g", tt, f, prev)
		}
		if f < 0 || f > 1 {
			t.Errorf("fraction %g outside [0,1] at t=%g", f, tt)
		}
		prev = f
	}
}

func TestRemainingFractionPermanentFloor(t *testing.T) {
	g := mustGas(t, "floored", 1.0, gas.Permanent(0.25), gas.Exponential(0.75, 2))
	f, err := RemainingFraction(g, 1e6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f-0.25) > 1e-9 {
		t.Errorf("expected permanent floor 0.25 at large t, got %g", f)
	}
}

func TestRemainingFractionRejectsNegativeTime(t *testing.T) {
	g := mustGas(t, "x", 1.0, gas.Exponential(1.0, 10))
	_, err := RemainingFraction(g, -1)
	if !errors.Is(err, gas.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative t, got %v", err)
	}
	_, err = RemainingFraction(nil, 1)
	if !errors.Is(err, gas.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil gas, got %v", err)
	}
}

func TestForcingLinearInFraction(t *testing.T) {
	g := mustGas(t, "x", 0.3, gas.Exponential(1.0, 10))
	if got := Forcing(g, 0.5); math.Abs(got-0.15) > 1e-15 {
		t.Errorf("expected 0.15, got %g", got)
	}
	if got := Forcing(g, 0); got != 0 {
		t.Errorf("expected 0 forcing for 0 fraction, got %g", got)
	}
}

func TestForcingAt(t *testing.T) {
	g := mustGas(t, "x", 2.0, gas.Exponential(1.0, 10))
	got, err := ForcingAt(g, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2.0 * math.Exp(-1)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, got)
	}
}
