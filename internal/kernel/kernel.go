// Package kernel evaluates gas impulse-response functions: the airborne
// fraction of a unit pulse remaining at time t, and the instantaneous
// forcing that fraction produces. All functions are pure and safe for
// concurrent use.
package kernel

import (
	"fmt"
	"math"

	"github.com/san-kum/gwplab/internal/gas"
)

// RemainingFraction returns the share of a pulse still airborne t years
// after emission. For a valid gas the result lies in [0,1] and equals 1
// at t = 0. Negative t is rejected rather than clamped.
func RemainingFraction(g *gas.Gas, t float64) (float64, error) {
	if g == nil {
		return 0, fmt.Errorf("%w: nil gas", gas.ErrInvalidInput)
	}
	if t < 0 || math.IsNaN(t) {
		return 0, fmt.Errorf("%w: time %g before emission", gas.ErrInvalidInput, t)
	}
	f := 0.0
	for _, term := range g.Terms {
		if term.Permanent {
			f += term.Amplitude
		} else {
			f += term.Amplitude * math.Exp(-t/term.TimeConstant)
		}
	}
	return f, nil
}

// Forcing converts an airborne fraction into W/m^2 for a unit-mass pulse.
// Forcing is taken linear in airborne mass, the standard pulse-GWP
// approximation.
func Forcing(g *gas.Gas, fraction float64) float64 {
	return g.Efficiency * fraction
}

// ForcingAt is RemainingFraction composed with Forcing.
func ForcingAt(g *gas.Gas, t float64) (float64, error) {
	f, err := RemainingFraction(g, t)
	if err != nil {
		return 0, err
	}
	return Forcing(g, f), nil
}
