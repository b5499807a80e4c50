package gas

import (
	"errors"
	"fmt"
	"math"
)

// Physical constants shared by the per-kg efficiency conversion and the
// joules rendering of cumulative forcing.
const (
	EarthArea      = 510072e9             // m^2
	SecondsPerYear = 365.2425 * 24 * 3600 // s
	AtmosphereMass = 5.1352e18            // kg of dry air
	AirMolarMass   = 28.97                // g/mol
)

// AmplitudeTol bounds how far the decay-term amplitudes may drift from
// summing to exactly one.
const AmplitudeTol = 1e-6

var ErrInvalidInput = errors.New("invalid input")

// Term is one mode of a multi-exponential impulse response. A permanent
// term models the never-removed airborne fraction and ignores TimeConstant.
type Term struct {
	Amplitude    float64
	TimeConstant float64 // years
	Permanent    bool
}

func Exponential(amplitude, timeConstant float64) Term {
	return Term{Amplitude: amplitude, TimeConstant: timeConstant}
}

func Permanent(amplitude float64) Term {
	return Term{Amplitude: amplitude, Permanent: true}
}

// Gas carries the physical parameters of one greenhouse gas: its radiative
// efficiency per kilogram airborne and the decay terms of its impulse
// response. Instances are built once from external data and never mutated.
type Gas struct {
	ID         string
	Name       string
	Efficiency float64 // W/m^2 per kg airborne
	Terms      []Term
}

// New validates the parameters and returns an immutable gas record.
func New(id, name string, efficiency float64, terms ...Term) (*Gas, error) {
	g := &Gas{ID: id, Name: name, Efficiency: efficiency, Terms: terms}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// SingleLifetime builds a gas with plain exponential decay, the common
// case for everything that is not the CO2 reference.
func SingleLifetime(id, name string, efficiency, lifetime float64) (*Gas, error) {
	return New(id, name, efficiency, Exponential(1.0, lifetime))
}

func (g *Gas) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil gas", ErrInvalidInput)
	}
	if g.ID == "" {
		return fmt.Errorf("%w: empty gas id", ErrInvalidInput)
	}
	if !(g.Efficiency > 0) || math.IsInf(g.Efficiency, 0) {
		return fmt.Errorf("%w: gas %s: radiative efficiency must be a positive finite number, got %g", ErrInvalidInput, g.ID, g.Efficiency)
	}
	if len(g.Terms) == 0 {
		return fmt.Errorf("%w: gas %s: no decay terms", ErrInvalidInput, g.ID)
	}
	sum := 0.0
	for i, term := range g.Terms {
		if !(term.Amplitude > 0) || term.Amplitude > 1 || math.IsNaN(term.Amplitude) {
			return fmt.Errorf("%w: gas %s: term %d amplitude %g outside (0,1]", ErrInvalidInput, g.ID, i, term.Amplitude)
		}
		if !term.Permanent {
			if !(term.TimeConstant > 0) || math.IsInf(term.TimeConstant, 0) || math.IsNaN(term.TimeConstant) {
				return fmt.Errorf("%w: gas %s: term %d time constant %g must be positive and finite", ErrInvalidInput, g.ID, i, term.TimeConstant)
			}
		}
		sum += term.Amplitude
	}
	if math.Abs(sum-1.0) > AmplitudeTol {
		return fmt.Errorf("%w: gas %s: amplitudes sum to %g, want 1", ErrInvalidInput, g.ID, sum)
	}
	return nil
}

// MinTimeConstant reports the fastest finite decay mode. The second return
// is false when every term is permanent.
func (g *Gas) MinTimeConstant() (float64, bool) {
	min := math.Inf(1)
	found := false
	for _, term := range g.Terms {
		if !term.Permanent && term.TimeConstant < min {
			min = term.TimeConstant
			found = true
		}
	}
	return min, found
}

// PermanentFraction is the airborne fraction that never decays.
func (g *Gas) PermanentFraction() float64 {
	f := 0.0
	for _, term := range g.Terms {
		if term.Permanent {
			f += term.Amplitude
		}
	}
	return f
}

// PerKgEfficiency converts a radiative efficiency reported per ppb mixing
// ratio (the form used in assessment-report tables) into W/m^2 per kg of
// gas added to the atmosphere.
func PerKgEfficiency(perPPB, molarMass float64) float64 {
	kgPerPPB := 1e-9 * AtmosphereMass * molarMass / AirMolarMass
	return perPPB / kgPerPPB
}
