// Package quad provides the numerical quadrature rules used to integrate
// sampled forcing curves.
package quad

import (
	"fmt"
	"sort"

	"github.com/san-kum/gwplab/internal/gas"
	"gonum.org/v1/gonum/integrate"
)

// Rule integrates y over the strictly increasing abscissas x.
type Rule interface {
	Name() string
	Integrate(x, y []float64) (float64, error)
}

type Trapezoid struct{}

func NewTrapezoid() Trapezoid { return Trapezoid{} }

func (Trapezoid) Name() string { return "trapezoid" }

func (Trapezoid) Integrate(x, y []float64) (float64, error) {
	if err := check(x, y); err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(x, y), nil
}

// Simpson is the composite Simpson rule, the default for the smooth
// exponential integrands here. Two points carry no curvature information,
// so that one legal case degrades to the trapezoid rule.
type Simpson struct{}

func NewSimpson() Simpson { return Simpson{} }

func (Simpson) Name() string { return "simpson" }

func (Simpson) Integrate(x, y []float64) (float64, error) {
	if err := check(x, y); err != nil {
		return 0, err
	}
	if len(x) == 2 {
		return integrate.Trapezoidal(x, y), nil
	}
	return integrate.Simpsons(x, y), nil
}

func check(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d abscissas but %d ordinates", gas.ErrInvalidInput, len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", gas.ErrInvalidInput, len(x))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return fmt.Errorf("%w: abscissas not strictly increasing at index %d", gas.ErrInvalidInput, i)
		}
	}
	return nil
}

var rules = map[string]func() Rule{
	"trapezoid": func() Rule { return NewTrapezoid() },
	"simpson":   func() Rule { return NewSimpson() },
}

// New builds a rule by name.
func New(name string) (Rule, error) {
	fn, ok := rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown quadrature rule %q (have %v)", gas.ErrInvalidInput, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
