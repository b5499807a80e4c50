// Package gwp computes global warming potentials: the ratio of a gas's
// integrated forcing to that of a reference gas over the same horizon.
package gwp

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gas"
)

// ErrDivisionUndefined reports a reference gas whose AGWP evaluates to
// zero, which only degenerate parameters can produce.
var ErrDivisionUndefined = errors.New("reference AGWP is zero")

// Mode is the batch failure policy for Table. FailFast aborts the whole
// batch on the first error; Collect records a per-entry error instead. No
// entry is ever dropped silently.
type Mode int

const (
	FailFast Mode = iota
	Collect
)

// Key identifies one cell of a GWP table.
type Key struct {
	GasID   string
	Horizon float64
}

// Entry is one computed cell. Err is only set in Collect mode.
type Entry struct {
	GWP  float64
	AGWP float64
	Err  error
}

type cacheKey struct {
	g       *gas.Gas
	horizon float64
}

// Calculator derives GWP values from an integrator, memoizing AGWP per
// (gas, horizon) since every table row divides by the same reference.
type Calculator struct {
	integ *forcing.Integrator
	mode  Mode

	mu    sync.Mutex
	cache map[cacheKey]float64
}

func New(integ *forcing.Integrator) *Calculator {
	return &Calculator{
		integ: integ,
		cache: make(map[cacheKey]float64),
	}
}

func (c *Calculator) SetMode(m Mode) { c.mode = m }

// AGWP is the memoized absolute GWP of a unit pulse.
func (c *Calculator) AGWP(g *gas.Gas, horizon float64) (float64, error) {
	key := cacheKey{g: g, horizon: horizon}
	c.mu.Lock()
	v, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return v, nil
	}
	v, err := c.integ.AGWP(g, horizon)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.cache[key] = v
	c.mu.Unlock()
	return v, nil
}

// GWP is AGWP(g)/AGWP(ref) over the horizon. A gas compared against
// itself yields exactly 1 through the cache.
func (c *Calculator) GWP(g, ref *gas.Gas, horizon float64) (float64, error) {
	num, err := c.AGWP(g, horizon)
	if err != nil {
		return 0, err
	}
	den, err := c.AGWP(ref, horizon)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("%w: gas %s, horizon %g", ErrDivisionUndefined, ref.ID, horizon)
	}
	return num / den, nil
}

// Table evaluates the full gas x horizon product in parallel. Entries are
// independent, so one goroutine per cell assembles an order-insensitive
// map; the reference AGWPs are computed up front so the worker fanout only
// reads the cache for them.
func (c *Calculator) Table(gases []*gas.Gas, ref *gas.Gas, horizons []float64) (map[Key]Entry, error) {
	if len(gases) == 0 {
		return nil, fmt.Errorf("%w: no gases", gas.ErrInvalidInput)
	}
	if len(horizons) == 0 {
		return nil, fmt.Errorf("%w: no horizons", gas.ErrInvalidInput)
	}
	for _, h := range horizons {
		if _, err := c.AGWP(ref, h); err != nil {
			return nil, err
		}
	}

	type cell struct {
		key   Key
		entry Entry
	}
	cells := make([]cell, len(gases)*len(horizons))

	var wg sync.WaitGroup
	for i, g := range gases {
		for j, h := range horizons {
			wg.Add(1)
			go func(idx int, g *gas.Gas, h float64) {
				defer wg.Done()
				var e Entry
				e.AGWP, e.Err = c.AGWP(g, h)
				if e.Err == nil {
					e.GWP, e.Err = c.GWP(g, ref, h)
				}
				cells[idx] = cell{key: Key{GasID: g.ID, Horizon: h}, entry: e}
			}(i*len(horizons)+j, g, h)
		}
	}
	wg.Wait()

	out := make(map[Key]Entry, len(cells))
	for _, cl := range cells {
		if cl.entry.Err != nil && c.mode == FailFast {
			return nil, fmt.Errorf("gwp(%s, %g): %w", cl.key.GasID, cl.key.Horizon, cl.entry.Err)
		}
		out[cl.key] = cl.entry
	}
	return out, nil
}

// SortedKeys orders table keys by gas id, then horizon, for stable
// rendering of an order-insensitive map.
func SortedKeys(table map[Key]Entry) []Key {
	keys := make([]Key, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GasID != keys[j].GasID {
			return keys[i].GasID < keys[j].GasID
		}
		return keys[i].Horizon < keys[j].Horizon
	})
	return keys
}
