package gas

import "sort"

// Built-in inventory with parameters from IPCC AR5 WG1 Table 8.A.1 and,
// for CO2, the multi-pool impulse response of Joos et al. (2013).
// Efficiencies are tabulated per ppb and converted per kg here. The
// indirect factors fold the AR5 adjustments for chemistry feedbacks into
// the efficiency: tropospheric ozone and stratospheric water vapour for
// CH4 (x1.65), reduced CH4 lifetime for N2O (x0.93).

type presetDef struct {
	id       string
	name     string
	rePerPPB float64 // W/m^2/ppb
	molar    float64 // g/mol
	indirect float64 // multiplier on efficiency; 0 means 1
	lifetime float64 // years; 0 means use bern terms
	bern     bool
}

var presetDefs = []presetDef{
	{id: "co2", name: "Carbon dioxide", rePerPPB: 1.37e-5, molar: 44.01, bern: true},
	{id: "ch4", name: "Methane", rePerPPB: 3.63e-4, molar: 16.04, indirect: 1.65, lifetime: 12.4},
	{id: "n2o", name: "Dinitrogen monoxide", rePerPPB: 3.00e-3, molar: 44.013, indirect: 0.93, lifetime: 121},
	{id: "sf6", name: "Sulfur hexafluoride", rePerPPB: 0.57, molar: 146.06, lifetime: 3200},
	{id: "cf4", name: "Tetrafluoromethane (CFC-14)", rePerPPB: 0.09, molar: 88.004, lifetime: 50000},
	{id: "cfc11", name: "Trichlorofluoromethane (CFC-11)", rePerPPB: 0.26, molar: 137.37, lifetime: 45},
	{id: "hfc134a", name: "HFC-134a", rePerPPB: 0.16, molar: 102.03, lifetime: 13.4},
	{id: "hfc152a", name: "HFC-152a", rePerPPB: 0.10, molar: 66.05, lifetime: 1.5},
}

// bernTerms is the 4-pool CO2 response: a permanently airborne fraction
// plus three decaying reservoirs.
var bernTerms = []Term{
	Permanent(0.2173),
	Exponential(0.2240, 394.4),
	Exponential(0.2824, 36.54),
	Exponential(0.2763, 4.304),
}

var presets = buildPresets()

func buildPresets() map[string]*Gas {
	m := make(map[string]*Gas, len(presetDefs))
	for _, def := range presetDefs {
		eff := PerKgEfficiency(def.rePerPPB, def.molar)
		if def.indirect != 0 {
			eff *= def.indirect
		}
		var g *Gas
		var err error
		if def.bern {
			terms := make([]Term, len(bernTerms))
			copy(terms, bernTerms)
			g, err = New(def.id, def.name, eff, terms...)
		} else {
			g, err = SingleLifetime(def.id, def.name, eff, def.lifetime)
		}
		if err != nil {
			panic("gas: bad preset " + def.id + ": " + err.Error())
		}
		m[def.id] = g
	}
	return m
}

// Preset looks up a built-in gas by id.
func Preset(id string) (*Gas, bool) {
	g, ok := presets[id]
	return g, ok
}

// Reference returns the built-in CO2 record, the denominator of every GWP.
func Reference() *Gas {
	return presets["co2"]
}

// PresetIDs lists the built-in inventory in stable order.
func PresetIDs() []string {
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Presets returns the built-in gases sorted by id.
func Presets() []*Gas {
	ids := PresetIDs()
	out := make([]*Gas, len(ids))
	for i, id := range ids {
		out[i] = presets[id]
	}
	return out
}
