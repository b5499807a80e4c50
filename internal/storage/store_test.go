package storage

import (
	"math"
	"testing"

	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gwp"
)

func sampleTable() map[gwp.Key]gwp.Entry {
	return map[gwp.Key]gwp.Entry{
		{GasID: "ch4", Horizon: 20}:  {GWP: 84.2, AGWP: 2.09e-12},
		{GasID: "ch4", Horizon: 100}: {GWP: 28.4, AGWP: 2.61e-12},
	}
}

func sampleCurve() *forcing.Curve {
	return &forcing.Curve{
		GasID:  "ch4",
		Times:  []float64{0, 0.5, 1.0},
		Values: []float64{1.0, 0.8, 0.64},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Reference:  "co2",
		Gases:      []string{"ch4"},
		Horizons:   []float64{20, 100},
		Quadrature: "simpson",
		PulseKg:    1e9,
	}, sampleTable(), []*forcing.Curve{sampleCurve()})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.ID != runID || meta.Reference != "co2" || meta.PulseKg != 1e9 {
		t.Errorf("metadata round trip lost fields: %+v", meta)
	}
	if len(meta.Results) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(meta.Results))
	}
	if meta.Results[0].GasID != "ch4" || meta.Results[0].Horizon != 20 {
		t.Errorf("results not in sorted key order: %+v", meta.Results[0])
	}
}

func TestLoadCurve(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	want := sampleCurve()
	runID, err := st.Save(RunMetadata{Reference: "co2", Gases: []string{"ch4"}}, sampleTable(), []*forcing.Curve{want})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.LoadCurve(runID, "ch4")
	if err != nil {
		t.Fatalf("load curve: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("expected %d samples, got %d", want.Len(), got.Len())
	}
	for i := range want.Times {
		if math.Abs(got.Times[i]-want.Times[i]) > 1e-12 || math.Abs(got.Values[i]-want.Values[i]) > 1e-12 {
			t.Errorf("sample %d: got (%g, %g), want (%g, %g)",
				i, got.Times[i], got.Values[i], want.Times[i], want.Values[i])
		}
	}

	if _, err := st.LoadCurve(runID, "n2o"); err == nil {
		t.Error("expected error for missing curve")
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Reference: "co2"}, sampleTable(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestSaveRunIDsNeverCollide(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	// Back-to-back saves land in the same second.
	a, err := st.Save(RunMetadata{Reference: "co2"}, sampleTable(), nil)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	b, err := st.Save(RunMetadata{Reference: "co2"}, sampleTable(), nil)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if a == b {
		t.Fatalf("both saves got run id %s", a)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nope")
	runs, err := st.List()
	if err != nil || runs != nil {
		t.Errorf("expected empty result for missing dir, got %v, %v", runs, err)
	}
}
