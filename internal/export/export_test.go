package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gwp"
)

func TestTableCSV(t *testing.T) {
	table := map[gwp.Key]gwp.Entry{
		{GasID: "ch4", Horizon: 100}: {GWP: 28.4, AGWP: 2.61e-12},
		{GasID: "ch4", Horizon: 20}:  {GWP: 84.2, AGWP: 2.09e-12},
	}

	var buf bytes.Buffer
	if err := TableCSV(&buf, table); err != nil {
		t.Fatalf("table csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "gas") || !strings.Contains(lines[0], "gwp") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Rows come out in sorted key order, shortest horizon first.
	if !strings.HasPrefix(lines[1], "ch4,20") {
		t.Errorf("expected 20-year row first, got %q", lines[1])
	}
}

func TestTableRowsCarryErrors(t *testing.T) {
	table := map[gwp.Key]gwp.Entry{
		{GasID: "sf6", Horizon: 100}: {Err: gwp.ErrDivisionUndefined},
	}
	rows := TableRows(table)
	if len(rows) != 1 || rows[0].Error == "" {
		t.Fatalf("expected error column populated, got %+v", rows)
	}
}

func TestCurveCSVRoundTrip(t *testing.T) {
	want := &forcing.Curve{
		GasID:  "n2o",
		Times:  []float64{0, 2.5, 5},
		Values: []float64{3.2e-13, 3.1e-13, 3.0e-13},
	}

	var buf bytes.Buffer
	if err := CurveCSV(&buf, want); err != nil {
		t.Fatalf("curve csv: %v", err)
	}

	got, err := ReadCurveCSV(&buf, "n2o")
	if err != nil {
		t.Fatalf("read curve csv: %v", err)
	}
	if got.GasID != "n2o" || got.Len() != want.Len() {
		t.Fatalf("round trip shape: got %q/%d, want %q/%d", got.GasID, got.Len(), want.GasID, want.Len())
	}
	for i := range want.Times {
		if math.Abs(got.Values[i]-want.Values[i]) > 1e-20 {
			t.Errorf("sample %d: got %g, want %g", i, got.Values[i], want.Values[i])
		}
	}
}

func TestHTMLPage(t *testing.T) {
	c := &forcing.Curve{
		GasID:  "ch4",
		Times:  []float64{0, 1, 2, 3, 4},
		Values: []float64{1e-12, 8e-13, 6.4e-13, 5.1e-13, 4.1e-13},
	}

	var buf bytes.Buffer
	if err := HTMLPage(&buf, "pulse response", []*forcing.Curve{c}, 1e9); err != nil {
		t.Fatalf("html page: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pulse response") {
		t.Error("page title missing from output")
	}
	if !strings.Contains(out, "ch4") {
		t.Error("series name missing from output")
	}
}

func TestHTMLPageAlignsCurvesOfDifferentDensity(t *testing.T) {
	// Same horizon, different grid density, as the sampling policy
	// produces for gases with different lifetimes.
	uniform := func(id string, n int, horizon float64) *forcing.Curve {
		c := &forcing.Curve{
			GasID:  id,
			Times:  make([]float64, n),
			Values: make([]float64, n),
		}
		for i := range c.Times {
			c.Times[i] = horizon * float64(i) / float64(n-1)
			c.Values[i] = c.Times[i] // value encodes its own time
		}
		return c
	}
	coarse := uniform("coarse", 257, 100)
	dense := uniform("dense", 3335, 100)

	times := sharedTimes(100, 10)
	for _, c := range []*forcing.Curve{coarse, dense} {
		for _, when := range times {
			got := c.Values[nearestIndex(c, when)]
			if math.Abs(got-when) > 100/float64(c.Len()-1) {
				t.Errorf("%s: shared time %g read value at t=%g", c.GasID, when, got)
			}
		}
	}
	if i := nearestIndex(coarse, 100); i != coarse.Len()-1 {
		t.Errorf("horizon maps to index %d, want final sample %d", i, coarse.Len()-1)
	}

	var buf bytes.Buffer
	if err := HTMLPage(&buf, "aligned", []*forcing.Curve{coarse, dense}, 1); err != nil {
		t.Fatalf("html page: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "coarse") || !strings.Contains(out, "dense") {
		t.Error("series missing from output")
	}
}

func TestHTMLPageEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := HTMLPage(&buf, "empty", nil, 1); err == nil {
		t.Error("expected error for empty curve set")
	}
}
