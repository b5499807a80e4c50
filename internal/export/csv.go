// Package export renders computed tables and curves into CSV and HTML for
// downstream tooling. The core packages never reach into it.
package export

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gwp"
)

// TableRow is one GWP table cell in flat CSV form.
type TableRow struct {
	GasID   string  `csv:"gas"`
	Horizon float64 `csv:"horizon_years"`
	AGWP    float64 `csv:"agwp_w_yr_m2_per_kg"`
	GWP     float64 `csv:"gwp"`
	Error   string  `csv:"error"`
}

// TableRows flattens a result map in stable key order.
func TableRows(table map[gwp.Key]gwp.Entry) []TableRow {
	rows := make([]TableRow, 0, len(table))
	for _, key := range gwp.SortedKeys(table) {
		entry := table[key]
		row := TableRow{
			GasID:   key.GasID,
			Horizon: key.Horizon,
			AGWP:    entry.AGWP,
			GWP:     entry.GWP,
		}
		if entry.Err != nil {
			row.Error = entry.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func TableCSV(w io.Writer, table map[gwp.Key]gwp.Entry) error {
	rows := TableRows(table)
	return gocsv.Marshal(&rows, w)
}

// CurveRow is one forcing sample.
type CurveRow struct {
	Time    float64 `csv:"time_years"`
	Forcing float64 `csv:"forcing_w_m2"`
}

func CurveCSV(w io.Writer, c *forcing.Curve) error {
	rows := make([]CurveRow, c.Len())
	for i := range rows {
		rows[i] = CurveRow{Time: c.Times[i], Forcing: c.Values[i]}
	}
	return gocsv.Marshal(&rows, w)
}

// ReadCurveCSV loads a curve previously written by CurveCSV.
func ReadCurveCSV(r io.Reader, gasID string) (*forcing.Curve, error) {
	var rows []CurveRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	c := &forcing.Curve{
		GasID:  gasID,
		Times:  make([]float64, len(rows)),
		Values: make([]float64, len(rows)),
	}
	for i, row := range rows {
		c.Times[i] = row.Time
		c.Values[i] = row.Forcing
	}
	return c, nil
}
