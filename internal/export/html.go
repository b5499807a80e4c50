package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/san-kum/gwplab/internal/forcing"
)

// htmlMaxPoints caps series length so the rendered page stays light even
// for dense integration grids.
const htmlMaxPoints = 600

// HTMLPage writes a standalone page with two log-scale line charts per the
// reference figure: instantaneous forcing of the pulse and the cumulative
// energy trapped over the Earth surface. The density policy gives every
// gas its own grid, so each series is read off at a shared set of times;
// t = 0 is skipped because the cumulative series starts at zero, which a
// log axis cannot show.
func HTMLPage(w io.Writer, title string, curves []*forcing.Curve, massKg float64) error {
	if len(curves) == 0 {
		return fmt.Errorf("no curves to render")
	}

	forcingChart := newLine(
		fmt.Sprintf("Radiative forcing of a %.3g kg pulse at t = 0", massKg),
		"W/m²",
	)
	cumulativeChart := newLine(
		"Cumulative forcing, well-mixed, globally",
		"J",
	)

	times := sharedTimes(curves[0].Horizon(), htmlMaxPoints)
	xs := make([]string, len(times))
	for i, t := range times {
		xs[i] = fmt.Sprintf("%.1f", t)
	}
	forcingChart.SetXAxis(xs)
	cumulativeChart.SetXAxis(xs)

	for _, c := range curves {
		scaled := c.Scale(massKg)
		joules := c.CumulativeJoules(massKg)

		fd := make([]opts.LineData, 0, len(times))
		jd := make([]opts.LineData, 0, len(times))
		for _, t := range times {
			i := nearestIndex(c, t)
			fd = append(fd, opts.LineData{Value: scaled.Values[i]})
			jd = append(jd, opts.LineData{Value: joules[i]})
		}
		forcingChart.AddSeries(c.GasID, fd)
		cumulativeChart.AddSeries(c.GasID, jd)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(forcingChart, cumulativeChart)
	return page.Render(w)
}

func newLine(title, unit string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Name: unit}),
		charts.WithXAxisOpts(opts.XAxis{Name: "years"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	return line
}

// sharedTimes builds the common x axis: n points evenly spaced over
// (0, horizon], the final one exactly at the horizon.
func sharedTimes(horizon float64, n int) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = horizon * float64(i+1) / float64(n)
	}
	return times
}

// nearestIndex maps a shared-axis time onto a curve's own uniform grid,
// clamping times past the curve's horizon to its final sample.
func nearestIndex(c *forcing.Curve, t float64) int {
	h := c.Horizon()
	if h <= 0 || c.Len() < 2 {
		return 0
	}
	i := int(math.Round(t / h * float64(c.Len()-1)))
	if i < 0 {
		return 0
	}
	if i >= c.Len() {
		return c.Len() - 1
	}
	return i
}
