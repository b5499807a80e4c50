// Package viz renders forcing curves and GWP tables for the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gwp"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
	asciigraph.White,
	asciigraph.Orange,
}

// PlotCurve draws one forcing curve.
func PlotCurve(c *forcing.Curve, caption string) string {
	return asciigraph.Plot(Downsample(c.Values, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotSeries draws several named series on one graph.
func PlotSeries(names []string, series [][]float64, caption string) string {
	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	data := make([][]float64, len(series))
	for i, s := range series {
		data[i] = Downsample(s, plotWidth)
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
	)
}

// Downsample reduces a series to at most width points, always keeping the
// final value so plots end where the data does.
func Downsample(data []float64, width int) []float64 {
	if len(data) <= width || width < 2 {
		return data
	}
	out := make([]float64, 0, width)
	stride := float64(len(data)-1) / float64(width-1)
	for i := 0; i < width-1; i++ {
		out = append(out, data[int(float64(i)*stride)])
	}
	return append(out, data[len(data)-1])
}

// RenderTable formats a GWP table with one row per gas and one column per
// horizon, styled with the theme.
func RenderTable(table map[gwp.Key]gwp.Entry, reference string, horizons []float64, theme Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(theme.Header).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Value)
	accentStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	warnStyle := lipgloss.NewStyle().Foreground(theme.Warning)

	gasIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, key := range gwp.SortedKeys(table) {
		if !seen[key.GasID] {
			seen[key.GasID] = true
			gasIDs = append(gasIDs, key.GasID)
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s", "gas")))
	for _, h := range horizons {
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %12s", fmt.Sprintf("GWP%g", h))))
	}
	b.WriteString("\n")

	for _, id := range gasIDs {
		style := valueStyle
		if id == reference {
			style = accentStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-10s", id)))
		for _, h := range horizons {
			entry, ok := table[gwp.Key{GasID: id, Horizon: h}]
			switch {
			case !ok:
				b.WriteString(mutedStyle.Render(fmt.Sprintf("  %12s", "-")))
			case entry.Err != nil:
				b.WriteString(warnStyle.Render(fmt.Sprintf("  %12s", "error")))
			default:
				b.WriteString(style.Render(fmt.Sprintf("  %12.4g", entry.GWP)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("reference: %s (GWP = 1 by definition)", reference)))
	return b.String()
}
