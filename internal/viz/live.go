package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gwplab/internal/forcing"
)

// The live view replays the aftermath of a pulse emission as an animation:
// instantaneous forcing on top, trapped energy in the middle, and the
// gases' GWP relative to the reference growing with the horizon below.

const liveFrames = 120

type TickMsg time.Time

type liveSeries struct {
	name    string
	forcing []float64 // W/m^2, downsampled to liveFrames
	joules  []float64
	gwp     []float64
}

// Model is the bubbletea state for the live replay.
type Model struct {
	series  []liveSeries
	times   []float64
	horizon float64
	massKg  float64
	refID   string

	frame   int
	playing bool
	delay   time.Duration
	theme   Theme
}

// NewModel precomputes every animation series from full-resolution curves.
// The reference curve must be among curves; ratios divide its cumulative
// forcing, which is positive everywhere past t = 0.
func NewModel(curves []*forcing.Curve, refID string, massKg float64, theme Theme) (Model, error) {
	var ref *forcing.Curve
	for _, c := range curves {
		if c.GasID == refID {
			ref = c
		}
	}
	if ref == nil {
		return Model{}, fmt.Errorf("reference curve %q missing from live view input", refID)
	}

	refCum := Downsample(ref.Cumulative(), liveFrames)
	m := Model{
		times:   Downsample(ref.Times, liveFrames),
		horizon: ref.Horizon(),
		massKg:  massKg,
		refID:   refID,
		playing: true,
		delay:   80 * time.Millisecond,
		theme:   theme,
	}

	for _, c := range curves {
		s := liveSeries{
			name:    c.GasID,
			forcing: Downsample(c.Scale(massKg).Values, liveFrames),
			joules:  Downsample(c.CumulativeJoules(massKg), liveFrames),
		}
		cum := Downsample(c.Cumulative(), liveFrames)
		s.gwp = make([]float64, len(cum))
		for i := 1; i < len(cum); i++ {
			s.gwp[i] = cum[i] / refCum[i]
		}
		if len(s.gwp) > 1 {
			s.gwp[0] = s.gwp[1]
		}
		m.series = append(m.series, s)
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.delay, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		case "+", "=":
			if m.delay > 10*time.Millisecond {
				m.delay /= 2
			}
		case "-":
			if m.delay < time.Second {
				m.delay *= 2
			}
		case "r":
			m.frame = 0
		}
	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.frame < liveFrames-1 {
			m.frame++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)

	end := m.frame + 1
	if end < 2 {
		end = 2
	}

	names := make([]string, len(m.series))
	forcingData := make([][]float64, len(m.series))
	joulesData := make([][]float64, len(m.series))
	gwpData := make([][]float64, len(m.series))
	for i, s := range m.series {
		names[i] = s.name
		forcingData[i] = s.forcing[:end]
		joulesData[i] = s.joules[:end]
		gwpData[i] = s.gwp[:end]
	}

	t := m.times[end-1]

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"pulse of %.3g kg at t = 0   |   t = %.0f / %.0f years", m.massKg, t, m.horizon)))
	b.WriteString("\n\n")
	b.WriteString(PlotSeries(names, forcingData, "instant forcing, W/m²"))
	b.WriteString("\n\n")
	b.WriteString(PlotSeries(names, joulesData, "cumulative forcing, J"))
	b.WriteString("\n\n")
	b.WriteString(PlotSeries(names, gwpData, fmt.Sprintf("GWP relative to %s", m.refID)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("space pause · +/- speed · r restart · q quit"))
	b.WriteString("\n")
	return b.String()
}
