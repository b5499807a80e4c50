package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/gwplab/internal/config"
	"github.com/san-kum/gwplab/internal/export"
	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gas"
	"github.com/san-kum/gwplab/internal/gwp"
	"github.com/san-kum/gwplab/internal/quad"
	"github.com/san-kum/gwplab/internal/storage"
	"github.com/san-kum/gwplab/internal/viz"
	"github.com/spf13/cobra"
)

var log = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: "15:04:05.000",
}).With().Timestamp().Logger()

var (
	dataDir    string
	verbose    bool
	themeName  string
	configFile string

	gasIDs     []string
	reference  string
	horizons   []float64
	horizon    float64
	quadName   string
	samples    int
	pulseKg    float64
	batchMode  string
	saveRun    bool
	outputFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gwplab",
		Short: "pulse-response radiative forcing and GWP laboratory",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gwplab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "atmos", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	gasesCmd := &cobra.Command{
		Use:   "gases",
		Short: "list the built-in gas inventory",
		RunE:  listGases,
	}

	agwpCmd := &cobra.Command{
		Use:   "agwp [gas-id]",
		Short: "absolute GWP of a unit pulse",
		Args:  cobra.ExactArgs(1),
		RunE:  runAGWP,
	}
	agwpCmd.Flags().Float64Var(&horizon, "horizon", 100, "time horizon in years")
	addNumericsFlags(agwpCmd)

	curveCmd := &cobra.Command{
		Use:   "curve [gas-id]",
		Short: "plot the forcing curve of a pulse",
		Args:  cobra.ExactArgs(1),
		RunE:  runCurve,
	}
	curveCmd.Flags().Float64Var(&horizon, "horizon", 100, "time horizon in years")
	curveCmd.Flags().Float64Var(&pulseKg, "mass", config.DefaultPulseKg, "pulse mass in kg")
	addNumericsFlags(curveCmd)

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "compute a GWP table over gases and horizons",
		RunE:  runTable,
	}
	tableCmd.Flags().StringSliceVar(&gasIDs, "gases", nil, "gas ids (default: full inventory)")
	tableCmd.Flags().StringVar(&reference, "reference", config.DefaultReference, "reference gas id")
	tableCmd.Flags().Float64SliceVar(&horizons, "horizons", config.DefaultHorizons, "time horizons in years")
	tableCmd.Flags().StringVar(&batchMode, "mode", "fail_fast", "batch failure policy (fail_fast, collect)")
	tableCmd.Flags().StringVar(&configFile, "config", "", "yaml config file (flags override)")
	tableCmd.Flags().Float64Var(&pulseKg, "mass", config.DefaultPulseKg, "pulse mass in kg (saved curves)")
	tableCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")
	addNumericsFlags(tableCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "print a run's metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			return storage.WriteJSON(os.Stdout, meta)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "export a saved run to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringSliceVar(&gasIDs, "gases", nil, "export these gases' curves instead of the table")

	exportHTMLCmd := &cobra.Command{
		Use:   "export-html [run-id]",
		Short: "export a saved run's curves to an HTML chart page",
		Args:  cobra.ExactArgs(1),
		RunE:  exportHTML,
	}
	exportHTMLCmd.Flags().StringVarP(&outputFile, "out", "o", "gwplab.html", "output file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate forcing, cumulative forcing, and GWP over time",
		RunE:  runLive,
	}
	liveCmd.Flags().StringSliceVar(&gasIDs, "gases", nil, "gas ids (default: full inventory)")
	liveCmd.Flags().StringVar(&reference, "reference", config.DefaultReference, "reference gas id")
	liveCmd.Flags().Float64Var(&horizon, "horizon", 500, "time horizon in years")
	liveCmd.Flags().Float64Var(&pulseKg, "mass", config.DefaultPulseKg, "pulse mass in kg")
	addNumericsFlags(liveCmd)

	rootCmd.AddCommand(gasesCmd, agwpCmd, curveCmd, tableCmd, listCmd, showCmd, exportCSVCmd, exportHTMLCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addNumericsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&quadName, "quadrature", config.DefaultQuadrature, "quadrature rule ("+strings.Join(quad.Names(), ", ")+")")
	cmd.Flags().IntVar(&samples, "samples", 0, "sample count override (0 = density policy)")
}

func newIntegrator() (*forcing.Integrator, error) {
	rule, err := quad.New(quadName)
	if err != nil {
		return nil, err
	}
	return forcing.New(rule, samples), nil
}

func lookupGas(id string) (*gas.Gas, error) {
	g, ok := gas.Preset(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown gas %q (have %v)", gas.ErrInvalidInput, id, gas.PresetIDs())
	}
	return g, nil
}

func resolveGases(ids []string) ([]*gas.Gas, error) {
	if len(ids) == 0 {
		return gas.Presets(), nil
	}
	out := make([]*gas.Gas, 0, len(ids))
	for _, id := range ids {
		g, err := lookupGas(id)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func listGases(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDECAY\tEFFICIENCY (W/m² per kg)")
	for _, g := range gas.Presets() {
		decay := fmt.Sprintf("%d-pool response", len(g.Terms))
		if tau, ok := g.MinTimeConstant(); ok && len(g.Terms) == 1 {
			decay = fmt.Sprintf("lifetime %g yr", tau)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\n", g.ID, g.Name, decay, g.Efficiency)
	}
	return w.Flush()
}

func runAGWP(cmd *cobra.Command, args []string) error {
	g, err := lookupGas(args[0])
	if err != nil {
		return err
	}
	integ, err := newIntegrator()
	if err != nil {
		return err
	}

	start := time.Now()
	numeric, err := integ.AGWP(g, horizon)
	if err != nil {
		return err
	}
	analytic, err := forcing.AnalyticAGWP(g, horizon)
	if err != nil {
		return err
	}
	log.Debug().
		Str("gas", g.ID).
		Int("samples", integ.Samples(g, horizon)).
		Dur("elapsed", time.Since(start)).
		Msg("agwp computed")

	fmt.Printf("gas: %s (%s)\n", g.ID, g.Name)
	fmt.Printf("horizon: %g years\n", horizon)
	fmt.Printf("AGWP (numeric, %s): %.6g W·yr/m² per kg\n", integ.Rule().Name(), numeric)
	fmt.Printf("AGWP (analytic):    %.6g W·yr/m² per kg\n", analytic)
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	g, err := lookupGas(args[0])
	if err != nil {
		return err
	}
	integ, err := newIntegrator()
	if err != nil {
		return err
	}
	agwpVal, curve, err := integ.AGWPCurve(g, horizon)
	if err != nil {
		return err
	}
	scaled := curve.Scale(pulseKg)

	fmt.Printf("forcing of a %.3g kg pulse of %s over %g years (%d samples)\n\n",
		pulseKg, g.ID, horizon, curve.Len())
	fmt.Println(viz.PlotCurve(scaled, fmt.Sprintf("%s forcing, W/m²", g.ID)))
	fmt.Printf("\npeak forcing: %.4g W/m² at t = 0\n", scaled.Values[0])
	fmt.Printf("final forcing: %.4g W/m² at t = %g\n", scaled.Values[scaled.Len()-1], horizon)
	fmt.Printf("AGWP (unit pulse): %.6g W·yr/m² per kg\n", agwpVal)
	return nil
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("gases") {
		cfg.Gases = gasIDs
	}
	if cmd.Flags().Changed("reference") {
		cfg.Reference = reference
	}
	if cmd.Flags().Changed("horizons") {
		cfg.Horizons = horizons
	}
	if cmd.Flags().Changed("quadrature") {
		cfg.Quadrature = quadName
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("mass") {
		cfg.PulseKg = pulseKg
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = batchMode
	}

	gases, ref, err := cfg.ResolveGases()
	if err != nil {
		return err
	}
	rule, err := quad.New(cfg.Quadrature)
	if err != nil {
		return err
	}
	mode, err := cfg.BatchMode()
	if err != nil {
		return err
	}

	integ := forcing.New(rule, cfg.Samples)
	calc := gwp.New(integ)
	calc.SetMode(mode)

	start := time.Now()
	table, err := calc.Table(gases, ref, cfg.Horizons)
	if err != nil {
		return err
	}
	log.Debug().
		Int("gases", len(gases)).
		Int("horizons", len(cfg.Horizons)).
		Dur("elapsed", time.Since(start)).
		Msg("table computed")

	fmt.Println(viz.RenderTable(table, ref.ID, cfg.Horizons, viz.GetTheme(themeName)))

	if !saveRun {
		return nil
	}

	// Saved curves cover the longest requested horizon so later exports
	// can slice any shorter window from them.
	maxHorizon := cfg.Horizons[0]
	for _, h := range cfg.Horizons {
		if h > maxHorizon {
			maxHorizon = h
		}
	}
	curves := make([]*forcing.Curve, 0, len(gases))
	ids := make([]string, 0, len(gases))
	for _, g := range gases {
		c, err := integ.Curve(g, maxHorizon, integ.Samples(g, maxHorizon))
		if err != nil {
			return err
		}
		curves = append(curves, c)
		ids = append(ids, g.ID)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Reference:  ref.ID,
		Gases:      ids,
		Horizons:   cfg.Horizons,
		Quadrature: cfg.Quadrature,
		Samples:    cfg.Samples,
		PulseKg:    cfg.PulseKg,
	}, table, curves)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tREFERENCE\tGASES\tHORIZONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Reference,
			len(run.Gases),
			run.Horizons,
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	if len(gasIDs) == 0 {
		table := make(map[gwp.Key]gwp.Entry, len(meta.Results))
		for _, row := range meta.Results {
			entry := gwp.Entry{GWP: row.GWP, AGWP: row.AGWP}
			if row.Error != "" {
				entry.Err = fmt.Errorf("%s", row.Error)
			}
			table[gwp.Key{GasID: row.GasID, Horizon: row.Horizon}] = entry
		}
		return export.TableCSV(os.Stdout, table)
	}

	for _, id := range gasIDs {
		c, err := st.LoadCurve(args[0], id)
		if err != nil {
			return err
		}
		if err := export.CurveCSV(os.Stdout, c); err != nil {
			return err
		}
	}
	return nil
}

func exportHTML(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	curves, err := st.LoadCurves(args[0], meta.Gases)
	if err != nil {
		return err
	}
	if len(curves) == 0 {
		return fmt.Errorf("run %s has no saved curves", args[0])
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.HTMLPage(f, "gwplab "+meta.ID, curves, meta.PulseKg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outputFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	gases, err := resolveGases(gasIDs)
	if err != nil {
		return err
	}
	ref, err := lookupGas(reference)
	if err != nil {
		return err
	}
	integ, err := newIntegrator()
	if err != nil {
		return err
	}

	curves := make([]*forcing.Curve, 0, len(gases)+1)
	haveRef := false
	for _, g := range gases {
		c, err := integ.Curve(g, horizon, integ.Samples(g, horizon))
		if err != nil {
			return err
		}
		curves = append(curves, c)
		if g.ID == ref.ID {
			haveRef = true
		}
	}
	if !haveRef {
		c, err := integ.Curve(ref, horizon, integ.Samples(ref, horizon))
		if err != nil {
			return err
		}
		curves = append(curves, c)
	}

	m, err := viz.NewModel(curves, ref.ID, pulseKg, viz.GetTheme(themeName))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
