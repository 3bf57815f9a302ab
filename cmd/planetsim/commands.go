package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/export"
	"github.com/san-kum/planetsim/internal/gui"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/metrics"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/san-kum/planetsim/internal/stream"
	"github.com/san-kum/planetsim/internal/tui"
)

const (
	secondsPerDay = 24 * 60 * 60
	maxPlots      = 6
)

func followIndex(cfg *config.Config) int {
	if cfg.Camera.Follow == "" {
		return -1
	}
	bodies, err := cfg.BodySet()
	if err != nil {
		return -1
	}
	return bodies.Find(cfg.Camera.Follow)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	clock, err := cfg.NewClock()
	if err != nil {
		return err
	}

	slog.Info("opening window", "scenario", cfg.Name, "bodies", len(cfg.Bodies), "integrator", cfg.Integrator)
	gui.Run(clock, gui.Options{
		Title:  "planetsim - " + cfg.Name,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		FPS:    cfg.Window.FPS,
		Zoom:   cfg.Camera.Zoom,
		Follow: followIndex(cfg),
	})
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	clock, err := cfg.NewClock()
	if err != nil {
		return err
	}
	return tui.Run(clock, tuiOptions(cfg))
}

// tuiOptions fits the whole scenario on the canvas unless a body is
// followed. A followed body keeps the scenario zoom, scaled for braille
// sub-pixels which are roughly ten times coarser than window pixels.
func tuiOptions(cfg *config.Config) tui.Options {
	opts := tui.Options{
		Scenario: cfg.Name,
		FPS:      tuiFPS,
		Follow:   followIndex(cfg),
	}
	if opts.Follow >= 0 {
		opts.Zoom = cfg.Camera.Zoom / 10
	}
	return opts
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if !integrators.Known(cfg.Integrator) {
		return fmt.Errorf("unknown integrator: %s (available: %v)", cfg.Integrator, integrators.Names())
	}

	bodies, err := cfg.BodySet()
	if err != nil {
		return err
	}
	g := cfg.Gravity(bodies)
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(g, integ)
	for _, m := range metrics.Default(g) {
		s.AddMetric(m)
	}

	out := cmd.OutOrStdout()
	if live {
		r := tui.NewLiveRenderer(out, cfg.Name, bodies, liveFPS)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	}

	simCfg := sim.DefaultConfig()
	simCfg.FixedStep = cfg.FixedStep
	simCfg.Duration = days * secondsPerDay
	simCfg.SampleEvery = sample

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("running simulation", "scenario", cfg.Name, "integrator", cfg.Integrator,
		"days", days, "fixed_step", cfg.FixedStep)
	start := time.Now()

	result, err := s.Run(ctx, body.Pack(bodies), simCfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		slog.Warn("interrupted, saving partial run", "steps", result.StepsTaken)
	}
	for _, e := range result.Errors {
		slog.Error("simulation stopped early", "err", e)
	}

	meta := storage.NewMetadata(cfg.Name, cfg.Integrator, cfg.FixedStep, simCfg.Duration, bodies)
	meta.G = g.G
	meta.Softening = g.Softening
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "samples: %d\n", len(result.States))
	fmt.Fprintf(out, "energy drift: %.3e\n", result.EnergyDrift)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.6g\n", name, result.Metrics[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tSIMULATED\tSTEP\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fd\t%.0fs\t%s\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Duration/secondsPerDay,
			run.FixedStep,
			run.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	return meta, states, times, nil
}

func gravityFor(meta *storage.RunMetadata) *physics.Gravity {
	masses := make([]float64, len(meta.Bodies))
	for i, b := range meta.Bodies {
		masses[i] = b.Mass
	}
	g := physics.NewGravity(masses)
	if meta.G != 0 {
		g.G = meta.G
	}
	g.Softening = meta.Softening
	return g
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	g := gravityFor(meta)

	if plotEnergy {
		e0 := g.Energy(states[0])
		data := make([]float64, len(states))
		for i, x := range states {
			if e0 != 0 {
				data[i] = (g.Energy(x) - e0) / math.Abs(e0)
			}
		}
		fmt.Fprintln(out, plot(data, "relative energy drift"))
		return nil
	}

	n := min(len(meta.Bodies), maxPlots)
	for i := 0; i < n; i++ {
		data := make([]float64, len(states))
		for j, x := range states {
			bary := g.Barycenter(x)
			p := r2.Vec{X: x[i*dynamo.Stride], Y: x[i*dynamo.Stride+1]}
			data[j] = r2.Norm(r2.Sub(p, bary)) / 1e9
		}
		fmt.Fprintln(out, plot(data, meta.Bodies[i].Name+" distance from barycenter (10^6 km)"))
		fmt.Fprintln(out)
	}
	return nil
}

func plot(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// output opens outFile, or returns w when it is empty.
func output(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output(cmd.OutOrStdout(), outFile)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, meta, states, times); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to draw")
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	svg := export.OrbitsToSVG(meta, states, svgWidth, svgHeight)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tFIXED STEP\tTIMESTEP\tZOOM\tFOLLOW")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		follow := p.Camera.Follow
		if follow == "" {
			follow = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0fs\t%.0fs\t%g\t%s\n",
			name, len(p.Bodies), p.FixedStep, p.Timestep, p.Camera.Zoom, follow)
	}
	return w.Flush()
}

func initScenario(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s scenario to %s\n", cfg.Name, path)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	for _, name := range names {
		if !integrators.Known(name) {
			return fmt.Errorf("unknown integrator: %s (available: %v)", name, integrators.Names())
		}
	}

	bodies, err := cfg.BodySet()
	if err != nil {
		return err
	}
	g := cfg.Gravity(bodies)

	simCfg := sim.DefaultConfig()
	simCfg.FixedStep = cfg.FixedStep
	simCfg.Duration = days * secondsPerDay
	simCfg.SampleEvery = math.MaxInt32

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators for %s (step=%.0fs, duration=%.0fd)\n\n", cfg.Name, cfg.FixedStep, days)

	ens := sim.NewEnsemble(g, names, func() []dynamo.Metric { return metrics.Default(g) })
	start := time.Now()
	results, err := ens.Run(cmd.Context(), body.Pack(bodies), simCfg)
	if err != nil {
		return err
	}
	slog.Debug("ensemble finished", "members", len(results), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY DRIFT\tL DRIFT\tMIN SEP (km)")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.4g\n",
			names[i],
			r.StepsTaken,
			r.EnergyDrift,
			r.Metrics["angular_momentum_drift"],
			r.Metrics["min_separation"]/1000,
		)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	clock, err := cfg.NewClock()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	srv := stream.NewServer(clock, stream.Options{Addr: addr, Hz: hz, Logger: slog.Default()})
	return srv.Run(ctx)
}
