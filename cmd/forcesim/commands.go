package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/forcesim/internal/analysis"
	"github.com/san-kum/forcesim/internal/automation"
	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
	"github.com/san-kum/forcesim/internal/export"
	"github.com/san-kum/forcesim/internal/optim"
	"github.com/san-kum/forcesim/internal/sim"
	"github.com/san-kum/forcesim/internal/storage"
	"github.com/san-kum/forcesim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// resolveScene picks the config file, the named scene or the default, then
// applies only the flags the user actually set.
func resolveScene(cmd *cobra.Command, reg *experiment.Registry, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) > 0:
		cfg, err = reg.GetScene(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w (see 'forcesim scenes')", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("ticks") {
		cfg.Ticks, _ = flags.GetInt("ticks")
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetFloat64("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetFloat64("height")
	}
	if flags.Changed("boundary") {
		cfg.Boundary.Mode, _ = flags.GetString("boundary")
	}
	if flags.Changed("restitution") {
		cfg.Boundary.Restitution, _ = flags.GetFloat64("restitution")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	cfg, err := resolveScene(cmd, reg, args)
	if err != nil {
		return err
	}
	trackIdx, _ := cmd.Flags().GetInt("track")

	opts := append(experiment.MetricOptions(reg.DefaultMetrics(cfg)), sim.WithLogger(logger))
	var rec *sim.Recorder
	if trackIdx >= 0 {
		rec = sim.NewRecorder(trackIdx)
		opts = append(opts, sim.WithObserver(rec))
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(opts...); err != nil {
		return err
	}

	fmt.Printf("running %s (seed %d, %d ticks)...\n", cfg.Scene, cfg.Seed, cfg.Ticks)
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d ticks\n", result.Ticks)
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		run := storage.Run{Scene: cfg.Scene, Seed: cfg.Seed, Width: cfg.Width, Height: cfg.Height, Result: result}
		if rec != nil {
			run.Trajectory = rec.Positions
		}
		runID, err := st.Save(run)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("ticks: %d\n", result.Ticks)
	if n := len(result.EntityCounts); n > 0 {
		fmt.Printf("entities: %d  particles: %d\n", result.EntityCounts[n-1], result.ParticleCounts[n-1])
	}
	fmt.Println("\nmetrics:")
	return printMetrics(os.Stdout, result.Metrics)
}

func printMetrics(out io.Writer, m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScene(cmd, experiment.NewRegistry(), args)
	if err != nil {
		return err
	}
	return viz.Run(cfg.Scene, viz.SceneBuilder(cfg))
}

func listScenes(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tFIELDS\tSYSTEMS\tBOUNDARY\tTICKS")
	for _, name := range reg.ListScenes() {
		cfg, err := reg.GetScene(name)
		if err != nil {
			return err
		}
		bodies := 0
		for _, e := range cfg.Entities {
			bodies += e.N()
		}
		systems := fmt.Sprintf("%d", len(cfg.Systems))
		if cfg.SpawnOnClick != nil {
			systems += "+click"
		}
		mode := cfg.Boundary.Mode
		if mode == "" {
			mode = "none"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%d\n", name, bodies, len(cfg.Fields), systems, mode, cfg.Ticks)
	}
	return w.Flush()
}

func showPreset(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}
	cfg, err := config.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSEED\tTICKS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ents, parts, err := st.LoadCounts(runID)
	if err != nil {
		return err
	}
	if len(ents) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("ticks: %d\n\n", len(ents))

	if slices.Max(parts) > 0 {
		fmt.Println(asciigraph.Plot(parts, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("live particles")))
		fmt.Println()
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil
	}
	xs, ys := split(traj)
	fmt.Println(asciigraph.PlotMany([][]float64{xs, ys},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("tracked entity x (red) and y (blue)"),
	))
	return nil
}

func split(pts []dynamo.Vec2) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

func exportRun(cmd *cobra.Command, args []string) error {
	out := io.Writer(os.Stdout)
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.New(dataDir).ExportJSON(out, args[0])
}

func loadTrajectory(runID string) ([]dynamo.Vec2, error) {
	traj, err := storage.New(dataDir).LoadTrajectory(runID)
	if err != nil {
		return nil, fmt.Errorf("run %s has no trajectory (record one with 'run --track'): %w", runID, err)
	}
	if len(traj) < 4 {
		return nil, fmt.Errorf("trajectory too short for analysis")
	}
	return traj, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}
	xs, ys := split(traj)
	for _, series := range []struct {
		name string
		data []float64
	}{{"x", xs}, {"y", ys}} {
		ps := analysis.PowerSpectrum(series.data)
		f := analysis.DominantFrequency(series.data)
		if f == 0 {
			fmt.Printf("%s: flat\n\n", series.name)
			continue
		}
		fmt.Printf("%s: dominant frequency %.5f cycles/tick, period %.1f ticks\n", series.name, f, 1/f)
		fmt.Println(asciigraph.Plot(ps[1:], asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption(series.name+" power spectrum")))
		fmt.Println()
	}
	return nil
}

func parseAxis(name string) (dynamo.Axis, error) {
	switch strings.ToLower(name) {
	case "x":
		return dynamo.AxisX, nil
	case "y":
		return dynamo.AxisY, nil
	}
	return dynamo.AxisX, fmt.Errorf("unknown axis %q", name)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}
	axisName, _ := cmd.Flags().GetString("axis")
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}
	xs, ys := split(traj)
	pos := xs
	if axis == dynamo.AxisY {
		pos = ys
	}
	fmt.Printf("phase portrait: %s against d%s/dtick\n\n", axisName, axisName)
	fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(pos, analysis.Velocity(pos)), 70, 24))
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveScene(cmd, experiment.NewRegistry(), args)
	if err != nil {
		return err
	}
	trackIdx, _ := cmd.Flags().GetInt("track")
	path, _ := cmd.Flags().GetString("out")

	var rec *sim.Recorder
	opts := []sim.Option{sim.WithLogger(logger)}
	if trackIdx >= 0 {
		rec = sim.NewRecorder(trackIdx)
		opts = append(opts, sim.WithObserver(rec))
	}
	s, err := experiment.Build(cfg, dynamo.NewRand(cfg.Seed), opts...)
	if err != nil {
		return err
	}
	if _, err := s.Run(cmd.Context(), cfg.Ticks); err != nil {
		return err
	}

	svg := export.FrameToSVG(s.Frame())
	if rec != nil {
		svg = export.TrajectoryToSVG(rec.Positions, cfg.Width, cfg.Height, "#00b4d8")
		if svg == "" {
			return fmt.Errorf("entity %d left no path", trackIdx)
		}
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (tick %d)\n", path, s.Tick())
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry())
	for i, r := range results {
		fmt.Printf("step %d: %s (seed %d, %d ticks)\n", i+1, r.Scene, r.Seed, r.Result.Ticks)
		if perr := printMetrics(os.Stdout, r.Result.Metrics); perr != nil {
			return perr
		}
	}
	return err
}

// paramRange reads the --min, --max and --steps flags.
func paramRange(cmd *cobra.Command) (lo, hi float64, steps int) {
	lo, _ = cmd.Flags().GetFloat64("min")
	hi, _ = cmd.Flags().GetFloat64("max")
	steps, _ = cmd.Flags().GetInt("steps")
	return lo, hi, steps
}

func runSweep(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("ticks")
	paramMin, paramMax, paramSteps := paramRange(cmd)
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Scene:     args[0],
		ParamName: args[1],
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  paramSteps,
		Ticks:     n,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENTITIES\tPARTICLES\t%s\n", strings.ToUpper(args[1]), strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d", r.ParamValue, r.Entities, r.Particles)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("ticks")
	seed, _ := cmd.Flags().GetInt64("seed")
	start := time.Now()
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Scene:     args[0],
		NumTrials: trials,
		Ticks:     n,
		Seed:      seed,
		Bound:     bound,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}
	fmt.Printf("%d trials in %v\n\n", len(results), time.Since(start))

	summary := automation.Summarize(results)
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		s := summary[name]
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := experiment.NewRegistry().GetScene(args[0])
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("ticks")
	if n <= 0 {
		n = cfg.Ticks
	}
	lambda, err := analysis.LyapunovExponent(cfg, n, perturb)
	if err != nil {
		return err
	}
	verdict := "stable or periodic"
	if lambda > 1e-3 {
		verdict = "chaotic"
	}
	fmt.Printf("%s: lambda = %.6f per tick over %d ticks (%s)\n", cfg.Scene, lambda, n, verdict)
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := experiment.NewRegistry().GetScene(args[0])
	if err != nil {
		return err
	}
	axisName, _ := cmd.Flags().GetString("axis")
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}
	paramMin, paramMax, paramSteps := paramRange(cmd)
	trackIdx, _ := cmd.Flags().GetInt("track")
	record, _ := cmd.Flags().GetInt("ticks")
	points, err := analysis.BifurcationDiagram(cfg, args[1], paramMin, paramMax, paramSteps, trackIdx, axis, transient, record)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s from %g to %g\n\n", cfg.Scene, args[1], paramMin, paramMax)
	fmt.Println(analysis.BifurcationToASCII(points, 70, 24))
	return nil
}

// parseRange reads name=min:max:steps.
func parseRange(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q, want name=min:max:steps", spec)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err := errors.Join(err1, err2, err3); err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", spec, err)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	base, err := reg.GetScene(args[0])
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("ticks"); n > 0 {
		base.Ticks = n
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = maximize

	fmt.Printf("searching %d points of %s for %s...\n", g.Size(), base.Scene, metricName)
	best, val, err := g.Search(cmd.Context(), optim.SceneBuilder(base, reg), metricName)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6f\n", metricName, val)
	return printMetrics(os.Stdout, best)
}
