package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/experiment"
	"github.com/san-kum/forcesim/internal/logging"
	"github.com/san-kum/forcesim/internal/viz"
	"github.com/spf13/cobra"
)

// Flags bound by a single command live here. Flags several commands share
// (seed, ticks, track, out, axis, ranges, scene overrides) are read back
// through cmd.Flags() so each command keeps its own default.
var (
	dataDir    string
	save       bool
	trials     int
	bound      float64
	perturb    float64
	transient  int
	tuneParams []string
	metricName string
	maximize   bool
)

var logger *slog.Logger

// main runs the CLI. Interrupts cancel runs between ticks.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd registers the commands. With no command it opens the scene
// picker.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forcesim",
		Short: "2D forces, particles and a mouse",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(os.Stderr)
			slog.SetDefault(logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry())
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcesim", "run archive directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and archive the report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().Int("track", 0, "entity index whose trajectory is recorded (-1 for none)")
	runCmd.Flags().BoolVar(&save, "save", true, "archive the run under --data")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal with mouse input",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list registered scenes",
		RunE:  listScenes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPreset,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot particle counts and trajectory of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position against velocity for one axis",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().String("axis", "y", "axis to plot (x or y)")

	svgCmd := &cobra.Command{
		Use:   "svg [scene]",
		Short: "run a scene and write its final frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	sceneFlags(svgCmd)
	svgCmd.Flags().StringP("out", "o", "frame.svg", "output file")
	svgCmd.Flags().Int("track", -1, "draw this entity's path instead of the frame")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML scenario of scene steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene] [param]",
		Short: "run a scene across a parameter range",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	rangeFlags(sweepCmd)
	sweepCmd.Flags().Int("ticks", 0, "ticks per run (0 keeps the scene's)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "run seeded trials concurrently and summarise metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().Int("ticks", 0, "ticks per trial (0 keeps the scene's)")
	monteCarloCmd.Flags().Int64("seed", config.DefaultSeed, "first seed")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", 50, "distance outside the world that counts as escaped")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scene]",
		Short: "estimate the largest Lyapunov exponent of a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	lyapunovCmd.Flags().Int("ticks", 0, "ticks (0 keeps the scene's)")
	lyapunovCmd.Flags().Float64Var(&perturb, "perturbation", 1e-6, "initial separation")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [scene] [param]",
		Short: "distinct long-run positions across a parameter range",
		Args:  cobra.ExactArgs(2),
		RunE:  runBifurcation,
	}
	rangeFlags(bifurcationCmd)
	bifurcationCmd.Flags().String("axis", "y", "axis to record (x or y)")
	bifurcationCmd.Flags().Int("track", 0, "entity index to record")
	bifurcationCmd.Flags().IntVar(&transient, "transient", 300, "ticks discarded before recording")
	bifurcationCmd.Flags().Int("ticks", 200, "ticks recorded")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search scene parameters for the best metric value",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=min:max:steps, repeatable")
	tuneCmd.Flags().StringVar(&metricName, "metric", "stability", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")
	tuneCmd.Flags().Int("ticks", 0, "ticks per run (0 keeps the scene's)")
	_ = tuneCmd.MarkFlagRequired("param")

	rootCmd.AddCommand(runCmd, liveCmd, scenesCmd, presetsCmd, listCmd, plotCmd, exportCmd,
		analyzeCmd, phaseCmd, svgCmd, scriptCmd, sweepCmd, monteCarloCmd, lyapunovCmd, bifurcationCmd, tuneCmd)
	return rootCmd
}

// sceneFlags binds the overrides shared by every command that builds a scene.
func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "scene config file (yaml)")
	cmd.Flags().Int64("seed", config.DefaultSeed, "random seed")
	cmd.Flags().Int("ticks", config.DefaultTicks, "ticks to run")
	cmd.Flags().Float64("width", config.DefaultWidth, "world width")
	cmd.Flags().Float64("height", config.DefaultHeight, "world height")
	cmd.Flags().String("boundary", "", "boundary mode: wrap, bounce, reflect_and_damp or none")
	cmd.Flags().Float64("restitution", 1, "bounce restitution")
}

func rangeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min", 0, "first parameter value")
	cmd.Flags().Float64("max", 1, "last parameter value")
	cmd.Flags().Int("steps", 10, "number of values")
}
