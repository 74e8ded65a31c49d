package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
	"github.com/san-kum/forcesim/internal/sim"
)

// Scenario defines a scripted sequence of scene runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one scene, either a registered name or a config file.
// Non-zero Seed and Ticks override the scene's own.
type ScenarioStep struct {
	Scene      string             `yaml:"scene"`
	ConfigPath string             `yaml:"config"`
	Seed       int64              `yaml:"seed"`
	Ticks      int                `yaml:"ticks"`
	Params     map[string]float64 `yaml:"params"`
}

type StepResult struct {
	Scene  string
	Seed   int64
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s: scenario has no steps", dynamo.ErrInvalidConfig, path)
	}

	return &scenario, nil
}

func (st ScenarioStep) resolve(registry *experiment.Registry) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if st.ConfigPath != "" {
		cfg, err = config.Load(st.ConfigPath)
	} else {
		cfg, err = registry.GetScene(st.Scene)
	}
	if err != nil {
		return nil, err
	}
	if st.Seed != 0 {
		cfg.Seed = st.Seed
	}
	if st.Ticks != 0 {
		cfg.Ticks = st.Ticks
	}
	for k, v := range st.Params {
		if err := SetParam(cfg, k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve(registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		slog.Info("running step", "step", i+1, "of", len(scenario.Steps), "scene", cfg.Scene)

		exp := experiment.New(cfg)
		if err := exp.Setup(experiment.MetricOptions(registry.DefaultMetrics(cfg))...); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Scene: cfg.Scene, Seed: cfg.Seed, Result: result})
	}

	return results, nil
}

// SetParam applies a named tunable to every matching part of cfg.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "restitution":
		cfg.Boundary.Restitution = v
	case "gravity":
		n := 0
		for i := range cfg.Fields {
			if cfg.Fields[i].Kind == "constant" && cfg.Fields[i].Name == "gravity" {
				cfg.Fields[i].Vector[1] = v
				n++
			}
		}
		if n == 0 {
			return fmt.Errorf("%w: scene %s has no gravity field", dynamo.ErrInvalidConfig, cfg.Scene)
		}
	case "drag", "stiffness":
		kind := map[string]string{"drag": "drag", "stiffness": "spring"}[name]
		n := 0
		for i := range cfg.Fields {
			if cfg.Fields[i].Kind != kind {
				continue
			}
			if name == "drag" {
				cfg.Fields[i].Coefficient = v
			} else {
				cfg.Fields[i].Stiffness = v
			}
			n++
		}
		if n == 0 {
			return fmt.Errorf("%w: scene %s has no %s field", dynamo.ErrInvalidConfig, cfg.Scene, kind)
		}
	case "mutual_g":
		if cfg.Mutual == nil {
			return fmt.Errorf("%w: scene %s has no mutual forces", dynamo.ErrInvalidConfig, cfg.Scene)
		}
		cfg.Mutual.G = v
	case "spawn_per_tick", "decay_rate":
		if len(cfg.Systems) == 0 {
			return fmt.Errorf("%w: scene %s has no particle systems", dynamo.ErrInvalidConfig, cfg.Scene)
		}
		for i := range cfg.Systems {
			if name == "spawn_per_tick" {
				cfg.Systems[i].SpawnPerTick = int(v)
			} else {
				cfg.Systems[i].DecayRate = v
			}
		}
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
	}
	return nil
}

// ParameterSweep runs one scene across a range of parameter values
type ParameterSweep struct {
	Scene     string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int
	Seed      int64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Entities   int
	Particles  int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", dynamo.ErrInvalidConfig)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg, err := registry.GetScene(sweep.Scene)
		if err != nil {
			return nil, err
		}
		if err := SetParam(cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		if sweep.Ticks > 0 {
			cfg.Ticks = sweep.Ticks
		}
		if sweep.Seed != 0 {
			cfg.Seed = sweep.Seed
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(experiment.MetricOptions(registry.DefaultMetrics(cfg))...); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		s := exp.Simulation()
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Entities:   len(s.Entities()),
			Particles:  s.ParticleCount(),
		})

		slog.Info("sweep step", "step", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}

// MonteCarloConfig runs the same scene under consecutive seeds
type MonteCarloConfig struct {
	Scene     string
	NumTrials int
	Ticks     int
	Seed      int64
	// Bound is how far outside the world an entity may stray before the
	// trial counts as unstable.
	Bound float64
}

// MonteCarloResult holds the outcome of one seeded trial
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Result  *sim.Result
	Stable  bool // every entity stayed within the bound
}

// RunMonteCarlo executes the trials concurrently, one goroutine per seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: monte carlo needs at least 1 trial, got %d", dynamo.ErrInvalidConfig, cfg.NumTrials)
	}
	base, err := registry.GetScene(cfg.Scene)
	if err != nil {
		return nil, err
	}
	ticks := base.Ticks
	if cfg.Ticks > 0 {
		ticks = cfg.Ticks
	}

	sims := make([]*sim.Simulation, cfg.NumTrials)
	build := func(seed int64) (*sim.Simulation, error) {
		c := base.Clone()
		c.Seed = seed
		s, err := experiment.Build(c, dynamo.NewRand(seed), experiment.MetricOptions(registry.DefaultMetrics(c))...)
		if err != nil {
			return nil, err
		}
		sims[seed-cfg.Seed] = s
		return s, nil
	}

	runs, err := sim.NewEnsemble(build, cfg.NumTrials, cfg.Seed).Run(ctx, ticks)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for i, r := range runs {
		results = append(results, MonteCarloResult{
			TrialID: i,
			Seed:    cfg.Seed + int64(i),
			Result:  r,
			Stable:  bounded(sims[i], cfg.Bound),
		})
	}
	slog.Info("monte carlo complete", "scene", cfg.Scene, "trials", cfg.NumTrials)

	return results, nil
}

func bounded(s *sim.Simulation, bound float64) bool {
	w := s.Config()
	for _, e := range s.Entities() {
		p := e.Position
		if !p.IsValid() || p.X < -bound || p.Y < -bound || p.X > w.Width+bound || p.Y > w.Height+bound {
			return false
		}
	}
	return true
}

// MetricSummary aggregates one metric across trials.
type MetricSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	N      int
}

// Summarize aggregates every metric reported by the trials, plus the
// fraction of stable trials under "stable_fraction".
func Summarize(results []MonteCarloResult) map[string]MetricSummary {
	samples := make(map[string][]float64)
	stable := make([]float64, 0, len(results))
	for _, r := range results {
		for name, v := range r.Result.Metrics {
			samples[name] = append(samples[name], v)
		}
		if r.Stable {
			stable = append(stable, 1)
		} else {
			stable = append(stable, 0)
		}
	}
	if len(stable) > 0 {
		samples["stable_fraction"] = stable
	}

	out := make(map[string]MetricSummary, len(samples))
	for name, xs := range samples {
		mean, sd := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			sd = 0
		}
		out[name] = MetricSummary{Mean: mean, StdDev: sd, Min: floats.Min(xs), Max: floats.Max(xs), N: len(xs)}
	}
	return out
}
