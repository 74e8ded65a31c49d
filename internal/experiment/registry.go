package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/metrics"
	"github.com/san-kum/forcesim/internal/sim"
)

// Registry maps scene names to config factories. It starts with every
// preset; hosts may register more.
type Registry struct {
	scenes map[string]func() *config.Config
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]func() *config.Config)}
	for _, name := range config.ListPresets() {
		r.Register(name, func() *config.Config { return config.GetPreset(name) })
	}
	return r
}

func (r *Registry) Register(name string, fn func() *config.Config) {
	r.scenes[name] = fn
}

func (r *Registry) GetScene(name string) (*config.Config, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownScene, name)
	}
	return fn(), nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultMetrics returns fresh metrics suited to the scene.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewEnergy(false),
		metrics.NewMeanSpeed(),
		metrics.NewStability(cfg.Width / 4),
	}
	if len(cfg.Systems) > 0 || cfg.SpawnOnClick != nil {
		ms = append(ms, metrics.NewPeakParticles(), metrics.NewMeanParticles())
	}
	if cfg.Boundary.Mode == "bounce" && cfg.Boundary.Restitution == 1 {
		ms = append(ms, metrics.NewEnergyDrift())
	}
	return ms
}

// MetricOptions wraps metrics as simulation options.
func MetricOptions(ms []sim.Metric) []sim.Option {
	opts := make([]sim.Option, 0, len(ms))
	for _, m := range ms {
		opts = append(opts, sim.WithMetric(m))
	}
	return opts
}
