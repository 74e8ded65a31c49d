package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/sim"
)

// Experiment is one configured scene ready to run.
type Experiment struct {
	cfg        *config.Config
	simulation *sim.Simulation
	randSource dynamo.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: dynamo.NewRand(cfg.Seed),
	}
}

// Setup builds the simulation with the given options.
func (e *Experiment) Setup(opts ...sim.Option) error {
	s, err := Build(e.cfg, e.randSource, opts...)
	if err != nil {
		return err
	}
	e.simulation = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulation.Run(ctx, e.cfg.Ticks)
}

// Simulation returns the underlying simulation for adding observers or
// stepping by hand.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulation
}

// Build assembles a simulation from a scene config. Every random draw
// (placement, masses, spawns) comes from rng, so the same seed rebuilds the
// same world.
func Build(cfg *config.Config, rng dynamo.Rand, opts ...sim.Option) (*sim.Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := cfg.Boundary.Policy(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	simCfg := sim.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Boundary:   policy,
		MaxSystems: cfg.MaxSystems,
	}
	if cfg.SpawnOnClick != nil {
		pc, err := cfg.SpawnOnClick.Particles(cfg.Width, cfg.Height)
		if err != nil {
			return nil, fmt.Errorf("spawn_on_click: %w", err)
		}
		simCfg.SpawnOnClick = &pc
	}

	s, err := sim.New(simCfg, rng, opts...)
	if err != nil {
		return nil, err
	}

	for _, ec := range cfg.Entities {
		for i := 0; i < ec.N(); i++ {
			s.AddEntity(ec.Entity(i, rng))
		}
	}

	for i, fc := range cfg.Fields {
		f, err := fc.Field()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		if err := s.AddField(f); err != nil {
			return nil, err
		}
	}

	if cfg.Mutual != nil {
		m, err := cfg.Mutual.Mutual()
		if err != nil {
			return nil, err
		}
		if err := s.SetMutual(m); err != nil {
			return nil, err
		}
	}

	for i, sc := range cfg.Systems {
		if err := addSystems(s, sc, cfg, rng); err != nil {
			return nil, fmt.Errorf("system %d: %w", i, err)
		}
	}

	slog.Debug("scene built", "scene", cfg.Scene, "seed", cfg.Seed,
		"entities", len(s.Entities()), "fields", len(s.Fields()), "systems", len(s.Systems()))
	return s, nil
}

func addSystems(s *sim.Simulation, sc config.SystemConfig, cfg *config.Config, rng dynamo.Rand) error {
	pc, err := sc.Particles(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	for n := 0; n < sc.N(); n++ {
		c := pc
		if sc.Spread != (config.Point{}) {
			c.Origin = c.Origin.Add(dynamo.V(rng.Float64()*sc.Spread[0], rng.Float64()*sc.Spread[1]))
		}
		sys, err := particles.NewSystem(c)
		if err != nil {
			return err
		}
		for i, fc := range sc.Fields {
			f, err := fc.Field()
			if err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
			if err := sys.AddField(f); err != nil {
				return err
			}
		}
		if sc.Burst > 0 {
			sys.Burst(rng, sc.Burst)
		}
		s.AddSystem(sys)
	}
	return nil
}
