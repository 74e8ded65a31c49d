package sim

import (
	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/particles"
)

// Metric accumulates a scalar over a run. Observe is called once per tick
// after the tick has been fully applied.
type Metric interface {
	Name() string
	Observe(s *Simulation)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Simulation)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s *Simulation)

func (f ObserverFunc) OnStep(s *Simulation) { f(s) }

type Config struct {
	Width  float64
	Height float64

	// Boundary applies to entities only. Particle systems carry their own.
	Boundary boundary.Policy

	// SpawnOnClick, when set, starts a new particle system at the pointer on
	// every click.
	SpawnOnClick *particles.Config
	// MaxSystems caps click-spawned systems; 0 means unbounded.
	MaxSystems int
}

type Result struct {
	Ticks          int
	EntityCounts   []int
	ParticleCounts []int
	Metrics        map[string]float64
}
