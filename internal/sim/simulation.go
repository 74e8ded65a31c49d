package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
)

// Simulation owns every entity, field and particle system of one scene and
// advances them in a fixed order. It is not safe for concurrent use.
type Simulation struct {
	cfg    Config
	rng    dynamo.Rand
	logger *slog.Logger

	entities []*dynamo.Entity
	fields   []*physics.Field
	mutual   *physics.Mutual
	systems  []*particles.System

	pointer        Pointer
	grab           *grab
	spawnedSystems int

	metrics   []Metric
	observers []Observer

	tick uint64
}

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

func WithMetric(m Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

func New(cfg Config, rng dynamo.Rand, opts ...Option) (*Simulation, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", dynamo.ErrInvalidConfig)
	}
	s := &Simulation{
		cfg:    cfg,
		rng:    rng,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Width > 0) || !(cfg.Height > 0) {
		return fmt.Errorf("%w: world size %gx%g", dynamo.ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	if err := cfg.Boundary.Validate(); err != nil {
		return err
	}
	if cfg.MaxSystems < 0 {
		return fmt.Errorf("%w: max systems %d", dynamo.ErrInvalidConfig, cfg.MaxSystems)
	}
	if cfg.SpawnOnClick != nil {
		if err := cfg.SpawnOnClick.Validate(); err != nil {
			return fmt.Errorf("spawn on click: %w", err)
		}
	}
	return nil
}

func (s *Simulation) Config() Config { return s.cfg }
func (s *Simulation) Tick() uint64   { return s.tick }

func (s *Simulation) AddEntity(e *dynamo.Entity) {
	s.entities = append(s.entities, e)
}

func (s *Simulation) AddField(f *physics.Field) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.fields = append(s.fields, f)
	return nil
}

// SetMutual enables pairwise forces between entities. nil disables them.
func (s *Simulation) SetMutual(m *physics.Mutual) error {
	if m != nil {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	s.mutual = m
	return nil
}

func (s *Simulation) AddSystem(sys *particles.System) {
	s.systems = append(s.systems, sys)
}

// SetPointer records the pointer state used by the next Step. A click is
// latched until a Step consumes it.
func (s *Simulation) SetPointer(p Pointer) {
	p.Clicked = p.Clicked || s.pointer.Clicked
	s.pointer = p
}

func (s *Simulation) Entities() []*dynamo.Entity   { return s.entities }
func (s *Simulation) Fields() []*physics.Field     { return s.fields }
func (s *Simulation) Systems() []*particles.System { return s.systems }

// ParticleCount is the number of live particles over all systems.
func (s *Simulation) ParticleCount() int {
	n := 0
	for _, sys := range s.systems {
		n += sys.Len()
	}
	return n
}

// Step advances the world by one tick: pointer input, forces from the
// start-of-tick state, wall contact, integration, boundaries, particle
// systems, then time-varying fields.
func (s *Simulation) Step() {
	s.handlePointer()

	for _, e := range s.entities {
		for _, f := range s.fields {
			if f.Active() {
				e.ApplyForce(f.Force(e))
			}
		}
	}
	if s.mutual != nil {
		s.mutual.Apply(s.entities)
	}
	for _, sys := range s.systems {
		for _, f := range s.fields {
			sys.ApplyField(f)
		}
		sys.ApplyOwnFields()
	}

	for _, e := range s.entities {
		s.cfg.Boundary.Contact(e)
		e.Integrate()
		s.cfg.Boundary.Apply(e)
	}

	for _, sys := range s.systems {
		sys.Advance(s.rng)
	}

	for _, f := range s.fields {
		f.Advance()
	}
	for _, sys := range s.systems {
		for _, f := range sys.Fields() {
			f.Advance()
		}
	}

	s.tick++

	for _, m := range s.metrics {
		m.Observe(s)
	}
	for _, o := range s.observers {
		o.OnStep(s)
	}

	s.logger.Debug("tick", "tick", s.tick, "entities", len(s.entities), "particles", s.ParticleCount())
}

// Run steps ticks times, checking ctx between ticks. On cancellation it
// returns the partial result with ctx's error.
func (s *Simulation) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("%w: ticks must be >= 0, got %d", dynamo.ErrInvalidConfig, ticks)
	}

	result := &Result{
		EntityCounts:   make([]int, 0, ticks),
		ParticleCounts: make([]int, 0, ticks),
		Metrics:        make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var err error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		s.Step()
		result.Ticks++
		result.EntityCounts = append(result.EntityCounts, len(s.entities))
		result.ParticleCounts = append(result.ParticleCounts, s.ParticleCount())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished", "ticks", result.Ticks, "entities", len(s.entities), "particles", s.ParticleCount())
	return result, err
}
