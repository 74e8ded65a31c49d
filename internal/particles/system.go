package particles

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/physics"
)

// Shape tags a particle for the renderer.
type Shape int

const (
	Disc Shape = iota
	Quad
	Triangle
	Point
)

var shapeNames = map[Shape]string{Disc: "disc", Quad: "quad", Triangle: "triangle", Point: "point"}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

func ParseShape(s string) (Shape, error) {
	for k, n := range shapeNames {
		if n == s {
			return k, nil
		}
	}
	return Disc, fmt.Errorf("%w: unknown shape %q", dynamo.ErrInvalidSystem, s)
}

// Particle is an entity with a remaining life in (0, 1].
type Particle struct {
	ID     uint64
	Entity dynamo.Entity
	Life   float64
	Shape  Shape
}

func (p *Particle) Alive() bool { return p.Life > 0 }

type Config struct {
	Origin       dynamo.Vec2
	SpawnPerTick int
	Velocity     VelocityDist
	// DecayRate is the fraction of life lost per tick.
	DecayRate float64
	Mass      float64
	// Shapes is drawn from uniformly at spawn; empty means Disc.
	Shapes []Shape
	// MaxParticles bounds the system; 0 means unbounded.
	MaxParticles int
	Boundary     boundary.Policy
}

// DefaultConfig matches the particle examples: one spawn per tick, 128 ticks
// of life.
func DefaultConfig(origin dynamo.Vec2) Config {
	return Config{
		Origin:       origin,
		SpawnPerTick: 1,
		Velocity:     DefaultVelocity(),
		DecayRate:    1.0 / 128.0,
		Mass:         1,
	}
}

func (c Config) Validate() error {
	if !(c.DecayRate > 0) || c.DecayRate > 1 {
		return fmt.Errorf("%w: decay rate must be in (0, 1], got %g", dynamo.ErrInvalidSystem, c.DecayRate)
	}
	if c.SpawnPerTick < 0 {
		return fmt.Errorf("%w: spawn per tick must be >= 0, got %d", dynamo.ErrInvalidSystem, c.SpawnPerTick)
	}
	if !(c.Mass > 0) || math.IsInf(c.Mass, 0) {
		return fmt.Errorf("%w: particle mass must be finite and > 0, got %g", dynamo.ErrInvalidSystem, c.Mass)
	}
	if c.MaxParticles < 0 {
		return fmt.Errorf("%w: max particles must be >= 0, got %d", dynamo.ErrInvalidSystem, c.MaxParticles)
	}
	if err := c.Boundary.Validate(); err != nil {
		return err
	}
	return c.Velocity.validate()
}

// System is a bag of particles keyed by ID.
type System struct {
	cfg       Config
	particles map[uint64]*Particle
	fields    []*physics.Field
	nextID    uint64
	spawned   uint64
	culled    uint64
}

func NewSystem(cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &System{cfg: cfg, particles: make(map[uint64]*Particle)}, nil
}

func (s *System) Config() Config      { return s.cfg }
func (s *System) Origin() dynamo.Vec2 { return s.cfg.Origin }
func (s *System) Len() int            { return len(s.particles) }

// Spawned and Culled are lifetime totals.
func (s *System) Spawned() uint64 { return s.spawned }
func (s *System) Culled() uint64  { return s.culled }

// SetOrigin moves where future particles appear.
func (s *System) SetOrigin(o dynamo.Vec2) { s.cfg.Origin = o }

// AddField attaches a field that acts only on this system's particles, such
// as a repeller.
func (s *System) AddField(f *physics.Field) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.fields = append(s.fields, f)
	return nil
}

func (s *System) Fields() []*physics.Field { return s.fields }

// ApplyForce accumulates f onto every particle.
func (s *System) ApplyForce(f dynamo.Vec2) {
	for _, p := range s.particles {
		p.Entity.ApplyForce(f)
	}
}

// ApplyField accumulates f's contribution onto every particle.
func (s *System) ApplyField(f *physics.Field) {
	if !f.Active() {
		return
	}
	for _, p := range s.particles {
		p.Entity.ApplyForce(f.Force(&p.Entity))
	}
}

// ApplyOwnFields applies the fields attached with AddField.
func (s *System) ApplyOwnFields() {
	for _, f := range s.fields {
		s.ApplyField(f)
	}
}

// Advance runs one tick: decay, wall contact, integrate, cull, spawn.
func (s *System) Advance(r dynamo.Rand) {
	for id, p := range s.particles {
		p.Life -= s.cfg.DecayRate
		s.cfg.Boundary.Contact(&p.Entity)
		p.Entity.Integrate()
		s.cfg.Boundary.Apply(&p.Entity)
		if !p.Alive() {
			delete(s.particles, id)
			s.culled++
		}
	}
	s.spawn(r, s.cfg.SpawnPerTick)
}

// Burst spawns n particles immediately.
func (s *System) Burst(r dynamo.Rand, n int) {
	s.spawn(r, n)
}

func (s *System) spawn(r dynamo.Rand, n int) {
	for i := 0; i < n; i++ {
		if s.cfg.MaxParticles > 0 && len(s.particles) >= s.cfg.MaxParticles {
			return
		}
		s.nextID++
		p := &Particle{
			ID:     s.nextID,
			Entity: *dynamo.NewEntity(s.cfg.Origin, s.cfg.Velocity.Sample(r), s.cfg.Mass),
			Life:   1,
			Shape:  s.pickShape(r),
		}
		s.particles[p.ID] = p
		s.spawned++
	}
}

func (s *System) pickShape(r dynamo.Rand) Shape {
	switch len(s.cfg.Shapes) {
	case 0:
		return Disc
	case 1:
		return s.cfg.Shapes[0]
	}
	return s.cfg.Shapes[r.Intn(len(s.cfg.Shapes))]
}

// Particles returns the live particles ordered by ID.
func (s *System) Particles() []*Particle {
	out := make([]*Particle, 0, len(s.particles))
	for _, p := range s.particles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Particle) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Get looks up a live particle.
func (s *System) Get(id uint64) (*Particle, bool) {
	p, ok := s.particles[id]
	return p, ok
}
