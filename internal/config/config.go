package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
)

const (
	DefaultWidth  = 640.0
	DefaultHeight = 480.0
	DefaultTicks  = 600
	DefaultSeed   = 1
)

// Point is written as a two element flow sequence, [x, y].
type Point [2]float64

func (p Point) Vec() dynamo.Vec2 { return dynamo.V(p[0], p[1]) }

func (p Point) IsZero() bool { return p == Point{} }

// Box is a rectangle written as [x, y, w, h].
type Box [4]float64

func (b Box) Rect() dynamo.Rect { return dynamo.Rect{X: b[0], Y: b[1], W: b[2], H: b[3]} }

func (b Box) IsZero() bool { return b == Box{} }

type Config struct {
	Scene    string         `yaml:"scene"`
	Seed     int64          `yaml:"seed"`
	Ticks    int            `yaml:"ticks"`
	Width    float64        `yaml:"width"`
	Height   float64        `yaml:"height"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Entities []EntityConfig `yaml:"entities,omitempty"`
	Fields   []FieldConfig  `yaml:"fields,omitempty"`
	Mutual   *MutualConfig  `yaml:"mutual,omitempty"`
	Systems  []SystemConfig `yaml:"systems,omitempty"`

	SpawnOnClick *SystemConfig `yaml:"spawn_on_click,omitempty"`
	MaxSystems   int           `yaml:"max_systems,omitempty"`
}

type BoundaryConfig struct {
	Mode        string  `yaml:"mode"`
	Restitution float64 `yaml:"restitution"`
}

// EntityConfig describes Count entities. Entity i starts at
// Position + i*Spacing plus a uniform draw in [0, Spread) per axis.
type EntityConfig struct {
	Count    int     `yaml:"count,omitempty"`
	Position Point   `yaml:"position,flow"`
	Spacing  Point   `yaml:"spacing,flow,omitempty"`
	Spread   Point   `yaml:"spread,flow,omitempty"`
	Velocity Point   `yaml:"velocity,flow,omitempty"`
	Jitter   Point   `yaml:"jitter,flow,omitempty"`
	Mass     float64 `yaml:"mass"`
	// MassMax > Mass draws mass uniformly from [Mass, MassMax).
	MassMax  float64 `yaml:"mass_max,omitempty"`
	Oriented bool    `yaml:"oriented,omitempty"`
	Damping  float64 `yaml:"damping,omitempty"`
	MaxSpeed float64 `yaml:"max_speed,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
}

type FieldConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name,omitempty"`

	Vector      Point `yaml:"vector,flow,omitempty"`
	ScaleByMass bool  `yaml:"scale_by_mass,omitempty"`

	Source      Point   `yaml:"source,flow,omitempty"`
	G           float64 `yaml:"g,omitempty"`
	SourceMass  float64 `yaml:"source_mass,omitempty"`
	MinDistance float64 `yaml:"min_distance,omitempty"`
	MaxDistance float64 `yaml:"max_distance,omitempty"`
	Repel       bool    `yaml:"repel,omitempty"`

	Coefficient float64    `yaml:"coefficient,omitempty"`
	Region      Box        `yaml:"region,flow,omitempty"`

	Anchor     Point   `yaml:"anchor,flow,omitempty"`
	RestLength float64 `yaml:"rest_length,omitempty"`
	Stiffness  float64 `yaml:"stiffness,omitempty"`

	Scale     float64 `yaml:"scale,omitempty"`
	Step      float64 `yaml:"step,omitempty"`
	Direction Point   `yaml:"direction,flow,omitempty"`
	Unsigned  bool    `yaml:"unsigned,omitempty"`
	NoiseSeed int64   `yaml:"noise_seed,omitempty"`

	Target    Point   `yaml:"target,flow,omitempty"`
	Magnitude float64 `yaml:"magnitude,omitempty"`

	FollowPointer    bool `yaml:"follow_pointer,omitempty"`
	OnlyWhilePressed bool `yaml:"only_while_pressed,omitempty"`
	MirrorByPointer  bool `yaml:"mirror_by_pointer,omitempty"`
}

type MutualConfig struct {
	G           float64 `yaml:"g"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Repel       bool    `yaml:"repel,omitempty"`
}

type VelocityConfig struct {
	Dist   string `yaml:"dist,omitempty"`
	Min    Point  `yaml:"min,flow,omitempty"`
	Max    Point  `yaml:"max,flow,omitempty"`
	Base   Point  `yaml:"base,flow,omitempty"`
	StdDev Point  `yaml:"stddev,flow,omitempty"`
}

// SystemConfig describes Count particle systems placed like entities.
type SystemConfig struct {
	Count        int             `yaml:"count,omitempty"`
	Origin       Point           `yaml:"origin,flow"`
	Spread       Point           `yaml:"spread,flow,omitempty"`
	SpawnPerTick int             `yaml:"spawn_per_tick"`
	Burst        int             `yaml:"burst,omitempty"`
	Velocity     *VelocityConfig `yaml:"velocity,omitempty"`
	DecayRate    float64         `yaml:"decay_rate"`
	Mass         float64         `yaml:"mass"`
	Shapes       []string        `yaml:"shapes,flow,omitempty"`
	MaxParticles int             `yaml:"max_particles,omitempty"`
	Boundary     *BoundaryConfig `yaml:"boundary,omitempty"`
	Fields       []FieldConfig   `yaml:"fields,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    "bouncing-ball",
		Seed:     DefaultSeed,
		Ticks:    DefaultTicks,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Boundary: BoundaryConfig{Mode: "bounce", Restitution: 1},
		Entities: []EntityConfig{
			{Position: Point{128, 128}, Velocity: Point{2, 10.0 / 3.0}, Mass: 1, Radius: 32},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Seed: DefaultSeed, Ticks: DefaultTicks, Width: DefaultWidth, Height: DefaultHeight}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone deep-copies c through its YAML form.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks every part of the scene without building it.
func (c *Config) Validate() error {
	if c.Ticks < 0 {
		return invalid("ticks must be >= 0, got %d", c.Ticks)
	}
	if !(c.Width > 0) || !(c.Height > 0) {
		return invalid("world size %gx%g", c.Width, c.Height)
	}
	if c.MaxSystems < 0 {
		return invalid("max_systems must be >= 0, got %d", c.MaxSystems)
	}
	if _, err := c.Boundary.Policy(c.Width, c.Height); err != nil {
		return err
	}
	for i, e := range c.Entities {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	for i, f := range c.Fields {
		if _, err := f.Field(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	if c.Mutual != nil {
		if _, err := c.Mutual.Mutual(); err != nil {
			return err
		}
	}
	for i, s := range c.Systems {
		if _, err := s.Particles(c.Width, c.Height); err != nil {
			return fmt.Errorf("system %d: %w", i, err)
		}
	}
	if c.SpawnOnClick != nil {
		if _, err := c.SpawnOnClick.Particles(c.Width, c.Height); err != nil {
			return fmt.Errorf("spawn_on_click: %w", err)
		}
	}
	return nil
}

// Policy builds the boundary policy for a world of the given size.
func (b BoundaryConfig) Policy(width, height float64) (boundary.Policy, error) {
	mode, err := boundary.ParseMode(b.Mode)
	if err != nil {
		return boundary.Policy{}, err
	}
	return boundary.New(mode, width, height, b.Restitution)
}

func (e EntityConfig) Validate() error {
	if e.Count < 0 {
		return invalid("count must be >= 0, got %d", e.Count)
	}
	if !(e.Mass > 0) || math.IsInf(e.Mass, 0) {
		return fmt.Errorf("%w: mass %g", dynamo.ErrNonPositiveMass, e.Mass)
	}
	if e.MassMax != 0 && (e.MassMax < e.Mass || math.IsInf(e.MassMax, 0)) {
		return invalid("mass_max %g must be finite and not below mass %g", e.MassMax, e.Mass)
	}
	if e.Spread[0] < 0 || e.Spread[1] < 0 || e.Jitter[0] < 0 || e.Jitter[1] < 0 {
		return invalid("negative spread or jitter")
	}
	if e.Damping < 0 || e.MaxSpeed < 0 || e.Radius < 0 {
		return invalid("negative damping, max_speed or radius")
	}
	return nil
}

// N is the number of entities described, at least one.
func (e EntityConfig) N() int { return max(e.Count, 1) }

// Entity builds the i-th entity, drawing its random parts from r.
func (e EntityConfig) Entity(i int, r dynamo.Rand) *dynamo.Entity {
	pos := e.Position.Vec().Add(e.Spacing.Vec().Scale(float64(i)))
	if e.Spread != (Point{}) {
		pos = pos.Add(dynamo.V(r.Float64()*e.Spread[0], r.Float64()*e.Spread[1]))
	}
	vel := e.Velocity.Vec()
	if e.Jitter != (Point{}) {
		vel = vel.Add(dynamo.V(dynamo.Uniform(r, -e.Jitter[0], e.Jitter[0]), dynamo.Uniform(r, -e.Jitter[1], e.Jitter[1])))
	}
	mass := e.Mass
	if e.MassMax > e.Mass {
		mass = dynamo.Uniform(r, e.Mass, e.MassMax)
	}

	ent := dynamo.NewEntity(pos, vel, mass)
	ent.Oriented = e.Oriented
	ent.Damping = e.Damping
	ent.MaxSpeed = e.MaxSpeed
	ent.Radius = e.Radius
	return ent
}

// Field builds and validates the described field.
func (f FieldConfig) Field() (*physics.Field, error) {
	kind, err := physics.ParseKind(f.Kind)
	if err != nil {
		return nil, err
	}
	field := &physics.Field{
		Kind:             kind,
		Name:             f.Name,
		Vector:           f.Vector.Vec(),
		ScaleByMass:      f.ScaleByMass,
		Source:           f.Source.Vec(),
		G:                f.G,
		SourceMass:       f.SourceMass,
		MinDistance:      f.MinDistance,
		MaxDistance:      f.MaxDistance,
		Repel:            f.Repel,
		Coefficient:      f.Coefficient,
		Region:           f.Region.Rect(),
		Anchor:           f.Anchor.Vec(),
		RestLength:       f.RestLength,
		Stiffness:        f.Stiffness,
		Scale:            f.Scale,
		Step:             f.Step,
		Direction:        f.Direction.Vec(),
		Unsigned:         f.Unsigned,
		Target:           f.Target.Vec(),
		Magnitude:        f.Magnitude,
		FollowPointer:    f.FollowPointer,
		OnlyWhilePressed: f.OnlyWhilePressed,
		MirrorByPointer:  f.MirrorByPointer,
	}
	if kind == physics.Attraction && field.MaxDistance == 0 {
		field.MaxDistance = math.Inf(1)
	}
	if kind == physics.NoiseWind {
		field.Sampler = physics.NewPerlinSampler(f.NoiseSeed)
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	return field, nil
}

func (m MutualConfig) Mutual() (*physics.Mutual, error) {
	return physics.NewMutual(m.G, m.MinDistance, m.MaxDistance, m.Repel)
}

// N is the number of systems described, at least one.
func (s SystemConfig) N() int { return max(s.Count, 1) }

// Particles converts s into a particle system config. Origin placement and
// Spread are applied by the caller.
func (s SystemConfig) Particles(width, height float64) (particles.Config, error) {
	if s.Count < 0 || s.Burst < 0 {
		return particles.Config{}, invalid("negative count or burst")
	}
	pc := particles.DefaultConfig(s.Origin.Vec())
	pc.SpawnPerTick = s.SpawnPerTick
	pc.DecayRate = s.DecayRate
	pc.Mass = s.Mass
	pc.MaxParticles = s.MaxParticles

	if v := s.Velocity; v != nil {
		kind, err := particles.ParseDistKind(v.Dist)
		if err != nil {
			return particles.Config{}, err
		}
		pc.Velocity = particles.VelocityDist{
			Kind: kind, Min: v.Min.Vec(), Max: v.Max.Vec(), Base: v.Base.Vec(), StdDev: v.StdDev.Vec(),
		}
	}
	for _, name := range s.Shapes {
		shape, err := particles.ParseShape(name)
		if err != nil {
			return particles.Config{}, err
		}
		pc.Shapes = append(pc.Shapes, shape)
	}
	if s.Boundary != nil {
		p, err := s.Boundary.Policy(width, height)
		if err != nil {
			return particles.Config{}, err
		}
		pc.Boundary = p
	}
	for i, f := range s.Fields {
		if _, err := f.Field(); err != nil {
			return particles.Config{}, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return pc, pc.Validate()
}
