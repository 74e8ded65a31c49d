package physics

import (
	"fmt"

	"github.com/san-kum/forcesim/internal/dynamo"
)

// Kind tags a Field variant.
type Kind int

const (
	Constant Kind = iota
	Attraction
	Drag
	Spring
	NoiseWind
	Seek
)

var kindNames = map[Kind]string{
	Constant:   "constant",
	Attraction: "attraction",
	Drag:       "drag",
	Spring:     "spring",
	NoiseWind:  "noise_wind",
	Seek:       "seek",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field kind %q", dynamo.ErrInvalidField, s)
}

// Field is a closed tagged variant of force sources. Only the parameters of
// its Kind are read.
type Field struct {
	Kind Kind
	Name string

	// Constant
	Vector      dynamo.Vec2
	ScaleByMass bool

	// Attraction
	Source      dynamo.Vec2
	G           float64
	SourceMass  float64
	MinDistance float64
	MaxDistance float64
	Repel       bool

	// Drag
	Coefficient float64
	Region      dynamo.Rect

	// Spring
	Anchor     dynamo.Vec2
	RestLength float64
	Stiffness  float64

	// NoiseWind
	Sampler   NoiseSampler
	Scale     float64
	Step      float64
	Direction dynamo.Vec2
	Unsigned  bool
	offset    float64

	// Seek
	Target    dynamo.Vec2
	Magnitude float64

	// Pointer bindings.
	FollowPointer    bool
	OnlyWhilePressed bool
	MirrorByPointer  bool

	disabled bool
	mirrored bool
}

// NewConstant returns a uniform force such as gravity or a steady wind.
func NewConstant(v dynamo.Vec2, scaleByMass bool) *Field {
	return &Field{Kind: Constant, Vector: v, ScaleByMass: scaleByMass}
}

// NewAttraction returns an inverse-square attractor at source. Distances are
// clamped into [minDist, maxDist].
func NewAttraction(source dynamo.Vec2, g, sourceMass, minDist, maxDist float64) (*Field, error) {
	f := &Field{Kind: Attraction, Source: source, G: g, SourceMass: sourceMass, MinDistance: minDist, MaxDistance: maxDist}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewRepulsion is NewAttraction with the force sign flipped.
func NewRepulsion(source dynamo.Vec2, g, sourceMass, minDist, maxDist float64) (*Field, error) {
	f, err := NewAttraction(source, g, sourceMass, minDist, maxDist)
	if err != nil {
		return nil, err
	}
	f.Repel = true
	return f, nil
}

// NewDrag returns quadratic drag active inside region.
func NewDrag(coefficient float64, region dynamo.Rect) (*Field, error) {
	f := &Field{Kind: Drag, Coefficient: coefficient, Region: region}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewSpring returns a Hookean spring anchored at anchor.
func NewSpring(anchor dynamo.Vec2, restLength, stiffness float64) (*Field, error) {
	f := &Field{Kind: Spring, Anchor: anchor, RestLength: restLength, Stiffness: stiffness}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewNoiseWind returns a noise-driven force whose components lie in
// [-scale, scale] (or [0, scale] when Unsigned is set) scaled by direction. The noise offset advances by step per tick.
func NewNoiseWind(sampler NoiseSampler, scale, step float64, direction dynamo.Vec2) (*Field, error) {
	f := &Field{Kind: NoiseWind, Sampler: sampler, Scale: scale, Step: step, Direction: direction}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewSeek returns a constant-magnitude pull toward target.
func NewSeek(target dynamo.Vec2, magnitude float64) *Field {
	return &Field{Kind: Seek, Target: target, Magnitude: magnitude}
}

// Validate reports malformed parameters wrapped in dynamo.ErrInvalidField.
func (f *Field) Validate() error {
	switch f.Kind {
	case Constant, Seek:
		return nil
	case Attraction:
		if f.MinDistance <= 0 {
			return invalid(f, "min_distance must be > 0, got %g", f.MinDistance)
		}
		if f.MinDistance > f.MaxDistance {
			return invalid(f, "min_distance %g > max_distance %g", f.MinDistance, f.MaxDistance)
		}
		if f.SourceMass <= 0 {
			return invalid(f, "source mass must be > 0, got %g", f.SourceMass)
		}
	case Drag:
		if f.Coefficient < 0 {
			return invalid(f, "drag coefficient must be >= 0, got %g", f.Coefficient)
		}
		if f.Region.Empty() {
			return invalid(f, "drag region is empty")
		}
	case Spring:
		if f.Stiffness < 0 {
			return invalid(f, "stiffness must be >= 0, got %g", f.Stiffness)
		}
		if f.RestLength < 0 {
			return invalid(f, "rest length must be >= 0, got %g", f.RestLength)
		}
	case NoiseWind:
		if f.Sampler == nil {
			return invalid(f, "noise sampler is nil")
		}
	default:
		return invalid(f, "unknown kind")
	}
	return nil
}

func invalid(f *Field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", dynamo.ErrInvalidField, f.Kind, fmt.Sprintf(format, args...))
}

// Active reports whether the field contributes this tick.
func (f *Field) Active() bool {
	return !f.disabled
}

// Force computes the field's contribution on e. It reads e and never mutates it.
func (f *Field) Force(e *dynamo.Entity) dynamo.Vec2 {
	if f.disabled {
		return dynamo.Vec2{}
	}
	switch f.Kind {
	case Constant:
		v := f.Vector
		if f.ScaleByMass {
			v = v.Scale(e.Mass)
		}
		return f.mirror(v)
	case Attraction:
		return f.attraction(e)
	case Drag:
		if !f.Region.Contains(e.Position) {
			return dynamo.Vec2{}
		}
		return e.Velocity.Normalize().Scale(-f.Coefficient * e.Velocity.LenSq())
	case Spring:
		d := e.Position.Sub(f.Anchor)
		stretch := d.Len() - f.RestLength
		return d.Normalize().Scale(-f.Stiffness * stretch)
	case NoiseWind:
		return f.mirror(f.wind())
	case Seek:
		return f.Target.Sub(e.Position).Normalize().Scale(f.Magnitude)
	}
	return dynamo.Vec2{}
}

func (f *Field) attraction(e *dynamo.Entity) dynamo.Vec2 {
	return InverseSquare(f.Source, e.Position, f.G, f.SourceMass, e.Mass, f.MinDistance, f.MaxDistance, f.Repel)
}

// InverseSquare is the clamped gravitational force exerted by a mass at source
// on a mass at target.
func InverseSquare(source, target dynamo.Vec2, g, sourceMass, targetMass, minDist, maxDist float64, repel bool) dynamo.Vec2 {
	delta := source.Sub(target)
	d := dynamo.Clamp(delta.Len(), minDist, maxDist)
	mag := g * sourceMass * targetMass / (d * d)
	if repel {
		mag = -mag
	}
	return delta.Normalize().Scale(mag)
}

func (f *Field) wind() dynamo.Vec2 {
	nx := f.Sampler.Noise1D(f.offset)
	ny := f.Sampler.Noise1D(f.offset + noiseAxisOffset)
	if !f.Unsigned {
		nx, ny = 2*nx-1, 2*ny-1
	}
	return dynamo.V(nx*f.Scale, ny*f.Scale).Mul(f.Direction)
}

// noiseAxisOffset decorrelates the two wind axes.
const noiseAxisOffset = 1e3

func (f *Field) mirror(v dynamo.Vec2) dynamo.Vec2 {
	if f.mirrored {
		v.X = -v.X
	}
	return v
}

// Advance moves time-varying fields forward one tick.
func (f *Field) Advance() {
	if f.Kind == NoiseWind {
		f.offset += f.Step
	}
}

// Offset is the current noise offset of a NoiseWind field.
func (f *Field) Offset() float64 {
	return f.offset
}

// Bind applies pointer input to the field's bindings. center is the x
// coordinate used by MirrorByPointer.
func (f *Field) Bind(pointer dynamo.Vec2, pressed bool, center float64) {
	if f.FollowPointer {
		switch f.Kind {
		case Attraction:
			f.Source = pointer
		case Spring:
			f.Anchor = pointer
		case Seek:
			f.Target = pointer
		}
	}
	f.disabled = f.OnlyWhilePressed && !pressed
	f.mirrored = f.MirrorByPointer && pointer.X < center
}
