package particles

import (
	"fmt"

	"github.com/san-kum/forcesim/internal/dynamo"
)

// DistKind selects how spawn velocities are drawn.
type DistKind int

const (
	Uniform DistKind = iota
	Gaussian
)

// ParseDistKind maps a config name to a DistKind. The empty string is Uniform.
func ParseDistKind(s string) (DistKind, error) {
	switch s {
	case "", "uniform":
		return Uniform, nil
	case "gaussian":
		return Gaussian, nil
	}
	return Uniform, fmt.Errorf("%w: unknown velocity distribution %q", dynamo.ErrInvalidSystem, s)
}

// VelocityDist draws spawn velocities, either uniformly per axis in
// [Min, Max) or as Base perturbed by Gaussian noise of StdDev per axis.
type VelocityDist struct {
	Kind   DistKind
	Min    dynamo.Vec2
	Max    dynamo.Vec2
	Base   dynamo.Vec2
	StdDev dynamo.Vec2
}

// DefaultVelocity sprays particles sideways and upward.
func DefaultVelocity() VelocityDist {
	return VelocityDist{Kind: Uniform, Min: dynamo.V(-1, -2), Max: dynamo.V(1, 0)}
}

func (d VelocityDist) Sample(r dynamo.Rand) dynamo.Vec2 {
	if d.Kind == Gaussian {
		return dynamo.V(
			dynamo.Gaussian(r, d.Base.X, d.StdDev.X),
			dynamo.Gaussian(r, d.Base.Y, d.StdDev.Y),
		)
	}
	return dynamo.V(
		dynamo.Uniform(r, d.Min.X, d.Max.X),
		dynamo.Uniform(r, d.Min.Y, d.Max.Y),
	)
}

func (d VelocityDist) validate() error {
	switch d.Kind {
	case Uniform:
		if d.Min.X > d.Max.X || d.Min.Y > d.Max.Y {
			return fmt.Errorf("%w: uniform velocity range min %v > max %v", dynamo.ErrInvalidSystem, d.Min, d.Max)
		}
	case Gaussian:
		if d.StdDev.X < 0 || d.StdDev.Y < 0 {
			return fmt.Errorf("%w: negative velocity stddev %v", dynamo.ErrInvalidSystem, d.StdDev)
		}
	default:
		return fmt.Errorf("%w: velocity distribution kind %d", dynamo.ErrInvalidSystem, d.Kind)
	}
	return nil
}
