// Package boundary keeps entities inside the visible extent.
package boundary

import (
	"fmt"
	"math"

	"github.com/san-kum/forcesim/internal/dynamo"
)

// Mode selects how an out-of-bounds entity is corrected.
type Mode int

const (
	None Mode = iota
	Wrap
	Bounce
	ReflectAndDamp
)

var modeNames = map[Mode]string{
	None:           "none",
	Wrap:           "wrap",
	Bounce:         "bounce",
	ReflectAndDamp: "reflect_and_damp",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a config name to a Mode. The empty string is None.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return None, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return None, fmt.Errorf("%w: unknown mode %q", dynamo.ErrInvalidPolicy, s)
}

// Crossing records which axes were corrected.
type Crossing uint8

const (
	CrossX Crossing = 1 << iota
	CrossY
)

func (c Crossing) X() bool { return c&CrossX != 0 }
func (c Crossing) Y() bool { return c&CrossY != 0 }

// Policy bounds positions to [0, Width] x [0, Height].
//
// Restitution scales the reflected velocity. Values above 1 add energy on
// every bounce and are allowed.
type Policy struct {
	Mode        Mode
	Width       float64
	Height      float64
	Restitution float64
}

func New(mode Mode, width, height, restitution float64) (Policy, error) {
	p := Policy{Mode: mode, Width: width, Height: height, Restitution: restitution}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.Mode == None {
		return nil
	}
	if !(p.Width > 0) || !(p.Height > 0) {
		return fmt.Errorf("%w: extent %gx%g", dynamo.ErrInvalidPolicy, p.Width, p.Height)
	}
	if p.Restitution < 0 || math.IsNaN(p.Restitution) {
		return fmt.Errorf("%w: restitution %g", dynamo.ErrInvalidPolicy, p.Restitution)
	}
	return nil
}

// Apply corrects e in place. Each axis is handled on its own.
func (p Policy) Apply(e *dynamo.Entity) Crossing {
	var c Crossing
	switch p.Mode {
	case Wrap:
		if wrap(&e.Position.X, p.Width) {
			c |= CrossX
		}
		if wrap(&e.Position.Y, p.Height) {
			c |= CrossY
		}
	case Bounce, ReflectAndDamp:
		if p.reflect(&e.Position.X, &e.Velocity.X, p.Width) {
			c |= CrossX
		}
		if p.reflect(&e.Position.Y, &e.Velocity.Y, p.Height) {
			c |= CrossY
		}
		if p.Mode == ReflectAndDamp {
			if c.X() {
				e.ZeroForceAxis(dynamo.AxisX)
			}
			if c.Y() {
				e.ZeroForceAxis(dynamo.AxisY)
			}
		}
	}
	return c
}

// Contact runs before integration. In ReflectAndDamp mode a body sitting on a
// wall loses the force component that pushes it further out, so a resting
// body stays at rest instead of sinking and being bounced back each tick.
func (p Policy) Contact(e *dynamo.Entity) Crossing {
	if p.Mode != ReflectAndDamp {
		return 0
	}
	var c Crossing
	f := e.Force()
	if pushesOut(e.Position.X, f.X, p.Width) {
		e.ZeroForceAxis(dynamo.AxisX)
		c |= CrossX
	}
	if pushesOut(e.Position.Y, f.Y, p.Height) {
		e.ZeroForceAxis(dynamo.AxisY)
		c |= CrossY
	}
	return c
}

func pushesOut(pos, force, extent float64) bool {
	return (pos >= extent && force > 0) || (pos <= 0 && force < 0)
}

func wrap(pos *float64, extent float64) bool {
	switch {
	case *pos > extent:
		*pos = 0
	case *pos < 0:
		*pos = extent
	default:
		return false
	}
	return true
}

// reflect clamps pos and sends vel back toward the interior. Plain negation
// would push a body that is already heading inward back out of the extent.
func (p Policy) reflect(pos, vel *float64, extent float64) bool {
	switch {
	case *pos > extent:
		*pos = extent
		*vel = -math.Abs(*vel) * p.Restitution
	case *pos < 0:
		*pos = 0
		*vel = math.Abs(*vel) * p.Restitution
	default:
		return false
	}
	return true
}
