package dynamo

import "math"

const (
	// AngularAccelDivisor maps linear x-acceleration to angular acceleration
	// for oriented entities.
	AngularAccelDivisor = 10.0

	// MaxAngularVelocity clamps the spin of oriented entities, in radians per tick.
	MaxAngularVelocity = 0.1
)

// Axis selects one component of a vector.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Entity is a point mass stepped with semi-implicit Euler and an implicit
// timestep of one tick.
type Entity struct {
	Position Vec2
	Velocity Vec2
	Mass     float64

	// Oriented entities derive spin from their linear acceleration.
	Oriented            bool
	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64

	// Damping multiplies velocity after each integration; 0 disables it.
	Damping float64
	// MaxSpeed caps |velocity|; 0 means unlimited.
	MaxSpeed float64
	// Radius is the pick and draw radius.
	Radius float64
	// Pinned entities are held in place by the host and skip integration.
	Pinned bool

	force Vec2
}

// NewEntity returns an entity at rest with no pending force.
// It panics with a *PreconditionError when mass <= 0.
func NewEntity(pos, vel Vec2, mass float64) *Entity {
	checkMass("NewEntity", mass)
	return &Entity{Position: pos, Velocity: vel, Mass: mass}
}

func checkMass(op string, mass float64) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		precondition(op, "mass must be > 0", ErrNonPositiveMass)
	}
}

// ApplyForce adds f to the accumulator. Nothing moves until Integrate.
func (e *Entity) ApplyForce(f Vec2) {
	e.force = e.force.Add(f)
}

// Force returns the pending accumulated force.
func (e *Entity) Force() Vec2 {
	return e.force
}

// ZeroForceAxis clears one component of the accumulator.
func (e *Entity) ZeroForceAxis(a Axis) {
	switch a {
	case AxisX:
		e.force.X = 0
	case AxisY:
		e.force.Y = 0
	}
}

// ClearForce drops the pending force without integrating.
func (e *Entity) ClearForce() {
	e.force = Vec2{}
}

// Integrate advances one tick: velocity += force/mass; position += velocity.
// The accumulator is reset afterwards.
func (e *Entity) Integrate() {
	checkMass("Entity.Integrate", e.Mass)
	if e.Pinned {
		e.force = Vec2{}
		return
	}

	acc := e.force.Scale(1 / e.Mass)
	e.Velocity = e.Velocity.Add(acc)
	if e.Damping > 0 {
		e.Velocity = e.Velocity.Scale(e.Damping)
	}
	if e.MaxSpeed > 0 {
		e.Velocity = e.Velocity.Limit(e.MaxSpeed)
	}
	e.Position = e.Position.Add(e.Velocity)

	if e.Oriented {
		e.AngularAcceleration = acc.X / AngularAccelDivisor
		e.AngularVelocity = Clamp(e.AngularVelocity+e.AngularAcceleration, -MaxAngularVelocity, MaxAngularVelocity)
		e.Angle += e.AngularVelocity
	}

	e.force = Vec2{}
}

// Heading is the direction of travel.
func (e *Entity) Heading() float64 {
	return e.Velocity.Heading()
}

// KineticEnergy is ½mv².
func (e *Entity) KineticEnergy() float64 {
	return 0.5 * e.Mass * e.Velocity.LenSq()
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
