package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestEntity_StraightLineWithoutForce(t *testing.T) {
	start := V(3, -2)
	vel := V(0.75, 1.25)
	e := NewEntity(start, vel, 2)

	const n = 500
	for i := 0; i < n; i++ {
		e.Integrate()
	}

	want := start.Add(vel.Scale(n))
	if e.Position.Dist(want) > 1e-9 {
		t.Errorf("position after %d ticks = %v, want %v", n, e.Position, want)
	}
	if e.Velocity != vel {
		t.Errorf("velocity drifted: %v", e.Velocity)
	}
}

func TestEntity_SemiImplicitEuler(t *testing.T) {
	e := NewEntity(V(0, 0), V(1, 0), 2)
	e.ApplyForce(V(0, 4))
	e.ApplyForce(V(2, 0))

	if e.Position != V(0, 0) {
		t.Fatal("ApplyForce must not move the entity")
	}

	e.Integrate()

	if e.Velocity != V(2, 2) {
		t.Errorf("velocity = %v, want (2,2)", e.Velocity)
	}
	// position uses the updated velocity
	if e.Position != V(2, 2) {
		t.Errorf("position = %v, want (2,2)", e.Position)
	}
	if !e.Force().IsZero() {
		t.Errorf("accumulator not reset: %v", e.Force())
	}
}

func TestEntity_MassPrecondition(t *testing.T) {
	for _, mass := range []float64{0, -1, math.NaN()} {
		func() {
			defer func() {
				r := recover()
				pe, ok := r.(*PreconditionError)
				if !ok {
					t.Fatalf("mass %v: expected *PreconditionError panic, got %v", mass, r)
				}
				if !errors.Is(pe, ErrNonPositiveMass) {
					t.Errorf("mass %v: expected ErrNonPositiveMass, got %v", mass, pe)
				}
			}()
			NewEntity(V(0, 0), V(0, 0), mass)
		}()
	}

	e := NewEntity(V(0, 0), V(0, 0), 1)
	e.Mass = 0
	defer func() {
		if recover() == nil {
			t.Error("Integrate with zero mass should panic")
		}
	}()
	e.Integrate()
}

func TestEntity_OrientedSpinIsClamped(t *testing.T) {
	e := NewEntity(V(0, 0), V(0, 0), 1)
	e.Oriented = true

	for i := 0; i < 20; i++ {
		e.ApplyForce(V(5, 0))
		e.Integrate()
		if e.AngularVelocity > MaxAngularVelocity+1e-15 {
			t.Fatalf("angular velocity %v exceeds clamp", e.AngularVelocity)
		}
	}
	if e.AngularVelocity != MaxAngularVelocity {
		t.Errorf("expected saturated angular velocity, got %v", e.AngularVelocity)
	}
	if e.AngularAcceleration != 0.5 {
		t.Errorf("angular acceleration = %v, want 0.5", e.AngularAcceleration)
	}
}

func TestEntity_DampingAndMaxSpeed(t *testing.T) {
	e := NewEntity(V(0, 0), V(10, 0), 1)
	e.Damping = 0.5
	e.Integrate()
	if e.Velocity != V(5, 0) {
		t.Errorf("damped velocity = %v, want (5,0)", e.Velocity)
	}

	f := NewEntity(V(0, 0), V(0, 0), 1)
	f.MaxSpeed = 3
	f.ApplyForce(V(30, 40))
	f.Integrate()
	if math.Abs(f.Velocity.Len()-3) > 1e-12 {
		t.Errorf("limited speed = %v, want 3", f.Velocity.Len())
	}
}

func TestEntity_PinnedSkipsIntegration(t *testing.T) {
	e := NewEntity(V(1, 1), V(2, 2), 1)
	e.Pinned = true
	e.ApplyForce(V(9, 9))
	e.Integrate()

	if e.Position != V(1, 1) {
		t.Errorf("pinned entity moved to %v", e.Position)
	}
	if !e.Force().IsZero() {
		t.Error("pinned entity kept its accumulator")
	}
}

func TestEntity_ZeroForceAxis(t *testing.T) {
	e := NewEntity(V(0, 0), V(0, 0), 1)
	e.ApplyForce(V(3, 4))
	e.ZeroForceAxis(AxisY)
	if e.Force() != V(3, 0) {
		t.Errorf("force = %v, want (3,0)", e.Force())
	}
}
