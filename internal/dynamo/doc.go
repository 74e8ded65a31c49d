// Package dynamo provides the point-mass kernel shared by every scene.
//
// The package defines the value types and the integration contract that the
// rest of the simulator builds on:
//
//   - [Vec2]: immutable 2D vector algebra with a NaN-free normalize policy
//   - [Entity]: point mass with a force accumulator and optional orientation
//   - [Rect]: axis-aligned region used by drag fields
//   - [Rand]: injected random source, so a fixed seed replays a run exactly
//
// # Example
//
//	e := dynamo.NewEntity(dynamo.V(10, 10), dynamo.V(1, 0), 2)
//	e.ApplyForce(dynamo.V(0, 0.2))
//	e.Integrate() // velocity += force/mass; position += velocity
//
// # Thread Safety
//
// Entities are NOT thread-safe. A simulation owns its entities exclusively and
// steps them from a single goroutine.
package dynamo
