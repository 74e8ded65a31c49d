// Package physics provides the force fields that act on entities.
//
// A [Field] is a closed tagged variant; [Field.Force] switches on its [Kind]
// and returns the contribution for one target entity:
//
//   - [Constant]: gravity or a steady wind, optionally scaled by mass
//   - [Attraction]: clamped inverse-square attraction or repulsion
//   - [Drag]: quadratic drag inside a region
//   - [Spring]: Hooke's law toward a rest length
//   - [NoiseWind]: Perlin-driven gusts that drift over time
//   - [Seek]: constant-magnitude pull toward a target
//
// [Mutual] adds pairwise gravity between all entities of a simulation.
//
// Fields sum commutatively, so the order they are applied in does not matter:
//
//	for _, f := range fields {
//	    e.ApplyForce(f.Force(e))
//	}
//	e.Integrate()
package physics
