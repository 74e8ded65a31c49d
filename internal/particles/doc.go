// Package particles manages short-lived entities that spawn at an origin,
// fade by a fixed decay rate each tick, and are culled the tick their life
// reaches zero.
//
// A particle's [Shape] is a render tag only. Every shape shares the same
// entity and life payload and moves under exactly the same rules.
package particles
