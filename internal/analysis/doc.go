// Package analysis characterizes recorded runs.
//
//   - [PowerSpectrum], [DominantPeriod]: spectrum of a recorded coordinate,
//     for oscillating scenes such as spring-forces
//   - [LyapunovExponent]: divergence of two nearly identical scenes
//   - [BifurcationDiagram]: settled values of a coordinate across a
//     parameter sweep
//   - [NewPhasePortrait], [NewPoincareSection]: 2D views of a trajectory
//
// # Oscillation period
//
//	rec := sim.NewRecorder(0)
//	s, _ := experiment.Build(cfg, rng, sim.WithObserver(rec))
//	s.Run(ctx, 2048)
//	period := analysis.DominantPeriod(rec.Axis(dynamo.AxisY))
package analysis
