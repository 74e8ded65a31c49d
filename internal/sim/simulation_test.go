package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
	"github.com/san-kum/forcesim/internal/sim"
)

type tickCounter struct{ n int }

func (c *tickCounter) Name() string           { return "ticks" }
func (c *tickCounter) Observe(*sim.Simulation) { c.n++ }
func (c *tickCounter) Value() float64         { return float64(c.n) }
func (c *tickCounter) Reset()                 { c.n = 0 }

func newSim(cfg sim.Config, opts ...sim.Option) *sim.Simulation {
	s, err := sim.New(cfg, dynamo.NewRand(1), opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var world = sim.Config{Width: 640, Height: 480}

var _ = Describe("Simulation", func() {
	Describe("Step", func() {
		It("moves a force-free entity in a straight line", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(0, 0), dynamo.V(1, 0.5), 2)
			s.AddEntity(e)

			for i := 0; i < 100; i++ {
				s.Step()
			}

			Expect(e.Position).To(Equal(dynamo.V(100, 50)))
			Expect(e.Velocity).To(Equal(dynamo.V(1, 0.5)))
			Expect(s.Tick()).To(Equal(uint64(100)))
		})

		It("computes forces from the start-of-tick position", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(110, 0), dynamo.Vec2{}, 1)
			s.AddEntity(e)
			spring, err := physics.NewSpring(dynamo.Vec2{}, 100, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddField(spring)).To(Succeed())

			s.Step()

			Expect(e.Velocity.X).To(BeNumerically("~", -1, 1e-12))
			Expect(e.Position.X).To(BeNumerically("~", 109, 1e-12))
			Expect(e.Force()).To(Equal(dynamo.Vec2{}))
		})

		It("applies the entity boundary after integration", func() {
			cfg := world
			cfg.Boundary = boundary.Policy{Mode: boundary.Bounce, Width: 640, Height: 480, Restitution: 0.5}
			s := newSim(cfg)
			e := dynamo.NewEntity(dynamo.V(5, 240), dynamo.V(-10, 0), 1)
			s.AddEntity(e)

			s.Step()
			Expect(e.Position.X).To(Equal(0.0))
			Expect(e.Velocity.X).To(Equal(5.0))

			s.Step()
			Expect(e.Position.X).To(Equal(5.0))
			Expect(e.Velocity.X).To(Equal(5.0))
		})

		It("keeps a body resting on a reflect_and_damp floor at rest", func() {
			drop := func(mode boundary.Mode) *dynamo.Entity {
				cfg := world
				cfg.Boundary = boundary.Policy{Mode: mode, Width: 640, Height: 480, Restitution: 0.8}
				s := newSim(cfg)
				Expect(s.AddField(physics.NewConstant(dynamo.V(0, 0.5), false))).To(Succeed())
				e := dynamo.NewEntity(dynamo.V(100, 480), dynamo.Vec2{}, 1)
				s.AddEntity(e)
				for i := 0; i < 10; i++ {
					s.Step()
				}
				return e
			}

			damped := drop(boundary.ReflectAndDamp)
			Expect(damped.Position).To(Equal(dynamo.V(100, 480)))
			Expect(damped.Velocity).To(Equal(dynamo.Vec2{}))

			bounced := drop(boundary.Bounce)
			Expect(bounced.Velocity.Y).NotTo(BeZero())
		})

		It("gives reflect_and_damp a different path than bounce", func() {
			path := func(mode boundary.Mode) []dynamo.Vec2 {
				cfg := world
				cfg.Boundary = boundary.Policy{Mode: mode, Width: 640, Height: 480, Restitution: 0.8}
				s := newSim(cfg)
				Expect(s.AddField(physics.NewConstant(dynamo.V(0.2, 0.5), false))).To(Succeed())
				e := dynamo.NewEntity(dynamo.V(320, 100), dynamo.V(3, 0), 1)
				s.AddEntity(e)
				out := make([]dynamo.Vec2, 0, 500)
				for i := 0; i < 500; i++ {
					s.Step()
					out = append(out, e.Position)
				}
				return out
			}

			Expect(path(boundary.ReflectAndDamp)).NotTo(Equal(path(boundary.Bounce)))
		})

		It("applies mutual forces between entities", func() {
			s := newSim(world)
			a := dynamo.NewEntity(dynamo.V(100, 100), dynamo.Vec2{}, 1)
			b := dynamo.NewEntity(dynamo.V(200, 100), dynamo.Vec2{}, 1)
			s.AddEntity(a)
			s.AddEntity(b)
			m, err := physics.NewMutual(1, 5, 25, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SetMutual(m)).To(Succeed())

			s.Step()

			Expect(a.Velocity.X).To(BeNumerically(">", 0))
			Expect(b.Velocity.X).To(BeNumerically("~", -a.Velocity.X, 1e-12))
		})

		It("rejects invalid fields", func() {
			s := newSim(world)
			err := s.AddField(&physics.Field{Kind: physics.Attraction, G: 1, SourceMass: 1, MinDistance: 0, MaxDistance: 1})
			Expect(err).To(MatchError(dynamo.ErrInvalidField))
			Expect(s.Fields()).To(BeEmpty())
		})

		It("applies global and system fields to particles", func() {
			s := newSim(world)
			pc := particles.DefaultConfig(dynamo.V(320, 240))
			pc.Velocity = particles.VelocityDist{Kind: particles.Gaussian}
			sys, err := particles.NewSystem(pc)
			Expect(err).NotTo(HaveOccurred())
			s.AddSystem(sys)
			Expect(s.AddField(physics.NewConstant(dynamo.V(0, 0.1), false))).To(Succeed())
			Expect(sys.AddField(physics.NewConstant(dynamo.V(0.2, 0), false))).To(Succeed())

			s.Step()
			s.Step()

			p := sys.Particles()[0]
			Expect(p.Entity.Velocity.X).To(BeNumerically("~", 0.2, 1e-12))
			Expect(p.Entity.Velocity.Y).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("advances noise fields once per tick after forces", func() {
			s := newSim(world)
			wind, err := physics.NewNoiseWind(physics.NewPerlinSampler(3), 0.5, 0.01, dynamo.V(1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddField(wind)).To(Succeed())

			for i := 0; i < 10; i++ {
				s.Step()
			}
			Expect(wind.Offset()).To(BeNumerically("~", 0.1, 1e-12))
		})
	})

	Describe("pointer input", func() {
		It("drags a grabbed entity and zeroes its velocity on release", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(50, 50), dynamo.V(3, 3), 1)
			e.Radius = 10
			s.AddEntity(e)
			Expect(s.AddField(physics.NewConstant(dynamo.V(0, 1), false))).To(Succeed())

			s.SetPointer(sim.Pointer{X: 52, Y: 50, Pressed: true, Clicked: true})
			s.Step()
			Expect(e.Pinned).To(BeTrue())
			Expect(e.Position).To(Equal(dynamo.V(50, 50)))

			s.SetPointer(sim.Pointer{X: 100, Y: 100, Pressed: true})
			s.Step()
			Expect(e.Position).To(Equal(dynamo.V(98, 100)))
			Expect(e.Velocity).To(Equal(dynamo.Vec2{}))

			s.SetPointer(sim.Pointer{X: 100, Y: 100})
			s.Step()
			Expect(e.Pinned).To(BeFalse())
			Expect(e.Velocity).To(Equal(dynamo.V(0, 1)))
			Expect(e.Position).To(Equal(dynamo.V(98, 101)))
		})

		It("ignores clicks that miss every entity", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(50, 50), dynamo.Vec2{}, 1)
			e.Radius = 10
			s.AddEntity(e)

			s.SetPointer(sim.Pointer{X: 300, Y: 300, Pressed: true, Clicked: true})
			s.Step()
			Expect(e.Pinned).To(BeFalse())
		})

		It("only applies press-bound fields while the button is held", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(100, 100), dynamo.Vec2{}, 1)
			s.AddEntity(e)
			wind := physics.NewConstant(dynamo.V(0.5, 0), false)
			wind.OnlyWhilePressed = true
			Expect(s.AddField(wind)).To(Succeed())

			s.Step()
			Expect(e.Velocity.X).To(Equal(0.0))

			s.SetPointer(sim.Pointer{X: 10, Y: 10, Pressed: true})
			s.Step()
			Expect(e.Velocity.X).To(Equal(0.5))
		})

		It("spawns a particle system on click up to the cap", func() {
			cfg := world
			pc := particles.DefaultConfig(dynamo.Vec2{})
			cfg.SpawnOnClick = &pc
			cfg.MaxSystems = 2
			s := newSim(cfg)

			s.SetPointer(sim.Pointer{X: 10, Y: 20, Pressed: true, Clicked: true})
			s.Step()
			Expect(s.Systems()).To(HaveLen(1))
			Expect(s.Systems()[0].Origin()).To(Equal(dynamo.V(10, 20)))
			Expect(s.ParticleCount()).To(Equal(1))

			s.Step()
			Expect(s.Systems()).To(HaveLen(1), "a click is consumed by one step")

			for i := 0; i < 3; i++ {
				s.SetPointer(sim.Pointer{X: 30, Y: 40, Pressed: true, Clicked: true})
				s.Step()
			}
			Expect(s.Systems()).To(HaveLen(2))
		})
	})

	Describe("Run", func() {
		It("records per-tick counts and metric values", func() {
			counter := &tickCounter{}
			s := newSim(world, sim.WithMetric(counter))
			pc := particles.DefaultConfig(dynamo.V(320, 240))
			pc.SpawnPerTick = 2
			pc.DecayRate = 0.001
			sys, err := particles.NewSystem(pc)
			Expect(err).NotTo(HaveOccurred())
			s.AddSystem(sys)
			s.AddEntity(dynamo.NewEntity(dynamo.Vec2{}, dynamo.Vec2{}, 1))

			res, err := s.Run(context.Background(), 25)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(25))
			Expect(res.Metrics).To(HaveKeyWithValue("ticks", 25.0))
			for i, n := range res.ParticleCounts {
				Expect(n).To(Equal(2 * (i + 1)))
				Expect(res.EntityCounts[i]).To(Equal(1))
			}
		})

		It("stops between ticks when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			calls := 0
			obs := sim.ObserverFunc(func(*sim.Simulation) {
				calls++
				if calls == 3 {
					cancel()
				}
			})
			s := newSim(world, sim.WithObserver(obs))

			res, err := s.Run(ctx, 100)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Ticks).To(Equal(3))
		})

		It("rejects a negative tick count", func() {
			_, err := newSim(world).Run(context.Background(), -1)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Describe("determinism", func() {
		build := func() *sim.Simulation {
			s, err := sim.New(sim.Config{
				Width: 640, Height: 480,
				Boundary: boundary.Policy{Mode: boundary.Wrap, Width: 640, Height: 480},
			}, dynamo.NewRand(77))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5; i++ {
				s.AddEntity(dynamo.NewEntity(dynamo.V(float64(100+50*i), 200), dynamo.Vec2{}, float64(1+i)))
			}
			wind, err := physics.NewNoiseWind(physics.NewPerlinSampler(77), 0.3, 0.01, dynamo.V(1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddField(wind)).To(Succeed())

			pc := particles.DefaultConfig(dynamo.V(320, 100))
			pc.SpawnPerTick = 3
			pc.Velocity = particles.VelocityDist{Kind: particles.Gaussian, Base: dynamo.V(0, -1), StdDev: dynamo.V(1, 0.5)}
			pc.Shapes = []particles.Shape{particles.Disc, particles.Quad}
			sys, err := particles.NewSystem(pc)
			Expect(err).NotTo(HaveOccurred())
			s.AddSystem(sys)
			return s
		}

		It("produces identical frames for the same seed", func() {
			a, b := build(), build()
			for i := 0; i < 200; i++ {
				a.Step()
				b.Step()
			}
			Expect(a.Frame()).To(Equal(b.Frame()))
		})
	})

	Describe("Frame", func() {
		It("snapshots entities, particles and field markers", func() {
			s := newSim(world)
			e := dynamo.NewEntity(dynamo.V(10, 10), dynamo.V(0, 1), 1)
			e.Oriented = true
			s.AddEntity(e)
			attractor, err := physics.NewAttraction(dynamo.V(320, 240), 1, 20, 5, 25)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddField(attractor)).To(Succeed())
			sys, _ := particles.NewSystem(particles.DefaultConfig(dynamo.V(1, 2)))
			s.AddSystem(sys)

			s.Step()
			f := s.Frame()

			Expect(f.Tick).To(Equal(uint64(1)))
			Expect(f.Entities).To(HaveLen(1))
			Expect(f.Entities[0].Oriented).To(BeTrue())
			Expect(f.Particles).To(HaveLen(1))
			Expect(f.Particles[0].Life).To(Equal(1.0))
			Expect(f.Fields).To(ConsistOf(HaveField("At", dynamo.V(320, 240))))
			Expect(f.Systems).To(Equal([]dynamo.Vec2{dynamo.V(1, 2)}))

			e.Position = dynamo.V(-1, -1)
			Expect(f.Entities[0].Position).NotTo(Equal(e.Position))
		})
	})
})

var _ = DescribeTable("New rejects malformed configs",
	func(cfg sim.Config) {
		_, err := sim.New(cfg, dynamo.NewRand(1))
		Expect(err).To(HaveOccurred())
	},
	Entry("zero width", sim.Config{Height: 10}),
	Entry("bad boundary", sim.Config{Width: 10, Height: 10, Boundary: boundary.Policy{Mode: boundary.Bounce}}),
	Entry("negative max systems", sim.Config{Width: 10, Height: 10, MaxSystems: -1}),
	Entry("invalid click system", sim.Config{Width: 10, Height: 10, SpawnOnClick: &particles.Config{}}),
)
