package particles_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcesim/internal/boundary"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/particles"
	"github.com/san-kum/forcesim/internal/physics"
)

var _ = Describe("System", func() {
	var (
		rng dynamo.Rand
		cfg particles.Config
	)

	BeforeEach(func() {
		rng = dynamo.NewRand(1)
		cfg = particles.DefaultConfig(dynamo.V(320, 42))
	})

	Describe("spawn cadence", func() {
		It("holds k*N particles after N ticks when nothing has died", func() {
			cfg.SpawnPerTick = 3
			cfg.DecayRate = 0.001
			s, err := particles.NewSystem(cfg)
			Expect(err).NotTo(HaveOccurred())

			for n := 1; n <= 50; n++ {
				s.Advance(rng)
				Expect(s.Len()).To(Equal(3 * n))
			}
		})

		It("spawns at the origin with full life", func() {
			s, _ := particles.NewSystem(cfg)
			s.Advance(rng)

			ps := s.Particles()
			Expect(ps).To(HaveLen(1))
			Expect(ps[0].Entity.Position).To(Equal(cfg.Origin))
			Expect(ps[0].Life).To(Equal(1.0))
		})

		It("respects MaxParticles", func() {
			cfg.SpawnPerTick = 10
			cfg.MaxParticles = 25
			s, _ := particles.NewSystem(cfg)
			for i := 0; i < 5; i++ {
				s.Advance(rng)
			}
			Expect(s.Len()).To(Equal(25))
		})
	})

	Describe("life decay", func() {
		It("decreases life by the decay rate every tick and culls on the first tick it reaches zero", func() {
			cfg.DecayRate = 0.25
			cfg.SpawnPerTick = 1
			s, _ := particles.NewSystem(cfg)
			s.Advance(rng)
			first := s.Particles()[0].ID

			want := []float64{0.75, 0.5, 0.25}
			for _, life := range want {
				s.Advance(rng)
				p, ok := s.Get(first)
				Expect(ok).To(BeTrue())
				Expect(p.Life).To(Equal(life))
			}

			s.Advance(rng)
			_, ok := s.Get(first)
			Expect(ok).To(BeFalse(), "particle must be gone the tick its life hits zero")
			Expect(s.Culled()).To(BeNumerically(">=", 1))
		})

		It("keeps every live particle's life in (0, 1]", func() {
			cfg.DecayRate = 0.3
			cfg.SpawnPerTick = 2
			s, _ := particles.NewSystem(cfg)
			for i := 0; i < 40; i++ {
				s.Advance(rng)
				for _, p := range s.Particles() {
					Expect(p.Life).To(And(BeNumerically(">", 0), BeNumerically("<=", 1)))
				}
			}
		})

		It("can be empty for a tick after a burst fully decays", func() {
			cfg.SpawnPerTick = 0
			cfg.DecayRate = 0.5
			s, _ := particles.NewSystem(cfg)
			s.Burst(rng, 20)
			Expect(s.Len()).To(Equal(20))

			s.Advance(rng)
			Expect(s.Len()).To(Equal(20))
			s.Advance(rng)
			Expect(s.Len()).To(BeZero())

			s.Advance(rng)
			Expect(s.Len()).To(BeZero())
			Expect(s.Spawned()).To(Equal(uint64(20)))
		})
	})

	Describe("forces", func() {
		It("integrates particles under applied fields", func() {
			cfg.Velocity = particles.VelocityDist{Kind: particles.Gaussian, Base: dynamo.V(0, 0)}
			s, _ := particles.NewSystem(cfg)
			s.Advance(rng)

			gravity := physics.NewConstant(dynamo.V(0, 0.1), false)
			s.ApplyField(gravity)
			s.Advance(rng)

			p := s.Particles()[0]
			Expect(p.Entity.Velocity.Y).To(BeNumerically("~", 0.1, 1e-12))
			Expect(p.Entity.Position.Y).To(BeNumerically("~", 42.1, 1e-12))
		})

		It("applies its own repeller", func() {
			cfg.Velocity = particles.VelocityDist{Kind: particles.Gaussian}
			s, _ := particles.NewSystem(cfg)
			repeller, err := physics.NewRepulsion(dynamo.V(320, 100), 42, 10, 5, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddField(repeller)).To(Succeed())

			s.Advance(rng)
			s.ApplyOwnFields()
			s.Advance(rng)

			Expect(s.Particles()[0].Entity.Velocity.Y).To(BeNumerically("<", 0))
		})

		It("treats shape as a render tag only", func() {
			run := func(shapes []particles.Shape) []dynamo.Vec2 {
				c := cfg
				c.Shapes = shapes
				c.SpawnPerTick = 4
				s, _ := particles.NewSystem(c)
				r := dynamo.NewRand(9)
				for i := 0; i < 30; i++ {
					s.ApplyForce(dynamo.V(0, 0.05))
					s.Advance(r)
				}
				var out []dynamo.Vec2
				for _, p := range s.Particles() {
					out = append(out, p.Entity.Position)
				}
				return out
			}

			discs := run([]particles.Shape{particles.Disc})
			quads := run([]particles.Shape{particles.Quad})
			Expect(quads).To(Equal(discs))
		})

		It("bounds particles with its own boundary policy", func() {
			cfg.Boundary = boundary.Policy{Mode: boundary.Bounce, Width: 640, Height: 480, Restitution: 1}
			cfg.Origin = dynamo.V(1, 1)
			cfg.Velocity = particles.VelocityDist{Kind: particles.Uniform, Min: dynamo.V(-3, -3), Max: dynamo.V(-2, -2)}
			s, _ := particles.NewSystem(cfg)
			for i := 0; i < 10; i++ {
				s.Advance(rng)
			}
			for _, p := range s.Particles() {
				Expect(p.Entity.Position.X).To(BeNumerically(">=", 0))
				Expect(p.Entity.Position.Y).To(BeNumerically(">=", 0))
			}
		})

		It("drops outward force for particles resting on a reflect_and_damp wall", func() {
			cfg.Boundary = boundary.Policy{Mode: boundary.ReflectAndDamp, Width: 640, Height: 480, Restitution: 0.5}
			cfg.Origin = dynamo.V(320, 480)
			cfg.SpawnPerTick = 0
			cfg.Velocity = particles.VelocityDist{Kind: particles.Uniform}
			s, err := particles.NewSystem(cfg)
			Expect(err).NotTo(HaveOccurred())
			s.Burst(rng, 1)
			for i := 0; i < 5; i++ {
				s.ApplyForce(dynamo.V(0, 0.5))
				s.Advance(rng)
			}
			Expect(s.Particles()).To(HaveLen(1))
			p := s.Particles()[0]
			Expect(p.Entity.Position).To(Equal(dynamo.V(320, 480)))
			Expect(p.Entity.Velocity).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("determinism", func() {
		It("replays identically from the same seed", func() {
			run := func() []*particles.Particle {
				c := cfg
				c.SpawnPerTick = 5
				c.Shapes = []particles.Shape{particles.Disc, particles.Quad, particles.Triangle}
				c.Velocity = particles.VelocityDist{Kind: particles.Gaussian, Base: dynamo.V(0, -1), StdDev: dynamo.V(0.5, 0.3)}
				s, _ := particles.NewSystem(c)
				r := dynamo.NewRand(2024)
				for i := 0; i < 60; i++ {
					s.ApplyForce(dynamo.V(0, 0.1))
					s.Advance(r)
				}
				return s.Particles()
			}
			Expect(run()).To(Equal(run()))
		})
	})

	DescribeTable("rejects malformed configs",
		func(mutate func(*particles.Config)) {
			c := particles.DefaultConfig(dynamo.Vec2{})
			mutate(&c)
			_, err := particles.NewSystem(c)
			Expect(err).To(MatchError(dynamo.ErrInvalidSystem))
		},
		Entry("zero decay", func(c *particles.Config) { c.DecayRate = 0 }),
		Entry("decay above one", func(c *particles.Config) { c.DecayRate = 1.5 }),
		Entry("negative spawn", func(c *particles.Config) { c.SpawnPerTick = -1 }),
		Entry("zero mass", func(c *particles.Config) { c.Mass = 0 }),
		Entry("inverted range", func(c *particles.Config) { c.Velocity.Min = dynamo.V(5, 5) }),
		Entry("negative stddev", func(c *particles.Config) {
			c.Velocity = particles.VelocityDist{Kind: particles.Gaussian, StdDev: dynamo.V(-1, 0)}
		}),
	)
})
