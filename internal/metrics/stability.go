package metrics

import "github.com/san-kum/forcesim/internal/sim"

// Stability is the fraction of ticks on which every entity stayed within the
// world grown by margin on each side and held a finite state.
type Stability struct {
	name       string
	margin     float64
	violations int
	samples    int
}

func NewStability(margin float64) *Stability {
	return &Stability{
		name:   "stability",
		margin: margin,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *sim.Simulation) {
	s.samples++
	cfg := w.Config()
	for _, e := range w.Entities() {
		p := e.Position
		if !p.IsValid() || !e.Velocity.IsValid() ||
			p.X < -s.margin || p.Y < -s.margin ||
			p.X > cfg.Width+s.margin || p.Y > cfg.Height+s.margin {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
