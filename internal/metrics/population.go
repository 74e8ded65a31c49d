package metrics

import "github.com/san-kum/forcesim/internal/sim"

// PeakParticles is the most particles alive at the end of any tick.
type PeakParticles struct {
	peak int
}

func NewPeakParticles() *PeakParticles { return &PeakParticles{} }

func (p *PeakParticles) Name() string { return "peak_particles" }

func (p *PeakParticles) Observe(s *sim.Simulation) {
	p.peak = max(p.peak, s.ParticleCount())
}

func (p *PeakParticles) Value() float64 { return float64(p.peak) }
func (p *PeakParticles) Reset()         { p.peak = 0 }

// MeanParticles averages the live particle count over ticks.
type MeanParticles struct {
	sum     int
	samples int
}

func NewMeanParticles() *MeanParticles { return &MeanParticles{} }

func (m *MeanParticles) Name() string { return "mean_particles" }

func (m *MeanParticles) Observe(s *sim.Simulation) {
	m.sum += s.ParticleCount()
	m.samples++
}

func (m *MeanParticles) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanParticles) Reset() {
	m.sum = 0
	m.samples = 0
}

// MeanSpeed averages |velocity| over every entity and tick.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(s *sim.Simulation) {
	for _, e := range s.Entities() {
		m.sum += e.Velocity.Len()
		m.samples++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}
