package metrics

import (
	"math"

	"github.com/san-kum/forcesim/internal/sim"
)

// totalKinetic sums ½mv² over entities and, optionally, live particles.
func totalKinetic(s *sim.Simulation, withParticles bool) float64 {
	var ke float64
	for _, e := range s.Entities() {
		ke += e.KineticEnergy()
	}
	if withParticles {
		for _, sys := range s.Systems() {
			for _, p := range sys.Particles() {
				ke += p.Entity.KineticEnergy()
			}
		}
	}
	return ke
}

// Energy is the mean total kinetic energy per tick.
type Energy struct {
	name          string
	withParticles bool
	samples       int
	totalEnergy   float64
}

func NewEnergy(withParticles bool) *Energy {
	return &Energy{
		name:          "kinetic_energy",
		withParticles: withParticles,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *sim.Simulation) {
	e.totalEnergy += totalKinetic(s, e.withParticles)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of entity kinetic energy from
// the first observed tick.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *sim.Simulation) {
	energy := totalKinetic(s, false)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
