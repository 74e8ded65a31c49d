package physics

import (
	"github.com/aquilax/go-perlin"
)

// NoiseSampler returns smooth noise in [0, 1].
type NoiseSampler interface {
	Noise1D(x float64) float64
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
}

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// PerlinSampler adapts go-perlin's [-1, 1] output to [0, 1].
type PerlinSampler struct {
	p *perlin.Perlin
}

// NewPerlinSampler seeds a sampler. Equal seeds give equal noise.
func NewPerlinSampler(seed int64) *PerlinSampler {
	return &PerlinSampler{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

func (s *PerlinSampler) Noise1D(x float64) float64 { return unit(s.p.Noise1D(x)) }

func (s *PerlinSampler) Noise2D(x, y float64) float64 { return unit(s.p.Noise2D(x, y)) }

func (s *PerlinSampler) Noise3D(x, y, z float64) float64 { return unit(s.p.Noise3D(x, y, z)) }

func unit(v float64) float64 {
	v = (v + 1) / 2
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
