package dynamo

import "math/rand"

// Rand is the random source injected into spawning and noise seeding.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. The same seed replays the same run.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Gaussian draws from N(mean, sd²).
func Gaussian(r Rand, mean, sd float64) float64 {
	return mean + r.NormFloat64()*sd
}
