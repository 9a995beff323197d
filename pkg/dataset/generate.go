package dataset

import "math/rand/v2"

// Bounds of generated ratios: from tall portrait to wide landscape.
const (
	MinRatio = 0.3
	MaxRatio = 2.5
)

// Generate returns n ratios drawn uniformly from [MinRatio, MaxRatio).
// The same seed always yields the same sequence.
func Generate(n int, seed uint64) []float64 {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = MinRatio + rng.Float64()*(MaxRatio-MinRatio)
	}
	return out
}
