package sim

import (
	"math"
	"math/rand/v2"
	"time"
)

// 0-1 clamp
func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func validProb(p float64) bool { return p >= 0.0 && p <= 1.0 }

// random number generator helper
func rngOrDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}

// NewRand returns the generator a seeded run uses. Two runs with the same
// seed and params produce the same trajectory.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func normal(rng *rand.Rand, mean, sigma float64) float64 {
	return mean + sigma*rng.NormFloat64()
}

// recoveryDuration draws max(1, round(N(mean, mean/4))).
func (s *Simulation) recoveryDuration() int {
	d := int(math.RoundToEven(normal(s.rng, s.params.RecTimeMean, s.params.RecTimeSigma())))
	if d < 1 {
		d = 1
	}
	return d
}

// neighborOffsets is the fixed 8-direction enumeration order.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// appendNeighbors appends the in-bounds 8-connected neighbours of (x, y)
// to dst. The grid does not wrap.
func appendNeighbors(dst [][2]int, x, y, size int) [][2]int {
	for _, o := range neighborOffsets {
		nx, ny := x+o[0], y+o[1]
		if nx < 0 || ny < 0 || nx >= size || ny >= size {
			continue
		}
		dst = append(dst, [2]int{nx, ny})
	}
	return dst
}
