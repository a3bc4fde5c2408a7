package sim

import (
	"math/rand"
	"time"
)

// Rand is the single random source threaded through world generation and
// every resolver. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// NewSeededRNG creates a seeded random number generator.
// If seed is 0, the current time is used; the chosen seed is returned so a
// run can be reproduced.
func NewSeededRNG(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// roll draws from a normal distribution.
func roll(rng Rand, mu, sigma float64) float64 {
	return mu + sigma*rng.NormFloat64()
}

// uniform draws from [lo, hi).
func uniform(rng Rand, r Range) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

func chance(rng Rand, p float64) bool {
	return rng.Float64() < p
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampi(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
