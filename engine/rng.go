package engine

import (
	"math"
	"math/rand"
)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every roll.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// Chance runs one trial that succeeds with probability percent/100.
// 100 and above always succeed without consuming a roll.
func (r *RNG) Chance(percent int) bool {
	if percent >= 100 {
		return true
	}
	if percent <= 0 {
		return false
	}
	return r.Roll(100) <= percent
}

// exactTrials is the largest n Binomial draws trial by trial. Beyond it a
// single normal-approximation draw stands in for the trials.
const exactTrials = 4096

// Binomial returns how many of n independent trials at percent succeed.
// Up to exactTrials each trial costs one roll; larger n costs one.
func (r *RNG) Binomial(n, percent int) int {
	switch {
	case n <= 0 || percent <= 0:
		return 0
	case percent >= 100:
		return n
	case n > exactTrials:
		return r.approxBinomial(n, percent)
	}
	hits := 0
	for i := 0; i < n; i++ {
		if r.Chance(percent) {
			hits++
		}
	}
	return hits
}

func (r *RNG) approxBinomial(n, percent int) int {
	r.pos++
	p := float64(percent) / 100
	mean := float64(n) * p
	sd := math.Sqrt(mean * (1 - p))
	k := math.Round(mean + sd*r.src.NormFloat64())
	return int(min(max(k, 0), float64(n)))
}

// Seed returns the seed the RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of rolls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
