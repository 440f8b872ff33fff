package engine

import "math/rand/v2"

// Rand is the source of every random decision the engine makes.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand returns a Rand backed by the process-wide generator.
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic Rand for reproducible games.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func orDefault(rng Rand) Rand {
	if rng == nil {
		return DefaultRand()
	}
	return rng
}
