package engine

import (
	"math/rand/v2"
)

// RandomSource draws the secret. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

// NewRandomSource returns a PCG source seeded from the runtime's random state
func NewRandomSource() RandomSource {
	// #nosec G404 -- the secret of a guessing game needs no cryptographic strength
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a deterministic source, used for reproducible rounds
func NewSeededSource(seed uint64) RandomSource {
	// #nosec G404
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
