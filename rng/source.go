package rng

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"
)

// NewRand returns a math/rand/v2 Rand driven by a generator seeded with seed.
func NewRand(seed Seed) *randv2.Rand {
	return randv2.New(New(seed))
}

// legacySource adapts Rng to the math/rand Source64 interface.
type legacySource struct {
	rng *Rng
}

var _ rand.Source64 = (*legacySource)(nil)

// NewLegacySource returns a math/rand Source64 backed by a generator seeded
// with seed. Seed on the returned source reseeds from the int64 value.
func NewLegacySource(seed Seed) rand.Source64 {
	return &legacySource{rng: New(seed)}
}

func (s *legacySource) Int63() int64 {
	return int64(s.rng.Uint64() & math.MaxInt64)
}

func (s *legacySource) Uint64() uint64 {
	return s.rng.Uint64()
}

func (s *legacySource) Seed(seed int64) {
	s.rng.SetState(NewState(SeedFrom(uint64(seed))))
}
