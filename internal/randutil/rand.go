// Package randutil derives generator seeds from the 64-bit values that flags,
// config files and clocks provide.
package randutil

import (
	rand "math/rand/v2"
	"time"

	"github.com/lox/quickrand/rng"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Seed widens a 64-bit seed to 128 bits. Both halves come from the splitmix
// finaliser so that small neighbouring inputs differ in both words.
func Seed(seed int64) rng.Seed {
	u := uint64(seed)
	return rng.Seed{Hi: mix(u + goldenRatio64), Lo: mix(u)}
}

// New returns a *rand.Rand backed by a generator seeded from seed.
func New(seed int64) *rand.Rand {
	return rng.NewRand(Seed(seed))
}

// TimeSeed returns a seed derived from the wall clock, for runs where the
// caller did not ask for reproducibility.
func TimeSeed() rng.Seed {
	return Seed(time.Now().UnixNano())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
