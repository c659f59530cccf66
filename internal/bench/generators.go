package bench

import (
	"fmt"
	"math/bits"

	"github.com/lox/quickrand/rng"
)

// Generator is anything that produces 64-bit words.
type Generator interface {
	Uint64() uint64
}

// Spec names a generator and how to build it.
type Spec struct {
	Name string
	New  func(seed rng.Seed) Generator
	// Split derives an independent generator from a running one. When nil the
	// parallel mode seeds each worker with seed+i instead.
	Split func(parent Generator) Generator
}

// Builtin returns the generators known to the bench command, in display order.
func Builtin() []Spec {
	return []Spec{
		{
			Name:  "xmum128",
			New:   func(seed rng.Seed) Generator { return rng.New(seed) },
			Split: func(parent Generator) Generator { return parent.(*rng.Rng).Split() },
		},
		{
			Name: "xoroshiro128++",
			New:  func(seed rng.Seed) Generator { return NewXoroshiro128pp(seed) },
		},
		{
			Name: "pcg64dxsm",
			New:  func(seed rng.Seed) Generator { return NewPcg64dxsm(seed) },
		},
		{
			Name: "romuduo",
			New:  func(seed rng.Seed) Generator { return NewRomuDuo(seed) },
		},
	}
}

// Lookup returns the builtin specs with the given names, in the given order.
func Lookup(names []string) ([]Spec, error) {
	builtin := Builtin()
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		found := false
		for _, spec := range builtin {
			if spec.Name == name {
				specs = append(specs, spec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown generator %q", name)
		}
	}
	return specs, nil
}

// Xoroshiro128pp is xoroshiro128++ (https://prng.di.unimi.it/xoroshiro128plusplus.c).
type Xoroshiro128pp struct {
	s0, s1 uint64
}

func NewXoroshiro128pp(seed rng.Seed) *Xoroshiro128pp {
	return &Xoroshiro128pp{s0: seed.Lo | 1, s1: seed.Hi | 1}
}

func (g *Xoroshiro128pp) Uint64() (result uint64) {
	s0, s1 := g.s0, g.s1
	result = bits.RotateLeft64(s0+s1, 17) + s0

	s1 ^= s0
	g.s0 = bits.RotateLeft64(s0, 49) ^ s1 ^ (s1 << 21)
	g.s1 = bits.RotateLeft64(s1, 28)
	return
}

// Pcg64dxsm is a 128-bit LCG with the DXSM output permutation.
type Pcg64dxsm struct {
	hi, lo uint64
}

const pcgMultiplier = 0xda942042e4dd58b5

func NewPcg64dxsm(seed rng.Seed) *Pcg64dxsm {
	return &Pcg64dxsm{hi: seed.Hi, lo: seed.Lo}
}

func (g *Pcg64dxsm) Uint64() uint64 {
	a := g.lo | 1
	b := g.hi
	b ^= b >> 32
	b *= pcgMultiplier
	b ^= b >> 48
	b *= a

	// state = state * multiplier + 1 (mod 2^128)
	hi, lo := bits.Mul64(g.lo, pcgMultiplier)
	hi += g.hi * pcgMultiplier
	var carry uint64
	g.lo, carry = bits.Add64(lo, 1, 0)
	g.hi = hi + carry
	return b
}

// RomuDuo is the RomuDuo generator (https://www.romu-random.org).
type RomuDuo struct {
	x, y uint64
}

func NewRomuDuo(seed rng.Seed) *RomuDuo {
	return &RomuDuo{x: seed.Lo | 1, y: seed.Hi | 1}
}

func (g *RomuDuo) Uint64() uint64 {
	z := g.x
	g.x = 15241094284759029579 * g.y
	g.y = bits.RotateLeft64(g.y, 36) + bits.RotateLeft64(g.y, 15) - z
	return z
}
