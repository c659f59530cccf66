package rng

import (
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

// Seed is a 128-bit unsigned seed value.
type Seed struct {
	Hi uint64
	Lo uint64
}

// 128-bit golden ratio multiplier used by the seed avalanche.
const (
	goldenHi = 0x9e3779b97f4a7c15
	goldenLo = 0xf39cc0605cedc835
)

// SeedFrom widens a 64-bit value to a Seed.
func SeedFrom(u uint64) Seed {
	return Seed{Lo: u}
}

// ParseSeed parses a decimal or 0x-prefixed hexadecimal seed of at most 128 bits.
func ParseSeed(s string) (Seed, error) {
	text := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if text == "" {
		return Seed{}, fmt.Errorf("empty seed")
	}

	base := 10
	digits := text
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		base = 16
		digits = text[2:]
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return Seed{}, fmt.Errorf("invalid seed %q", s)
	}
	if n.Sign() < 0 {
		return Seed{}, fmt.Errorf("invalid seed %q: must not be negative", s)
	}
	if n.BitLen() > 128 {
		return Seed{}, fmt.Errorf("invalid seed %q: exceeds 128 bits", s)
	}

	lo := new(big.Int).And(n, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(n, 64)
	return Seed{Hi: hi.Uint64(), Lo: lo.Uint64()}, nil
}

// IsZero reports whether both halves are zero.
func (s Seed) IsZero() bool {
	return s.Hi == 0 && s.Lo == 0
}

// Add returns s + u modulo 2^128.
func (s Seed) Add(u uint64) Seed {
	lo, carry := bits.Add64(s.Lo, u, 0)
	return Seed{Hi: s.Hi + carry, Lo: lo}
}

func (s Seed) String() string {
	if s.Hi == 0 {
		return fmt.Sprintf("%#x", s.Lo)
	}
	return fmt.Sprintf("%#x%016x", s.Hi, s.Lo)
}

// mul returns s * t modulo 2^128.
func (s Seed) mul(t Seed) Seed {
	hi, lo := bits.Mul64(s.Lo, t.Lo)
	hi += s.Hi*t.Lo + s.Lo*t.Hi
	return Seed{Hi: hi, Lo: lo}
}

// avalanche runs three multiply/xor-shift rounds so that every seed bit reaches
// every state bit. Each round is a bijection on 128-bit values.
func (s Seed) avalanche() Seed {
	m := Seed{Hi: goldenHi, Lo: goldenLo}
	for i := 0; i < 3; i++ {
		s = s.mul(m)
		s.Lo ^= s.Hi
	}
	return s
}
