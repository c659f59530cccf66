package period

import (
	"fmt"
	"math/bits"

	"github.com/lox/quickrand/rng"
)

// Factors are the prime factors of 2^128 - 1 (the Fermat numbers F0..F6).
var Factors = []uint64{
	3,                  // F0
	5,                  // F1
	17,                 // F2
	257,                // F3
	65_537,             // F4
	641,                // F5
	6_700_417,          // F5
	274_177,            // F6
	67_280_421_310_721, // F6
}

// Report describes the outcome of a full-period check.
type Report struct {
	// OrderDivides reports m^(2^128-1) == I.
	OrderDivides bool
	// FailedFactors lists each prime p for which m^((2^128-1)/p) == I.
	FailedFactors []uint64
}

// Full reports whether the matrix has order exactly 2^128 - 1.
func (r Report) Full() bool {
	return r.OrderDivides && len(r.FailedFactors) == 0
}

func (r Report) String() string {
	switch {
	case r.Full():
		return "full period 2^128-1"
	case !r.OrderDivides:
		return "order does not divide 2^128-1"
	default:
		return fmt.Sprintf("period divides (2^128-1)/p for p in %v", r.FailedFactors)
	}
}

// Check computes the period report for m.
func Check(m M128) Report {
	report := Report{OrderDivides: m.Pow(^uint64(0), ^uint64(0)).IsIdentity()}
	if !report.OrderDivides {
		return report
	}

	for _, p := range Factors {
		hi, lo := divMax128(p)
		if m.Pow(hi, lo).IsIdentity() {
			report.FailedFactors = append(report.FailedFactors, p)
		}
	}
	return report
}

// HasFullPeriod reports whether m has multiplicative order 2^128 - 1.
func HasFullPeriod(m M128) bool {
	return Check(m).Full()
}

// divMax128 returns (2^128 - 1) / p as a (hi, lo) pair.
func divMax128(p uint64) (uint64, uint64) {
	const all = ^uint64(0)
	hi := all / p
	rem := all % p
	lo, _ := bits.Div64(rem, all, p)
	return hi, lo
}

// Recurrence returns the matrix of the generator's state advance.
func Recurrence() M128 {
	return FromLinear(func(x, y uint64) (uint64, uint64) {
		s := rng.State{X: x, Y: y}
		s.Advance()
		return s.X, s.Y
	})
}

// ShortCycle advances s up to limit times and returns the first step count at
// which it returns to its starting value, or 0 if it does not.
func ShortCycle(s rng.State, limit int) int {
	start := s
	for i := 1; i <= limit; i++ {
		s.Advance()
		if s == start {
			return i
		}
	}
	return 0
}
