package rng

import (
	"math"
	"math/bits"
)

// The functions below turn a single output word into a value. They hold no
// state; every Rng method is Next followed by one of these.

func mulHi(x, y uint64) uint64 {
	hi, _ := bits.Mul64(x, y)
	return hi
}

func bitsToBool(x uint64) bool {
	return x>>63 != 0
}

// The low bits of rotate/xor-shift mixers are the weaker ones, so 32-bit
// results come from the top half.
func bitsToUint32(x uint64) uint32 {
	return uint32(x >> 32)
}

// bitsToRangeUint64 scales x into [lo, hi] with a multiply-high. Spans that do
// not divide 2^64 are slightly biased toward low values.
func bitsToRangeUint64(x, lo, hi uint64) uint64 {
	span := hi - lo
	if span == math.MaxUint64 {
		return x
	}
	return lo + mulHi(x, span+1)
}

func bitsToRangeUint32(x uint64, lo, hi uint32) uint32 {
	span := uint64(hi-lo) + 1
	return lo + uint32(mulHi(x, span))
}

func bitsToBoundedUint32(x uint64, bound uint32) uint32 {
	return uint32(mulHi(x, uint64(bound)+1))
}

// bitsToOpen01Float64 builds a float in (0, 1) directly: the exponent comes
// from the trailing zero count, so each halving of the interval is chosen with
// probability 1/2, and the mantissa from the top 52 bits.
func bitsToOpen01Float64(x uint64) float64 {
	exp := uint64(1022 - bits.TrailingZeros64(x))
	return math.Float64frombits(exp<<52 | x>>12)
}

func bitsToOpen01Float32(x uint64) float32 {
	exp := uint32(126 - bits.TrailingZeros64(x))
	return math.Float32frombits(exp<<23 | uint32(x>>41))
}

func bitsToBernoulli(x uint64, p float64) bool {
	return bitsToOpen01Float64(x) < p
}
