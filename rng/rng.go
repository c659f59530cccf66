// Package rng is a small, fast, deterministic pseudorandom generator.
//
// A generator holds 128 bits of state. Each call produces one 64-bit word as
// the xor of the high and low halves of the product of the two state words,
// then advances the state with a rotate/xor-shift recurrence of full period.
// Every other method converts one such word (two for Split) into a value.
//
// Generators are not safe for concurrent use. Give each goroutine its own
// generator obtained from Split.
//
// The output is predictable from the state and must not be used where
// unpredictability matters.
package rng

import (
	"encoding/binary"
)

// Rng is a pseudorandom generator. The zero value is degenerate; use New.
type Rng struct {
	state State
}

// New returns a generator seeded with seed.
func New(seed Seed) *Rng {
	return &Rng{state: NewState(seed)}
}

// NewFromUint64 is shorthand for New(SeedFrom(seed)).
func NewFromUint64(seed uint64) *Rng {
	return New(SeedFrom(seed))
}

// FromState returns a generator that continues from s.
func FromState(s State) *Rng {
	return &Rng{state: s}
}

// State returns a copy of the current state.
func (r *Rng) State() State {
	return r.state
}

// SetState replaces the current state.
func (r *Rng) SetState(s State) {
	r.state = s
}

// Split returns a new generator whose stream is independent of r's. It
// consumes two words from r.
func (r *Rng) Split() *Rng {
	x := r.state.Next()
	y := r.state.Next()
	// An odd X keeps the output multiply from collapsing the child stream.
	return &Rng{state: State{X: x | 1, Y: y}}
}

// Bool returns the top bit of the next word.
func (r *Rng) Bool() bool {
	return bitsToBool(r.state.Next())
}

// Bernoulli returns true with probability p. p <= 0 never succeeds and
// p >= 1 always does.
func (r *Rng) Bernoulli(p float64) bool {
	return bitsToBernoulli(r.state.Next(), p)
}

// Uint64 returns the next word. It also makes *Rng a math/rand/v2 Source.
func (r *Rng) Uint64() uint64 {
	return r.state.Next()
}

func (r *Rng) Int64() int64 {
	return int64(r.state.Next())
}

// Uint32 returns the high half of the next word.
func (r *Rng) Uint32() uint32 {
	return bitsToUint32(r.state.Next())
}

func (r *Rng) Int32() int32 {
	return int32(bitsToUint32(r.state.Next()))
}

// BoundedUint32 returns a value in [0, bound].
func (r *Rng) BoundedUint32(bound uint32) uint32 {
	return bitsToBoundedUint32(r.state.Next(), bound)
}

// RangeUint64 returns a value in [lo, hi]. The result is biased toward lower
// values by at most (hi-lo+1)/2^64.
func (r *Rng) RangeUint64(lo, hi uint64) uint64 {
	return bitsToRangeUint64(r.state.Next(), lo, hi)
}

// RangeInt64 returns a value in [lo, hi].
func (r *Rng) RangeInt64(lo, hi int64) int64 {
	return int64(bitsToRangeUint64(r.state.Next(), uint64(lo), uint64(hi)))
}

// RangeUint32 returns a value in [lo, hi].
func (r *Rng) RangeUint32(lo, hi uint32) uint32 {
	return bitsToRangeUint32(r.state.Next(), lo, hi)
}

// RangeInt32 returns a value in [lo, hi].
func (r *Rng) RangeInt32(lo, hi int32) int32 {
	return int32(bitsToRangeUint32(r.state.Next(), uint32(lo), uint32(hi)))
}

// Open01Float64 returns a float64 strictly between 0 and 1.
func (r *Rng) Open01Float64() float64 {
	return bitsToOpen01Float64(r.state.Next())
}

// Open01Float32 returns a float32 strictly between 0 and 1.
func (r *Rng) Open01Float32() float32 {
	return bitsToOpen01Float32(r.state.Next())
}

// Fill writes successive words to dst in little-endian order. A trailing
// partial word uses the leading bytes of one more word.
func (r *Rng) Fill(dst []byte) {
	for len(dst) >= 8 {
		binary.LittleEndian.PutUint64(dst, r.state.Next())
		dst = dst[8:]
	}
	if len(dst) == 0 {
		return
	}
	var tail [8]byte
	binary.LittleEndian.PutUint64(tail[:], r.state.Next())
	copy(dst, tail[:])
}

// FillUint64 stores one word in each element of dst.
func (r *Rng) FillUint64(dst []uint64) {
	s := r.state
	for i := range dst {
		dst[i] = s.Next()
	}
	r.state = s
}

// Read fills p like Fill. It always returns len(p), nil.
func (r *Rng) Read(p []byte) (int, error) {
	r.Fill(p)
	return len(p), nil
}
