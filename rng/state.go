package rng

import "math/bits"

// State is the 128 bits of generator state.
//
// The zero State is degenerate: Advance maps it to itself and Next returns 0
// forever. NewState and Split never produce it.
type State struct {
	X uint64
	Y uint64
}

// NewState derives an initial state from seed. Identical seeds always give
// identical states.
func NewState(seed Seed) State {
	s := seed.avalanche()
	if s.IsZero() {
		// Only the zero seed lands here since the avalanche is a bijection.
		return State{X: goldenHi, Y: goldenLo}
	}
	return State{X: s.Lo, Y: s.Hi}
}

// Next returns one pseudorandom word computed from the current state and then
// advances the state.
func (s *State) Next() (out uint64) { // named return keeps this under the inlining budget
	hi, lo := bits.Mul64(s.X, s.Y)
	out = hi ^ lo
	s.X, s.Y = bits.RotateLeft64(s.X, 7)^s.Y, s.X^(s.X<<19)
	return
}

// Advance steps the state without producing output. The map is linear over
// GF(2) with period 2^128-1 on non-zero states.
func (s *State) Advance() {
	s.X, s.Y = bits.RotateLeft64(s.X, 7)^s.Y, s.X^(s.X<<19)
}

// IsZero reports whether the state is the degenerate all-zero state.
func (s State) IsZero() bool {
	return s.X == 0 && s.Y == 0
}
