// Package period checks the cycle structure of the generator's state
// recurrence. The advance step is linear over GF(2), so it can be written as a
// 128x128 bit matrix whose multiplicative order is the period of every
// non-zero state.
package period

import (
	"math/bits"
	"strings"
)

// M64 is a 64x64 matrix over GF(2). Row i is a bit vector.
type M64 [64]uint64

// Identity64 returns the 64x64 identity matrix.
func Identity64() M64 {
	var m M64
	for i := range m {
		m[i] = 1 << i
	}
	return m
}

// Add returns a + b (xor).
func (a M64) Add(b M64) M64 {
	var z M64
	for i := range z {
		z[i] = a[i] ^ b[i]
	}
	return z
}

// Mul returns the product a * b.
func (a M64) Mul(b M64) M64 {
	var z M64
	for i, row := range a {
		// Row i of a*b is the xor of the rows of b selected by row i of a.
		var r uint64
		for row != 0 {
			j := bits.TrailingZeros64(row)
			r ^= b[j]
			row &= row - 1
		}
		z[i] = r
	}
	return z
}

// Transpose returns the transpose of a.
func (a M64) Transpose() M64 {
	var z M64
	for i, row := range a {
		for row != 0 {
			j := bits.TrailingZeros64(row)
			z[j] |= 1 << i
			row &= row - 1
		}
	}
	return z
}

func (a M64) IsZero() bool {
	return a == M64{}
}

func (a M64) IsIdentity() bool {
	return a == Identity64()
}

// Apply returns a * v for a column vector v.
func (a M64) Apply(v uint64) uint64 {
	var y uint64
	for i, row := range a {
		y |= uint64(bits.OnesCount64(row&v)&1) << i
	}
	return y
}

// M128 is a 128x128 matrix over GF(2) stored as four 64x64 blocks:
//
//	| Q00 Q01 |
//	| Q10 Q11 |
//
// A state (x, y) is the column vector with x on top.
type M128 struct {
	Q00, Q01, Q10, Q11 M64
}

// Identity128 returns the 128x128 identity matrix.
func Identity128() M128 {
	return M128{Q00: Identity64(), Q11: Identity64()}
}

// FromLinear returns the matrix of a GF(2)-linear map on (x, y) pairs by
// applying f to each basis vector. The result is meaningless if f is not
// linear.
func FromLinear(f func(x, y uint64) (uint64, uint64)) M128 {
	var m M128
	for j := 0; j < 64; j++ {
		// Column j: the image of the j-th bit of x.
		u, v := f(1<<j, 0)
		setColumn(&m.Q00, j, u)
		setColumn(&m.Q10, j, v)

		// Column 64+j: the image of the j-th bit of y.
		u, v = f(0, 1<<j)
		setColumn(&m.Q01, j, u)
		setColumn(&m.Q11, j, v)
	}
	return m
}

func setColumn(m *M64, j int, col uint64) {
	for col != 0 {
		i := bits.TrailingZeros64(col)
		m[i] |= 1 << j
		col &= col - 1
	}
}

// Add returns a + b.
func (a M128) Add(b M128) M128 {
	return M128{
		Q00: a.Q00.Add(b.Q00),
		Q01: a.Q01.Add(b.Q01),
		Q10: a.Q10.Add(b.Q10),
		Q11: a.Q11.Add(b.Q11),
	}
}

// Mul returns the product a * b.
func (a M128) Mul(b M128) M128 {
	return M128{
		Q00: a.Q00.Mul(b.Q00).Add(a.Q01.Mul(b.Q10)),
		Q01: a.Q00.Mul(b.Q01).Add(a.Q01.Mul(b.Q11)),
		Q10: a.Q10.Mul(b.Q00).Add(a.Q11.Mul(b.Q10)),
		Q11: a.Q10.Mul(b.Q01).Add(a.Q11.Mul(b.Q11)),
	}
}

// Transpose returns the transpose of a.
func (a M128) Transpose() M128 {
	return M128{
		Q00: a.Q00.Transpose(),
		Q01: a.Q10.Transpose(),
		Q10: a.Q01.Transpose(),
		Q11: a.Q11.Transpose(),
	}
}

// Apply returns a * (x, y).
func (a M128) Apply(x, y uint64) (uint64, uint64) {
	return a.Q00.Apply(x) ^ a.Q01.Apply(y), a.Q10.Apply(x) ^ a.Q11.Apply(y)
}

func (a M128) IsIdentity() bool {
	return a == Identity128()
}

// Pow returns a^n for a 128-bit exponent n = hi<<64 | lo.
func (a M128) Pow(hi, lo uint64) M128 {
	y := Identity128()
	for _, word := range [2]uint64{lo, hi} {
		for i := 0; i < 64; i++ {
			if word&1 != 0 {
				y = y.Mul(a)
			}
			a = a.Mul(a)
			word >>= 1
		}
	}
	return y
}

// String renders the matrix as 128 lines of 0/1 characters.
func (a M128) String() string {
	var sb strings.Builder
	sb.Grow(128 * 129)
	for i := 0; i < 128; i++ {
		left, right := a.Q00[i%64], a.Q01[i%64]
		if i >= 64 {
			left, right = a.Q10[i-64], a.Q11[i-64]
		}
		for _, row := range [2]uint64{left, right} {
			for j := 0; j < 64; j++ {
				sb.WriteByte('0' + byte(row>>j&1))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
