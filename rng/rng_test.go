package rng_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quickrand/rng"
)

// Golden outputs for seed 42. These must never change silently: anything that
// persisted a seed expects the same stream back.
func TestGoldenSeed42(t *testing.T) {
	r := rng.NewFromUint64(42)

	require.Equal(t, rng.State{X: 0xd114a242b6c8acf5, Y: 0x633164d57e273fbe}, r.State())
	assert.Equal(t, uint64(0x70cf4007b2da7693), r.Uint64())
	assert.Equal(t, int64(-3792773414308135286), r.Int64())
	assert.Equal(t, uint32(0xc9d52042), r.Uint32())
	assert.Equal(t, int32(-873516526), r.Int32())
	assert.Equal(t, uint32(1), r.BoundedUint32(10))
}

func TestGoldenConversions(t *testing.T) {
	r := rng.NewFromUint64(42)

	assert.False(t, r.Bool())
	assert.False(t, r.Bernoulli(0.25))
	assert.Equal(t, int64(-3903178030486189157), r.Int64())
	assert.Equal(t, uint32(0xcbef3212), r.Uint32())
	assert.Equal(t, int32(556855600), r.Int32())
	assert.Equal(t, uint64(90), r.RangeUint64(50, 99))
	assert.Equal(t, int64(72), r.RangeInt64(50, 99))
	assert.Equal(t, uint32(52), r.RangeUint32(50, 99))
	assert.Equal(t, int32(97), r.RangeInt32(50, 99))
	assert.Equal(t, uint64(0x3fe86d91fdd5b0b9), math.Float64bits(r.Open01Float64()))
	assert.Equal(t, uint32(0x3ec19e4d), math.Float32bits(r.Open01Float32()))
}

func TestGoldenSplit(t *testing.T) {
	parent := rng.NewFromUint64(42)
	child := parent.Split()

	require.Equal(t, rng.State{X: 0x70cf4007b2da7693, Y: 0xcb5d5cacb69e3e8a}, child.State())
	assert.Equal(t, uint64(0x0970e8bbf76f94ea), child.Uint64())
	assert.Equal(t, uint64(0x0ea7d4b5aa840ec0), child.Uint64())
	assert.Equal(t, uint64(0xc9d52042ddc30b9b), parent.Uint64())
}

func TestZeroSeedUsesFallbackState(t *testing.T) {
	r := rng.New(rng.Seed{})

	require.False(t, r.State().IsZero())
	assert.Equal(t, rng.State{X: 0x9e3779b97f4a7c15, Y: 0xf39cc0605cedc835}, r.State())
	assert.Equal(t, uint64(0x01568a7b9ca9f750), r.Uint64())
	assert.Equal(t, uint64(0xaad574674017f385), r.Uint64())
	assert.Equal(t, uint64(0x04731d1c1f97f6f0), r.Uint64())
}

func TestWideSeedUsesBothHalves(t *testing.T) {
	s := rng.NewState(rng.Seed{Hi: 1, Lo: 2})
	assert.Equal(t, rng.State{X: 0x4848937553c3f638, Y: 0x9053a26819ba2372}, s)
	assert.NotEqual(t, rng.NewState(rng.SeedFrom(2)), s)
}

func TestDeterminism(t *testing.T) {
	seeds := []rng.Seed{{}, rng.SeedFrom(1), rng.SeedFrom(42), {Hi: 0xdeadbeef, Lo: 0xcafebabe}, {Hi: math.MaxUint64, Lo: math.MaxUint64}}

	// Each draw uses a different operation so that the whole surface is covered.
	draw := func(r *rng.Rng, i int) uint64 {
		switch i % 9 {
		case 0:
			return r.Uint64()
		case 1:
			return uint64(r.Uint32())
		case 2:
			if r.Bool() {
				return 1
			}
			return 0
		case 3:
			return r.RangeUint64(3, 1000)
		case 4:
			return uint64(r.RangeInt32(-50, 50))
		case 5:
			return math.Float64bits(r.Open01Float64())
		case 6:
			return uint64(math.Float32bits(r.Open01Float32()))
		case 7:
			return uint64(r.BoundedUint32(77))
		default:
			return r.Split().Uint64()
		}
	}

	for _, seed := range seeds {
		a, b := rng.New(seed), rng.New(seed)
		for i := 0; i < 5000; i++ {
			require.Equal(t, draw(a, i), draw(b, i), "seed %v draw %d", seed, i)
		}
		require.Equal(t, a.State(), b.State())
	}
}

func TestRangeContainment(t *testing.T) {
	const draws = 10000
	r := rng.NewFromUint64(7)

	u64Pairs := [][2]uint64{{0, 0}, {5, 5}, {0, 1}, {50, 99}, {0, math.MaxUint64}, {1, math.MaxUint64}, {math.MaxUint64 - 3, math.MaxUint64}, {1 << 63, 1<<63 + 10}}
	for _, p := range u64Pairs {
		for i := 0; i < draws; i++ {
			v := r.RangeUint64(p[0], p[1])
			require.True(t, v >= p[0] && v <= p[1], "RangeUint64(%d, %d) = %d", p[0], p[1], v)
		}
	}

	i64Pairs := [][2]int64{{0, 0}, {-1, -1}, {-10, 10}, {math.MinInt64, math.MaxInt64}, {math.MinInt64, math.MinInt64 + 2}, {math.MaxInt64 - 2, math.MaxInt64}}
	for _, p := range i64Pairs {
		for i := 0; i < draws; i++ {
			v := r.RangeInt64(p[0], p[1])
			require.True(t, v >= p[0] && v <= p[1], "RangeInt64(%d, %d) = %d", p[0], p[1], v)
		}
	}

	u32Pairs := [][2]uint32{{0, 0}, {9, 9}, {50, 99}, {0, math.MaxUint32}, {math.MaxUint32 - 1, math.MaxUint32}}
	for _, p := range u32Pairs {
		for i := 0; i < draws; i++ {
			v := r.RangeUint32(p[0], p[1])
			require.True(t, v >= p[0] && v <= p[1], "RangeUint32(%d, %d) = %d", p[0], p[1], v)
		}
	}

	i32Pairs := [][2]int32{{0, 0}, {-3, -3}, {-100, 100}, {math.MinInt32, math.MaxInt32}, {math.MinInt32, math.MinInt32 + 1}}
	for _, p := range i32Pairs {
		for i := 0; i < draws; i++ {
			v := r.RangeInt32(p[0], p[1])
			require.True(t, v >= p[0] && v <= p[1], "RangeInt32(%d, %d) = %d", p[0], p[1], v)
		}
	}

	for _, bound := range []uint32{0, 1, 10, math.MaxUint32} {
		for i := 0; i < draws; i++ {
			v := r.BoundedUint32(bound)
			require.LessOrEqual(t, v, bound)
		}
	}
}

func TestRangeCoversSmallSpans(t *testing.T) {
	r := rng.NewFromUint64(99)
	seen := make(map[int32]int)
	for i := 0; i < 10000; i++ {
		seen[r.RangeInt32(-2, 2)]++
	}
	require.Len(t, seen, 5)
	for v := int32(-2); v <= 2; v++ {
		assert.Greater(t, seen[v], 1500, "value %d", v)
	}
}

func TestOpen01Deciles(t *testing.T) {
	const samples = 1_000_000
	const expected = samples / 10

	var f64 [10]int
	var f32 [10]int
	r := rng.NewFromUint64(2024)

	for i := 0; i < samples; i++ {
		x := r.Open01Float64()
		require.True(t, x > 0 && x < 1, "Open01Float64 = %v", x)
		f64[int(x*10)]++

		y := r.Open01Float32()
		require.True(t, y > 0 && y < 1, "Open01Float32 = %v", y)
		f32[int(y*10)]++
	}

	for i := range f64 {
		assert.InDelta(t, expected, f64[i], expected*0.05, "float64 decile %d", i)
		assert.InDelta(t, expected, f32[i], expected*0.05, "float32 decile %d", i)
	}
}

func TestBernoulliEdges(t *testing.T) {
	r := rng.NewFromUint64(5)
	hits := 0
	for i := 0; i < 100000; i++ {
		require.False(t, r.Bernoulli(0))
		require.True(t, r.Bernoulli(1))
		if r.Bernoulli(0.3) {
			hits++
		}
	}
	assert.InDelta(t, 30000, hits, 1000)
}

func TestSplitIndependence(t *testing.T) {
	const n = 1000
	for seed := uint64(0); seed < 100; seed++ {
		parent := rng.NewFromUint64(seed)
		child := parent.Split()
		require.Equal(t, uint64(1), child.State().X&1)

		for i := 0; i < n; i++ {
			c, p := child.Uint64(), parent.Uint64()
			require.NotEqual(t, p, c, "seed %d word %d", seed, i)
		}
	}
}

func TestSplitConsumesTwoWords(t *testing.T) {
	a := rng.NewFromUint64(11)
	b := rng.NewFromUint64(11)

	a.Split()
	b.Uint64()
	b.Uint64()

	assert.Equal(t, b.State(), a.State())
}

func TestFillMatchesWords(t *testing.T) {
	for k := 0; k <= 4; k++ {
		for r := 0; r < 8; r++ {
			n := 8*k + r
			buf := make([]byte, n)
			rng.NewFromUint64(3).Fill(buf)

			words := rng.NewFromUint64(3)
			want := make([]byte, 0, n+8)
			for len(want) < n {
				want = binary.LittleEndian.AppendUint64(want, words.Uint64())
			}
			require.Equal(t, want[:n], buf, "length %d", n)
		}
	}
}

func TestFillEmptyIsNoop(t *testing.T) {
	r := rng.NewFromUint64(3)
	before := r.State()
	r.Fill(nil)
	r.Fill([]byte{})
	assert.Equal(t, before, r.State())
}

func TestFillPartialConsumesOneWord(t *testing.T) {
	a := rng.NewFromUint64(8)
	b := rng.NewFromUint64(8)

	a.Fill(make([]byte, 13))
	b.Uint64()
	b.Uint64()

	assert.Equal(t, b.State(), a.State())
}

func TestFillUint64(t *testing.T) {
	buf := make([]uint64, 64)
	r := rng.NewFromUint64(17)
	r.FillUint64(buf)

	ref := rng.NewFromUint64(17)
	for i, v := range buf {
		require.Equal(t, ref.Uint64(), v, "slot %d", i)
	}
	assert.Equal(t, ref.State(), r.State())
}

func TestRead(t *testing.T) {
	r := rng.NewFromUint64(21)
	p := make([]byte, 21)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	want := make([]byte, 21)
	rng.NewFromUint64(21).Fill(want)
	assert.Equal(t, want, p)
}

func TestStateRoundTrip(t *testing.T) {
	r := rng.NewFromUint64(1234)
	r.Uint64()
	saved := r.State()
	first := []uint64{r.Uint64(), r.Uint64(), r.Uint64()}

	r.SetState(saved)
	assert.Equal(t, first, []uint64{r.Uint64(), r.Uint64(), r.Uint64()})

	clone := rng.FromState(saved)
	assert.Equal(t, first[0], clone.Uint64())
}

func TestStateAdvanceMatchesNext(t *testing.T) {
	a := rng.NewState(rng.SeedFrom(77))
	b := a
	for i := 0; i < 100; i++ {
		a.Next()
		b.Advance()
		require.Equal(t, a, b)
	}
}

func TestBitsLookBalanced(t *testing.T) {
	const samples = 100000
	var ones [64]int
	r := rng.NewFromUint64(31337)
	for i := 0; i < samples; i++ {
		x := r.Uint64()
		for b := 0; b < 64; b++ {
			ones[b] += int(x >> b & 1)
		}
	}
	for b, c := range ones {
		assert.InDelta(t, samples/2, c, 1500, "bit %d", b)
	}
}
