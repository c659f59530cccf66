package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quickrand/rng"
)

func TestParseSeed(t *testing.T) {
	tests := []struct {
		in   string
		want rng.Seed
	}{
		{"0", rng.Seed{}},
		{"42", rng.SeedFrom(42)},
		{" 42 ", rng.SeedFrom(42)},
		{"0x2a", rng.SeedFrom(42)},
		{"0X2A", rng.SeedFrom(42)},
		{"18446744073709551616", rng.Seed{Hi: 1}},
		{"0x9e3779b97f4a7c15_f39cc0605cedc835", rng.Seed{Hi: 0x9e3779b97f4a7c15, Lo: 0xf39cc0605cedc835}},
		{"340282366920938463463374607431768211455", rng.Seed{Hi: ^uint64(0), Lo: ^uint64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rng.ParseSeed(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeedErrors(t *testing.T) {
	for _, in := range []string{"", "0x", "abc", "-1", "1.5", "340282366920938463463374607431768211456"} {
		_, err := rng.ParseSeed(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSeedAddCarries(t *testing.T) {
	s := rng.Seed{Hi: 3, Lo: ^uint64(0)}
	assert.Equal(t, rng.Seed{Hi: 4, Lo: 0}, s.Add(1))
	assert.Equal(t, rng.Seed{Hi: 3, Lo: ^uint64(0)}, s.Add(0))
}

func TestSeedString(t *testing.T) {
	assert.Equal(t, "0x2a", rng.SeedFrom(42).String())
	assert.Equal(t, "0x10000000000000002", rng.Seed{Hi: 1, Lo: 2}.String())

	parsed, err := rng.ParseSeed(rng.Seed{Hi: 0xabc, Lo: 5}.String())
	require.NoError(t, err)
	assert.Equal(t, rng.Seed{Hi: 0xabc, Lo: 5}, parsed)
}
