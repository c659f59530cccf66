package main

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lox/quickrand/internal/bench"
	"github.com/lox/quickrand/internal/check"
)

func TestRenderBenchTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := renderBenchTable([]bench.Result{
		{Generator: "xmum128", Mode: bench.ModeSingle, Workers: 1, NsPerWord: 0.5, StdDev: 0.01, Checksum: 0xff},
		{Generator: "romuduo", Mode: bench.ModeParallel, Workers: 4, NsPerWord: 0.25},
	})

	assert.Contains(t, out, "GENERATOR")
	assert.Contains(t, out, "xmum128")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "2000 M/s")
	assert.Contains(t, out, "0x00000000000000ff")
	assert.Contains(t, out, "parallel")
	assert.Contains(t, out, "4000 M/s")
}

func TestRenderCheckTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := renderCheckTable([]check.Result{
		{Name: "bit-balance", Passed: true, Statistic: 1.25, Threshold: 4.5, Detail: "fine"},
		{Name: "bernoulli-rate", Passed: false, Statistic: 9, Threshold: 4, Detail: "bad"},
	})

	assert.Contains(t, out, "bit-balance")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "4.500")
	assert.Contains(t, out, "bad")
}

func TestFirstPositive(t *testing.T) {
	assert.Equal(t, 3, firstPositive(0, 3, 5))
	assert.Equal(t, 2, firstPositive(2, 3))
	assert.Equal(t, 0, firstPositive(0, -1))
}

func TestResolveSeed(t *testing.T) {
	seed, err := resolveSeed("", "0x2a", testLogger(t))
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), seed.Lo)

	seed, err = resolveSeed("7", "0x2a", testLogger(t))
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), seed.Lo)

	_, err = resolveSeed("not-a-seed", "", testLogger(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `invalid seed "not-a-seed"`)
}

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}
