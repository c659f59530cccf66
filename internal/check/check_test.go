package check

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quickrand/internal/statistics"
	"github.com/lox/quickrand/rng"
)

func stuckRng(rng.Seed) *rng.Rng {
	return rng.FromState(rng.State{})
}

func TestAllChecksPass(t *testing.T) {
	checker := New(Config{
		Samples: 200_000,
		Seeds:   3,
		Seed:    rng.SeedFrom(42),
		Logger:  log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.DebugLevel}),
	})

	results, err := checker.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(Names()))

	for i, res := range results {
		assert.Equal(t, Names()[i], res.Name)
		assert.Equal(t, 3, res.Seeds)
		assert.True(t, res.Passed, "%s: %s", res.Name, res.Detail)
	}
}

func TestStuckGeneratorFails(t *testing.T) {
	var logs bytes.Buffer
	checker := New(Config{
		Samples: 10_000,
		Only:    []string{"open01-f64-deciles", "open01-f32-deciles", "bit-balance", "bernoulli-rate"},
		Logger:  log.New(&logs),
		NewRng:  stuckRng,
	})

	results, err := checker.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, res := range results {
		assert.False(t, res.Passed, res.Name)
		assert.Greater(t, res.Statistic, res.Threshold, res.Name)
	}
	assert.Contains(t, logs.String(), "Check failed")
}

func TestContainmentHoldsEvenForStuckGenerator(t *testing.T) {
	results, err := New(Config{
		Samples: 1000,
		Only:    []string{"range-containment", "fill-consistency"},
		NewRng:  stuckRng,
	}).Run(context.Background())
	require.NoError(t, err)
	for _, res := range results {
		assert.True(t, res.Passed, res.Name)
		assert.Zero(t, res.Statistic, res.Name)
	}
}

func TestOnlyPreservesRequestedOrder(t *testing.T) {
	results, err := New(Config{
		Samples: 1000,
		Only:    []string{"bernoulli-rate", "bit-balance"},
	}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "bernoulli-rate", results[0].Name)
	assert.Equal(t, "bit-balance", results[1].Name)
}

func TestUnknownCheck(t *testing.T) {
	_, err := New(Config{Samples: 10, Only: []string{"spectral"}}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown check "spectral"`)
}

func TestRejectsZeroSamples(t *testing.T) {
	_, err := New(Config{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samples must be positive")
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Samples: 10}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{Samples: 5000, Seeds: 2, Seed: rng.SeedFrom(7)}
	a, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	b, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSummarizeKeepsWorstSeed(t *testing.T) {
	res := summarize("x", []outcome{
		{statistic: 1, threshold: 4, detail: "a"},
		{statistic: 5, threshold: 4, detail: "b"},
		{statistic: 2, threshold: 4, detail: "c"},
	})
	assert.False(t, res.Passed)
	assert.Equal(t, 5.0, res.Statistic)
	assert.Equal(t, "b", res.Detail)
	assert.Equal(t, 3, res.Seeds)
}

func TestDecileOutcomeRejectsOutOfRange(t *testing.T) {
	o := decileOutcome(statistics.NewBuckets(10), 1)
	assert.Equal(t, math.MaxFloat64, o.statistic)
	assert.False(t, o.passed())
}
