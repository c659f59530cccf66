// Package bench measures generator throughput in words per nanosecond, the
// same comparison the generator was tuned against: xoroshiro128++, pcg64dxsm
// and romuduo, each in a tight loop, two interleaved streams, calls that
// cannot be inlined and split-per-worker parallel runs.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quickrand/internal/statistics"
	"github.com/lox/quickrand/rng"
)

// Mode selects the benchmark loop.
type Mode string

const (
	// ModeSingle draws from one generator through its concrete type.
	ModeSingle Mode = "single"
	// ModeInterleaved alternates between generators seeded with s and s+1.
	ModeInterleaved Mode = "interleaved"
	// ModeNoInline draws through the Generator interface.
	ModeNoInline Mode = "noinline"
	// ModeParallel runs Workers goroutines, each with its own generator.
	ModeParallel Mode = "parallel"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSingle, ModeInterleaved, ModeNoInline, ModeParallel:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Config describes a benchmark session.
type Config struct {
	Iterations int
	Runs       int
	Workers    int
	Seed       rng.Seed
	Generators []Spec
	Modes      []Mode
	Clock      quartz.Clock
	Logger     zerolog.Logger
}

// Result is the summary of all runs of one generator in one mode.
type Result struct {
	Generator string        `json:"generator"`
	Mode      Mode          `json:"mode"`
	Workers   int           `json:"workers"`
	Runs      int           `json:"runs"`
	Words     int64         `json:"words_per_run"`
	Elapsed   time.Duration `json:"mean_elapsed_ns"`
	NsPerWord float64       `json:"ns_per_word"`
	StdDev    float64       `json:"ns_per_word_stddev"`
	CI95Low   float64       `json:"ns_per_word_ci95_low"`
	CI95High  float64       `json:"ns_per_word_ci95_high"`
	// Checksum is the wrapping sum of every word of the last run. It keeps
	// the loops from being optimised away and identifies the stream.
	Checksum uint64 `json:"checksum"`
}

// Run benchmarks every generator in every mode.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	var results []Result
	for _, mode := range cfg.Modes {
		for _, spec := range cfg.Generators {
			res, err := runSpec(ctx, cfg, spec, mode)
			if err != nil {
				return results, fmt.Errorf("%s/%s: %w", spec.Name, mode, err)
			}
			cfg.Logger.Info().
				Str("generator", res.Generator).
				Str("mode", string(res.Mode)).
				Float64("ns_per_word", res.NsPerWord).
				Float64("stddev", res.StdDev).
				Msg("Benchmark complete")
			results = append(results, res)
		}
	}
	return results, nil
}

func runSpec(ctx context.Context, cfg Config, spec Spec, mode Mode) (Result, error) {
	res := Result{Generator: spec.Name, Mode: mode, Workers: 1, Runs: cfg.Runs}
	if mode == ModeParallel {
		res.Workers = cfg.Workers
	}

	var perWord statistics.Summary
	var elapsed time.Duration
	for run := 0; run < cfg.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := cfg.Clock.Now()
		words, sum, err := runOnce(ctx, cfg, spec, mode)
		if err != nil {
			return res, err
		}
		d := cfg.Clock.Now().Sub(start)

		ns := 0.0
		if words > 0 {
			ns = float64(d.Nanoseconds()) / float64(words)
		}
		perWord.Add(ns)
		elapsed += d
		res.Words = words
		res.Checksum = sum

		cfg.Logger.Debug().
			Str("generator", spec.Name).
			Str("mode", string(mode)).
			Int("run", run+1).
			Dur("elapsed", d).
			Float64("ns_per_word", ns).
			Msg("Benchmark run")
	}

	if err := perWord.Validate(); err != nil {
		return res, fmt.Errorf("statistics validation failed: %w", err)
	}
	res.Elapsed = elapsed / time.Duration(cfg.Runs)
	res.NsPerWord = perWord.Mean()
	res.StdDev = perWord.StdDev()
	res.CI95Low, res.CI95High = perWord.ConfidenceInterval95()
	return res, nil
}

func runOnce(ctx context.Context, cfg Config, spec Spec, mode Mode) (int64, uint64, error) {
	n := cfg.Iterations
	switch mode {
	case ModeSingle:
		return int64(n), loopConcrete(spec.New(cfg.Seed), n), nil
	case ModeNoInline:
		return int64(n), loopInterface(spec.New(cfg.Seed), n), nil
	case ModeInterleaved:
		g0 := spec.New(cfg.Seed)
		g1 := spec.New(cfg.Seed.Add(1))
		half := n / 2
		return int64(2 * half), loopInterleaved(g0, g1, half), nil
	case ModeParallel:
		return runParallel(ctx, cfg, spec)
	}
	return 0, 0, fmt.Errorf("unknown mode %q", mode)
}

// runParallel splits the iterations across workers. Generators are created
// before any worker starts so that Split runs on one goroutine.
func runParallel(ctx context.Context, cfg Config, spec Spec) (int64, uint64, error) {
	workers := cfg.Workers
	gens := make([]Generator, workers)
	if spec.Split != nil {
		root := spec.New(cfg.Seed)
		for i := range gens {
			gens[i] = spec.Split(root)
		}
	} else {
		for i := range gens {
			gens[i] = spec.New(cfg.Seed.Add(uint64(i)))
		}
	}

	perWorker := cfg.Iterations / workers
	remainder := cfg.Iterations % workers
	sums := make([]uint64, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sums[w] = loopConcrete(gens[w], n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	var total uint64
	for _, s := range sums {
		total += s
	}
	return int64(cfg.Iterations), total, nil
}

// loopConcrete dispatches once to a loop over the concrete type so the
// compiler can inline each step.
func loopConcrete(g Generator, n int) uint64 {
	switch g := g.(type) {
	case *rng.Rng:
		return loopXmum(g, n)
	case *Xoroshiro128pp:
		return loopXoroshiro(g, n)
	case *Pcg64dxsm:
		return loopPcg(g, n)
	case *RomuDuo:
		return loopRomu(g, n)
	}
	return loopInterface(g, n)
}

func loopXmum(g *rng.Rng, n int) uint64 {
	s := g.State()
	var sum uint64
	for i := 0; i < n; i++ {
		sum += s.Next()
	}
	g.SetState(s)
	return sum
}

func loopXoroshiro(g *Xoroshiro128pp, n int) uint64 {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += g.Uint64()
	}
	return sum
}

func loopPcg(g *Pcg64dxsm, n int) uint64 {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += g.Uint64()
	}
	return sum
}

func loopRomu(g *RomuDuo, n int) uint64 {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += g.Uint64()
	}
	return sum
}

//go:noinline
func loopInterface(g Generator, n int) uint64 {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += g.Uint64()
	}
	return sum
}

func loopInterleaved(g0, g1 Generator, n int) uint64 {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += g0.Uint64()
		sum += g1.Uint64()
	}
	return sum
}
