package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/coder/quartz"

	"github.com/lox/quickrand/cmd/quickrand/shared"
	"github.com/lox/quickrand/internal/bench"
	"github.com/lox/quickrand/internal/fileutil"
)

// BenchCmd compares generator throughput.
type BenchCmd struct {
	Seed       string   `kong:"help='Seed, decimal or 0x hex up to 128 bits (default: config, then clock)'"`
	Iterations int      `kong:"help='Words per run (default: config, then 100000000)'"`
	Runs       int      `kong:"help='Timed runs per generator and mode (default: config, then 3)'"`
	Workers    int      `kong:"help='Goroutines in parallel mode (default: config, then 4)'"`
	Generators []string `kong:"sep=',',help='Generators to compare'"`
	Mode       []string `kong:"sep=',',help='Modes: single, interleaved, noinline, parallel'"`
	Report     string   `kong:"type='path',help='Write results as JSON to this file'"`
}

type benchReport struct {
	Version    string         `json:"version"`
	Seed       string         `json:"seed"`
	Iterations int            `json:"iterations"`
	Runs       int            `json:"runs"`
	Results    []bench.Result `json:"results"`
}

func (c *BenchCmd) Run(g *Globals) error {
	logger := g.logger()

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	seed, err := resolveSeed(c.Seed, cfg.Seed, logger)
	if err != nil {
		return err
	}

	bc := cfg.Bench
	iterations := firstPositive(c.Iterations, bc.Iterations)
	runs := firstPositive(c.Runs, bc.Runs)
	workers := firstPositive(c.Workers, bc.Workers)
	names := bc.Generators
	if len(c.Generators) > 0 {
		names = c.Generators
	}
	modeNames := bc.Modes
	if len(c.Mode) > 0 {
		modeNames = c.Mode
	}

	specs, err := bench.Lookup(names)
	if err != nil {
		return err
	}
	modes := make([]bench.Mode, 0, len(modeNames))
	for _, name := range modeNames {
		m, err := bench.ParseMode(name)
		if err != nil {
			return err
		}
		modes = append(modes, m)
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info().
		Int("iterations", iterations).
		Int("runs", runs).
		Int("workers", workers).
		Strs("generators", names).
		Strs("modes", modeNames).
		Msg("Starting benchmark")

	results, err := bench.Run(ctx, bench.Config{
		Iterations: iterations,
		Runs:       runs,
		Workers:    workers,
		Seed:       seed,
		Generators: specs,
		Modes:      modes,
		Clock:      quartz.NewReal(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	fmt.Println(renderBenchTable(results))

	if c.Report != "" {
		report := benchReport{
			Version:    version,
			Seed:       seed.String(),
			Iterations: iterations,
			Runs:       runs,
			Results:    results,
		}
		if err := fileutil.WriteJSONAtomic(c.Report, report, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info().Str("path", c.Report).Msg("Report written")
	}
	return nil
}

func renderBenchTable(results []bench.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		wordsPerSec := 0.0
		if r.NsPerWord > 0 {
			wordsPerSec = 1e9 / r.NsPerWord
		}
		rows = append(rows, []string{
			r.Generator,
			string(r.Mode),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%.3f", r.NsPerWord),
			fmt.Sprintf("±%.3f", r.StdDev),
			fmt.Sprintf("%.0f M/s", wordsPerSec/1e6),
			fmt.Sprintf("%#018x", r.Checksum),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GENERATOR", "MODE", "WORKERS", "NS/WORD", "STDDEV", "RATE", "CHECKSUM").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Rows(rows...).
		Render()
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
