// Package config loads the quickrand command's optional HCL configuration.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete configuration file.
type Config struct {
	// Seed is parsed with rng.ParseSeed; empty means a clock-derived seed.
	Seed   string        `hcl:"seed,optional"`
	Stream *StreamConfig `hcl:"stream,block"`
	Bench  *BenchConfig  `hcl:"bench,block"`
	Check  *CheckConfig  `hcl:"check,block"`
}

// StreamConfig controls the raw byte stream.
type StreamConfig struct {
	BufferSize int   `hcl:"buffer_size,optional"`
	Limit      int64 `hcl:"limit,optional"`
}

// BenchConfig controls the throughput comparison.
type BenchConfig struct {
	Iterations int      `hcl:"iterations,optional"`
	Runs       int      `hcl:"runs,optional"`
	Workers    int      `hcl:"workers,optional"`
	Generators []string `hcl:"generators,optional"`
	Modes      []string `hcl:"modes,optional"`
}

// CheckConfig controls the statistical self-checks.
type CheckConfig struct {
	Samples int `hcl:"samples,optional"`
	Seeds   int `hcl:"seeds,optional"`
}

// Defaults.
const (
	DefaultBufferSize = 8 * 1024
	DefaultIterations = 100_000_000
	DefaultRuns       = 3
	DefaultWorkers    = 4
	DefaultSamples    = 1_000_000
	DefaultSeeds      = 4
)

// DefaultGenerators and DefaultModes are used when the file lists none.
var (
	DefaultGenerators = []string{"xmum128", "xoroshiro128++", "pcg64dxsm", "romuduo"}
	DefaultModes      = []string{"single", "interleaved", "noinline", "parallel"}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Stream == nil {
		c.Stream = &StreamConfig{}
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultBufferSize
	}

	if c.Bench == nil {
		c.Bench = &BenchConfig{}
	}
	if c.Bench.Iterations == 0 {
		c.Bench.Iterations = DefaultIterations
	}
	if c.Bench.Runs == 0 {
		c.Bench.Runs = DefaultRuns
	}
	if c.Bench.Workers == 0 {
		c.Bench.Workers = DefaultWorkers
	}
	if len(c.Bench.Generators) == 0 {
		c.Bench.Generators = append([]string(nil), DefaultGenerators...)
	}
	if len(c.Bench.Modes) == 0 {
		c.Bench.Modes = append([]string(nil), DefaultModes...)
	}

	if c.Check == nil {
		c.Check = &CheckConfig{}
	}
	if c.Check.Samples == 0 {
		c.Check.Samples = DefaultSamples
	}
	if c.Check.Seeds == 0 {
		c.Check.Seeds = DefaultSeeds
	}
}

// Validate rejects negative sizes and counts.
func (c *Config) Validate() error {
	switch {
	case c.Stream.BufferSize < 0:
		return fmt.Errorf("stream.buffer_size must be positive, got %d", c.Stream.BufferSize)
	case c.Stream.Limit < 0:
		return fmt.Errorf("stream.limit must not be negative, got %d", c.Stream.Limit)
	case c.Bench.Iterations < 0:
		return fmt.Errorf("bench.iterations must be positive, got %d", c.Bench.Iterations)
	case c.Bench.Runs < 0:
		return fmt.Errorf("bench.runs must be positive, got %d", c.Bench.Runs)
	case c.Bench.Workers < 0:
		return fmt.Errorf("bench.workers must be positive, got %d", c.Bench.Workers)
	case c.Check.Samples < 0:
		return fmt.Errorf("check.samples must be positive, got %d", c.Check.Samples)
	case c.Check.Seeds < 0:
		return fmt.Errorf("check.seeds must be positive, got %d", c.Check.Seeds)
	}
	return nil
}
