package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/quickrand/rng"
)

// SampleCmd prints one value of each kind from a fresh generator.
type SampleCmd struct {
	Seed string `kong:"help='Seed, decimal or 0x hex up to 128 bits (default: config, then clock)'"`
}

func (c *SampleCmd) Run(g *Globals) error {
	logger := g.logger()

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	seed, err := resolveSeed(c.Seed, cfg.Seed, logger)
	if err != nil {
		return err
	}

	writeSample(os.Stdout, seed)
	return nil
}

// writeSample draws each value in turn from one generator, so the listing
// depends on the order of the lines.
func writeSample(w io.Writer, seed rng.Seed) {
	r := rng.New(seed)
	state := r.State()

	line := func(label string, format string, args ...any) {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), fmt.Sprintf(format, args...))
	}

	fmt.Fprintln(w, headerStyle.Render("seed "+seed.String()))
	line("state", "x=%#018x y=%#018x", state.X, state.Y)
	line("uint64", "%#x", r.Uint64())
	line("int64", "%d", r.Int64())
	line("uint32", "%#x", r.Uint32())
	line("int32", "%d", r.Int32())
	line("bool", "%t", r.Bool())
	line("bernoulli(0.5)", "%t", r.Bernoulli(0.5))
	line("bounded_u32(99)", "%d", r.BoundedUint32(99))
	line("range_u64(1,6)", "%d", r.RangeUint64(1, 6))
	line("range_i64(-10,10)", "%d", r.RangeInt64(-10, 10))
	line("range_u32(1,100)", "%d", r.RangeUint32(1, 100))
	line("range_i32(-100,100)", "%d", r.RangeInt32(-100, 100))
	line("open01_f64", "%v", r.Open01Float64())
	line("open01_f32", "%v", r.Open01Float32())
}
