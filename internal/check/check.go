// Package check runs statistical self-checks against the generator's
// distribution layer. The checks are coarse and meant to catch broken
// conversions or a broken recurrence, not to certify output quality.
package check

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/bits"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quickrand/internal/statistics"
	"github.com/lox/quickrand/rng"
)

// Z is the z-score every check is held to. Chi-square checks convert it to
// a critical value for their degrees of freedom.
const Z = 4.0

// bitBalanceZ is looser because it takes the worst of 64 bit positions.
const bitBalanceZ = 4.5

// Config holds configuration for a check run.
type Config struct {
	Samples int
	Seeds   int
	Seed    rng.Seed
	// Only restricts the run to the named checks. Empty runs all of them.
	Only   []string
	Logger *log.Logger
	// NewRng builds the generator for one seed. Defaults to rng.New.
	NewRng func(rng.Seed) *rng.Rng
}

// Result is the outcome of one check across all seeds.
type Result struct {
	Name      string  `json:"name"`
	Seeds     int     `json:"seeds"`
	Passed    bool    `json:"passed"`
	Statistic float64 `json:"statistic"`
	Threshold float64 `json:"threshold"`
	Detail    string  `json:"detail"`
}

// outcome is one check on one seed. Hard failures report math.MaxFloat64 so
// that results stay JSON encodable.
type outcome struct {
	statistic float64
	threshold float64
	detail    string
}

func (o outcome) passed() bool { return o.statistic <= o.threshold }

type checkFunc func(r *rng.Rng, samples int) outcome

type namedCheck struct {
	name string
	fn   checkFunc
}

var checks = []namedCheck{
	{"open01-f64-deciles", checkOpen01Float64},
	{"open01-f32-deciles", checkOpen01Float32},
	{"bit-balance", checkBitBalance},
	{"range-containment", checkRangeContainment},
	{"range-uniformity", checkRangeUniformity},
	{"split-independence", checkSplitIndependence},
	{"fill-consistency", checkFillConsistency},
	{"bernoulli-rate", checkBernoulliRate},
}

// Names returns the available checks in run order.
func Names() []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.name
	}
	return names
}

// Checker runs the self-checks.
type Checker struct {
	config Config
}

// New creates a checker with the given configuration.
func New(config Config) *Checker {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.NewRng == nil {
		config.NewRng = rng.New
	}
	if config.Seeds <= 0 {
		config.Seeds = 1
	}
	return &Checker{config: config}
}

// Run executes every selected check on every seed and returns one result
// per check, in run order.
func (c *Checker) Run(ctx context.Context) ([]Result, error) {
	if c.config.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", c.config.Samples)
	}
	selected, err := c.selected()
	if err != nil {
		return nil, err
	}

	seeds := c.config.Seeds
	outcomes := make([][]outcome, len(selected))
	for i := range outcomes {
		outcomes[i] = make([]outcome, seeds)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, chk := range selected {
		for s := 0; s < seeds; s++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				seed := c.config.Seed.Add(uint64(s))
				o := chk.fn(c.config.NewRng(seed), c.config.Samples)
				c.config.Logger.Debug("Check finished",
					"check", chk.name,
					"seed", seed,
					"statistic", o.statistic,
					"threshold", o.threshold)
				outcomes[i][s] = o
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, len(selected))
	for i, chk := range selected {
		results[i] = summarize(chk.name, outcomes[i])
		if !results[i].Passed {
			c.config.Logger.Warn("Check failed", "check", chk.name, "detail", results[i].Detail)
		}
	}
	return results, nil
}

func (c *Checker) selected() ([]namedCheck, error) {
	if len(c.config.Only) == 0 {
		return checks, nil
	}
	var out []namedCheck
	for _, name := range c.config.Only {
		found := false
		for _, chk := range checks {
			if chk.name == name {
				out = append(out, chk)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown check %q", name)
		}
	}
	return out, nil
}

// summarize keeps the worst seed's statistic, measured relative to its
// threshold.
func summarize(name string, outs []outcome) Result {
	res := Result{Name: name, Seeds: len(outs), Passed: true}
	worst := -1
	for i, o := range outs {
		if !o.passed() {
			res.Passed = false
		}
		if worst < 0 || ratio(o) > ratio(outs[worst]) {
			worst = i
		}
	}
	res.Statistic = outs[worst].statistic
	res.Threshold = outs[worst].threshold
	res.Detail = outs[worst].detail
	return res
}

func ratio(o outcome) float64 {
	if o.threshold == 0 {
		return o.statistic
	}
	return o.statistic / o.threshold
}

func checkOpen01Float64(r *rng.Rng, samples int) outcome {
	b := statistics.NewBuckets(10)
	outside := 0
	for i := 0; i < samples; i++ {
		v := r.Open01Float64()
		if !(v > 0 && v < 1) {
			outside++
		}
		b.Add(v)
	}
	return decileOutcome(b, outside)
}

func checkOpen01Float32(r *rng.Rng, samples int) outcome {
	b := statistics.NewBuckets(10)
	outside := 0
	for i := 0; i < samples; i++ {
		v := r.Open01Float32()
		if !(v > 0 && v < 1) {
			outside++
		}
		b.Add(float64(v))
	}
	return decileOutcome(b, outside)
}

func decileOutcome(b *statistics.Buckets, outside int) outcome {
	critical := statistics.ChiSquareCritical(len(b.Counts)-1, Z)
	if outside > 0 {
		return outcome{
			statistic: math.MaxFloat64,
			threshold: critical,
			detail:    fmt.Sprintf("%d values outside (0, 1)", outside),
		}
	}
	return outcome{
		statistic: b.ChiSquare(),
		threshold: critical,
		detail:    fmt.Sprintf("chi2=%.2f max deviation %.2f%%", b.ChiSquare(), 100*b.MaxRelativeDeviation()),
	}
}

func checkBitBalance(r *rng.Rng, samples int) outcome {
	var ones [64]int
	for i := 0; i < samples; i++ {
		w := r.Uint64()
		for w != 0 {
			b := bits.TrailingZeros64(w)
			ones[b]++
			w &= w - 1
		}
	}

	n := float64(samples)
	sd := math.Sqrt(n / 4)
	worst, worstBit := 0.0, 0
	for b, c := range ones {
		if z := math.Abs(float64(c)-n/2) / sd; z > worst {
			worst, worstBit = z, b
		}
	}
	return outcome{
		statistic: worst,
		threshold: bitBalanceZ,
		detail:    fmt.Sprintf("worst bit %d: %d ones in %d words (z=%.2f)", worstBit, ones[worstBit], samples, worst),
	}
}

type rangeCase struct {
	lo, hi int64
}

var rangeCases = []rangeCase{
	{0, 0},
	{-1, 1},
	{10, 19},
	{-1000, 1000},
	{math.MinInt32, math.MaxInt32},
	{math.MinInt64, math.MaxInt64},
	{math.MaxInt64 - 3, math.MaxInt64},
}

func checkRangeContainment(r *rng.Rng, samples int) outcome {
	violations := 0
	per := samples/len(rangeCases) + 1
	for _, rc := range rangeCases {
		for i := 0; i < per; i++ {
			if v := r.RangeInt64(rc.lo, rc.hi); v < rc.lo || v > rc.hi {
				violations++
			}
			ulo, uhi := uint64(rc.lo)^(1<<63), uint64(rc.hi)^(1<<63)
			if v := r.RangeUint64(ulo, uhi); v < ulo || v > uhi {
				violations++
			}
			if rc.lo >= math.MinInt32 && rc.hi <= math.MaxInt32 {
				lo32, hi32 := int32(rc.lo), int32(rc.hi)
				if v := r.RangeInt32(lo32, hi32); v < lo32 || v > hi32 {
					violations++
				}
				ulo32, uhi32 := uint32(lo32)^(1<<31), uint32(hi32)^(1<<31)
				if v := r.RangeUint32(ulo32, uhi32); v < ulo32 || v > uhi32 {
					violations++
				}
			}
		}
	}
	return outcome{
		statistic: float64(violations),
		threshold: 0,
		detail:    fmt.Sprintf("%d out-of-range values across %d ranges", violations, len(rangeCases)),
	}
}

func checkRangeUniformity(r *rng.Rng, samples int) outcome {
	b := statistics.NewBuckets(10)
	for i := 0; i < samples; i++ {
		v := r.RangeUint32(10, 19)
		b.Counts[v-10]++
		b.Total++
	}
	critical := statistics.ChiSquareCritical(9, Z)
	return outcome{
		statistic: b.ChiSquare(),
		threshold: critical,
		detail:    fmt.Sprintf("chi2=%.2f over [10, 19]", b.ChiSquare()),
	}
}

// checkSplitIndependence compares a parent and its child word by word. About
// half of the bits should agree, and no word should repeat at the same offset.
func checkSplitIndependence(r *rng.Rng, samples int) outcome {
	child := r.Split()
	agree, equal := 0, 0
	for i := 0; i < samples; i++ {
		a, b := r.Uint64(), child.Uint64()
		if a == b {
			equal++
		}
		agree += 64 - bits.OnesCount64(a^b)
	}

	n := float64(samples) * 64
	z := math.Abs(float64(agree)-n/2) / math.Sqrt(n/4)
	detail := fmt.Sprintf("%.4f of bits agree (z=%.2f), %d equal words", float64(agree)/n, z, equal)
	if equal > 0 {
		return outcome{statistic: math.MaxFloat64, threshold: Z, detail: detail}
	}
	return outcome{statistic: z, threshold: Z, detail: detail}
}

// checkFillConsistency verifies that Fill produces the same bytes as the
// little-endian encoding of the word stream for every tail length.
func checkFillConsistency(r *rng.Rng, samples int) outcome {
	mismatches := 0
	lengths := 0
	for n := 0; n <= 8*4+7 && lengths < samples; n++ {
		lengths++
		twin := rng.FromState(r.State())
		buf := make([]byte, n)
		r.Fill(buf)
		for i := 0; i < n; i += 8 {
			w := twin.Uint64()
			for j := i; j < n && j < i+8; j++ {
				if buf[j] != byte(w>>(8*(j-i))) {
					mismatches++
				}
			}
		}
		if twin.State() != r.State() {
			mismatches++
		}
	}
	return outcome{
		statistic: float64(mismatches),
		threshold: 0,
		detail:    fmt.Sprintf("%d mismatched bytes over %d lengths", mismatches, lengths),
	}
}

func checkBernoulliRate(r *rng.Rng, samples int) outcome {
	const p = 0.25
	hits := 0
	for i := 0; i < samples; i++ {
		if r.Bernoulli(p) {
			hits++
		}
	}
	n := float64(samples)
	z := math.Abs(float64(hits)-n*p) / math.Sqrt(n*p*(1-p))
	return outcome{
		statistic: z,
		threshold: Z,
		detail:    fmt.Sprintf("%d of %d true at p=%.2f (z=%.2f)", hits, samples, p, z),
	}
}
