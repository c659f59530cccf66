// Package statistics summarises repeated measurements and bucket counts.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Summary tracks running moments and retains values for order statistics.
type Summary struct {
	Count  int
	Sum    float64
	SumSq  float64 // Sum of squares for variance calculation
	Min    float64
	Max    float64
	Values []float64
}

// Add incorporates one observation.
func (s *Summary) Add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean, or 0 when empty.
func (s *Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance.
func (s *Summary) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.Count)*mean*mean) / float64(s.Count-1)
	if v < 0 {
		// Rounding on near-constant inputs.
		return 0
	}
	return v
}

func (s *Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Summary) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Summary) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value.
func (s *Summary) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Summary) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Buckets counts values in [0, 1) into n equal-width bins.
type Buckets struct {
	Counts []int
	Total  int
}

// NewBuckets returns n empty bins.
func NewBuckets(n int) *Buckets {
	return &Buckets{Counts: make([]int, n)}
}

// Add records v. Values outside [0, 1) are clamped to the edge bins.
func (b *Buckets) Add(v float64) {
	i := int(v * float64(len(b.Counts)))
	if i < 0 {
		i = 0
	}
	if i >= len(b.Counts) {
		i = len(b.Counts) - 1
	}
	b.Counts[i]++
	b.Total++
}

// MaxRelativeDeviation returns max |count - expected| / expected over all bins
// assuming a uniform distribution.
func (b *Buckets) MaxRelativeDeviation() float64 {
	if b.Total == 0 || len(b.Counts) == 0 {
		return 0
	}
	expected := float64(b.Total) / float64(len(b.Counts))
	worst := 0.0
	for _, c := range b.Counts {
		if d := math.Abs(float64(c)-expected) / expected; d > worst {
			worst = d
		}
	}
	return worst
}

// ChiSquare returns the chi-square statistic of the bins against a uniform
// distribution.
func (b *Buckets) ChiSquare() float64 {
	if b.Total == 0 || len(b.Counts) == 0 {
		return 0
	}
	expected := float64(b.Total) / float64(len(b.Counts))
	chi := 0.0
	for _, c := range b.Counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// ChiSquareCritical returns an approximate upper critical value of the
// chi-square distribution for df degrees of freedom at the given z-score,
// using the Wilson-Hilferty transformation.
func ChiSquareCritical(df int, z float64) float64 {
	if df <= 0 {
		return 0
	}
	k := float64(df)
	h := 2 / (9 * k)
	c := 1 - h + z*math.Sqrt(h)
	return k * c * c * c
}

// Validate checks that the summary is internally consistent.
func (s *Summary) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("invalid count: %d", s.Count)
	}
	if len(s.Values) != s.Count {
		return fmt.Errorf("values array length (%d) does not match count (%d)",
			len(s.Values), s.Count)
	}
	if s.Count > 0 && s.Min > s.Max {
		return fmt.Errorf("min (%f) exceeds max (%f)", s.Min, s.Max)
	}
	return nil
}
