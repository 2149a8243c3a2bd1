package simulation

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Stream is a seeded random source passed explicitly through every generator.
// Each generator draws from its own Stream derived from the root seed, so
// adding draws to one generator never shifts the output of another.
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// NewStream creates a stream seeded with seed
func NewStream(seed int64) *Stream {
	return &Stream{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Derive returns an independent stream keyed by label. Deriving does not
// consume draws from s.
func (s *Stream) Derive(label string) *Stream {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return NewStream(s.seed ^ int64(h.Sum64()))
}

// Seed returns the seed the stream was created with
func (s *Stream) Seed() int64 {
	return s.seed
}

// Float64 returns a value in [0,1)
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Uniform returns a value in [lo,hi)
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Normal returns a gaussian draw
func (s *Stream) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// IntBetween returns an integer in [lo,hi]
func (s *Stream) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Chance reports true with probability p
func (s *Stream) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Choice picks an index with probability proportional to weights
func (s *Stream) Choice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := s.rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Read fills p with random bytes so a Stream can back uuid generation
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(s.rng.Intn(256))
	}
	return len(p), nil
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfEven rounds to the nearest integer, ties to even
func roundHalfEven(v float64) int64 {
	return int64(math.RoundToEven(v))
}

func round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// safeRatio returns num/den, or 0 when den is zero
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
