package optimization

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stream is a single seeded stream of pseudorandom draws. All distributions
// pull from one underlying generator, so the sequence of draws for a given
// seed is fully determined by the order of calls.
type Stream struct {
	rng    *rand.Rand
	normal distuv.Normal
	cauchy distuv.StudentsT
}

// NewStream returns a stream seeded with the given value.
func NewStream(seed uint64) *Stream {
	rng := rand.New(rand.NewSource(seed))
	return &Stream{
		rng:    rng,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
		// Student's t with one degree of freedom is the standard Cauchy
		cauchy: distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 1, Src: rng},
	}
}

// Float64 draws from U[0, 1).
func (s *Stream) Float64() float64 { return s.rng.Float64() }

// Normal draws a standard normal scalar.
func (s *Stream) Normal() float64 { return s.normal.Rand() }

// FillNormal fills dst with independent standard normal draws.
func (s *Stream) FillNormal(dst []float64) {
	for i := range dst {
		dst[i] = s.normal.Rand()
	}
}

// Cauchy draws a standard Cauchy scalar.
func (s *Stream) Cauchy() float64 { return s.cauchy.Rand() }

// Uniform draws a point uniformly from the box [lower, upper].
func (s *Stream) Uniform(lower, upper []float64) []float64 {
	x := make([]float64, len(lower))
	for i := range x {
		x[i] = lower[i] + s.rng.Float64()*(upper[i]-lower[i])
	}
	return x
}

// Intn draws uniformly from {0, ..., n-1}.
func (s *Stream) Intn(n int) int { return s.rng.Intn(n) }

// Choice draws k indices from {0, ..., n-1} with replacement.
func (s *Stream) Choice(n, k int) []int {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = s.rng.Intn(n)
	}
	return idx
}

// Shuffle pseudo-randomizes the order of n elements via swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) { s.rng.Shuffle(n, swap) }

// Source couples the two independent streams every run owns: one for
// drawing initial points (also consumed on restart resampling) and one for
// the stochastic perturbations of the optimization loop. Keeping them apart
// makes restart behavior deterministic regardless of how many loop draws
// preceded the restart.
type Source struct {
	Init *Stream
	Opt  *Stream
}

// NewSource derives the two sub-streams from a single master seed.
func NewSource(seed uint64) *Source {
	master := rand.New(rand.NewSource(seed))
	return &Source{
		Init: NewStream(master.Uint64()),
		Opt:  NewStream(master.Uint64()),
	}
}
