package optimization

import (
	"math"
	"time"
)

// Options carries every recognized optimizer knob. Zero values mean "use the
// default"; defaults that depend on other fields (such as the population
// size depending on the dimensionality) are filled in exactly once by
// resolve at engine construction, after which the options are immutable.
type Options struct {
	// MaxFunctionEvaluations caps the number of objective evaluations.
	// Zero or negative means unbounded.
	MaxFunctionEvaluations int

	// MaxRuntime caps the wall-clock duration of the run. Zero or negative
	// means unbounded. With both budgets unbounded the loop runs until the
	// caller cancels it; bounding it is the caller's responsibility.
	MaxRuntime time.Duration

	// Seed seeds the random source and is required to be non-zero: every
	// run must be explicitly and reproducibly seeded.
	Seed uint64

	// Sigma is the initial global step size (mutation strength), required
	// positive.
	Sigma float64

	// Mean is the optional initial point. If nil, the starting point is
	// drawn uniformly within the bounds. Restarts always resample and
	// ignore this field.
	Mean []float64

	// SigmaThreshold triggers a restart once the step size collapses below
	// it. Default 1e-10.
	SigmaThreshold float64

	// Stagnation is the number of generations a fitness plateau is
	// tolerated before a restart. Default max(32, dim).
	Stagnation int

	// FitnessDiff is the plateau threshold: an improvement of at most this
	// much over Stagnation generations counts as stagnation. Default 1e-10.
	FitnessDiff float64

	// RecordFitness enables sampling of evaluated fitness values into the
	// results; RecordFitnessFrequency is the sampling cadence in
	// evaluations (default 1000, 1 records everything).
	RecordFitness          bool
	RecordFitnessFrequency int

	// Verbose enables per-generation progress logging every
	// VerboseFrequency generations (default 10).
	Verbose          bool
	VerboseFrequency int

	// NIndividuals is the offspring population size. Default for evolution
	// strategies: 4 + floor(3 ln dim).
	NIndividuals int

	// NParents is the parental population size. Default NIndividuals/2.
	NParents int

	// Rank-one evolution strategy knobs. Defaults: CCov = 1/(3 sqrt(dim)+5),
	// C = 2/(dim+7), CS = 0.3, QStar = 0.3, DSigma = 1.
	CCov   float64
	C      float64
	CS     float64
	QStar  float64
	DSigma float64

	// Fast evolutionary programming knobs. Defaults: Q = 10,
	// Tau = 1/sqrt(2 sqrt(dim)), TauPrime = 1/sqrt(2 dim).
	Q        int
	Tau      float64
	TauPrime float64
}

// resolve fills in the dimension-dependent defaults and validates the
// required fields. It is a pure function of the given options and dim.
func (o Options) resolve(dim int) (Options, error) {
	if o.Seed == 0 {
		return o, NewError("seed is required and must be non-zero").WithOperation("resolve")
	}
	if o.Sigma <= 0 {
		return o, NewErrorf("sigma must be positive, got %v", o.Sigma).WithOperation("resolve")
	}
	if o.Mean != nil && len(o.Mean) != dim {
		return o, NewErrorf("initial mean has %d dimensions, problem has %d",
			len(o.Mean), dim).WithOperation("resolve")
	}

	d := float64(dim)
	if o.SigmaThreshold <= 0 {
		o.SigmaThreshold = 1e-10
	}
	if o.Stagnation <= 0 {
		o.Stagnation = 32
		if dim > 32 {
			o.Stagnation = dim
		}
	}
	if o.FitnessDiff <= 0 {
		o.FitnessDiff = 1e-10
	}
	if o.RecordFitnessFrequency <= 0 {
		o.RecordFitnessFrequency = 1000
	}
	if o.VerboseFrequency <= 0 {
		o.VerboseFrequency = 10
	}
	if o.NIndividuals <= 0 {
		o.NIndividuals = 4 + int(3*math.Log(d))
	}
	if o.NParents <= 0 {
		o.NParents = o.NIndividuals / 2
	}
	if o.NParents > o.NIndividuals {
		return o, NewErrorf("n_parents %d exceeds n_individuals %d",
			o.NParents, o.NIndividuals).WithOperation("resolve")
	}
	if o.CCov <= 0 {
		o.CCov = 1.0 / (3.0*math.Sqrt(d) + 5.0)
	}
	if o.C <= 0 {
		o.C = 2.0 / (d + 7.0)
	}
	if o.CS <= 0 {
		o.CS = 0.3
	}
	if o.QStar <= 0 {
		o.QStar = 0.3
	}
	if o.DSigma <= 0 {
		o.DSigma = 1.0
	}
	if o.Q <= 0 {
		o.Q = 10
	}
	if o.Tau <= 0 {
		o.Tau = 1.0 / math.Sqrt(2.0*math.Sqrt(d))
	}
	if o.TauPrime <= 0 {
		o.TauPrime = 1.0 / math.Sqrt(2.0*d)
	}
	return o, nil
}

// Unbounded reports whether neither the evaluation nor the runtime budget
// is set.
func (o Options) Unbounded() bool {
	return o.MaxFunctionEvaluations <= 0 && o.MaxRuntime <= 0
}
