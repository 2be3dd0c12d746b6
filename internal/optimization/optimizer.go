package optimization

import (
	"context"
)

// ObjectiveFunction is the black-box function to be minimized. It must be
// total over the problem's search box; a returned error aborts the run.
type ObjectiveFunction func(x []float64) (float64, error)

// Optimizer is the lifecycle contract shared by every algorithm driver.
type Optimizer interface {
	// Run executes the optimization loop until the evaluation or runtime
	// budget is exhausted, or ctx is cancelled.
	Run(ctx context.Context) (*Results, error)

	// Best returns the best solution observed so far. Safe to call while
	// Run is in flight.
	Best() *Solution

	// Evaluations returns the cumulative number of objective evaluations.
	Evaluations() int
}

// Strategy is the plug-in contract for a concrete search algorithm. The
// engine owns termination, budgeting, restarts and bookkeeping; the strategy
// owns the sampling distribution and its update rule.
//
// Initialize is called once at the start of a run and again on every
// restart (restart=true). Restart initialization must resample the starting
// point and reset all distribution state; cumulative counters live in the
// engine and are untouched by restarts.
//
// Iterate samples and evaluates one generation of candidates. It must route
// every evaluation through Run.Evaluate and poll Run.Terminated before each
// evaluation, returning early with a partially filled generation once the
// budget is gone.
type Strategy interface {
	// Name identifies the algorithm, e.g. "r1es".
	Name() string

	Initialize(run *Run, restart bool) error

	Iterate(run *Run) error

	// UpdateDistribution folds the evaluated generation back into the
	// search distribution. Strategies that select inside Iterate may make
	// this a no-op.
	UpdateDistribution(run *Run)

	// Sigma reports the current global step size, consulted by the restart
	// controller.
	Sigma() float64

	// GenerationBest reports the best fitness of the current generation,
	// used for progress reporting.
	GenerationBest() float64
}

// Solution is a point in the search space together with its fitness.
type Solution struct {
	X []float64 `json:"x"`
	Y float64   `json:"y"`
}

// Clone returns a deep copy of the solution.
func (s *Solution) Clone() *Solution {
	if s == nil {
		return nil
	}
	return &Solution{X: append([]float64(nil), s.X...), Y: s.Y}
}
