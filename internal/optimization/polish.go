package optimization

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Polish refines a solution with a bounded derivative-free Nelder-Mead
// pass. It runs outside the engine's evaluation gate, so its evaluations
// are not part of the run's budget; the returned count reports how many it
// spent. The input solution is returned unchanged if no improvement is
// found or the local search fails.
func Polish(problem Problem, start *Solution, maxEvaluations int) (*Solution, int, error) {
	if err := problem.Validate(); err != nil {
		return nil, 0, WrapError(err, "invalid problem").WithOperation("polish")
	}
	if start == nil || len(start.X) != problem.Dim {
		return nil, 0, NewError("starting solution does not match problem dimensionality").
			WithOperation("polish")
	}
	if maxEvaluations <= 0 {
		maxEvaluations = 100 * problem.Dim
	}

	spent := 0
	clamped := make([]float64, problem.Dim)
	p := optimize.Problem{
		Func: func(x []float64) float64 {
			// project into the box without touching the optimizer's copy
			for i := range x {
				clamped[i] = math.Max(problem.Lower[i], math.Min(x[i], problem.Upper[i]))
			}
			spent++
			y, err := problem.Objective(clamped)
			if err != nil {
				return math.Inf(1)
			}
			return y
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 50,
		},
	}

	initial := append([]float64(nil), start.X...)
	result, err := optimize.Minimize(p, initial, settings, &optimize.NelderMead{})
	if err != nil || result == nil || result.F >= start.Y {
		return start.Clone(), spent, nil
	}
	refined := make([]float64, problem.Dim)
	for i, v := range result.X {
		refined[i] = math.Max(problem.Lower[i], math.Min(v, problem.Upper[i]))
	}
	return &Solution{X: refined, Y: result.F}, spent, nil
}
