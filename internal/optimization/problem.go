package optimization

// Problem is an immutable description of a bound-constrained minimization
// problem: the objective, its dimensionality and the per-dimension search
// box. Construct it once and never mutate it.
type Problem struct {
	// Objective is the function to minimize.
	Objective ObjectiveFunction

	// Dim is the number of dimensions of the search space.
	Dim int

	// Lower and Upper are the element-wise bounds of the search box, each
	// of length Dim with Lower[i] <= Upper[i].
	Lower []float64
	Upper []float64
}

// Validate checks the problem description. It fails before any evaluation
// takes place: configuration errors are fatal, not recoverable.
func (p Problem) Validate() error {
	if p.Objective == nil {
		return NewError("objective function is required").WithOperation("validate")
	}
	if p.Dim <= 0 {
		return NewErrorf("dimensionality must be positive, got %d", p.Dim).WithOperation("validate")
	}
	if len(p.Lower) != p.Dim || len(p.Upper) != p.Dim {
		return NewErrorf("bounds length mismatch: dim=%d lower=%d upper=%d",
			p.Dim, len(p.Lower), len(p.Upper)).WithOperation("validate")
	}
	for i := range p.Lower {
		if p.Lower[i] > p.Upper[i] {
			return NewErrorf("inconsistent bounds at dimension %d: lower %v > upper %v",
				i, p.Lower[i], p.Upper[i]).WithOperation("validate")
		}
	}
	return nil
}

// UniformBounds builds a [lo, hi]^dim search box.
func UniformBounds(dim int, lo, hi float64) (lower, upper []float64) {
	lower = make([]float64, dim)
	upper = make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i], upper[i] = lo, hi
	}
	return lower, upper
}
