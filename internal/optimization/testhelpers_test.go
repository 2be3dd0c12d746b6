package optimization

// Test objectives live here rather than importing the benchmarks package,
// which depends on this one.

func sphere(x []float64) (float64, error) {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// countingObjective counts gate calls so tests can compare against the
// engine's evaluation counter.
type countingObjective struct {
	calls int
}

func (c *countingObjective) fn(x []float64) (float64, error) {
	c.calls++
	return sphere(x)
}

// linearStrategy is a minimal strategy for exercising the engine alone:
// each generation evaluates a fixed number of perturbed candidates and
// keeps sigma constant unless a test shrinks it.
type linearStrategy struct {
	perGeneration int
	sigma         float64
	decay         float64 // sigma *= decay per generation, 1 = constant
	mean          []float64
	genBest       float64
	initCount     int
	restartCount  int
}

func (l *linearStrategy) Name() string { return "linear" }

func (l *linearStrategy) Initialize(run *Run, restart bool) error {
	l.initCount++
	if restart {
		l.restartCount++
	}
	l.sigma = run.Options().Sigma
	l.mean = run.InitialMean(restart)
	y, err := run.Evaluate(l.mean)
	if err != nil {
		return err
	}
	l.genBest = y
	return nil
}

func (l *linearStrategy) Iterate(run *Run) error {
	for k := 0; k < l.perGeneration; k++ {
		if run.Terminated() {
			return nil
		}
		x := make([]float64, len(l.mean))
		for j := range x {
			x[j] = l.mean[j] + l.sigma*run.Sampler().Normal()
		}
		y, err := run.Evaluate(x)
		if err != nil {
			return err
		}
		if y < l.genBest {
			l.genBest = y
			copy(l.mean, x)
		}
	}
	return nil
}

func (l *linearStrategy) UpdateDistribution(run *Run) {
	if l.decay > 0 {
		l.sigma *= l.decay
	}
}

func (l *linearStrategy) Sigma() float64 { return l.sigma }

func (l *linearStrategy) GenerationBest() float64 { return l.genBest }
