package optimization

// restartPolicy is the two-state controller deciding when the search has
// stagnated and the strategy should be reinitialized. It watches the step
// size for collapse and the best-so-far fitness for a plateau over a bounded
// window of generations. Cumulative run counters are never its concern;
// the engine preserves those across restarts.
type restartPolicy struct {
	sigmaThreshold float64
	stagnation     int
	fitnessDiff    float64

	// best-so-far fitness per generation, trimmed to stagnation+1 entries
	// so the head is exactly the value from stagnation generations ago.
	history []float64
}

func newRestartPolicy(opts Options, initialBest float64) *restartPolicy {
	return &restartPolicy{
		sigmaThreshold: opts.SigmaThreshold,
		stagnation:     opts.Stagnation,
		fitnessDiff:    opts.FitnessDiff,
		history:        append(make([]float64, 0, opts.Stagnation+1), initialBest),
	}
}

// observe records the best-so-far fitness at the end of a generation.
func (p *restartPolicy) observe(bestSoFar float64) {
	p.history = append(p.history, bestSoFar)
	if n := len(p.history); n > p.stagnation+1 {
		p.history = p.history[n-(p.stagnation+1):]
	}
}

// shouldRestart reports whether the controller transitions to
// restart-pending: the step size collapsed, or a full stagnation window
// passed with the improvement strictly below the plateau threshold.
func (p *restartPolicy) shouldRestart(sigma float64) bool {
	if sigma < p.sigmaThreshold {
		return true
	}
	if len(p.history) > p.stagnation {
		return p.history[0]-p.history[len(p.history)-1] < p.fitnessDiff
	}
	return false
}

// reset clears the plateau window after a restart, seeding it with the
// current best-so-far so the next window is measured from here.
func (p *restartPolicy) reset(bestSoFar float64) {
	p.history = append(p.history[:0], bestSoFar)
}
