// Package ep contains evolutionary programming variants for the
// optimization engine.
package ep

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/evolvekit/evoq/internal/optimization"
)

// Fast is fast evolutionary programming: every individual carries its own
// per-dimension step sizes, offspring are produced by Cauchy mutation (the
// heavy tails help escape poor regions), and survivors are picked by a
// stochastic pairwise tournament against Q random opponents drawn with
// replacement from the merged parent and offspring pool.
type Fast struct {
	dim        int
	lambda     int
	q          int
	tau        float64
	tauPrime   float64
	sigma0     float64
	configured bool

	x      [][]float64
	sigmas [][]float64
	y      []float64

	offX      [][]float64
	offSigmas [][]float64
	offY      []float64
}

// NewFast returns an unconfigured strategy; parameters are resolved from the
// engine's options on the first Initialize.
func NewFast() *Fast { return &Fast{} }

func (f *Fast) Name() string { return "fep" }

func (f *Fast) configure(run *optimization.Run) {
	opts := run.Options()
	f.dim = run.Problem().Dim
	f.lambda = opts.NIndividuals
	f.q = opts.Q
	f.tau = opts.Tau
	f.tauPrime = opts.TauPrime
	f.sigma0 = opts.Sigma
	f.configured = true
}

// Initialize draws a fresh uniform population within the bounds, resets
// every individual's step sizes to the initial sigma, and evaluates the
// population through the gate, stopping early if the budget closes.
func (f *Fast) Initialize(run *optimization.Run, restart bool) error {
	if !f.configured {
		f.configure(run)
	}

	problem := run.Problem()
	f.x = make([][]float64, f.lambda)
	f.sigmas = make([][]float64, f.lambda)
	f.y = make([]float64, f.lambda)
	f.offX = make([][]float64, f.lambda)
	f.offSigmas = make([][]float64, f.lambda)
	f.offY = make([]float64, f.lambda)

	for i := 0; i < f.lambda; i++ {
		f.x[i] = run.InitStream().Uniform(problem.Lower, problem.Upper)
		f.sigmas[i] = make([]float64, f.dim)
		for j := range f.sigmas[i] {
			f.sigmas[i][j] = f.sigma0
		}
		f.offX[i] = make([]float64, f.dim)
		f.offSigmas[i] = make([]float64, f.dim)
		f.y[i] = math.Inf(1)
	}
	for i := 0; i < f.lambda; i++ {
		if run.Terminated() {
			return nil
		}
		y, err := run.Evaluate(f.x[i])
		if err != nil {
			return err
		}
		f.y[i] = y
	}
	return nil
}

// Iterate mutates every parent into one offspring and then selects the next
// generation by pairwise tournament over the merged pool. Selection happens
// here, so UpdateDistribution is a no-op.
func (f *Fast) Iterate(run *optimization.Run) error {
	rng := run.Sampler()
	for i := 0; i < f.lambda; i++ {
		if run.Terminated() {
			return nil
		}
		for j := 0; j < f.dim; j++ {
			f.offX[i][j] = f.x[i][j] + f.sigmas[i][j]*rng.Cauchy()
			f.offSigmas[i][j] = f.sigmas[i][j] * math.Exp(
				f.tauPrime*rng.Normal()+f.tau*rng.Normal())
		}
		y, err := run.Evaluate(f.offX[i])
		if err != nil {
			return err
		}
		f.offY[i] = y
	}

	f.selectSurvivors(rng)
	return nil
}

// selectSurvivors scores every member of the merged pool by the number of
// wins against Q opponents drawn with replacement, then keeps the lambda
// highest scorers. The sort is stable, so equal win counts keep pool order.
func (f *Fast) selectSurvivors(rng *optimization.Stream) {
	n := 2 * f.lambda
	poolX := make([][]float64, 0, n)
	poolSigmas := make([][]float64, 0, n)
	poolY := make([]float64, 0, n)
	poolX = append(poolX, f.offX...)
	poolX = append(poolX, f.x...)
	poolSigmas = append(poolSigmas, f.offSigmas...)
	poolSigmas = append(poolSigmas, f.sigmas...)
	poolY = append(poolY, f.offY...)
	poolY = append(poolY, f.y...)

	wins := make([]int, n)
	for i := 0; i < n; i++ {
		for _, j := range rng.Choice(n, f.q) {
			if poolY[i] <= poolY[j] {
				wins[i]++
			}
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return wins[order[a]] > wins[order[b]] })

	// The pool rows alias the parent and offspring buffers, so survivors
	// are copied out before replacing the parent population.
	newX := make([][]float64, f.lambda)
	newSigmas := make([][]float64, f.lambda)
	newY := make([]float64, f.lambda)
	for i := 0; i < f.lambda; i++ {
		k := order[i]
		newX[i] = append([]float64(nil), poolX[k]...)
		newSigmas[i] = append([]float64(nil), poolSigmas[k]...)
		newY[i] = poolY[k]
	}
	f.x, f.sigmas, f.y = newX, newSigmas, newY
}

// UpdateDistribution is a no-op: selection is folded into Iterate.
func (f *Fast) UpdateDistribution(run *optimization.Run) {}

// Sigma reports the mean of all individual step sizes; with per-dimension
// self-adaptation this is the collapse signal the restart controller sees.
func (f *Fast) Sigma() float64 {
	if len(f.sigmas) == 0 {
		return f.sigma0
	}
	var sum float64
	for i := range f.sigmas {
		sum += floats.Sum(f.sigmas[i]) / float64(f.dim)
	}
	return sum / float64(len(f.sigmas))
}

func (f *Fast) GenerationBest() float64 { return floats.Min(f.y) }
