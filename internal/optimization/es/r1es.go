package es

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/evolvekit/evoq/internal/optimization"
)

// RankOne is a rank-one evolution strategy: a low-rank variant of
// covariance matrix adaptation that maintains a single principal search
// direction instead of a full covariance matrix. It works well when the
// landscape has one dominant search axis and stays cheap in high dimension.
//
// Step-size control uses a rank-based success rule: the combined ranks of
// the previous and current parent fitness values yield a success signal
// that is smoothed into a cumulative rank rate driving multiplicative sigma
// updates. On restart the damping d_sigma doubles, making step-size control
// progressively more conservative across restarts.
type RankOne struct {
	// resolved once, on the first Initialize
	dim        int
	lambda     int
	mu         int
	cCov       float64
	c          float64
	cS         float64
	qStar      float64
	dSigma     float64
	w          []float64
	x1, x2     float64 // sqrt(1-cCov), sqrt(cCov)
	p1, p2     float64 // 1-c, sqrt(c*(2-c)*muEff)
	configured bool

	// distribution state, reset wholesale on restart
	sigma float64
	mean  []float64
	path  []float64 // principal search direction
	s     float64   // cumulative rank rate
	pop   [][]float64
	y     []float64
	yPrev []float64
}

// NewRankOne returns an unconfigured strategy; parameters are resolved from
// the engine's options on the first Initialize.
func NewRankOne() *RankOne { return &RankOne{} }

func (r *RankOne) Name() string { return "r1es" }

func (r *RankOne) configure(run *optimization.Run) {
	opts := run.Options()
	r.dim = run.Problem().Dim
	r.lambda = opts.NIndividuals
	r.mu = opts.NParents
	r.cCov = opts.CCov
	r.c = opts.C
	r.cS = opts.CS
	r.qStar = opts.QStar
	r.dSigma = opts.DSigma

	var muEff float64
	r.w, muEff = recombinationWeights(r.lambda, r.mu)
	r.x1 = math.Sqrt(1.0 - r.cCov)
	r.x2 = math.Sqrt(r.cCov)
	r.p1 = 1.0 - r.c
	r.p2 = math.Sqrt(r.c * (2.0 - r.c) * muEff)
	r.configured = true
}

// Initialize resets the search distribution: principal direction to zero,
// cumulative rank rate to zero, mean to the starting point, and seeds every
// fitness slot with the mean's fitness (one evaluation through the gate).
func (r *RankOne) Initialize(run *optimization.Run, restart bool) error {
	if !r.configured {
		r.configure(run)
	}
	if restart {
		r.dSigma *= 2.0
	}

	r.sigma = run.Options().Sigma
	r.mean = run.InitialMean(restart)
	r.path = make([]float64, r.dim)
	r.s = 0.0
	r.pop = make([][]float64, r.lambda)
	for k := range r.pop {
		r.pop[k] = make([]float64, r.dim)
	}
	r.y = make([]float64, r.lambda)
	r.yPrev = make([]float64, r.lambda)

	y0, err := run.Evaluate(r.mean)
	if err != nil {
		return err
	}
	for k := range r.y {
		r.y[k] = y0
	}
	return nil
}

// Iterate samples and evaluates one generation of offspring around the
// current mean, each candidate mean + sigma*(sqrt(1-cCov)*z + sqrt(cCov)*r*p)
// with z a standard normal vector and r a standard normal scalar. The loop
// short-circuits once the budget gate closes, leaving the remaining slots
// at their previous values.
func (r *RankOne) Iterate(run *optimization.Run) error {
	copy(r.yPrev, r.y)
	rng := run.Sampler()
	z := make([]float64, r.dim)
	for k := 0; k < r.lambda; k++ {
		if run.Terminated() {
			return nil
		}
		rng.FillNormal(z)
		rv := rng.Normal()
		for j := 0; j < r.dim; j++ {
			r.pop[k][j] = r.mean[j] + r.sigma*(r.x1*z[j]+r.x2*rv*r.path[j])
		}
		y, err := run.Evaluate(r.pop[k])
		if err != nil {
			return err
		}
		r.y[k] = y
	}
	return nil
}

// UpdateDistribution recombines the top mu offspring into the new mean,
// smooths the principal direction toward the mean shift, and adapts sigma
// through the rank-based success rule.
func (r *RankOne) UpdateDistribution(run *optimization.Run) {
	order := make([]int, r.lambda)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return r.y[order[a]] < r.y[order[b]] })
	sort.Float64s(r.y)

	meanW := make([]float64, r.dim)
	for k := 0; k < r.mu; k++ {
		floats.AddScaled(meanW, r.w[k], r.pop[order[k]])
	}
	for j := 0; j < r.dim; j++ {
		r.path[j] = r.p1*r.path[j] + r.p2*(meanW[j]-r.mean[j])/r.sigma
	}
	r.mean = meanW

	q := r.rankSuccess()
	r.s = (1.0-r.cS)*r.s + r.cS*(q-r.qStar)
	r.sigma *= math.Exp(r.s / r.dSigma)
}

// rankSuccess compares the combined ranks of the previous and current
// parent fitness values, a Mann-Whitney style statistic over 2*mu entries.
// The sort is stable, so tied values keep their combined order and resolve
// in favor of the previous generation.
func (r *RankOne) rankSuccess() float64 {
	combined := make([]float64, 0, 2*r.mu)
	combined = append(combined, r.yPrev[:r.mu]...)
	combined = append(combined, r.y[:r.mu]...)

	idx := make([]int, len(combined))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return combined[idx[a]] < combined[idx[b]] })

	prev := make([]float64, 0, r.mu)
	curr := make([]float64, 0, r.mu)
	for pos, i := range idx {
		rank := float64(pos + 1)
		if i < r.mu {
			prev = append(prev, rank)
		} else {
			curr = append(curr, rank)
		}
	}

	var q float64
	for k := 0; k < r.mu; k++ {
		q += r.w[k] * (prev[k] - curr[k])
	}
	return q / float64(r.mu)
}

func (r *RankOne) Sigma() float64 { return r.sigma }

func (r *RankOne) GenerationBest() float64 { return floats.Min(r.y) }
