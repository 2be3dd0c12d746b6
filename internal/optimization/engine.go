package optimization

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/evolvekit/evoq/internal/logging"
)

// Engine drives a Strategy through the shared optimizer lifecycle: it owns
// the termination state machine, the single evaluation gate, best-so-far
// tracking, fitness recording, verbose reporting and the restart controller.
// Exactly one goroutine owns and mutates the run state for the duration of
// Run; the small mutex only serves concurrent progress reads.
type Engine struct {
	problem  Problem
	opts     Options
	strategy Strategy
	source   *Source
	logger   *logging.Logger

	mu           sync.RWMutex
	best         *Solution
	nEvaluations int

	nGenerations int
	nRestarts    int
	termination  Termination
	startTime    time.Time
	restart      *restartPolicy
	recorded     []float64
}

// NewEngine validates the problem and options, resolves defaults and seeds
// the two random streams. logger may be nil to disable progress output.
func NewEngine(problem Problem, strategy Strategy, opts Options, logger *logging.Logger) (*Engine, error) {
	if err := problem.Validate(); err != nil {
		return nil, WrapError(err, "invalid problem").WithComponent(strategy.Name())
	}
	resolved, err := opts.resolve(problem.Dim)
	if err != nil {
		return nil, WrapError(err, "invalid options").WithComponent(strategy.Name())
	}
	return &Engine{
		problem:  problem,
		opts:     resolved,
		strategy: strategy,
		source:   NewSource(resolved.Seed),
		logger:   logger,
		best:     &Solution{Y: math.Inf(1)},
	}, nil
}

// Options returns the fully resolved options of this engine.
func (e *Engine) Options() Options { return e.opts }

// Run executes the optimization loop. Context cancellation is polled once
// per generation; budget exhaustion is polled before every evaluation via
// the gate. An objective error aborts the run and propagates unchanged in
// the wrap chain; whatever accumulated in the engine stays readable through
// Best and Evaluations.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	e.startTime = time.Now()

	run := &Run{engine: e}
	if err := e.strategy.Initialize(run, false); err != nil {
		return nil, err
	}
	e.restart = newRestartPolicy(e.opts, e.Best().Y)
	e.reportProgress()

	for {
		select {
		case <-ctx.Done():
			e.termination = Cancelled
		default:
		}
		if e.termination == Cancelled {
			break
		}

		if err := e.strategy.Iterate(run); err != nil {
			return nil, err
		}
		if e.checkTerminations() {
			break
		}

		e.strategy.UpdateDistribution(run)
		e.nGenerations++
		e.restart.observe(e.Best().Y)
		e.reportProgress()

		if e.restart.shouldRestart(e.strategy.Sigma()) {
			e.nRestarts++
			e.restart.reset(e.Best().Y)
			if e.logger != nil {
				e.logger.Info("restarting strategy", map[string]interface{}{
					"algorithm":     e.strategy.Name(),
					"n_restarts":    e.nRestarts,
					"n_evaluations": e.Evaluations(),
					"best_so_far_y": e.Best().Y,
				})
			}
			if err := e.strategy.Initialize(run, true); err != nil {
				return nil, err
			}
		}
	}

	return e.collectResults(), nil
}

// Best returns a copy of the best solution observed so far.
func (e *Engine) Best() *Solution {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.best.Clone()
}

// Evaluations returns the cumulative number of objective evaluations.
func (e *Engine) Evaluations() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nEvaluations
}

// checkTerminations is the sole admission-control gate: once it reports
// true, no further objective evaluation is permitted for the rest of the
// run. Strategies poll it (through Run.Terminated) before each evaluation.
func (e *Engine) checkTerminations() bool {
	if e.termination != NotTerminated {
		return true
	}
	if e.opts.MaxFunctionEvaluations > 0 && e.Evaluations() >= e.opts.MaxFunctionEvaluations {
		e.termination = MaxEvaluations
		return true
	}
	if e.opts.MaxRuntime > 0 && time.Since(e.startTime) >= e.opts.MaxRuntime {
		e.termination = MaxRuntime
		return true
	}
	return false
}

// evaluate is the single point of contact with the objective function.
// Every call increments the counter by exactly one and updates best-so-far
// atomically, so budget accounting can never be bypassed.
func (e *Engine) evaluate(x []float64) (float64, error) {
	y, err := e.problem.Objective(x)
	if err != nil {
		return 0, WrapError(err, "objective evaluation failed").
			WithOperation("evaluate").WithComponent(e.strategy.Name())
	}

	e.mu.Lock()
	e.nEvaluations++
	n := e.nEvaluations
	if y < e.best.Y {
		e.best = &Solution{X: append([]float64(nil), x...), Y: y}
	}
	e.mu.Unlock()

	if e.opts.RecordFitness && n%e.opts.RecordFitnessFrequency == 0 {
		e.recorded = append(e.recorded, y)
	}
	return y, nil
}

// collectResults assembles the final record from accumulated state. It is
// read-only and idempotent.
func (e *Engine) collectResults() *Results {
	best := e.Best()
	res := &Results{
		Algorithm:            e.strategy.Name(),
		BestX:                best.X,
		BestY:                best.Y,
		NFunctionEvaluations: e.Evaluations(),
		NGenerations:         e.nGenerations,
		NRestarts:            e.nRestarts,
		Sigma:                e.strategy.Sigma(),
		Runtime:              time.Since(e.startTime),
		Termination:          e.termination.String(),
	}
	if len(e.recorded) > 0 {
		res.Fitness = append([]float64(nil), e.recorded...)
	}
	return res
}

func (e *Engine) reportProgress() {
	if e.logger == nil || !e.opts.Verbose {
		return
	}
	if e.nGenerations%e.opts.VerboseFrequency != 0 {
		return
	}
	e.logger.Info("generation", map[string]interface{}{
		"algorithm":     e.strategy.Name(),
		"generation":    e.nGenerations,
		"best_so_far_y": e.Best().Y,
		"min_y":         e.strategy.GenerationBest(),
		"n_evaluations": e.Evaluations(),
	})
}

// Run is the handle a Strategy uses to reach the engine's shared services.
type Run struct {
	engine *Engine
}

// Problem returns the problem descriptor.
func (r *Run) Problem() Problem { return r.engine.problem }

// Options returns the resolved options.
func (r *Run) Options() Options { return r.engine.opts }

// Evaluate routes one candidate through the engine's evaluation gate.
func (r *Run) Evaluate(x []float64) (float64, error) { return r.engine.evaluate(x) }

// Terminated reports whether the budget gate has closed. Strategies must
// poll this before each evaluation and short-circuit their generation when
// it fires; partial generations are kept.
func (r *Run) Terminated() bool { return r.engine.checkTerminations() }

// InitStream is the stream reserved for drawing starting points.
func (r *Run) InitStream() *Stream { return r.engine.source.Init }

// Sampler is the stream driving the optimization loop's perturbations.
func (r *Run) Sampler() *Stream { return r.engine.source.Opt }

// InitialMean yields the starting point for a (re)initialization: the
// user-supplied point on a fresh run if one was given, otherwise a uniform
// draw within the bounds. Restarts always resample.
func (r *Run) InitialMean(restart bool) []float64 {
	e := r.engine
	if !restart && e.opts.Mean != nil {
		return append([]float64(nil), e.opts.Mean...)
	}
	return e.source.Init.Uniform(e.problem.Lower, e.problem.Upper)
}

// BestY returns the current best-so-far fitness.
func (r *Run) BestY() float64 { return r.engine.Best().Y }
