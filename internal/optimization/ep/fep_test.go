package ep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvekit/evoq/internal/benchmarks"
	"github.com/evolvekit/evoq/internal/optimization"
)

func sphereProblem(dim int) optimization.Problem {
	lower, upper := optimization.UniformBounds(dim, -5, 5)
	return optimization.Problem{
		Objective: benchmarks.Sphere,
		Dim:       dim,
		Lower:     lower,
		Upper:     upper,
	}
}

func TestFastSphereConvergence(t *testing.T) {
	engine, err := optimization.NewEngine(sphereProblem(2), NewFast(), optimization.Options{
		MaxFunctionEvaluations: 5000,
		Seed:                   2022,
		Sigma:                  0.5,
		NIndividuals:           50,
	}, nil)
	require.NoError(t, err)

	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5000, res.NFunctionEvaluations)
	assert.Less(t, res.BestY, 1.0)
}

func TestFastDeterminism(t *testing.T) {
	runOnce := func() *optimization.Results {
		engine, err := optimization.NewEngine(sphereProblem(3), NewFast(), optimization.Options{
			MaxFunctionEvaluations: 1500,
			Seed:                   99,
			Sigma:                  0.5,
			NIndividuals:           20,
		}, nil)
		require.NoError(t, err)
		res, err := engine.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := runOnce(), runOnce()
	assert.Equal(t, a.BestX, b.BestX)
	assert.Equal(t, a.BestY, b.BestY)
	assert.Equal(t, a.NGenerations, b.NGenerations)
	assert.Equal(t, a.NFunctionEvaluations, b.NFunctionEvaluations)
}

func TestFastBudgetSmallerThanPopulation(t *testing.T) {
	// initialization alone would need 30 evaluations; the gate must stop
	// it at the budget
	calls := 0
	problem := sphereProblem(2)
	problem.Objective = func(x []float64) (float64, error) {
		calls++
		return benchmarks.Sphere(x)
	}

	engine, err := optimization.NewEngine(problem, NewFast(), optimization.Options{
		MaxFunctionEvaluations: 12,
		Seed:                   5,
		Sigma:                  0.5,
		NIndividuals:           30,
	}, nil)
	require.NoError(t, err)

	res, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, res.NFunctionEvaluations)
	assert.Equal(t, 12, calls)
}

func TestFastSelectionKeepsBest(t *testing.T) {
	// with Q opponents drawn from the merged pool, the global best member
	// wins every comparison and must survive selection
	engine, err := optimization.NewEngine(sphereProblem(2), NewFast(), optimization.Options{
		MaxFunctionEvaluations: 600,
		Seed:                   42,
		Sigma:                  0.5,
		NIndividuals:           20,
	}, nil)
	require.NoError(t, err)

	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	// the best-so-far can only have improved from the initial population
	first, _ := benchmarks.Sphere(res.BestX)
	assert.Equal(t, first, res.BestY)
	assert.GreaterOrEqual(t, res.NGenerations, 1)
}
