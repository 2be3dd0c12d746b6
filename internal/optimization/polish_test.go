package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolishImprovesNearbyOptimum(t *testing.T) {
	problem := newTestProblem(sphere, 2)
	start := &Solution{X: []float64{0.5, -0.4}, Y: 0.41}

	refined, spent, err := Polish(problem, start, 500)
	require.NoError(t, err)
	assert.Greater(t, spent, 0)
	assert.LessOrEqual(t, refined.Y, start.Y)
}

func TestPolishKeepsStartOnNoImprovement(t *testing.T) {
	problem := newTestProblem(sphere, 2)
	start := &Solution{X: []float64{0, 0}, Y: 0}

	refined, _, err := Polish(problem, start, 100)
	require.NoError(t, err)
	assert.Equal(t, start.X, refined.X)
	assert.Equal(t, start.Y, refined.Y)
}

func TestPolishRejectsDimensionMismatch(t *testing.T) {
	problem := newTestProblem(sphere, 3)
	_, _, err := Polish(problem, &Solution{X: []float64{1, 2}, Y: 5}, 100)
	assert.Error(t, err)
}
