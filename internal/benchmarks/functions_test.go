package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalMinima(t *testing.T) {
	tests := []struct {
		name string
		fn   func([]float64) (float64, error)
		x    []float64
	}{
		{"sphere", Sphere, []float64{0, 0, 0}},
		{"rosenbrock", Rosenbrock, []float64{1, 1}},
		{"rosenbrock-5d", Rosenbrock, []float64{1, 1, 1, 1, 1}},
		{"rastrigin", Rastrigin, []float64{0, 0}},
		{"ackley", Ackley, []float64{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := tt.fn(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, 0.0, y, 1e-9)
		})
	}
}

func TestKnownValues(t *testing.T) {
	y, err := Sphere([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 14.0, y)

	y, err = Rosenbrock([]float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, 100.0*36.0+4.0, y)

	// cos(pi) = -1 at both coordinates: 20 + 2*(0.25 + 10)
	y, err = Rastrigin([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 40.5, y, 1e-9)
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		fn, ok := Lookup(name)
		require.True(t, ok)
		require.NotNil(t, fn)
	}
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}
