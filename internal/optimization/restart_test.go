package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRestartOptions(stagnation int) Options {
	opts, err := Options{Seed: 1, Sigma: 1, Stagnation: stagnation}.resolve(2)
	if err != nil {
		panic(err)
	}
	return opts
}

func TestRestartOnSigmaCollapse(t *testing.T) {
	p := newRestartPolicy(testRestartOptions(5), 100.0)
	assert.False(t, p.shouldRestart(1.0))
	assert.True(t, p.shouldRestart(1e-11))
}

func TestRestartOnPlateau(t *testing.T) {
	p := newRestartPolicy(testRestartOptions(4), 10.0)

	// window not yet full
	for i := 0; i < 3; i++ {
		p.observe(10.0)
		assert.False(t, p.shouldRestart(1.0), "window must fill before plateau fires")
	}
	p.observe(10.0)
	assert.True(t, p.shouldRestart(1.0))
}

func TestRestartImprovementDefersPlateau(t *testing.T) {
	p := newRestartPolicy(testRestartOptions(3), 10.0)
	p.observe(9.0)
	p.observe(8.0)
	p.observe(7.0)
	// improvement of 3 over the window, far above the plateau threshold
	assert.False(t, p.shouldRestart(1.0))
}

func TestRestartThresholdIsStrict(t *testing.T) {
	opts, err := Options{Seed: 1, Sigma: 1, Stagnation: 3, FitnessDiff: 0.5}.resolve(2)
	require.NoError(t, err)

	p := newRestartPolicy(opts, 10.0)
	p.observe(10.0)
	p.observe(10.0)
	p.observe(9.5)
	// improvement over the window equals the threshold exactly: not a plateau
	assert.False(t, p.shouldRestart(1.0))

	p.observe(9.5)
	p.observe(9.5)
	p.observe(9.5)
	// window now holds only 9.5, improvement 0 is below the threshold
	assert.True(t, p.shouldRestart(1.0))
}

func TestRestartWindowIsBounded(t *testing.T) {
	opts := testRestartOptions(4)
	p := newRestartPolicy(opts, 10.0)
	for i := 0; i < 100; i++ {
		p.observe(10.0)
	}
	require.LessOrEqual(t, len(p.history), opts.Stagnation+1)
}

func TestRestartResetClearsWindow(t *testing.T) {
	p := newRestartPolicy(testRestartOptions(3), 10.0)
	for i := 0; i < 10; i++ {
		p.observe(10.0)
	}
	require.True(t, p.shouldRestart(1.0))

	p.reset(10.0)
	assert.False(t, p.shouldRestart(1.0), "a fresh window starts after reset")
}
