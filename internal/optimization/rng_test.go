package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamReproducibility(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Normal(), b.Normal())
		assert.Equal(t, a.Cauchy(), b.Cauchy())
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestStreamSeedsDiffer(t *testing.T) {
	a := NewStream(1)
	b := NewStream(2)
	same := true
	for i := 0; i < 16; i++ {
		if a.Normal() != b.Normal() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should yield different sequences")
}

func TestSourceStreamIndependence(t *testing.T) {
	// consuming one stream must not perturb the other, otherwise restart
	// resampling would depend on how many loop draws preceded it
	a := NewSource(99)
	b := NewSource(99)
	for i := 0; i < 1000; i++ {
		a.Opt.Normal()
	}
	lower, upper := UniformBounds(5, -1, 1)
	assert.Equal(t, b.Init.Uniform(lower, upper), a.Init.Uniform(lower, upper))
}

func TestUniformWithinBounds(t *testing.T) {
	s := NewStream(7)
	lower := []float64{-3, 0, 10}
	upper := []float64{-1, 2, 10}
	for i := 0; i < 200; i++ {
		x := s.Uniform(lower, upper)
		require.Len(t, x, 3)
		for j := range x {
			assert.GreaterOrEqual(t, x[j], lower[j])
			assert.LessOrEqual(t, x[j], upper[j])
		}
	}
}

func TestFillNormalMoments(t *testing.T) {
	s := NewStream(123)
	n := 20000
	buf := make([]float64, n)
	s.FillNormal(buf)

	var sum, sq float64
	for _, v := range buf {
		sum += v
		sq += v * v
	}
	mean := sum / float64(n)
	variance := sq/float64(n) - mean*mean
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.05)
}

func TestCauchyHasHeavyTails(t *testing.T) {
	s := NewStream(55)
	n := 20000
	extreme := 0
	for i := 0; i < n; i++ {
		if math.Abs(s.Cauchy()) > 10 {
			extreme++
		}
	}
	// P(|C| > 10) is about 6.3% for a standard Cauchy; a Gaussian would
	// essentially never get there
	assert.Greater(t, extreme, n/50)
}

func TestCauchyQuartiles(t *testing.T) {
	// the standard Cauchy has quartiles at -1 and 1: P(C < 1) = 0.75
	s := NewStream(321)
	n := 20000
	below := 0
	for i := 0; i < n; i++ {
		if s.Cauchy() < 1.0 {
			below++
		}
	}
	assert.InDelta(t, 0.75, float64(below)/float64(n), 0.02)
}

func TestChoiceBoundsAndCount(t *testing.T) {
	s := NewStream(9)
	idx := s.Choice(20, 500)
	require.Len(t, idx, 500)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 20)
	}
}
