// Package es contains evolution strategy variants for the optimization
// engine.
package es

import "math"

// recombinationWeights builds the fixed, decreasing, normalized weights used
// to recombine the top mu of lambda offspring, w_k proportional to
// ln((lambda+1)/2) - ln k, together with the variance-effective selection
// mass 1/sum(w_k^2).
func recombinationWeights(lambda, mu int) (w []float64, muEff float64) {
	base := math.Log((float64(lambda) + 1.0) / 2.0)
	w = make([]float64, mu)
	var sum float64
	for k := range w {
		w[k] = base - math.Log(float64(k+1))
		sum += w[k]
	}
	var sq float64
	for k := range w {
		w[k] /= sum
		sq += w[k] * w[k]
	}
	return w, 1.0 / sq
}
