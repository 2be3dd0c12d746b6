// Package benchmarks provides the named test objectives the service and
// the regression tests minimize. All functions are total over R^n and their
// global minimum value is 0.
package benchmarks

import (
	"math"
	"sort"

	"github.com/evolvekit/evoq/internal/optimization"
)

// Sphere is sum(x_i^2), minimum at the origin.
func Sphere(x []float64) (float64, error) {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// Rosenbrock is the banana-valley function, minimum at (1, ..., 1).
func Rosenbrock(x []float64) (float64, error) {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1.0 - x[i]
		sum += 100.0*a*a + b*b
	}
	return sum, nil
}

// Rastrigin is highly multimodal with a regular grid of local minima,
// minimum at the origin.
func Rastrigin(x []float64) (float64, error) {
	sum := 10.0 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10.0*math.Cos(2.0*math.Pi*v)
	}
	return sum, nil
}

// Ackley has a nearly flat outer region and a deep hole at the origin.
func Ackley(x []float64) (float64, error) {
	n := float64(len(x))
	var sq, cs float64
	for _, v := range x {
		sq += v * v
		cs += math.Cos(2.0 * math.Pi * v)
	}
	return -20.0*math.Exp(-0.2*math.Sqrt(sq/n)) - math.Exp(cs/n) + 20.0 + math.E, nil
}

var registry = map[string]optimization.ObjectiveFunction{
	"sphere":     Sphere,
	"rosenbrock": Rosenbrock,
	"rastrigin":  Rastrigin,
	"ackley":     Ackley,
}

// Lookup resolves an objective by name.
func Lookup(name string) (optimization.ObjectiveFunction, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names lists the registered objectives in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
