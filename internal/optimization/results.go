package optimization

import "time"

// Results is the record returned by a completed run. It is a plain value:
// assembling it has no side effects, so collecting twice from the same
// accumulated state yields identical records.
type Results struct {
	Algorithm            string        `json:"algorithm"`
	BestX                []float64     `json:"best_so_far_x"`
	BestY                float64       `json:"best_so_far_y"`
	NFunctionEvaluations int           `json:"n_function_evaluations"`
	NGenerations         int           `json:"n_generations"`
	NRestarts            int           `json:"n_restarts"`
	Sigma                float64       `json:"sigma"`
	Runtime              time.Duration `json:"runtime"`
	Termination          string        `json:"termination"`

	// Fitness is the recorded series of evaluated fitness values, sampled
	// every RecordFitnessFrequency evaluations. Empty unless RecordFitness
	// was set.
	Fitness []float64 `json:"fitness,omitempty"`
}
