package optimization

// Termination enumerates why a run stopped. The zero value means the run is
// still admissible for further evaluations.
type Termination int

const (
	// NotTerminated means the budget gate is still open.
	NotTerminated Termination = iota
	// MaxEvaluations means the function-evaluation budget is exhausted.
	MaxEvaluations
	// MaxRuntime means the wall-clock budget is exhausted.
	MaxRuntime
	// Cancelled means the caller cancelled the run via its context.
	Cancelled
)

var terminationStrings = map[Termination]string{
	NotTerminated:  "NotTerminated",
	MaxEvaluations: "MaxFunctionEvaluations",
	MaxRuntime:     "MaxRuntimeElapsed",
	Cancelled:      "Cancelled",
}

func (t Termination) String() string {
	s, ok := terminationStrings[t]
	if !ok {
		return "UnknownTermination"
	}
	return s
}
