package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblemValidate(t *testing.T) {
	lower, upper := UniformBounds(3, -2, 2)

	tests := []struct {
		name    string
		problem Problem
		wantErr bool
	}{
		{
			name:    "valid",
			problem: Problem{Objective: sphere, Dim: 3, Lower: lower, Upper: upper},
		},
		{
			name:    "equal bounds allowed",
			problem: Problem{Objective: sphere, Dim: 1, Lower: []float64{1}, Upper: []float64{1}},
		},
		{
			name:    "nil objective",
			problem: Problem{Dim: 3, Lower: lower, Upper: upper},
			wantErr: true,
		},
		{
			name:    "zero dim",
			problem: Problem{Objective: sphere, Dim: 0, Lower: nil, Upper: nil},
			wantErr: true,
		},
		{
			name:    "negative dim",
			problem: Problem{Objective: sphere, Dim: -1, Lower: nil, Upper: nil},
			wantErr: true,
		},
		{
			name:    "bounds length mismatch",
			problem: Problem{Objective: sphere, Dim: 2, Lower: lower, Upper: upper},
			wantErr: true,
		},
		{
			name: "lower above upper",
			problem: Problem{Objective: sphere, Dim: 2,
				Lower: []float64{0, 3}, Upper: []float64{1, 2}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.problem.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUniformBounds(t *testing.T) {
	lower, upper := UniformBounds(4, -5, 5)
	assert.Len(t, lower, 4)
	assert.Len(t, upper, 4)
	for i := range lower {
		assert.Equal(t, -5.0, lower[i])
		assert.Equal(t, 5.0, upper[i])
	}
}
