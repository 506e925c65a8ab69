package vm

import (
	"errors"
	"testing"
)

func TestInterpreterError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *InterpreterError
		expected string
	}{
		{
			name:     "bare sentinel",
			err:      NewInterpreterError(ErrStackUnderflow, ""),
			expected: "tracevm: pop from empty operand stack",
		},
		{
			name:     "with message",
			err:      NewInterpreterError(ErrArrayIndexOutOfRange, "index %d, len %d", 5, 3),
			expected: "tracevm: array index out of range: index 5, len 3",
		},
		{
			name:     "with position",
			err:      NewInterpreterError(ErrUnknownFunction, "target %q", "min").WithPosition("main", 18),
			expected: `tracevm: call target does not exist in module at main[18]: target "min"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInterpreterError_Unwrap(t *testing.T) {
	err := NewInterpreterError(ErrMissingMain, "module %q", "demo")
	if !errors.Is(err, ErrMissingMain) {
		t.Errorf("errors.Is(err, ErrMissingMain) = false, want true")
	}
	if errors.Is(err, ErrStackUnderflow) {
		t.Errorf("errors.Is(err, ErrStackUnderflow) = true, want false")
	}
}
