package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for kernel construction.
var (
	// ErrNonPositiveMass indicates an entity was given mass <= 0.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidField indicates malformed force field parameters.
	ErrInvalidField = errors.New("dynamo: invalid force field parameters")

	// ErrInvalidPolicy indicates a malformed boundary policy.
	ErrInvalidPolicy = errors.New("dynamo: invalid boundary policy")

	// ErrInvalidSystem indicates malformed particle system parameters.
	ErrInvalidSystem = errors.New("dynamo: invalid particle system parameters")

	// ErrInvalidConfig indicates a scene configuration that cannot be built.
	ErrInvalidConfig = errors.New("dynamo: invalid scene configuration")

	// ErrUnknownScene indicates a scene or preset name with no registration.
	ErrUnknownScene = errors.New("dynamo: unknown scene")
)

// PreconditionError is the panic value raised when a programmer error reaches
// the per-tick path, such as integrating an entity whose mass is not positive.
type PreconditionError struct {
	Op      string
	Detail  string
	Wrapped error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Wrapped)
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}

func precondition(op, detail string, err error) {
	panic(&PreconditionError{Op: op, Detail: detail, Wrapped: err})
}
