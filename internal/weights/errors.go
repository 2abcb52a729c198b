package weights

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnbalanced reports a weight set that breaks the sum or bounds invariant.
	ErrUnbalanced = errors.New("unbalanced weight set")
)

// InvalidArgumentError is returned when a weight count cannot produce a valid set.
type InvalidArgumentError struct {
	Count  int
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid weight count %d: %s", e.Count, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
