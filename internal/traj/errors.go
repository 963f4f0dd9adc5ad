package traj

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrShape indicates an array whose length is inconsistent with its
// declared dimension.
var ErrShape = errors.New("traj: shape mismatch")

// ShapeError names the offending array together with the expected and
// actual lengths. When Multiple is set, Expected is the chunk size the
// length should be divisible by.
type ShapeError struct {
	Field    string
	Expected int
	Actual   int
	Multiple bool
}

func (e *ShapeError) Error() string {
	if e.Multiple {
		return fmt.Sprintf("traj: %s length %d is not a multiple of %d", e.Field, e.Actual, e.Expected)
	}
	return fmt.Sprintf("traj: %s has length %d, want %d", e.Field, e.Actual, e.Expected)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}
