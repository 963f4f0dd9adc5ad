package kinematics

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLookup indicates an unknown frame or geometry name.
	ErrLookup = errors.New("kinematics: unknown name")

	// ErrIndex indicates a frame or geometry index outside the model.
	ErrIndex = errors.New("kinematics: index out of range")

	// ErrNoWorkspace indicates an evaluation call without scratch buffers.
	ErrNoWorkspace = errors.New("kinematics: nil workspace")
)

type LookupError struct {
	Kind string
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("kinematics: unknown %s %q", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error {
	return ErrLookup
}

type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("kinematics: %s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndex
}
