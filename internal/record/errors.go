package record

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIO indicates the record location could not be read.
	ErrIO = errors.New("record: unreadable")

	// ErrParse indicates malformed content or a field of the wrong type.
	ErrParse = errors.New("record: malformed")

	// ErrMissingField indicates a required key is absent.
	ErrMissingField = errors.New("record: missing field")
)

type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("record: reading %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the ErrIO kind and the underlying os error.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// ParseError reports malformed content. Field is empty when the record as a
// whole is not a JSON object.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record: not a JSON object: %v", e.Err)
	}
	return fmt.Sprintf("record: field %q: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Cause returns the decoding failure behind the error.
func (e *ParseError) Cause() error {
	return e.Err
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record: missing required key %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
