package dn

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed names. Every finer-grained sentinel matches
// ErrInvalidName through errors.Is.
var (
	ErrInvalidName = errors.New("dn: invalid name")

	ErrUnbalancedQuote = fmt.Errorf("%w: unbalanced quote", ErrInvalidName)
	ErrInvalidEscape   = fmt.Errorf("%w: invalid escape sequence", ErrInvalidName)
	ErrEmptyAttribute  = fmt.Errorf("%w: empty attribute type", ErrInvalidName)
	ErrEmptyValue      = fmt.Errorf("%w: empty attribute value", ErrInvalidName)
	ErrInvalidUTF8     = fmt.Errorf("%w: escaped octets are not valid UTF-8", ErrInvalidName)
	ErrIndexOutOfRange = fmt.Errorf("%w: element index out of range", ErrInvalidName)
	ErrNotSubordinate  = fmt.Errorf("%w: name is not below the given base", ErrInvalidName)
)

// NameError describes a failure on a specific name string.
type NameError struct {
	// Op is the operation that failed, e.g. "parse" or "unescape".
	Op string
	// Name is the offending input.
	Name string
	// Pos is the byte offset of the problem, or -1 when unknown.
	Pos int
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *NameError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("dn %s %q at offset %d: %v", e.Op, e.Name, e.Pos, e.Err)
	}
	return fmt.Sprintf("dn %s %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *NameError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a NameError for the same operation and cause,
// or the wrapped sentinel matches target.
func (e *NameError) Is(target error) bool {
	if other, ok := target.(*NameError); ok {
		return e.Op == other.Op && errors.Is(e.Err, other.Err)
	}
	return errors.Is(e.Err, target)
}

func nameError(op, name string, pos int, err error) error {
	return &NameError{Op: op, Name: name, Pos: pos, Err: err}
}
