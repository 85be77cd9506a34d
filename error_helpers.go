package ldif

import "fmt"

// Error helper functions keep error construction consistent across the
// reader, writer and codec.

// lineError wraps err with the position of the offending line
func lineError(line int, text string, err error) error {
	return &ParseError{Line: line, Text: text, Err: err}
}

// renderError wraps err with the identity of the record being written
func renderError(r *Record, err error) error {
	name, ct := "", ChangeNone
	if r != nil {
		name, ct = r.DN.String(), r.ChangeType
	}
	return &RenderError{DN: name, ChangeType: ct, Err: err}
}

// syntaxError attaches detail to a sentinel
func syntaxError(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// nameError marks a DN failure found while reading LDIF. The dn error keeps
// its own sentinel chain so errors.Is(err, dn.ErrInvalidName) holds.
func nameError(attr string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidLdifLine, attr, err)
}
