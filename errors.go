package ldif

import (
	"errors"
	"fmt"
)

// Sentinel errors for LDIF processing. They provide a stable API for error
// classification; the finer sentinels all match ErrInvalidLdifLine.
var (
	// Syntax errors
	ErrInvalidLdifLine   = errors.New("ldif: invalid line")
	ErrMissingSeparator  = fmt.Errorf("%w: missing ':' separator", ErrInvalidLdifLine)
	ErrInvalidBase64     = fmt.Errorf("%w: malformed base64 value", ErrInvalidLdifLine)
	ErrMissingDN         = fmt.Errorf("%w: record does not start with a dn line", ErrInvalidLdifLine)
	ErrUnknownChangeType = fmt.Errorf("%w: unknown changetype", ErrInvalidLdifLine)
	ErrMisplacedLine     = fmt.Errorf("%w: line not allowed here", ErrInvalidLdifLine)
	ErrUnterminatedMod   = fmt.Errorf("%w: modification not terminated by '-'", ErrInvalidLdifLine)
	ErrUnsupportedURL    = fmt.Errorf("%w: unsupported value URL", ErrInvalidLdifLine)
	ErrInvalidVersion    = fmt.Errorf("%w: unsupported version", ErrInvalidLdifLine)

	// Rename records
	ErrMissingNewRDN       = fmt.Errorf("%w: moddn record without newrdn", ErrInvalidLdifLine)
	ErrMissingDeleteOldRDN = fmt.Errorf("%w: moddn record without deleteoldrdn", ErrInvalidLdifLine)

	// Stream errors
	ErrTruncatedInput = errors.New("ldif: truncated input")

	// Conversion errors
	ErrUnsupportedRequest = errors.New("ldif: unsupported request")
)

// ParseError reports a record that could not be read, with the number of
// the physical line where the offending logical line starts.
type ParseError struct {
	// Line is the 1-based line number, or 0 when unknown
	Line int
	// Text is the offending logical line, if any
	Text string
	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("ldif: line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("ldif: line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError reports a record that could not be serialized.
type RenderError struct {
	// DN is the text form of the record's name
	DN string
	// ChangeType is the record's change type
	ChangeType ChangeType
	Err        error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("ldif: render %s record %q: %v", e.ChangeType, e.DN, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsSyntaxError reports whether err was caused by malformed LDIF text or a
// malformed name inside it.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrInvalidLdifLine) || errors.Is(err, ErrTruncatedInput)
}

// ErrorLine returns the line number carried by err, or 0 if err is not a
// *ParseError.
func ErrorLine(err error) int {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Line
	}
	return 0
}
