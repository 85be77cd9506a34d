package dn

import (
	"strings"

	"golang.org/x/text/cases"
)

// RDN is a relative distinguished name: one comma-separated segment of a DN,
// made of one or more '+'-joined attribute=value elements.
//
// An RDN keeps its escaped text exactly as given and the offsets of its
// elements, both computed once when the RDN is built. Methods that change an
// RDN return a new value, so an RDN is safe to share between goroutines.
type RDN struct {
	text   string
	starts []int
}

// ParseRDN builds an RDN from its escaped text. Surrounding white space is
// trimmed and a terminating escaped space lost by an upstream parser is
// restored (see FixTrailingSlashBug). Only the quoting is checked here; use
// Validate or Check to enforce attribute=value syntax.
func ParseRDN(s string) (RDN, error) {
	return scanRDN(FixTrailingSlashBug(strings.TrimSpace(s), false))
}

// NewRDN builds a single-valued RDN from an attribute type and a raw,
// unescaped value.
func NewRDN(attributeType, rawValue string) (RDN, error) {
	return RDN{}.AddRaw(attributeType + "=" + rawValue)
}

func scanRDN(text string) (RDN, error) {
	if text == "" {
		return RDN{}, nil
	}
	if err := checkQuotes(text); err != nil {
		return RDN{}, err
	}
	starts := []int{0}
	for from := 0; ; {
		pos, err := nextUnescaped(text, from, '+')
		if err != nil {
			return RDN{}, err
		}
		if pos < 0 {
			break
		}
		starts = append(starts, pos+1)
		from = pos + 1
	}
	return RDN{text: text, starts: starts}, nil
}

// String returns the escaped text of the RDN.
func (r RDN) String() string {
	return r.text
}

// Size returns the number of attribute=value elements.
func (r RDN) Size() int {
	return len(r.starts)
}

// IsEmpty reports whether the RDN has no elements.
func (r RDN) IsEmpty() bool {
	return len(r.starts) == 0
}

// IsMultiValued reports whether the RDN has more than one element.
func (r RDN) IsMultiValued() bool {
	return len(r.starts) > 1
}

func (r RDN) bounds(i int) (int, int) {
	end := len(r.text)
	if i+1 < len(r.starts) {
		end = r.starts[i+1] - 1
	}
	return r.starts[i], end
}

// Element returns the escaped attribute=value text of element i, or the
// empty string if i is out of range.
func (r RDN) Element(i int) string {
	if i < 0 || i >= len(r.starts) {
		return ""
	}
	start, end := r.bounds(i)
	return r.text[start:end]
}

// Elements returns the escaped text of every element in order.
func (r RDN) Elements() []string {
	out := make([]string, len(r.starts))
	for i := range r.starts {
		out[i] = r.Element(i)
	}
	return out
}

// WithElement returns a copy of r whose element i is replaced by the escaped
// attribute=value fragment.
func (r RDN) WithElement(i int, fragment string) (RDN, error) {
	if i < 0 || i >= len(r.starts) {
		return RDN{}, nameError("set element", r.text, -1, ErrIndexOutOfRange)
	}
	if _, _, err := splitEscaped(fragment); err != nil {
		return RDN{}, err
	}
	start, end := r.bounds(i)
	return scanRDN(r.text[:start] + fragment + r.text[end:])
}

// splitEscaped splits an escaped element at its first unescaped '='.
func splitEscaped(element string) (string, string, error) {
	eq, err := nextUnescaped(element, 0, '=')
	if err != nil {
		return "", "", err
	}
	if eq < 0 {
		return "", "", nameError("split", element, -1, ErrEmptyValue)
	}
	attr := strings.TrimSpace(element[:eq])
	if attr == "" {
		return "", "", nameError("split", element, 0, ErrEmptyAttribute)
	}
	if eq+1 >= len(element) {
		return "", "", nameError("split", element, eq, ErrEmptyValue)
	}
	return attr, element[eq+1:], nil
}

// AttributeID returns the attribute type of element i, or the empty string
// if the element is out of range or has no '='.
func (r RDN) AttributeID(i int) string {
	el := r.Element(i)
	eq := NextUnescaped(el, 0, '=')
	if eq < 0 {
		return ""
	}
	return strings.TrimSpace(el[:eq])
}

// Value returns the escaped value of element i.
func (r RDN) Value(i int) string {
	el := r.Element(i)
	eq := NextUnescaped(el, 0, '=')
	if eq < 0 {
		return ""
	}
	return el[eq+1:]
}

// RawValue returns the unescaped value of element i.
func (r RDN) RawValue(i int) (string, error) {
	if i < 0 || i >= len(r.starts) {
		return "", nameError("raw value", r.text, -1, ErrIndexOutOfRange)
	}
	return Unescape(r.Value(i), false)
}

// AddEscaped returns a copy of r with the escaped attribute=value fragment
// appended as a new element.
func (r RDN) AddEscaped(fragment string) (RDN, error) {
	fragment = FixTrailingSlashBug(strings.TrimSpace(fragment), false)
	if _, _, err := splitEscaped(fragment); err != nil {
		return RDN{}, err
	}
	if r.text == "" {
		return scanRDN(fragment)
	}
	return scanRDN(r.text + "+" + fragment)
}

// AddRaw returns a copy of r with a new element appended. fragment is
// attribute=value with an unescaped value; it is split at its first '='.
func (r RDN) AddRaw(fragment string) (RDN, error) {
	eq := strings.IndexByte(fragment, '=')
	if eq < 0 {
		return RDN{}, nameError("add", fragment, -1, ErrEmptyValue)
	}
	attr := strings.TrimSpace(fragment[:eq])
	if attr == "" {
		return RDN{}, nameError("add", fragment, 0, ErrEmptyAttribute)
	}
	value := fragment[eq+1:]
	if value == "" {
		return RDN{}, nameError("add", fragment, eq, ErrEmptyValue)
	}
	return r.AddEscaped(attr + "=" + Escape(value))
}

// Validate reports whether the RDN is non-empty and every element has a
// non-empty attribute type and value.
func (r RDN) Validate() bool {
	if len(r.starts) == 0 {
		return false
	}
	for i := range r.starts {
		if r.AttributeID(i) == "" || r.Value(i) == "" {
			return false
		}
	}
	return true
}

// Check is the strict form of Validate: it also requires every value to
// unescape cleanly and reports the first problem found.
func (r RDN) Check() error {
	if len(r.starts) == 0 {
		return nameError("check", r.text, -1, ErrEmptyAttribute)
	}
	for i := range r.starts {
		if _, _, err := splitEscaped(r.Element(i)); err != nil {
			return err
		}
		if _, err := r.RawValue(i); err != nil {
			return err
		}
	}
	return nil
}

// Equal compares two RDNs element by element, ignoring case in attribute
// types and values. Multi-valued RDNs must list their elements in the same
// order to compare equal.
func (r RDN) Equal(o RDN) bool {
	if len(r.starts) != len(o.starts) {
		return false
	}
	for i := range r.starts {
		if !strings.EqualFold(r.AttributeID(i), o.AttributeID(i)) {
			return false
		}
		if !valuesEqual(r, o, i) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b RDN, i int) bool {
	av, aerr := a.RawValue(i)
	bv, berr := b.RawValue(i)
	if aerr != nil || berr != nil {
		av, bv = a.Value(i), b.Value(i)
	}
	if av == bv {
		return true
	}
	// Caser values carry state and must not be shared.
	return cases.Fold().String(av) == cases.Fold().String(bv)
}
