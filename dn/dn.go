package dn

import (
	"slices"
	"strings"
)

// World is the label directory browsers show for the root of the tree. It
// parses to the empty DN, as does the empty string.
const World = "World"

// DN is a distinguished name stored root first: index 0 is the top of the
// tree (for example c=au) and the last index is the leaf. Its text form runs
// the other way, leaf to root, as in "cn=fred,o=pegacat,c=au".
//
// The zero value is the empty (root) name. Both text forms are rendered once
// at construction; a DN is never modified in place and is safe to share.
type DN struct {
	rdns     []RDN
	text     string
	reversed string
	key      string
}

// Parse parses the text form of a DN. Every RDN must have a non-empty
// attribute type and value and every escape must be valid; failures are
// returned as *NameError values matching ErrInvalidName.
func Parse(s string) (DN, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == World {
		return DN{}, nil
	}

	var rdns []RDN
	for from := 0; ; {
		pos, err := nextUnescaped(trimmed, from, ',')
		if err != nil {
			return DN{}, err
		}
		end := pos
		if pos < 0 {
			end = len(trimmed)
		}
		r, err := ParseRDN(trimmed[from:end])
		if err != nil {
			return DN{}, err
		}
		if err := r.Check(); err != nil {
			return DN{}, nameError("parse", s, from, err)
		}
		rdns = append(rdns, r)
		if pos < 0 {
			break
		}
		from = pos + 1
	}

	// the text lists the leaf first
	slices.Reverse(rdns)
	return build(rdns), nil
}

// MustParse is like Parse but panics on error. It is meant for constants
// and tests.
func MustParse(s string) DN {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// New builds a DN from RDNs given root first.
func New(rdns ...RDN) DN {
	return build(slices.Clone(rdns))
}

func build(rdns []RDN) DN {
	if len(rdns) == 0 {
		return DN{}
	}
	parts := make([]string, len(rdns))
	for i, r := range rdns {
		parts[i] = r.String()
	}
	reversed := strings.Join(parts, ",")
	slices.Reverse(parts)
	return DN{
		rdns:     rdns,
		text:     strings.Join(parts, ","),
		reversed: reversed,
		key:      strings.ToLower(reversed),
	}
}

// String renders the DN leaf first, RDNs joined by commas.
func (d DN) String() string {
	return d.text
}

// ReversedString renders the DN root first. It carries the same
// information as String and exists as a sort key.
func (d DN) ReversedString() string {
	return d.reversed
}

// Size returns the number of RDNs.
func (d DN) Size() int {
	return len(d.rdns)
}

// IsEmpty reports whether d is the empty (root) name.
func (d DN) IsEmpty() bool {
	return len(d.rdns) == 0
}

// RDN returns the RDN at index i counted from the root, or the empty RDN if
// i is out of range.
func (d DN) RDN(i int) RDN {
	if i < 0 || i >= len(d.rdns) {
		return RDN{}
	}
	return d.rdns[i]
}

// RDNs returns a copy of the RDNs, root first.
func (d DN) RDNs() []RDN {
	return slices.Clone(d.rdns)
}

// Get returns the escaped text of the RDN at index i counted from the root.
func (d DN) Get(i int) string {
	return d.RDN(i).String()
}

// RDNAttribute returns the attribute type of the first element of RDN i,
// or the empty string if i is out of range.
func (d DN) RDNAttribute(i int) string {
	return d.RDN(i).AttributeID(0)
}

// RDNValue returns the raw value of the first element of RDN i, or the empty
// string if i is out of range.
func (d DN) RDNValue(i int) string {
	v, err := d.RDN(i).RawValue(0)
	if err != nil {
		return ""
	}
	return v
}

// Leaf returns the deepest RDN.
func (d DN) Leaf() RDN {
	return d.RDN(len(d.rdns) - 1)
}

// Parent drops the deepest RDN. The parent of the empty DN is the empty DN.
func (d DN) Parent() DN {
	if len(d.rdns) == 0 {
		return d
	}
	return build(slices.Clone(d.rdns[:len(d.rdns)-1]))
}

// Prefix returns the first n RDNs counted from the root.
func (d DN) Prefix(n int) DN {
	n = max(0, min(n, len(d.rdns)))
	return build(slices.Clone(d.rdns[:n]))
}

// StartsWith reports whether prefix matches d from the root down, ignoring
// case. Every DN starts with the empty DN and with itself.
func (d DN) StartsWith(prefix DN) bool {
	if len(prefix.rdns) > len(d.rdns) {
		return false
	}
	for i, r := range prefix.rdns {
		if !r.Equal(d.rdns[i]) {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether d lies strictly below base.
func (d DN) IsDescendantOf(base DN) bool {
	return len(d.rdns) > len(base.rdns) && d.StartsWith(base)
}

// SharesParent reports whether d and o have the same size and agree on
// every RDN except the deepest.
func (d DN) SharesParent(o DN) bool {
	if len(d.rdns) != len(o.rdns) {
		return false
	}
	for i := 0; i < len(d.rdns)-1; i++ {
		if !d.rdns[i].Equal(o.rdns[i]) {
			return false
		}
	}
	return true
}

// Compare orders DNs by their case-folded root-first text, so that entries
// below the same parent sort together and parents sort before children. It
// compares characters, not RDNs, and can misorder names whose RDN lengths
// differ at the point of divergence.
func (d DN) Compare(o DN) int {
	return strings.Compare(d.key, o.key)
}

// Equal reports whether d and o have pairwise equal RDNs.
func (d DN) Equal(o DN) bool {
	if len(d.rdns) != len(o.rdns) {
		return false
	}
	for i, r := range d.rdns {
		if !r.Equal(o.rdns[i]) {
			return false
		}
	}
	return true
}

// AddParentRDN returns a copy of d with r inserted above the current root.
func (d DN) AddParentRDN(r RDN) DN {
	rdns := make([]RDN, 0, len(d.rdns)+1)
	rdns = append(rdns, r)
	return build(append(rdns, d.rdns...))
}

// AddChildRDN returns a copy of d with r appended below the current leaf.
func (d DN) AddChildRDN(r RDN) DN {
	rdns := make([]RDN, 0, len(d.rdns)+1)
	rdns = append(rdns, d.rdns...)
	return build(append(rdns, r))
}

// Reparent moves d from below oldBase to below newBase.
func (d DN) Reparent(oldBase, newBase DN) (DN, error) {
	if !d.StartsWith(oldBase) {
		return DN{}, nameError("reparent", d.text, -1, ErrNotSubordinate)
	}
	rdns := make([]RDN, 0, len(newBase.rdns)+len(d.rdns)-len(oldBase.rdns))
	rdns = append(rdns, newBase.rdns...)
	return build(append(rdns, d.rdns[len(oldBase.rdns):]...)), nil
}

// MarshalText implements encoding.TextMarshaler.
func (d DN) MarshalText() ([]byte, error) {
	return []byte(d.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DN) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
