package dn

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// LDAP converts d to the go-ldap representation, which lists RDNs leaf
// first and holds raw (unescaped) values.
func (d DN) LDAP() (*ldap.DN, error) {
	out := &ldap.DN{RDNs: make([]*ldap.RelativeDN, 0, len(d.rdns))}
	for i := len(d.rdns) - 1; i >= 0; i-- {
		r := d.rdns[i]
		rel := &ldap.RelativeDN{Attributes: make([]*ldap.AttributeTypeAndValue, 0, r.Size())}
		for j := 0; j < r.Size(); j++ {
			v, err := r.RawValue(j)
			if err != nil {
				return nil, err
			}
			rel.Attributes = append(rel.Attributes, &ldap.AttributeTypeAndValue{
				Type:  r.AttributeID(j),
				Value: v,
			})
		}
		out.RDNs = append(out.RDNs, rel)
	}
	return out, nil
}

// FromLDAP converts a go-ldap DN, escaping its raw values.
func FromLDAP(d *ldap.DN) (DN, error) {
	if d == nil {
		return DN{}, nil
	}
	rdns := make([]RDN, 0, len(d.RDNs))
	for i := len(d.RDNs) - 1; i >= 0; i-- {
		var r RDN
		for _, atv := range d.RDNs[i].Attributes {
			var err error
			if r, err = r.AddRaw(atv.Type + "=" + atv.Value); err != nil {
				return DN{}, err
			}
		}
		rdns = append(rdns, r)
	}
	return build(rdns), nil
}

// ParseWithLDAP parses s with go-ldap's strict RFC 4514 parser and converts
// the result. It accepts hex-encoded (#...) values and other forms Parse
// leaves verbatim, at the cost of re-escaping the output.
func ParseWithLDAP(s string) (DN, error) {
	parsed, err := ldap.ParseDN(s)
	if err != nil {
		return DN{}, nameError("parse", s, -1, fmt.Errorf("%w: %v", ErrInvalidName, err))
	}
	return FromLDAP(parsed)
}
