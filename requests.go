package ldif

import (
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"

	"github.com/netresearch/simple-ldif-go/dn"
)

// Request converts the record into the go-ldap request that applies it:
// *ldap.AddRequest for content and add records, *ldap.DelRequest,
// *ldap.ModifyRequest or *ldap.ModifyDNRequest. Controls are attached as
// *ldap.ControlString values.
func (r *Record) Request() (any, error) {
	name := r.DN.String()
	controls := r.ldapControls()

	switch r.ChangeType {
	case ChangeNone, ChangeAdd:
		req := ldap.NewAddRequest(name, controls)
		for attr, values := range r.Attributes.All() {
			req.Attribute(attr, valueStrings(values))
		}
		return req, nil
	case ChangeDelete:
		return ldap.NewDelRequest(name, controls), nil
	case ChangeModify:
		req := ldap.NewModifyRequest(name, controls)
		for _, m := range r.Mods {
			vals := valueStrings(m.Values)
			switch m.Op {
			case ModAdd:
				req.Add(m.Attribute, vals)
			case ModDelete:
				req.Delete(m.Attribute, vals)
			case ModReplace:
				req.Replace(m.Attribute, vals)
			case ModIncrement:
				if len(vals) != 1 {
					return nil, syntaxError(ErrInvalidLdifLine, "increment of %s needs exactly one value", m.Attribute)
				}
				req.Increment(m.Attribute, vals[0])
			default:
				return nil, fmt.Errorf("%w: modify operation %q", ErrUnsupportedRequest, m.Op)
			}
		}
		return req, nil
	case ChangeModRDN, ChangeModDN:
		rn, err := r.Rename()
		if err != nil {
			return nil, err
		}
		req := ldap.NewModifyDNRequest(name, rn.NewRDN.String(), rn.DeleteOldRDN, rn.NewSuperior.String())
		req.Controls = controls
		return req, nil
	}
	return nil, fmt.Errorf("%w: changetype %q", ErrUnsupportedRequest, string(r.ChangeType))
}

func (r *Record) ldapControls() []ldap.Control {
	if len(r.Controls) == 0 {
		return nil
	}
	out := make([]ldap.Control, 0, len(r.Controls))
	for _, c := range r.Controls {
		out = append(out, ldap.NewControlString(c.OID, c.Criticality, string(c.Value)))
	}
	return out
}

func valueStrings(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// FromRequest converts a go-ldap add, delete, modify or modify-DN request
// into a record. Other types yield ErrUnsupportedRequest.
func FromRequest(req any) (*Record, error) {
	switch req := req.(type) {
	case *ldap.AddRequest:
		rec, err := newRequestRecord(req.DN, ChangeAdd, req.Controls)
		if err != nil {
			return nil, err
		}
		for _, attr := range req.Attributes {
			rec.Attributes.Add(attr.Type, stringValues(attr.Vals)...)
		}
		return rec, nil
	case *ldap.DelRequest:
		return newRequestRecord(req.DN, ChangeDelete, req.Controls)
	case *ldap.ModifyRequest:
		rec, err := newRequestRecord(req.DN, ChangeModify, req.Controls)
		if err != nil {
			return nil, err
		}
		for _, change := range req.Changes {
			op, err := modOpFromLDAP(change.Operation)
			if err != nil {
				return nil, err
			}
			rec.AddMod(op, change.Modification.Type, stringValues(change.Modification.Vals)...)
		}
		return rec, nil
	case *ldap.ModifyDNRequest:
		rec, err := newRequestRecord(req.DN, ChangeModDN, req.Controls)
		if err != nil {
			return nil, err
		}
		rec.Attributes.AddString(AttrNewRDN, req.NewRDN)
		rec.Attributes.AddString(AttrDeleteOldRDN, boolFlag(req.DeleteOldRDN))
		if req.NewSuperior != "" {
			rec.Attributes.AddString(AttrNewSuperior, req.NewSuperior)
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedRequest, req)
}

func newRequestRecord(name string, ct ChangeType, controls []ldap.Control) (*Record, error) {
	d, err := dn.Parse(name)
	if err != nil {
		return nil, nameError("dn", err)
	}
	rec := NewRecord(d, ct)
	for _, c := range controls {
		rc, err := controlFromLDAP(c)
		if err != nil {
			return nil, err
		}
		rec.Controls = append(rec.Controls, rc)
	}
	return rec, nil
}

func modOpFromLDAP(op uint) (ModOp, error) {
	switch op {
	case ldap.AddAttribute:
		return ModAdd, nil
	case ldap.DeleteAttribute:
		return ModDelete, nil
	case ldap.ReplaceAttribute:
		return ModReplace, nil
	case ldap.IncrementAttribute:
		return ModIncrement, nil
	}
	return "", fmt.Errorf("%w: modify operation %d", ErrUnsupportedRequest, op)
}

// controlFromLDAP reads OID, criticality and value from the BER encoding of
// any go-ldap control.
func controlFromLDAP(c ldap.Control) (Control, error) {
	if cs, ok := c.(*ldap.ControlString); ok {
		out := Control{OID: cs.ControlType, Criticality: cs.Criticality}
		if cs.ControlValue != "" {
			out.Value = []byte(cs.ControlValue)
		}
		return out, nil
	}

	packet := c.Encode()
	if packet == nil || len(packet.Children) == 0 {
		return Control{}, fmt.Errorf("%w: control %s has no encoding", ErrUnsupportedRequest, c.GetControlType())
	}
	out := Control{OID: c.GetControlType()}
	for _, child := range packet.Children[1:] {
		switch child.Tag {
		case ber.TagBoolean:
			if crit, ok := child.Value.(bool); ok {
				out.Criticality = crit
			}
		case ber.TagOctetString:
			out.Value = child.Data.Bytes()
		}
	}
	return out, nil
}

func stringValues(vals []string) []Value {
	return TextValues(vals...)
}

// FromEntry converts a search result entry into a content record. Values
// that are not UTF-8 text become binary values.
func FromEntry(e *ldap.Entry) (*Record, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entry", ErrUnsupportedRequest)
	}
	d, err := dn.Parse(e.DN)
	if err != nil {
		return nil, nameError("dn", err)
	}
	rec := NewRecord(d, ChangeNone)
	for _, attr := range e.Attributes {
		values := make([]Value, 0, len(attr.ByteValues))
		if len(attr.ByteValues) == len(attr.Values) {
			for _, b := range attr.ByteValues {
				values = append(values, detectValue(b))
			}
		} else {
			values = append(values, TextValues(attr.Values...)...)
		}
		rec.Attributes.Add(attr.Name, values...)
	}
	return rec, nil
}
