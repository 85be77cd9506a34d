package ldif

import (
	"slices"
	"strings"

	"github.com/netresearch/simple-ldif-go/dn"
)

// ChangeType selects the kind of record. The zero value is a content
// record, an entry snapshot without a changetype line.
type ChangeType string

const (
	ChangeNone   ChangeType = ""
	ChangeAdd    ChangeType = "add"
	ChangeDelete ChangeType = "delete"
	ChangeModify ChangeType = "modify"
	ChangeModRDN ChangeType = "modrdn"
	ChangeModDN  ChangeType = "moddn"
)

// ParseChangeType maps a changetype value to its ChangeType, ignoring case.
func ParseChangeType(s string) (ChangeType, error) {
	switch ct := ChangeType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ChangeAdd, ChangeDelete, ChangeModify, ChangeModRDN, ChangeModDN:
		return ct, nil
	}
	return ChangeNone, syntaxError(ErrUnknownChangeType, "%q", s)
}

// String returns the changetype keyword, or "normal" for content records.
func (c ChangeType) String() string {
	if c == ChangeNone {
		return "normal"
	}
	return string(c)
}

// IsRename reports whether c is modrdn or moddn.
func (c ChangeType) IsRename() bool {
	return c == ChangeModRDN || c == ChangeModDN
}

// ModOp is the operation of one modify block.
type ModOp string

const (
	ModAdd       ModOp = "add"
	ModDelete    ModOp = "delete"
	ModReplace   ModOp = "replace"
	ModIncrement ModOp = "increment"
)

// modOrder is the order in which modify blocks are rendered.
var modOrder = []ModOp{ModReplace, ModAdd, ModDelete, ModIncrement}

// ParseModOp maps a modify block keyword to its ModOp, ignoring case.
func ParseModOp(s string) (ModOp, bool) {
	op := ModOp(strings.ToLower(s))
	return op, slices.Contains(modOrder, op)
}

// Modification is one modify block: an operation on one attribute.
type Modification struct {
	Op        ModOp
	Attribute string
	Values    []Value
}

// Control is an LDAP control attached to a change record.
type Control struct {
	OID         string
	Criticality bool
	// Value is nil when the control carries no value
	Value []byte
}

// Attribute names carrying the data of a rename record.
const (
	AttrNewRDN       = "newrdn"
	AttrDeleteOldRDN = "deleteoldrdn"
	AttrNewSuperior  = "newsuperior"
	attrChangeType   = "changetype"
)

// Record is one LDIF record: a name, a change type and the data the change
// type calls for. Content and add records use Attributes; modify records use
// Mods; rename records keep newrdn, deleteoldrdn and newsuperior in
// Attributes.
type Record struct {
	DN         dn.DN
	ChangeType ChangeType
	Attributes *Attributes
	Mods       []Modification
	Controls   []Control
}

// NewRecord returns an empty record for name.
func NewRecord(name dn.DN, ct ChangeType) *Record {
	return &Record{DN: name, ChangeType: ct, Attributes: NewAttributes()}
}

// NewRenameRecord returns a moddn record. An empty newSuperior keeps the
// entry below its current parent.
func NewRenameRecord(name dn.DN, newRDN dn.RDN, deleteOldRDN bool, newSuperior dn.DN) *Record {
	r := NewRecord(name, ChangeModDN)
	r.Attributes.AddString(AttrNewRDN, newRDN.String())
	r.Attributes.AddString(AttrDeleteOldRDN, boolFlag(deleteOldRDN))
	if !newSuperior.IsEmpty() {
		r.Attributes.AddString(AttrNewSuperior, newSuperior.String())
	}
	return r
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// AddMod appends a modify block.
func (r *Record) AddMod(op ModOp, attribute string, values ...Value) {
	r.Mods = append(r.Mods, Modification{Op: op, Attribute: attribute, Values: values})
}

// AddControl appends a control.
func (r *Record) AddControl(oid string, critical bool, value []byte) {
	r.Controls = append(r.Controls, Control{OID: oid, Criticality: critical, Value: value})
}

// ObjectClasses returns the objectClass values, deduplicated ignoring case.
func (r *Record) ObjectClasses() []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range r.Attributes.Get("objectClass") {
		key := strings.ToLower(v.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v.String())
	}
	return out
}

// Rename describes the target of a modrdn or moddn record.
type Rename struct {
	NewRDN       dn.RDN
	DeleteOldRDN bool
	// NewSuperior is empty when the entry stays below its parent
	NewSuperior dn.DN
}

// Rename decodes the rename data of a modrdn or moddn record.
func (r *Record) Rename() (Rename, error) {
	newRDN, ok := r.Attributes.First(AttrNewRDN)
	if !ok {
		return Rename{}, ErrMissingNewRDN
	}
	rdn, err := dn.ParseRDN(newRDN.String())
	if err != nil {
		return Rename{}, nameError(AttrNewRDN, err)
	}
	if err := rdn.Check(); err != nil {
		return Rename{}, nameError(AttrNewRDN, err)
	}

	flag, ok := r.Attributes.First(AttrDeleteOldRDN)
	if !ok {
		return Rename{}, ErrMissingDeleteOldRDN
	}
	var deleteOld bool
	switch strings.TrimSpace(flag.String()) {
	case "0":
	case "1":
		deleteOld = true
	default:
		return Rename{}, syntaxError(ErrInvalidLdifLine, "deleteoldrdn must be 0 or 1, got %q", flag.String())
	}

	out := Rename{NewRDN: rdn, DeleteOldRDN: deleteOld}
	if sup, ok := r.Attributes.First(AttrNewSuperior); ok {
		if out.NewSuperior, err = dn.Parse(sup.String()); err != nil {
			return Rename{}, nameError(AttrNewSuperior, err)
		}
	}
	return out, nil
}

// TargetDN returns the name the entry has after a rename record is applied.
func (r *Record) TargetDN() (dn.DN, error) {
	rn, err := r.Rename()
	if err != nil {
		return dn.DN{}, err
	}
	parent := r.DN.Parent()
	if _, ok := r.Attributes.First(AttrNewSuperior); ok {
		parent = rn.NewSuperior
	}
	return parent.AddChildRDN(rn.NewRDN), nil
}

// Relocate returns where name ends up once the rename record r has moved
// the subtree rooted at r.DN. Names outside that subtree are returned as is.
func (r *Record) Relocate(name dn.DN) (dn.DN, error) {
	if !name.StartsWith(r.DN) {
		return name, nil
	}
	target, err := r.TargetDN()
	if err != nil {
		return dn.DN{}, err
	}
	return name.Reparent(r.DN, target)
}

// Clone returns a deep copy of the record structure.
func (r *Record) Clone() *Record {
	out := &Record{
		DN:         r.DN,
		ChangeType: r.ChangeType,
		Attributes: r.Attributes.Clone(),
		Controls:   slices.Clone(r.Controls),
	}
	for _, m := range r.Mods {
		m.Values = slices.Clone(m.Values)
		out.Mods = append(out.Mods, m)
	}
	return out
}

// SortRecords orders records root first with dn.DN.Compare so that parents
// precede their children. The sort is stable.
func SortRecords(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		return a.DN.Compare(b.DN)
	})
}
