package ldif

import (
	"iter"
	"slices"
	"strings"
)

// AttributeContainer is the ordered, case-insensitive multimap of attribute
// names to values that records read from and write into. Callers with
// schema knowledge can supply their own implementation to Attributes.CopyTo.
type AttributeContainer interface {
	Add(name string, values ...Value)
	Get(name string) []Value
	Names() []string
}

// Attribute is one named attribute with its values in order.
type Attribute struct {
	Name   string
	Values []Value
}

// Attributes is the default AttributeContainer. Names are matched ignoring
// case and keep the spelling of their first occurrence; attributes keep the
// order in which they were first added. The zero value is ready to use.
type Attributes struct {
	attrs []Attribute
	index map[string]int
}

var _ AttributeContainer = (*Attributes)(nil)

// NewAttributes returns an empty container.
func NewAttributes() *Attributes {
	return &Attributes{}
}

func attrKey(name string) string {
	return strings.ToLower(name)
}

func (a *Attributes) lookup(name string) (int, bool) {
	if a == nil || a.index == nil {
		return 0, false
	}
	i, ok := a.index[attrKey(name)]
	return i, ok
}

// Add appends values to name, creating the attribute if needed. Duplicate
// values are kept.
func (a *Attributes) Add(name string, values ...Value) {
	if i, ok := a.lookup(name); ok {
		a.attrs[i].Values = append(a.attrs[i].Values, values...)
		return
	}
	if a.index == nil {
		a.index = make(map[string]int)
	}
	a.index[attrKey(name)] = len(a.attrs)
	a.attrs = append(a.attrs, Attribute{Name: name, Values: slices.Clone(values)})
}

// AddString appends text values to name.
func (a *Attributes) AddString(name string, values ...string) {
	a.Add(name, TextValues(values...)...)
}

// Set replaces the values of name, keeping its position if it exists.
func (a *Attributes) Set(name string, values ...Value) {
	if i, ok := a.lookup(name); ok {
		a.attrs[i].Values = slices.Clone(values)
		return
	}
	a.Add(name, values...)
}

// Get returns the values of name, or nil.
func (a *Attributes) Get(name string) []Value {
	if i, ok := a.lookup(name); ok {
		return a.attrs[i].Values
	}
	return nil
}

// First returns the first value of name.
func (a *Attributes) First(name string) (Value, bool) {
	values := a.Get(name)
	if len(values) == 0 {
		return Value{}, false
	}
	return values[0], true
}

// Has reports whether name is present.
func (a *Attributes) Has(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

// Delete removes name and reports whether it was present.
func (a *Attributes) Delete(name string) bool {
	i, ok := a.lookup(name)
	if !ok {
		return false
	}
	a.attrs = slices.Delete(a.attrs, i, i+1)
	delete(a.index, attrKey(name))
	for j := i; j < len(a.attrs); j++ {
		a.index[attrKey(a.attrs[j].Name)] = j
	}
	return true
}

// Names returns the attribute names in order.
func (a *Attributes) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, len(a.attrs))
	for i, attr := range a.attrs {
		names[i] = attr.Name
	}
	return names
}

// Len returns the number of distinct attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.attrs)
}

// All iterates over the attributes in order.
func (a *Attributes) All() iter.Seq2[string, []Value] {
	return func(yield func(string, []Value) bool) {
		if a == nil {
			return
		}
		for _, attr := range a.attrs {
			if !yield(attr.Name, attr.Values) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the container structure. Value octets are
// shared.
func (a *Attributes) Clone() *Attributes {
	out := &Attributes{}
	for name, values := range a.All() {
		out.Add(name, values...)
	}
	return out
}

// CopyTo adds every attribute to dst.
func (a *Attributes) CopyTo(dst AttributeContainer) {
	for name, values := range a.All() {
		dst.Add(name, values...)
	}
}
