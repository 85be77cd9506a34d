package testutil

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-ldap/ldap/v3"

	"github.com/netresearch/simple-ldif-go/dn"
)

// Errors returned by MockDirectory, mirroring the LDAP result codes a real
// server would send.
var (
	ErrNoSuchObject       = errors.New("mock: no such object")
	ErrEntryAlreadyExists = errors.New("mock: entry already exists")
	ErrUnsupported        = errors.New("mock: unsupported request")
)

// MockDirectory is an in-memory directory that applies go-ldap write
// requests, so tests can check what a stream of LDIF change records does.
type MockDirectory struct {
	mu sync.Mutex

	// Optional hooks; a non-nil error aborts the request
	AddFunc      func(req *ldap.AddRequest) error
	DelFunc      func(req *ldap.DelRequest) error
	ModifyFunc   func(req *ldap.ModifyRequest) error
	ModifyDNFunc func(req *ldap.ModifyDNRequest) error

	// State tracking
	AddCalls      []AddCall
	DelCalls      []DelCall
	ModifyCalls   []ModifyCall
	ModifyDNCalls []ModifyDNCall

	entries map[string]*ldap.Entry
}

// AddCall records an add operation
type AddCall struct {
	Request *ldap.AddRequest
	Error   error
}

// DelCall records a delete operation
type DelCall struct {
	Request *ldap.DelRequest
	Error   error
}

// ModifyCall records a modify operation
type ModifyCall struct {
	Request *ldap.ModifyRequest
	Error   error
}

// ModifyDNCall records a rename operation
type ModifyDNCall struct {
	Request *ldap.ModifyDNRequest
	Error   error
}

// NewMockDirectory creates an empty directory.
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{entries: make(map[string]*ldap.Entry)}
}

func entryKey(name string) (string, error) {
	d, err := dn.Parse(name)
	if err != nil {
		return "", err
	}
	return strings.ToLower(d.String()), nil
}

// Apply dispatches any supported go-ldap write request.
func (m *MockDirectory) Apply(req any) error {
	switch req := req.(type) {
	case *ldap.AddRequest:
		return m.Add(req)
	case *ldap.DelRequest:
		return m.Del(req)
	case *ldap.ModifyRequest:
		return m.Modify(req)
	case *ldap.ModifyDNRequest:
		return m.ModifyDN(req)
	}
	return fmt.Errorf("%w: %T", ErrUnsupported, req)
}

// Add stores a new entry.
func (m *MockDirectory) Add(req *ldap.AddRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.add(req)
	m.AddCalls = append(m.AddCalls, AddCall{Request: req, Error: err})
	return err
}

func (m *MockDirectory) add(req *ldap.AddRequest) error {
	if m.AddFunc != nil {
		if err := m.AddFunc(req); err != nil {
			return err
		}
	}
	key, err := entryKey(req.DN)
	if err != nil {
		return err
	}
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrEntryAlreadyExists, req.DN)
	}
	entry := &ldap.Entry{DN: req.DN}
	for _, attr := range req.Attributes {
		addValues(entry, attr.Type, attr.Vals)
	}
	m.entries[key] = entry
	return nil
}

// Del removes an entry.
func (m *MockDirectory) Del(req *ldap.DelRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.del(req)
	m.DelCalls = append(m.DelCalls, DelCall{Request: req, Error: err})
	return err
}

func (m *MockDirectory) del(req *ldap.DelRequest) error {
	if m.DelFunc != nil {
		if err := m.DelFunc(req); err != nil {
			return err
		}
	}
	key, err := entryKey(req.DN)
	if err != nil {
		return err
	}
	if _, ok := m.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchObject, req.DN)
	}
	delete(m.entries, key)
	return nil
}

// Modify applies attribute changes to an entry.
func (m *MockDirectory) Modify(req *ldap.ModifyRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.modify(req)
	m.ModifyCalls = append(m.ModifyCalls, ModifyCall{Request: req, Error: err})
	return err
}

func (m *MockDirectory) modify(req *ldap.ModifyRequest) error {
	if m.ModifyFunc != nil {
		if err := m.ModifyFunc(req); err != nil {
			return err
		}
	}
	key, err := entryKey(req.DN)
	if err != nil {
		return err
	}
	entry, ok := m.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchObject, req.DN)
	}
	for _, change := range req.Changes {
		attr := change.Modification
		switch change.Operation {
		case ldap.AddAttribute:
			addValues(entry, attr.Type, attr.Vals)
		case ldap.DeleteAttribute:
			deleteValues(entry, attr.Type, attr.Vals)
		case ldap.ReplaceAttribute:
			deleteValues(entry, attr.Type, nil)
			addValues(entry, attr.Type, attr.Vals)
		case ldap.IncrementAttribute:
			if err := incrementValue(entry, attr.Type, attr.Vals); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: modify operation %d", ErrUnsupported, change.Operation)
		}
	}
	return nil
}

// ModifyDN renames an entry and moves its subtree along.
func (m *MockDirectory) ModifyDN(req *ldap.ModifyDNRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.modifyDN(req)
	m.ModifyDNCalls = append(m.ModifyDNCalls, ModifyDNCall{Request: req, Error: err})
	return err
}

func (m *MockDirectory) modifyDN(req *ldap.ModifyDNRequest) error {
	if m.ModifyDNFunc != nil {
		if err := m.ModifyDNFunc(req); err != nil {
			return err
		}
	}
	oldDN, err := dn.Parse(req.DN)
	if err != nil {
		return err
	}
	oldKey := strings.ToLower(oldDN.String())
	entry, ok := m.entries[oldKey]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchObject, req.DN)
	}
	newRDN, err := dn.ParseRDN(req.NewRDN)
	if err != nil {
		return err
	}
	parent := oldDN.Parent()
	if req.NewSuperior != "" {
		if parent, err = dn.Parse(req.NewSuperior); err != nil {
			return err
		}
	}
	newDN := parent.AddChildRDN(newRDN)
	if _, exists := m.entries[strings.ToLower(newDN.String())]; exists {
		return fmt.Errorf("%w: %s", ErrEntryAlreadyExists, newDN)
	}

	if req.DeleteOldRDN {
		old := oldDN.Leaf()
		for i := 0; i < old.Size(); i++ {
			if v, err := old.RawValue(i); err == nil {
				deleteValues(entry, old.AttributeID(i), []string{v})
			}
		}
	}
	for i := 0; i < newRDN.Size(); i++ {
		v, err := newRDN.RawValue(i)
		if err != nil {
			return err
		}
		if !hasValue(entry, newRDN.AttributeID(i), v) {
			addValues(entry, newRDN.AttributeID(i), []string{v})
		}
	}

	moved := make(map[string]*ldap.Entry)
	for key, e := range m.entries {
		d, err := dn.Parse(e.DN)
		if err != nil || !d.StartsWith(oldDN) {
			continue
		}
		target, err := d.Reparent(oldDN, newDN)
		if err != nil {
			return err
		}
		e.DN = target.String()
		delete(m.entries, key)
		moved[strings.ToLower(e.DN)] = e
	}
	for key, e := range moved {
		m.entries[key] = e
	}
	return nil
}

// Entry returns the entry stored under name, or nil.
func (m *MockDirectory) Entry(name string) *ldap.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, err := entryKey(name)
	if err != nil {
		return nil
	}
	return m.entries[key]
}

// DNs returns the stored names, sorted root first.
func (m *MockDirectory) DNs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]dn.DN, 0, len(m.entries))
	for _, e := range m.entries {
		if d, err := dn.Parse(e.DN); err == nil {
			names = append(names, d)
		}
	}
	slices.SortFunc(names, dn.DN.Compare)
	out := make([]string, len(names))
	for i, d := range names {
		out[i] = d.String()
	}
	return out
}

// Len returns the number of stored entries.
func (m *MockDirectory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// CallCount returns the number of requests seen, failed ones included.
func (m *MockDirectory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AddCalls) + len(m.DelCalls) + len(m.ModifyCalls) + len(m.ModifyDNCalls)
}

// Reset drops all entries and recorded calls.
func (m *MockDirectory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*ldap.Entry)
	m.AddCalls = nil
	m.DelCalls = nil
	m.ModifyCalls = nil
	m.ModifyDNCalls = nil
}

func findAttribute(entry *ldap.Entry, name string) *ldap.EntryAttribute {
	for _, attr := range entry.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr
		}
	}
	return nil
}

func hasValue(entry *ldap.Entry, name, value string) bool {
	attr := findAttribute(entry, name)
	return attr != nil && slices.Contains(attr.Values, value)
}

func addValues(entry *ldap.Entry, name string, values []string) {
	if len(values) == 0 {
		return
	}
	attr := findAttribute(entry, name)
	if attr == nil {
		attr = &ldap.EntryAttribute{Name: name}
		entry.Attributes = append(entry.Attributes, attr)
	}
	for _, v := range values {
		attr.Values = append(attr.Values, v)
		attr.ByteValues = append(attr.ByteValues, []byte(v))
	}
}

// deleteValues removes the given values, or the whole attribute when values
// is empty.
func deleteValues(entry *ldap.Entry, name string, values []string) {
	attr := findAttribute(entry, name)
	if attr == nil {
		return
	}
	if len(values) > 0 {
		keep := attr.Values[:0]
		for _, v := range attr.Values {
			if !slices.Contains(values, v) {
				keep = append(keep, v)
			}
		}
		attr.Values = keep
		attr.ByteValues = attr.ByteValues[:0]
		for _, v := range keep {
			attr.ByteValues = append(attr.ByteValues, []byte(v))
		}
		if len(keep) > 0 {
			return
		}
	}
	entry.Attributes = slices.DeleteFunc(entry.Attributes, func(a *ldap.EntryAttribute) bool {
		return a == attr
	})
}

func incrementValue(entry *ldap.Entry, name string, values []string) error {
	attr := findAttribute(entry, name)
	if attr == nil || len(attr.Values) != 1 || len(values) != 1 {
		return fmt.Errorf("%w: increment of %s", ErrUnsupported, name)
	}
	cur, err := strconv.Atoi(attr.Values[0])
	if err != nil {
		return err
	}
	delta, err := strconv.Atoi(values[0])
	if err != nil {
		return err
	}
	attr.Values[0] = strconv.Itoa(cur + delta)
	attr.ByteValues = [][]byte{[]byte(attr.Values[0])}
	return nil
}
