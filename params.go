package ldif

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Params is the substitution table for LDIF templates. Placeholders are
// written {{name}} or {{ name }}; a placeholder whose name is not in the
// table is left untouched. Generators registered with SetFunc are called
// once per substituted placeholder, so every occurrence of {{ uuid4 }} can
// yield a fresh value.
//
// A Params is safe for concurrent use.
type Params struct {
	mu     sync.RWMutex
	values map[string]string
	funcs  map[string]func() string
}

// NewParams returns a table holding a copy of values.
func NewParams(values map[string]string) *Params {
	p := &Params{
		values: make(map[string]string, len(values)),
		funcs:  make(map[string]func() string),
	}
	maps.Copy(p.values, values)
	return p
}

// Set stores a fixed value for name.
func (p *Params) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = value
}

// SetFunc registers a generator for name. It takes precedence over a fixed
// value of the same name.
func (p *Params) SetFunc(name string, fn func() string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.funcs[name] = fn
}

// Lookup returns the substitution for name.
func (p *Params) Lookup(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	p.mu.RLock()
	fn, isFunc := p.funcs[name]
	v, ok := p.values[name]
	p.mu.RUnlock()
	if isFunc {
		return fn(), true
	}
	return v, ok
}

// Names returns the known parameter names, sorted.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := slices.Collect(maps.Keys(p.values))
	for name := range p.funcs {
		if _, ok := p.values[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Expand replaces every known placeholder in s.
func (p *Params) Expand(s string) string {
	if p == nil || !strings.Contains(s, "{{") {
		return s
	}
	var b strings.Builder
	for {
		open := strings.Index(s, "{{")
		if open < 0 {
			break
		}
		end := strings.Index(s[open+2:], "}}")
		if end < 0 {
			break
		}
		end += open + 2
		b.WriteString(s[:open])
		if v, ok := p.Lookup(strings.TrimSpace(s[open+2 : end])); ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[open : end+2])
		}
		s = s[end+2:]
	}
	b.WriteString(s)
	return b.String()
}
