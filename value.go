package ldif

import (
	"bytes"
	"unicode/utf8"
)

// textSampleSize is how many leading bytes the text heuristic inspects.
const textSampleSize = 256

// Value is one attribute value. Text values hold UTF-8; binary values hold
// arbitrary octets and are always written in base64.
type Value struct {
	Data   []byte
	Binary bool
}

// TextValue wraps a string.
func TextValue(s string) Value {
	return Value{Data: []byte(s)}
}

// BinaryValue wraps raw octets. The slice is not copied.
func BinaryValue(b []byte) Value {
	return Value{Data: b, Binary: true}
}

// TextValues wraps each string with TextValue.
func TextValues(s ...string) []Value {
	out := make([]Value, len(s))
	for i, v := range s {
		out[i] = TextValue(v)
	}
	return out
}

// String returns the value as a string, regardless of its kind.
func (v Value) String() string {
	return string(v.Data)
}

// Len returns the size of the value in bytes.
func (v Value) Len() int {
	return len(v.Data)
}

// Equal reports whether v and o hold the same octets and kind.
func (v Value) Equal(o Value) bool {
	return v.Binary == o.Binary && bytes.Equal(v.Data, o.Data)
}

// detectValue turns decoded octets into a text value if they look like
// UTF-8 text and into a binary value otherwise.
func detectValue(b []byte) Value {
	if looksLikeText(b) {
		return Value{Data: b}
	}
	return BinaryValue(b)
}

// looksLikeText samples the first textSampleSize bytes: they must be valid
// UTF-8 without NUL bytes. A multi-byte sequence cut by the sample boundary
// is accepted.
func looksLikeText(b []byte) bool {
	sample := b
	truncated := false
	if len(sample) > textSampleSize {
		sample, truncated = sample[:textSampleSize], true
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(sample); cut++ {
		head := sample[:len(sample)-cut]
		if utf8.Valid(head) && !utf8.FullRune(sample[len(head):]) {
			return true
		}
	}
	return false
}
