package dn

import (
	"strings"
	"unicode/utf8"
)

// specialChars are the characters that must be backslash-escaped inside a
// DN attribute value.
const specialChars = ",=+<>#;\"\\"

func isSpecial(c byte) bool {
	return strings.IndexByte(specialChars, c) >= 0
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// NextUnescaped returns the index of the first occurrence of delim at or
// after start that is neither backslash-escaped nor inside a double-quoted
// span, or -1 if there is none. Searching for a backslash always fails.
//
// An unterminated quoted span hides every delimiter after it, so -1 is
// returned; use ParseRDN or Parse to have that reported as an error.
func NextUnescaped(s string, start int, delim byte) int {
	i, _ := nextUnescaped(s, start, delim)
	return i
}

func nextUnescaped(s string, start int, delim byte) (int, error) {
	if delim == '\\' || start < 0 {
		return -1, nil
	}
	for i := start; i < len(s); i++ {
		switch s[i] {
		case delim:
			return i, nil
		case '\\':
			// skip the escaped character, whatever it is
			i++
		case '"':
			end := closingQuote(s, i+1)
			if end < 0 {
				return -1, nameError("scan", s, i, ErrUnbalancedQuote)
			}
			i = end
		}
	}
	return -1, nil
}

// closingQuote finds the next double quote at or after from that is not
// escaped, decided by counting the backslashes immediately before it.
func closingQuote(s string, from int) int {
	for from <= len(s) {
		j := strings.IndexByte(s[from:], '"')
		if j < 0 {
			return -1
		}
		j += from
		n := 0
		for k := j - 1; k >= from && s[k] == '\\'; k-- {
			n++
		}
		if n%2 == 0 {
			return j
		}
		from = j + 1
	}
	return -1
}

// checkQuotes verifies that every unescaped quote in s is closed.
func checkQuotes(s string) error {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			end := closingQuote(s, i+1)
			if end < 0 {
				return nameError("scan", s, i, ErrUnbalancedQuote)
			}
			i = end
		}
	}
	return nil
}

// Escape backslash-escapes the DN special characters in raw. A trailing
// space is escaped as well since a bare trailing space does not survive DN
// parsing. The result is not canonical: other escaped forms may decode to
// the same raw value.
func Escape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 4)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isSpecial(c) || (c == ' ' && i == len(raw)-1) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape turns an escaped attribute value back into its raw form.
//
// A value wholly enclosed in double quotes is returned without the quotes
// and otherwise untouched. Elsewhere a backslash followed by a special
// character or a space yields that character, and a backslash followed by
// two hex digits yields one octet; the assembled octets must form valid
// UTF-8. Any other escape is an error.
//
// jndi reports that s carries an additional level of backslash escaping, as
// returned by some naming layers; doubled backslashes are collapsed first.
func Unescape(s string, jndi bool) (string, error) {
	if jndi {
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	if len(s) >= 2 && s[0] == '"' && closingQuote(s, 1) == len(s)-1 {
		return s[1 : len(s)-1], nil
	}
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}

	buf := make([]byte, 0, len(s))
	octets := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf = append(buf, c)
			continue
		}
		if i+1 >= len(s) {
			return "", nameError("unescape", s, i, ErrInvalidEscape)
		}
		next := s[i+1]
		switch {
		case isSpecial(next) || next == ' ':
			buf = append(buf, next)
			i++
		case i+2 < len(s) && isHex(next) && isHex(s[i+2]):
			buf = append(buf, hexNibble(next)<<4|hexNibble(s[i+2]))
			octets = true
			i += 2
		default:
			return "", nameError("unescape", s, i, ErrInvalidEscape)
		}
	}
	if octets && !utf8.Valid(buf) {
		return "", nameError("unescape", s, -1, ErrInvalidUTF8)
	}
	return string(buf), nil
}

// FixTrailingSlashBug repairs names whose terminating escaped space was
// dropped by an upstream parser that kept the backslash. An odd run of
// trailing backslashes always ends in a dangling escape and gets its space
// back. With jndi set, a run whose length is 2 mod 4 is the doubly escaped
// form of the same damage and is repaired too.
func FixTrailingSlashBug(s string, jndi bool) string {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 || (jndi && n%4 == 2) {
		return s + " "
	}
	return s
}
