package ldif

import (
	"encoding/base64"
	"net/url"
	"os"
	"strings"

	"github.com/netresearch/simple-ldif-go/dn"
)

// MaxLineLength is the column at which base64 payloads are folded.
const MaxLineLength = 76

// Encoding is the on-the-wire form chosen for a value.
type Encoding int

const (
	// Plain values are written as "name: value".
	Plain Encoding = iota
	// Base64 values are written as "name:: payload".
	Base64
)

// String returns a short name for the encoding.
func (e Encoding) String() string {
	if e == Base64 {
		return "base64"
	}
	return "plain"
}

// Classify decides whether v can be written as plain text. Binary values,
// values that start with a newline, carriage return, space or colon, values
// that start with '<' unless they are inline XML, values ending in a space
// and values with any octet outside printable ASCII need base64.
func Classify(v Value) Encoding {
	if v.Binary {
		return Base64
	}
	b := v.Data
	if len(b) == 0 {
		return Plain
	}
	switch b[0] {
	case '\n', '\r', ' ', ':':
		return Base64
	case '<':
		if !isInlineXML(b) {
			return Base64
		}
	}
	if b[len(b)-1] == ' ' {
		return Base64
	}
	for _, c := range b {
		if c < 32 || c > 126 {
			return Base64
		}
	}
	return Plain
}

// isInlineXML reports whether b is a single-line XML fragment such as
// "<note>hi</note>" or "<?xml version="1.0"?><a/>".
func isInlineXML(b []byte) bool {
	if len(b) < 3 || b[len(b)-1] != '>' {
		return false
	}
	c := b[1]
	return c == '?' || c == '!' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// EncodeLine renders one attribute line, terminated by a newline. Base64
// payloads are folded so that no physical line exceeds MaxLineLength;
// continuation lines start with a single space. Plain values are never
// folded.
func EncodeLine(name string, v Value) string {
	var b strings.Builder
	encodeLine(&b, name, v)
	return b.String()
}

func encodeLine(b *strings.Builder, name string, v Value) {
	if Classify(v) == Plain {
		b.WriteString(name)
		b.WriteByte(':')
		if len(v.Data) > 0 {
			b.WriteByte(' ')
			b.Write(v.Data)
		}
		b.WriteByte('\n')
		return
	}

	payload := base64.StdEncoding.EncodeToString(v.Data)
	b.WriteString(name)
	b.WriteString("::")
	if payload == "" {
		b.WriteByte('\n')
		return
	}
	b.WriteByte(' ')
	first := max(MaxLineLength-len(name)-3, 0)
	first = min(first, len(payload))
	b.WriteString(payload[:first])
	for rest := payload[first:]; rest != ""; {
		n := min(MaxLineLength-1, len(rest))
		b.WriteString("\n ")
		b.WriteString(rest[:n])
		rest = rest[n:]
	}
	b.WriteByte('\n')
}

// URLResolver fetches the content of an "attr:< url" value.
type URLResolver func(rawURL string) ([]byte, error)

// FileURLResolver resolves file:// URLs by reading the named file. Other
// schemes are rejected with ErrUnsupportedURL.
func FileURLResolver(rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, syntaxError(ErrUnsupportedURL, "%v", err)
	}
	if u.Scheme != "file" {
		return nil, syntaxError(ErrUnsupportedURL, "%q", rawURL)
	}
	return os.ReadFile(u.Path)
}

// Codec decodes logical LDIF lines into attribute names and values. The zero
// value decodes without parameter substitution and resolves file:// URLs.
type Codec struct {
	// Params, when set, is applied to every decoded text value
	Params *Params
	// Resolver fetches URL values; nil selects FileURLResolver
	Resolver URLResolver
}

// Decode splits a logical line at its first unescaped colon. A second colon
// marks a base64 payload, which becomes text if it passes the UTF-8
// heuristic and binary otherwise; a '<' marks a URL whose content is
// fetched through the resolver. Text values have their placeholders
// expanded and leading spaces removed.
func (c *Codec) Decode(line string) (string, Value, error) {
	sep := dn.NextUnescaped(line, 0, ':')
	if sep < 0 {
		return "", Value{}, ErrMissingSeparator
	}
	name := strings.TrimSpace(line[:sep])
	if name == "" {
		return "", Value{}, syntaxError(ErrInvalidLdifLine, "empty attribute name")
	}

	rest := line[sep+1:]
	switch {
	case strings.HasPrefix(rest, ":"):
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rest[1:]))
		if err != nil {
			return "", Value{}, syntaxError(ErrInvalidBase64, "%s: %v", name, err)
		}
		return name, c.text(detectValue(data)), nil
	case strings.HasPrefix(rest, "<"):
		resolve := c.Resolver
		if resolve == nil {
			resolve = FileURLResolver
		}
		data, err := resolve(strings.TrimSpace(rest[1:]))
		if err != nil {
			return "", Value{}, err
		}
		return name, detectValue(data), nil
	default:
		return name, c.text(TextValue(strings.TrimLeft(rest, " "))), nil
	}
}

func (c *Codec) text(v Value) Value {
	if v.Binary || c.Params == nil {
		return v
	}
	return TextValue(c.Params.Expand(v.String()))
}
