package ldif

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected Encoding
	}{
		{"empty", TextValue(""), Plain},
		{"ordinary text", TextValue("Barbara Jensen"), Plain},
		{"inner colon", TextValue("a:b"), Plain},
		{"inner space", TextValue("a b"), Plain},
		{"leading space", TextValue(" leading"), Base64},
		{"leading colon", TextValue(":colon"), Base64},
		{"leading newline", TextValue("\nx"), Base64},
		{"leading carriage return", TextValue("\rx"), Base64},
		{"leading angle bracket", TextValue("<notxml"), Base64},
		{"inline xml", TextValue("<note>hi</note>"), Plain},
		{"xml declaration", TextValue(`<?xml version="1.0"?><a/>`), Plain},
		{"angle bracket followed by space", TextValue("< x >"), Base64},
		{"trailing space", TextValue("trailing "), Base64},
		{"control character", TextValue("tab\there"), Base64},
		{"embedded newline", TextValue("two\nlines"), Base64},
		{"non-ascii", TextValue("café"), Base64},
		{"delete character", TextValue("a\x7f"), Base64},
		{"binary printable", BinaryValue([]byte("plain")), Base64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.value))
		})
	}
}

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name     string
		attr     string
		value    Value
		expected string
	}{
		{"plain", "cn", TextValue("Barbara Jensen"), "cn: Barbara Jensen\n"},
		{"empty", "description", TextValue(""), "description:\n"},
		{"leading space", "cn", TextValue(" leading"), "cn:: IGxlYWRpbmc=\n"},
		{"trailing space", "cn", TextValue("trailing "), "cn:: dHJhaWxpbmcg\n"},
		{"control character", "cn", TextValue("tab\there"), "cn:: dGFiCWhlcmU=\n"},
		{"utf8", "cn", TextValue("café"), "cn:: Y2Fmw6k=\n"},
		{"empty binary", "jpegPhoto", BinaryValue(nil), "jpegPhoto::\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeLine(tt.attr, tt.value))
		})
	}
}

func TestEncodeLineWrapsBase64(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}

	got := EncodeLine("jpegPhoto", BinaryValue(data))
	expected := "jpegPhoto:: AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8gISIjJCUmJygpKissLS4v\n" +
		" MDEyMzQ1Njc4OTo7PD0+P0BBQkNERUZHSElKS0xNTk9QUVJTVFVWV1hZWltcXV5fYGFiYw==\n"
	assert.Equal(t, expected, got)
}

func TestEncodeLineWrapInvariants(t *testing.T) {
	for _, size := range []int{1, 56, 57, 58, 200, 1000, 4096} {
		data := []byte(strings.Repeat("\x01", size))
		for _, attr := range []string{"a", "userCertificate;binary", strings.Repeat("x", 80)} {
			got := EncodeLine(attr, BinaryValue(data))
			require.True(t, strings.HasSuffix(got, "\n"))

			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			payload := strings.TrimPrefix(lines[0], attr+"::")
			for i, line := range lines[1:] {
				assert.LessOrEqual(t, len(line), MaxLineLength, "line %d", i+1)
				require.True(t, strings.HasPrefix(line, " "))
				payload += line[1:]
			}
			if len(attr)+3 < MaxLineLength {
				assert.LessOrEqual(t, len(lines[0]), MaxLineLength)
			}

			decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		}
	}
}

func TestCodecDecode(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		attr     string
		expected Value
	}{
		{"plain", "cn: Barbara Jensen", "cn", TextValue("Barbara Jensen")},
		{"no space after colon", "cn:Barbara", "cn", TextValue("Barbara")},
		{"several spaces", "cn:    Barbara", "cn", TextValue("Barbara")},
		{"trailing space kept", "cn: Barbara ", "cn", TextValue("Barbara ")},
		{"value with colon", "labeledURI: http://example.com/ x", "labeledURI", TextValue("http://example.com/ x")},
		{"empty", "description:", "description", TextValue("")},
		{"base64 text", "cn:: IGxlYWRpbmc=", "cn", TextValue(" leading")},
		{"base64 utf8", "cn:: Y2Fmw6k=", "cn", TextValue("café")},
		{"base64 binary", "jpegPhoto:: AAECAw==", "jpegPhoto", BinaryValue([]byte{0, 1, 2, 3})},
		{"base64 invalid utf8", "x:: /w==", "x", BinaryValue([]byte{0xff})},
		{"attribute options", "userCertificate;binary:: AA==", "userCertificate;binary", BinaryValue([]byte{0})},
	}

	var c Codec
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, v, err := c.Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.attr, attr)
			assert.Equal(t, tt.expected.Binary, v.Binary)
			assert.Equal(t, tt.expected.String(), v.String())
		})
	}
}

func TestCodecDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		err  error
	}{
		{"no separator", "just text", ErrMissingSeparator},
		{"empty name", ": value", ErrInvalidLdifLine},
		{"bad base64", "cn:: ***", ErrInvalidBase64},
		{"unsupported url", "photo:< http://example.com/a.jpg", ErrUnsupportedURL},
	}

	var c Codec
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Decode(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrInvalidLdifLine)
		})
	}
}

func TestCodecDecodeExpandsParams(t *testing.T) {
	c := Codec{Params: NewParams(map[string]string{"base": "dc=example,dc=com", "name": "fred"})}

	_, v, err := c.Decode("dn: cn={{ name }},{{base}}")
	require.NoError(t, err)
	assert.Equal(t, "cn=fred,dc=example,dc=com", v.String())

	// base64 text is expanded too, binary data never is
	_, v, err = c.Decode("cn:: " + base64.StdEncoding.EncodeToString([]byte("{{name}}")))
	require.NoError(t, err)
	assert.Equal(t, "fred", v.String())

	_, v, err = c.Decode("x:: " + base64.StdEncoding.EncodeToString([]byte("{{name}}\x00")))
	require.NoError(t, err)
	assert.True(t, v.Binary)
	assert.Equal(t, "{{name}}\x00", v.String())
}

func TestCodecDecodeURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o600))

	var c Codec
	attr, v, err := c.Decode("jpegPhoto:< file://" + filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, "jpegPhoto", attr)
	assert.True(t, v.Binary)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, v.Data)

	boom := errors.New("offline")
	c.Resolver = func(rawURL string) ([]byte, error) {
		assert.Equal(t, "http://example.com/x", rawURL)
		return nil, boom
	}
	_, _, err = c.Decode("photo:< http://example.com/x")
	assert.ErrorIs(t, err, boom)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []Value{
		TextValue("plain"),
		TextValue(" leading"),
		TextValue("trailing "),
		TextValue(":colon"),
		TextValue("multi\nline\ntext"),
		TextValue("café crème"),
		TextValue(strings.Repeat("long value ", 40) + "end"),
		BinaryValue([]byte{0, 1, 2, 0xff, 0xfe}),
		BinaryValue(make([]byte, 700)),
	}

	var c Codec
	for _, v := range values {
		encoded := EncodeLine("attr", v)
		j := NewLineJoiner(strings.NewReader(encoded))
		line, err := j.ReadLogicalLine()
		require.NoError(t, err)

		_, got, err := c.Decode(line)
		require.NoError(t, err)
		assert.Equal(t, v.Binary, got.Binary, "value %q", v.String())
		assert.Equal(t, v.String(), got.String())
	}
}

func BenchmarkEncodeLine(b *testing.B) {
	v := BinaryValue(make([]byte, 2048))
	for i := 0; i < b.N; i++ {
		_ = EncodeLine("jpegPhoto", v)
	}
}

func BenchmarkDecode(b *testing.B) {
	var c Codec
	line := "description:: " + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("text ", 200)))
	for i := 0; i < b.N; i++ {
		_, _, _ = c.Decode(line)
	}
}
