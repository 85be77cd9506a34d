package ldif

import (
	"log/slog"

	"github.com/netresearch/simple-ldif-go/dn"
)

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the structured logger used for recoverable record
// failures. If not provided, the Reader is silent.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	r := ldif.NewReader(file, ldif.WithLogger(logger))
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithParams supplies the substitution table for {{name}} placeholders.
// Values are copied.
func WithParams(values map[string]string) ReaderOption {
	return func(r *Reader) {
		for k, v := range values {
			r.params().Set(k, v)
		}
	}
}

// WithParamTable uses p directly, so that generators and later changes are
// seen by the Reader.
func WithParamTable(p *Params) ReaderOption {
	return func(r *Reader) {
		if p != nil {
			r.codec.Params = p
		}
	}
}

// WithParamFunc registers a generator for a placeholder.
//
// Example:
//
//	r := ldif.NewReader(file, ldif.WithParamFunc("uuid4", func() string {
//	    return uuid.NewString()
//	}))
func WithParamFunc(name string, fn func() string) ReaderOption {
	return func(r *Reader) {
		if fn != nil {
			r.params().SetFunc(name, fn)
		}
	}
}

// WithDNParser parses dn values through p, sharing its cache with other
// readers.
func WithDNParser(p *dn.Parser) ReaderOption {
	return func(r *Reader) {
		r.dnParser = p
	}
}

// WithURLResolver sets how "attr:< url" values are fetched. The default
// reads file:// URLs.
func WithURLResolver(resolve URLResolver) ReaderOption {
	return func(r *Reader) {
		r.codec.Resolver = resolve
	}
}

// WithBOMDetection controls whether a leading byte order mark is honoured.
// It is on by default: a UTF-8 BOM is dropped and UTF-16 input is
// transcoded to UTF-8.
func WithBOMDetection(enabled bool) ReaderOption {
	return func(r *Reader) {
		r.detectBOM = enabled
	}
}

// WriterOption represents a functional option for configuring a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets the structured logger used for rendering failures.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObjectClassName sets the spelling used for the objectClass attribute,
// which is always written first. The default is "objectClass".
func WithObjectClassName(name string) WriterOption {
	return func(w *Writer) {
		if name != "" {
			w.objectClass = name
		}
	}
}

// WithVersionLine makes the Writer start its output with "version: 1".
func WithVersionLine(enabled bool) WriterOption {
	return func(w *Writer) {
		w.versionLine = enabled
	}
}
