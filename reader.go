package ldif

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/netresearch/simple-ldif-go/dn"
)

// Reader reads LDIF records from a stream.
//
// A record that fails to parse is reported as a *ParseError and the Reader
// skips ahead to the next blank line, so the following Read returns the
// next record; callers decide whether to stop or carry on.
type Reader struct {
	joiner   *LineJoiner
	codec    Codec
	logger   *slog.Logger
	dnParser *dn.Parser

	detectBOM bool
	started   bool
	version   int

	records  int
	failures int
}

// NewReader returns a Reader for r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		logger:    discardLogger(),
		detectBOM: true,
	}
	for _, opt := range opts {
		opt(rd)
	}
	if rd.detectBOM {
		r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	rd.joiner = NewLineJoiner(r)
	return rd
}

func (r *Reader) params() *Params {
	if r.codec.Params == nil {
		r.codec.Params = NewParams(nil)
	}
	return r.codec.Params
}

// Version returns the value of the leading "version:" line, or 0 if the
// stream has none. It is known once the first record has been read.
func (r *Reader) Version() int {
	return r.version
}

// ReaderStats counts what a Reader has returned so far.
type ReaderStats struct {
	Records  int
	Failures int
}

// Stats returns the number of records read and failures reported.
func (r *Reader) Stats() ReaderStats {
	return ReaderStats{Records: r.records, Failures: r.failures}
}

// Read returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Read() (*Record, error) {
	for {
		line, err := r.joiner.ReadLogicalLine()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, r.fail(lineError(r.joiner.Line(), "", err), false)
		}
		if line == "" {
			continue
		}
		if !r.started {
			r.started = true
			if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "version") {
				if err := r.readVersion(value); err != nil {
					return nil, r.fail(lineError(r.joiner.Line(), line, err), false)
				}
				continue
			}
		}

		rec, err := r.readRecord(line)
		if err != nil {
			return nil, err
		}
		r.records++
		return rec, nil
	}
}

// ReadAll reads records until the end of the stream. It stops at the first
// failure and returns the records read before it.
func (r *Reader) ReadAll() ([]*Record, error) {
	var out []*Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func (r *Reader) readVersion(value string) error {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || v != 1 {
		return syntaxError(ErrInvalidVersion, "%q", strings.TrimSpace(value))
	}
	r.version = v
	return nil
}

// fail counts and logs a record failure and, unless the reader already sits
// on a record boundary, skips the rest of the record.
func (r *Reader) fail(err error, resync bool) error {
	r.failures++
	r.logger.Debug("ldif_record_invalid",
		slog.Int("line", ErrorLine(err)),
		slog.String("error", err.Error()))
	if resync {
		r.skipRecord()
	}
	return err
}

func (r *Reader) skipRecord() {
	for {
		line, err := r.joiner.ReadLogicalLine()
		if err != nil || line == "" {
			return
		}
	}
}

func (r *Reader) parseDN(s string) (dn.DN, error) {
	if r.dnParser != nil {
		return r.dnParser.Parse(s)
	}
	return dn.Parse(s)
}

// readRecord parses one record whose first logical line is first.
func (r *Reader) readRecord(first string) (*Record, error) {
	start := r.joiner.Line()
	name, value, err := r.codec.Decode(first)
	if err != nil {
		return nil, r.fail(lineError(start, first, err), true)
	}
	if !strings.EqualFold(name, "dn") {
		return nil, r.fail(lineError(start, first, ErrMissingDN), true)
	}
	recDN, err := r.parseDN(value.String())
	if err != nil {
		return nil, r.fail(lineError(start, first, nameError("dn", err)), true)
	}

	rec := NewRecord(recDN, ChangeNone)
	header := true
	var mod *Modification

	for {
		line, err := r.joiner.ReadLogicalLine()
		lineNo := r.joiner.Line()
		switch {
		case errors.Is(err, io.EOF):
			if mod != nil {
				return nil, r.fail(lineError(lineNo, "", syntaxError(ErrTruncatedInput, "modification of %s not terminated", mod.Attribute)), false)
			}
			return r.finish(rec, start)
		case err != nil:
			return nil, r.fail(lineError(lineNo, "", err), false)
		case line == "":
			if mod != nil {
				return nil, r.fail(lineError(lineNo, "", ErrUnterminatedMod), false)
			}
			return r.finish(rec, start)
		}

		if rec.ChangeType == ChangeModify {
			if err := r.modLine(rec, &mod, line); err != nil {
				return nil, r.fail(lineError(lineNo, line, err), true)
			}
			continue
		}

		attr, v, err := r.codec.Decode(line)
		if err != nil {
			return nil, r.fail(lineError(lineNo, line, err), true)
		}
		switch {
		case header && strings.EqualFold(attr, "control"):
			c, err := r.parseControl(v.String())
			if err != nil {
				return nil, r.fail(lineError(lineNo, line, err), true)
			}
			rec.Controls = append(rec.Controls, c)
			continue
		case header && strings.EqualFold(attr, attrChangeType):
			if rec.ChangeType, err = ParseChangeType(v.String()); err != nil {
				return nil, r.fail(lineError(lineNo, line, err), true)
			}
			header = false
			continue
		case strings.EqualFold(attr, attrChangeType), strings.EqualFold(attr, "control"):
			return nil, r.fail(lineError(lineNo, line, syntaxError(ErrMisplacedLine, "%s must follow the dn line", attr)), true)
		}
		header = false

		if rec.ChangeType == ChangeDelete {
			return nil, r.fail(lineError(lineNo, line, syntaxError(ErrMisplacedLine, "delete record carries no attributes")), true)
		}
		rec.Attributes.Add(attr, v)
	}
}

// modLine consumes one logical line of a modify record body.
func (r *Reader) modLine(rec *Record, mod **Modification, line string) error {
	if *mod == nil {
		keyword, v, err := r.codec.Decode(line)
		if err != nil {
			return err
		}
		op, ok := ParseModOp(keyword)
		if !ok {
			return syntaxError(ErrMisplacedLine, "expected add, delete, replace or increment, got %q", keyword)
		}
		attr := strings.TrimSpace(v.String())
		if attr == "" {
			return syntaxError(ErrInvalidLdifLine, "%s without attribute", op)
		}
		*mod = &Modification{Op: op, Attribute: attr}
		return nil
	}
	if line == "-" {
		rec.Mods = append(rec.Mods, **mod)
		*mod = nil
		return nil
	}
	attr, v, err := r.codec.Decode(line)
	if err != nil {
		return err
	}
	if !strings.EqualFold(attr, (*mod).Attribute) {
		return syntaxError(ErrMisplacedLine, "value for %s inside %s block of %s", attr, (*mod).Op, (*mod).Attribute)
	}
	(*mod).Values = append((*mod).Values, v)
	return nil
}

// finish validates a complete record.
func (r *Reader) finish(rec *Record, start int) (*Record, error) {
	if rec.ChangeType.IsRename() {
		if _, err := rec.Rename(); err != nil {
			return nil, r.fail(lineError(start, "", err), false)
		}
	}
	return rec, nil
}

// parseControl decodes the value of a control line:
// "<oid> [true|false] [: value | :: base64 | :< url]".
func (r *Reader) parseControl(s string) (Control, error) {
	head, value, hasValue := strings.Cut(s, ":")
	fields := strings.Fields(head)
	if len(fields) == 0 || len(fields) > 2 {
		return Control{}, syntaxError(ErrInvalidLdifLine, "malformed control %q", s)
	}
	c := Control{OID: fields[0]}
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "true":
			c.Criticality = true
		case "false":
		default:
			return Control{}, syntaxError(ErrInvalidLdifLine, "control criticality must be true or false, got %q", fields[1])
		}
	}
	if hasValue {
		codec := Codec{Resolver: r.codec.Resolver}
		_, v, err := codec.Decode("value:" + value)
		if err != nil {
			return Control{}, err
		}
		c.Value = v.Data
	}
	return c, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseRecord parses a single record from s. It returns io.EOF if s holds
// no record.
func ParseRecord(s string) (*Record, error) {
	return NewReader(strings.NewReader(s)).Read()
}
