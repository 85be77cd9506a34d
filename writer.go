package ldif

import (
	"encoding/base64"
	"io"
	"log/slog"
	"strings"
)

// Writer serializes records as LDIF, separating them with blank lines.
type Writer struct {
	w           io.Writer
	logger      *slog.Logger
	objectClass string
	versionLine bool
	count       int
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	wr := &Writer{
		w:           w,
		logger:      discardLogger(),
		objectClass: "objectClass",
	}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Write renders r and writes it. A record that cannot be rendered is
// reported as a *RenderError and nothing is written for it.
func (w *Writer) Write(r *Record) error {
	var b strings.Builder
	if w.count == 0 && w.versionLine {
		b.WriteString("version: 1\n")
	}
	if w.count > 0 {
		b.WriteByte('\n')
	}
	if err := w.render(&b, r); err != nil {
		err = renderError(r, err)
		w.logger.Error("ldif_render_failed", slog.String("error", err.Error()))
		return err
	}
	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return err
	}
	w.count++
	return nil
}

// WriteAll writes every record, stopping at the first failure.
func (w *Writer) WriteAll(records []*Record) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the LDIF text of a single record.
func Render(r *Record) (string, error) {
	var b strings.Builder
	if err := NewWriter(&b).Write(r); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (w *Writer) render(b *strings.Builder, r *Record) error {
	if r == nil {
		return syntaxError(ErrInvalidLdifLine, "nil record")
	}
	encodeLine(b, "dn", TextValue(r.DN.String()))
	for _, c := range r.Controls {
		writeControl(b, c)
	}
	if r.ChangeType != ChangeNone {
		encodeLine(b, attrChangeType, TextValue(string(r.ChangeType)))
	}

	switch r.ChangeType {
	case ChangeNone, ChangeAdd:
		w.renderEntry(b, r)
	case ChangeDelete:
	case ChangeModify:
		renderMods(b, r.Mods)
	case ChangeModRDN, ChangeModDN:
		return renderRename(b, r)
	default:
		return syntaxError(ErrUnknownChangeType, "%q", string(r.ChangeType))
	}
	return nil
}

// renderEntry writes the object classes first, then every other attribute.
func (w *Writer) renderEntry(b *strings.Builder, r *Record) {
	for _, oc := range r.ObjectClasses() {
		encodeLine(b, w.objectClass, TextValue(oc))
	}
	for name, values := range r.Attributes.All() {
		if strings.EqualFold(name, "objectClass") || strings.EqualFold(name, attrChangeType) {
			continue
		}
		for _, v := range values {
			encodeLine(b, name, v)
		}
	}
}

// renderMods writes replace blocks, then add, delete and increment blocks,
// each in the order given and each closed by "-".
func renderMods(b *strings.Builder, mods []Modification) {
	for _, op := range modOrder {
		for _, m := range mods {
			if m.Op != op {
				continue
			}
			encodeLine(b, string(m.Op), TextValue(m.Attribute))
			for _, v := range m.Values {
				encodeLine(b, m.Attribute, v)
			}
			b.WriteString("-\n")
		}
	}
}

func renderRename(b *strings.Builder, r *Record) error {
	newRDN, ok := r.Attributes.First(AttrNewRDN)
	if !ok {
		return ErrMissingNewRDN
	}
	deleteOld, ok := r.Attributes.First(AttrDeleteOldRDN)
	if !ok {
		return ErrMissingDeleteOldRDN
	}
	encodeLine(b, AttrNewRDN, newRDN)
	encodeLine(b, AttrDeleteOldRDN, deleteOld)
	if sup, ok := r.Attributes.First(AttrNewSuperior); ok {
		encodeLine(b, AttrNewSuperior, sup)
	}
	return nil
}

func writeControl(b *strings.Builder, c Control) {
	b.WriteString("control: ")
	b.WriteString(c.OID)
	if c.Criticality {
		b.WriteString(" true")
	}
	if c.Value != nil {
		v := TextValue(string(c.Value))
		if Classify(v) == Plain {
			b.WriteString(": ")
			b.Write(c.Value)
		} else {
			b.WriteString(":: ")
			b.WriteString(base64.StdEncoding.EncodeToString(c.Value))
		}
	}
	b.WriteByte('\n')
}
