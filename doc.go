// Package ldif reads and writes the LDAP Data Interchange Format (RFC 2849).
//
// It provides a streaming Reader that turns LDIF text into Records, a Writer
// that renders Records back into canonical folded text, and conversions
// between Records and the request types of github.com/go-ldap/ldap/v3.
// Distinguished names are handled by the dn subpackage.
//
// # Basic Usage
//
//	r := ldif.NewReader(file)
//	for {
//		rec, err := r.Read()
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if err != nil {
//			log.Printf("skipping record at line %d: %v", ldif.ErrorLine(err), err)
//			continue
//		}
//		fmt.Println(rec.DN, rec.ChangeType)
//	}
//
// # Records
//
// A Record is a content record (an entry snapshot) or a change record. Add
// and content records carry Attributes, modify records carry Mods and
// rename records (modrdn, moddn) keep newrdn, deleteoldrdn and newsuperior
// as attributes. Records may carry LDAP controls.
//
// # Values
//
// Values that are not safe as plain text (leading space, colon or '<',
// trailing space, control or non-ASCII characters, binary data) are written
// in base64 and folded at 76 columns. When reading, base64 payloads that
// look like UTF-8 text become text values; everything else stays binary.
//
// # Templates
//
// Text values, including the dn, may contain {{name}} placeholders that the
// Reader fills from a parameter table:
//
//	r := ldif.NewReader(file,
//		ldif.WithParams(map[string]string{"base": "dc=example,dc=com"}),
//		ldif.WithParamFunc("uuid4", uuid.NewString))
//
// # Error Handling
//
// Read reports malformed records as *ParseError values carrying the line
// number; the Reader resynchronises at the next blank line so the caller
// can skip the record and continue. Every syntax error matches
// ErrInvalidLdifLine or ErrTruncatedInput with errors.Is. Write reports
// records that cannot be rendered as *RenderError values.
package ldif
