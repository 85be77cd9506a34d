// Package dn parses, escapes, compares and renders LDAP distinguished names
// (DNs) and relative distinguished names (RDNs).
//
// The text syntax follows RFC 4514 closely enough to round-trip the names
// directory servers hand out: RDNs are comma separated and listed leaf
// first, multi-valued RDNs join their elements with '+', and the
// characters , = + < > # ; " \ are backslash-escaped inside values, as are
// arbitrary octets written as two hex digits (\C3\A9).
//
// # Basic Usage
//
//	name, err := dn.Parse(`cn=fred+sn=bloggs,ou=\+research,c=au`)
//	if err != nil {
//		return err
//	}
//	fmt.Println(name.RDNAttribute(0))  // c
//	fmt.Println(name.Leaf().Size())    // 2
//	fmt.Println(name.Parent())         // ou=\+research,c=au
//
// Parsed names keep their escaped text exactly as given, so
// Parse(s).String() == s for any s that is already in canonical form (no
// white space around the separators).
//
// # Storage Order
//
// A DN is stored root first: RDN(0) is the top of the tree. String renders
// the usual leaf-first text while ReversedString renders root first and is
// the basis of Compare, which sorts parents before their children.
//
// # Error Handling
//
// Malformed names are reported as *NameError values. Every such error
// matches ErrInvalidName with errors.Is; finer sentinels such as
// ErrUnbalancedQuote and ErrInvalidEscape identify the cause.
package dn
