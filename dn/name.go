package dn

// Name is the narrow view of a hierarchical name used by callers that only
// render, walk or order names.
type Name interface {
	String() string
	Size() int
	Get(i int) string
	Compare(other DN) int
}

var _ Name = DN{}
