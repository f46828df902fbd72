// Package datamodel defines the generic value union produced and consumed
// by the codecs: maps, lists, scalars, byte strings and CID links.
//
// The union is closed. Codecs switch exhaustively over the nine kinds; no
// reflective or open types participate.
package datamodel

import (
	"bytes"

	"xdao.co/ipld/cid"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindLink:
		return "link"
	default:
		return "invalid"
	}
}

// Value is one node of a tree-shaped document. Documents are acyclic by
// construction on decode; encoders bound recursion depth so a caller-made
// cycle fails instead of hanging.
type Value interface {
	Kind() Kind
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int is an integer in the signed 64-bit range.
type Int int64

// Float is an IEEE-754 double.
type Float float64

// String is UTF-8 text.
type String string

// Bytes is an opaque byte string.
type Bytes []byte

// List is an ordered sequence.
type List []Value

// Map holds unique text keys. Entry order is irrelevant: the canonical key
// order is a property of the encoding, derived at encode time.
type Map map[string]Value

// Link is a reference to other content by CID.
type Link cid.Cid

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Bytes) Kind() Kind  { return KindBytes }
func (List) Kind() Kind   { return KindList }
func (Map) Kind() Kind    { return KindMap }
func (Link) Kind() Kind   { return KindLink }

// Cid returns the link target.
func (l Link) Cid() cid.Cid { return cid.Cid(l) }

// Equal reports structural equality: same kind and same contents, with
// lists compared in order and maps compared by key set.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		return av == b.(Float)
	case String:
		return av == b.(String)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv := b.(Map)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Link:
		return cid.Cid(av) == cid.Cid(b.(Link))
	default:
		return false
	}
}
