// Package dagcbor implements the canonical DAG-CBOR codec: every logical
// value has exactly one byte encoding, and the decoder rejects anything
// else. Content addressing depends on this; two encoders disagreeing on a
// single byte would assign different identifiers to identical data.
package dagcbor

import (
	"encoding/binary"
	"math"
	"sort"
	"unicode/utf8"

	"xdao.co/ipld/cid"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/iplderr"
)

// MaxDepth bounds nesting for both encode and decode. Inputs deeper than
// this fail with DepthExceeded instead of exhausting the stack.
const MaxDepth = 1024

// CBOR major types (high three bits of the initial byte).
const (
	majorUint   = 0
	majorNegInt = 1
	majorBytes  = 2
	majorText   = 3
	majorList   = 4
	majorMap    = 5
	majorTag    = 6
	majorSimple = 7
)

const linkTag = 42

// Encode returns the canonical encoding of v.
func Encode(v datamodel.Value) ([]byte, error) {
	return AppendEncode(nil, v)
}

// AppendEncode appends the canonical encoding of v to dst.
func AppendEncode(dst []byte, v datamodel.Value) ([]byte, error) {
	return appendValue(dst, v, 0)
}

func appendValue(dst []byte, v datamodel.Value, depth int) ([]byte, error) {
	if depth > MaxDepth {
		return nil, iplderr.Newf(iplderr.KindDepthExceeded, "nesting deeper than %d", MaxDepth)
	}
	switch v := v.(type) {
	case nil, datamodel.Null:
		return append(dst, 0xf6), nil
	case datamodel.Bool:
		if v {
			return append(dst, 0xf5), nil
		}
		return append(dst, 0xf4), nil
	case datamodel.Int:
		if v >= 0 {
			return appendHead(dst, majorUint, uint64(v)), nil
		}
		return appendHead(dst, majorNegInt, uint64(-(v + 1))), nil
	case datamodel.Float:
		dst = append(dst, 0xfb)
		var be [8]byte
		binary.BigEndian.PutUint64(be[:], math.Float64bits(float64(v)))
		return append(dst, be[:]...), nil
	case datamodel.String:
		if !utf8.ValidString(string(v)) {
			return nil, iplderr.New(iplderr.KindInvalidCharacter, "text string is not valid UTF-8")
		}
		dst = appendHead(dst, majorText, uint64(len(v)))
		return append(dst, v...), nil
	case datamodel.Bytes:
		dst = appendHead(dst, majorBytes, uint64(len(v)))
		return append(dst, v...), nil
	case datamodel.List:
		dst = appendHead(dst, majorList, uint64(len(v)))
		var err error
		for _, el := range v {
			if dst, err = appendValue(dst, el, depth+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case datamodel.Map:
		return appendMap(dst, v, depth)
	case datamodel.Link:
		return appendLink(dst, cid.Cid(v))
	default:
		return nil, iplderr.Newf(iplderr.KindNonCanonical, "value type %T is outside the data model", v)
	}
}

// appendMap writes entries sorted by the canonical key order: shorter keys
// first, equal lengths bytewise. Insertion order never reaches the wire.
func appendMap(dst []byte, m datamodel.Map, depth int) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !utf8.ValidString(k) {
			return nil, iplderr.New(iplderr.KindInvalidCharacter, "map key is not valid UTF-8")
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	dst = appendHead(dst, majorMap, uint64(len(keys)))
	var err error
	for _, k := range keys {
		dst = appendHead(dst, majorText, uint64(len(k)))
		dst = append(dst, k...)
		if dst, err = appendValue(dst, m[k], depth+1); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// appendLink writes tag 42 wrapping a byte string whose first byte is the
// identity-multibase marker, followed by the CID's binary form.
func appendLink(dst []byte, c cid.Cid) ([]byte, error) {
	if !c.Defined() {
		return nil, iplderr.New(iplderr.KindInvalidLink, "link holds an undefined CID")
	}
	raw := c.Bytes()
	dst = appendHead(dst, majorTag, linkTag)
	dst = appendHead(dst, majorBytes, uint64(len(raw)+1))
	dst = append(dst, 0x00)
	return append(dst, raw...), nil
}

// appendHead writes the initial byte and the minimal-width argument.
func appendHead(dst []byte, major byte, n uint64) []byte {
	mb := major << 5
	switch {
	case n < 24:
		return append(dst, mb|byte(n))
	case n <= math.MaxUint8:
		return append(dst, mb|24, byte(n))
	case n <= math.MaxUint16:
		return append(dst, mb|25, byte(n>>8), byte(n))
	case n <= math.MaxUint32:
		return append(dst, mb|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(dst, mb|27,
			byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}
