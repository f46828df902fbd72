// Package multibase implements prefix-tagged text encodings of binary data.
//
// The first character of an encoded string names the base; the remainder is
// the payload transcoded with that base's canonical alphabet and padding
// rule. The registry is built once at init and never mutated.
package multibase

import (
	"sort"

	"xdao.co/ipld/iplderr"
)

// Base codes (the single-character prefixes).
const (
	Identity          = 0x00
	Base2             = '0'
	Base8             = '7'
	Base16            = 'f'
	Base16Upper       = 'F'
	Base32            = 'b'
	Base32Upper       = 'B'
	Base32Pad         = 'c'
	Base32PadUpper    = 'C'
	Base32Hex         = 'v'
	Base32HexUpper    = 'V'
	Base32HexPad      = 't'
	Base32HexPadUpper = 'T'
	Base36            = 'k'
	Base36Upper       = 'K'
	Base58BTC         = 'z'
	Base58Flickr      = 'Z'
	Base64            = 'm'
	Base64Pad         = 'M'
	Base64URL         = 'u'
	Base64URLPad      = 'U'
)

// Encoding is one registered base.
type Encoding struct {
	Code byte
	Name string

	encode func([]byte) string
	decode func(string) ([]byte, error)
}

var byCode = map[byte]*Encoding{}

func register(code byte, name string, enc func([]byte) string, dec func(string) ([]byte, error)) {
	byCode[code] = &Encoding{Code: code, Name: name, encode: enc, decode: dec}
}

// Lookup returns the registered encoding for a base code.
func Lookup(code byte) (*Encoding, bool) {
	e, ok := byCode[code]
	return e, ok
}

// Encodings returns all registered bases ordered by code.
func Encodings() []Encoding {
	out := make([]Encoding, 0, len(byCode))
	for _, e := range byCode {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Encode transcodes data using the base named by code and prepends the
// prefix character. It fails with UnknownBase for an unregistered code.
func Encode(code byte, data []byte) (string, error) {
	e, ok := byCode[code]
	if !ok {
		return "", iplderr.Newf(iplderr.KindUnknownBase, "unknown base code %q", code)
	}
	if len(data) == 0 {
		return string(e.Code), nil
	}
	return string(e.Code) + e.encode(data), nil
}

// Decode selects a base from the first character of s and transcodes the
// remainder. It returns the base code alongside the payload bytes.
func Decode(s string) (byte, []byte, error) {
	if len(s) == 0 {
		return 0, nil, iplderr.New(iplderr.KindUnknownBase, "empty multibase string")
	}
	code := s[0]
	e, ok := byCode[code]
	if !ok {
		return 0, nil, iplderr.Newf(iplderr.KindUnknownBase, "unknown base code %q", code)
	}
	if len(s) == 1 {
		return code, []byte{}, nil
	}
	data, err := e.decode(s[1:])
	if err != nil {
		return 0, nil, err
	}
	return code, data, nil
}
