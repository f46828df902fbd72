// Package cid implements the Content Identifier value type: a version, a
// content-type codec and a multihash, parsed from and rendered to the
// binary and multibase text layouts.
package cid

import (
	"github.com/mr-tron/base58"

	"xdao.co/ipld/iplderr"
	"xdao.co/ipld/multibase"
	"xdao.co/ipld/varint"
)

// Content-type codec codes from the multicodec table.
const (
	Raw     = 0x55
	DagPB   = 0x70
	DagCBOR = 0x71
	DagJSON = 0x0129
)

const sha256DigestSize = 32

// Cid is a self-describing content identifier. It is a pure value type:
// equality is structural and the zero value is Undef.
type Cid struct {
	version uint64
	codec   uint64
	hash    Multihash
}

// Undef is the zero, undefined CID.
var Undef = Cid{}

// NewV0 builds a version 0 CID. Version 0 admits only dag-pb content with a
// 32-byte sha2-256 multihash.
func NewV0(hash Multihash) (Cid, error) {
	if hash.Code() != SHA2_256 || hash.Size() != sha256DigestSize {
		return Undef, iplderr.New(iplderr.KindMalformedCid, "v0 CID requires a 32-byte sha2-256 multihash")
	}
	return Cid{version: 0, codec: DagPB, hash: hash}, nil
}

// NewV1 builds a version 1 CID from any codec and multihash.
func NewV1(codec uint64, hash Multihash) Cid {
	return Cid{version: 1, codec: codec, hash: hash}
}

// Version returns 0 or 1.
func (c Cid) Version() uint64 { return c.version }

// Codec returns the content-type code.
func (c Cid) Codec() uint64 { return c.codec }

// Hash returns the multihash.
func (c Cid) Hash() Multihash { return c.hash }

// Defined reports whether c holds a parsed or constructed CID rather than
// the zero value.
func (c Cid) Defined() bool { return c != Undef }

// Parse decodes the text form of a CID. A 46-character "Qm" string is the
// implicit-base58btc version 0 form; anything else must carry a multibase
// prefix and decode to the binary layout.
func Parse(s string) (Cid, error) {
	if len(s) == 46 && s[:2] == "Qm" {
		raw, err := base58.Decode(s)
		if err != nil {
			return Undef, iplderr.Wrap(iplderr.KindMalformedCid, "invalid base58btc in v0 CID", err)
		}
		return parseV0(raw)
	}
	if len(s) < 2 {
		return Undef, iplderr.New(iplderr.KindMalformedCid, "CID text too short")
	}
	_, raw, err := multibase.Decode(s)
	if err != nil {
		return Undef, iplderr.Wrap(iplderr.KindMalformedCid, "invalid multibase in CID", err)
	}
	return FromBytes(raw)
}

// FromBytes decodes the binary form of a CID, requiring the whole buffer to
// be consumed.
func FromBytes(data []byte) (Cid, error) {
	c, n, err := DecodeFirst(data)
	if err != nil {
		return Undef, err
	}
	if n != len(data) {
		return Undef, iplderr.Atf(iplderr.KindMalformedCid, n, "%d trailing bytes after CID", len(data)-n)
	}
	return c, nil
}

// DecodeFirst decodes a CID from the start of data and reports how many
// bytes it occupied. The binary layout is self-describing, so callers can
// split a frame into its CID prefix and payload.
func DecodeFirst(data []byte) (Cid, int, error) {
	// A v0 CID is a bare 34-byte sha2-256 multihash.
	if len(data) >= 2 && data[0] == SHA2_256 && data[1] == sha256DigestSize {
		if len(data) < 34 {
			return Undef, 0, iplderr.At(iplderr.KindMalformedCid, len(data), "truncated v0 CID")
		}
		c, err := parseV0(data[:34])
		if err != nil {
			return Undef, 0, err
		}
		return c, 34, nil
	}

	version, n, err := varint.Read(data)
	if err != nil {
		return Undef, 0, iplderr.Wrap(iplderr.KindMalformedCid, "reading CID version", err)
	}
	if version != 1 {
		return Undef, 0, iplderr.Newf(iplderr.KindMalformedCid, "unsupported CID version %d", version)
	}
	off := n
	codec, n, err := varint.ReadAt(data, off)
	if err != nil {
		return Undef, 0, iplderr.Wrap(iplderr.KindMalformedCid, "reading CID codec", err)
	}
	off += n
	hash, n, err := decodeMultihash(data, off)
	if err != nil {
		return Undef, 0, err
	}
	off += n
	return Cid{version: 1, codec: codec, hash: hash}, off, nil
}

func parseV0(raw []byte) (Cid, error) {
	hash, n, err := decodeMultihash(raw, 0)
	if err != nil {
		return Undef, err
	}
	if n != len(raw) {
		return Undef, iplderr.At(iplderr.KindMalformedCid, n, "trailing bytes after v0 multihash")
	}
	return NewV0(hash)
}

func decodeMultihash(data []byte, off int) (Multihash, int, error) {
	code, n, err := varint.ReadAt(data, off)
	if err != nil {
		return Multihash{}, 0, iplderr.Wrap(iplderr.KindMalformedCid, "reading multihash code", err)
	}
	pos := off + n
	size, n, err := varint.ReadAt(data, pos)
	if err != nil {
		return Multihash{}, 0, iplderr.Wrap(iplderr.KindMalformedCid, "reading multihash length", err)
	}
	pos += n
	if size > uint64(len(data)-pos) {
		return Multihash{}, 0, iplderr.Atf(iplderr.KindMalformedCid, pos,
			"multihash digest declares %d bytes, %d remain", size, len(data)-pos)
	}
	digest := data[pos : pos+int(size)]
	return NewMultihash(code, digest), pos + int(size) - off, nil
}

// Bytes returns the binary form: for v0 the bare multihash, for v1 the
// varint concatenation of version, codec and multihash.
func (c Cid) Bytes() []byte {
	buf := make([]byte, 0, 4+len(c.hash.digest))
	if c.version == 1 {
		buf = varint.Append(buf, c.version)
		buf = varint.Append(buf, c.codec)
	}
	buf = varint.Append(buf, c.hash.code)
	buf = varint.Append(buf, uint64(len(c.hash.digest)))
	return append(buf, c.hash.digest...)
}

// String returns the canonical text form: bare base58btc for v0, multibase
// base32 (lower, unpadded) for v1.
func (c Cid) String() string {
	switch c.version {
	case 0:
		return base58.Encode(c.Bytes())
	default:
		s, err := multibase.Encode(multibase.Base32, c.Bytes())
		if err != nil {
			// base32 is registered at init; unreachable.
			return ""
		}
		return s
	}
}

// StringOfBase renders a v1 CID in the given multibase. A v0 CID only has
// its implicit base58btc form.
func (c Cid) StringOfBase(code byte) (string, error) {
	if c.version == 0 {
		if code != multibase.Base58BTC {
			return "", iplderr.New(iplderr.KindMalformedCid, "v0 CID has only the base58btc form")
		}
		return c.String(), nil
	}
	return multibase.Encode(code, c.Bytes())
}
