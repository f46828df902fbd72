// Package cidutil builds CIDs from content bytes.
//
// The codec packages never hash anything themselves (a digest is the
// caller's claim about the content); these helpers are for callers that
// want to mint identifiers the usual way.
package cidutil

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"xdao.co/ipld/cid"
)

// ErrUnknownHash means the multihash code has no registered digest function.
var ErrUnknownHash = errors.New("cidutil: unknown multihash code")

// Sum computes the digest of data with the algorithm named by the multihash
// code and wraps it as a multihash.
func Sum(code uint64, data []byte) (cid.Multihash, error) {
	switch code {
	case cid.SHA2_256:
		d := sha256.Sum256(data)
		return cid.NewMultihash(code, d[:]), nil
	case cid.SHA2_512:
		d := sha512.Sum512(data)
		return cid.NewMultihash(code, d[:]), nil
	case cid.SHA3_256:
		d := sha3.Sum256(data)
		return cid.NewMultihash(code, d[:]), nil
	case cid.SHA3_512:
		d := sha3.Sum512(data)
		return cid.NewMultihash(code, d[:]), nil
	case cid.BLAKE3:
		d := blake3.Sum256(data)
		return cid.NewMultihash(code, d[:]), nil
	default:
		return cid.Multihash{}, fmt.Errorf("%w: 0x%x", ErrUnknownHash, code)
	}
}

// CidV1 mints a version 1 CID for data under the given content codec and
// hash algorithm.
func CidV1(codec, hashCode uint64, data []byte) (cid.Cid, error) {
	sum, err := Sum(hashCode, data)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewV1(codec, sum), nil
}

// CIDv1RawSHA256 returns the text form of a CIDv1 using the "raw"
// multicodec and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	c, err := CidV1(cid.Raw, cid.SHA2_256, data)
	if err != nil {
		// sha2-256 is always registered; unreachable.
		return ""
	}
	return c.String()
}
