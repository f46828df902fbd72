package cid

// Multihash is a hash digest tagged with the algorithm code that produced
// it. The digest is held in an immutable string so that Multihash (and the
// Cid containing it) is comparable and usable as a map key.
type Multihash struct {
	code   uint64
	digest string
}

// Hash algorithm codes from the multicodec table.
const (
	SHA2_256 = 0x12
	SHA2_512 = 0x13
	SHA3_512 = 0x14
	SHA3_256 = 0x16
	BLAKE3   = 0x1e
)

// NewMultihash builds a multihash from an algorithm code and digest bytes.
// The digest is copied.
func NewMultihash(code uint64, digest []byte) Multihash {
	return Multihash{code: code, digest: string(digest)}
}

// Code returns the hash algorithm code.
func (m Multihash) Code() uint64 { return m.code }

// Size returns the digest length in bytes.
func (m Multihash) Size() int { return len(m.digest) }

// Digest returns a copy of the digest bytes.
func (m Multihash) Digest() []byte { return []byte(m.digest) }
