package cid

import (
	"bytes"
	"testing"

	refcid "github.com/ipfs/go-cid"
	refmh "github.com/multiformats/go-multihash"
)

// Cross-checks parsing and rendering against the reference Go
// implementation over generated CIDs of both versions and several bases.
func TestConformanceAgainstReferenceImplementation(t *testing.T) {
	bodies := [][]byte{
		[]byte("conformance vector one"),
		[]byte(""),
		bytes.Repeat([]byte{0x5a}, 1000),
	}
	for _, body := range bodies {
		sum, err := refmh.Sum(body, refmh.SHA2_256, -1)
		if err != nil {
			t.Fatalf("reference Sum: %v", err)
		}

		refV1 := refcid.NewCidV1(refcid.DagCBOR, sum)
		refV0 := refcid.NewCidV0(sum)

		for _, ref := range []refcid.Cid{refV1, refV0} {
			c, err := Parse(ref.String())
			if err != nil {
				t.Fatalf("Parse(%q): %v", ref.String(), err)
			}
			if c.Version() != ref.Version() || c.Codec() != ref.Type() {
				t.Fatalf("Parse(%q) = version %d codec %d, reference says %d %d",
					ref.String(), c.Version(), c.Codec(), ref.Version(), ref.Type())
			}
			dec, err := refmh.Decode(ref.Hash())
			if err != nil {
				t.Fatalf("reference multihash decode: %v", err)
			}
			if c.Hash().Code() != dec.Code || !bytes.Equal(c.Hash().Digest(), dec.Digest) {
				t.Fatalf("Parse(%q) multihash mismatch", ref.String())
			}
			if c.String() != ref.String() {
				t.Fatalf("String() = %q, reference says %q", c.String(), ref.String())
			}
			if !bytes.Equal(c.Bytes(), ref.Bytes()) {
				t.Fatalf("Bytes() = %x, reference says %x", c.Bytes(), ref.Bytes())
			}

			fromBytes, err := FromBytes(ref.Bytes())
			if err != nil {
				t.Fatalf("FromBytes(reference bytes): %v", err)
			}
			if fromBytes != c {
				t.Fatalf("FromBytes disagrees with Parse for %q", ref.String())
			}
		}
	}
}
