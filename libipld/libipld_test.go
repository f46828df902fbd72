package libipld

import (
	"bytes"
	"testing"

	"xdao.co/ipld/car"
	"xdao.co/ipld/cid"
	"xdao.co/ipld/cidutil"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/iplderr"
)

func TestDecodeCid(t *testing.T) {
	c, err := DecodeCid("bafyreig7jbijxpn4lfhvnvyuwf5u5jyhd7begxwyiqe7ingwxycjdqjjoa")
	if err != nil {
		t.Fatalf("DecodeCid: %v", err)
	}
	if c.Version() != 1 || c.Codec() != 113 {
		t.Fatalf("got version %d codec %d, want 1/113", c.Version(), c.Codec())
	}
	if h := c.Hash(); h.Code() != 18 || h.Size() != 32 {
		t.Fatalf("got hash code %d size %d, want 18/32", h.Code(), h.Size())
	}
}

func TestEncodeCidIdempotent(t *testing.T) {
	const text = "bafyreig7jbijxpn4lfhvnvyuwf5u5jyhd7begxwyiqe7ingwxycjdqjjoa"
	got, err := EncodeCid(text)
	if err != nil {
		t.Fatalf("EncodeCid: %v", err)
	}
	if got != text {
		t.Fatalf("EncodeCid(%q) = %q, want input unchanged", text, got)
	}
	if _, err := EncodeCid("not a cid"); !iplderr.IsKind(err, iplderr.KindMalformedCid) {
		t.Fatalf("EncodeCid on garbage = %v, want MalformedCid", err)
	}
}

func TestEncodeCidBytes(t *testing.T) {
	c, err := DecodeCid("bafyreig7jbijxpn4lfhvnvyuwf5u5jyhd7begxwyiqe7ingwxycjdqjjoa")
	if err != nil {
		t.Fatalf("DecodeCid: %v", err)
	}
	text, err := EncodeCidBytes(c.Bytes())
	if err != nil {
		t.Fatalf("EncodeCidBytes: %v", err)
	}
	if text != c.String() {
		t.Fatalf("EncodeCidBytes = %q, want %q", text, c.String())
	}
	back, err := DecodeCidBytes(c.Bytes())
	if err != nil {
		t.Fatalf("DecodeCidBytes: %v", err)
	}
	if back != c {
		t.Fatalf("DecodeCidBytes round trip mismatch")
	}
}

func TestEncodeDagCbor(t *testing.T) {
	got, err := EncodeDagCbor(datamodel.Map{
		"b": datamodel.String("hello!"),
		"a": datamodel.Int(12),
	})
	if err != nil {
		t.Fatalf("EncodeDagCbor: %v", err)
	}
	want := []byte{0xa2, 0x61, 'a', 0x0c, 0x61, 'b', 0x66, 'h', 'e', 'l', 'l', 'o', '!'}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeDagCbor = %x, want %x", got, want)
	}

	v, err := DecodeDagCbor(got)
	if err != nil {
		t.Fatalf("DecodeDagCbor: %v", err)
	}
	if !datamodel.Equal(v, datamodel.Map{"a": datamodel.Int(12), "b": datamodel.String("hello!")}) {
		t.Fatalf("DecodeDagCbor = %#v", v)
	}
}

func TestDecodeDagCborRejectsUnsortedKeys(t *testing.T) {
	// Keys "b" before "a".
	data := []byte{0xa2, 0x61, 'b', 0x01, 0x61, 'a', 0x02}
	if _, err := DecodeDagCbor(data); !iplderr.IsKind(err, iplderr.KindNonCanonical) {
		t.Fatalf("DecodeDagCbor = %v, want NonCanonical", err)
	}
}

func TestDecodeDagCborMulti(t *testing.T) {
	var data []byte
	want := []datamodel.Value{datamodel.Int(1), datamodel.String("x"), datamodel.Bool(false)}
	for _, v := range want {
		b, err := EncodeDagCbor(v)
		if err != nil {
			t.Fatalf("EncodeDagCbor: %v", err)
		}
		data = append(data, b...)
	}
	vs, err := DecodeDagCborMulti(data)
	if err != nil {
		t.Fatalf("DecodeDagCborMulti: %v", err)
	}
	if len(vs) != len(want) {
		t.Fatalf("got %d values, want %d", len(vs), len(want))
	}
	for i := range want {
		if !datamodel.Equal(vs[i], want[i]) {
			t.Fatalf("value %d = %#v, want %#v", i, vs[i], want[i])
		}
	}
}

func TestMultibase(t *testing.T) {
	code, data, err := DecodeMultibase("ueWVzIG1hbmkgIQ")
	if err != nil {
		t.Fatalf("DecodeMultibase: %v", err)
	}
	if code != 'u' || string(data) != "yes mani !" {
		t.Fatalf("DecodeMultibase = (%c, %q)", code, data)
	}
	s, err := EncodeMultibase('u', []byte("yes mani !"))
	if err != nil {
		t.Fatalf("EncodeMultibase: %v", err)
	}
	if s != "ueWVzIG1hbmkgIQ" {
		t.Fatalf("EncodeMultibase = %q", s)
	}
	if _, _, err := DecodeMultibase("?abc"); !iplderr.IsKind(err, iplderr.KindUnknownBase) {
		t.Fatalf("DecodeMultibase unknown prefix = %v, want UnknownBase", err)
	}
}

func TestDecodeCar(t *testing.T) {
	body, err := EncodeDagCbor(datamodel.Map{"x": datamodel.Int(1)})
	if err != nil {
		t.Fatalf("EncodeDagCbor: %v", err)
	}
	root, err := cidutil.CidV1(cid.DagCBOR, cid.SHA2_256, body)
	if err != nil {
		t.Fatalf("CidV1: %v", err)
	}
	archive, err := car.Encode([]cid.Cid{root}, map[cid.Cid][]byte{root: body})
	if err != nil {
		t.Fatalf("car.Encode: %v", err)
	}

	hdr, blocks, err := DecodeCar(archive)
	if err != nil {
		t.Fatalf("DecodeCar: %v", err)
	}
	if len(hdr.Roots) != 1 || hdr.Roots[0] != root {
		t.Fatalf("Roots = %v, want [%s]", hdr.Roots, root)
	}
	if len(blocks) != 1 || !bytes.Equal(blocks[root], body) {
		t.Fatalf("block table mismatch")
	}

	if _, _, err := DecodeCar([]byte{0x01, 0xff}); !iplderr.IsKind(err, iplderr.KindMalformedCar) {
		t.Fatalf("DecodeCar on garbage = %v, want MalformedCar", err)
	}
}
