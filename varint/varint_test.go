package varint

import (
	"bytes"
	"io"
	"math"
	"testing"

	"xdao.co/ipld/iplderr"
)

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 0x3fff, 0x4000, 1<<21 - 1, 1 << 21, 1<<49 + 17, math.MaxUint64}
	for _, v := range values {
		enc := Encode(v)
		if len(enc) != Len(v) {
			t.Fatalf("Len(%d) = %d, encoded %d bytes", v, Len(v), len(enc))
		}
		got, n, err := Read(enc)
		if err != nil {
			t.Fatalf("Read(%d): %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("Read(%d) = (%d, %d), want (%d, %d)", v, got, n, v, len(enc))
		}
	}
}

func TestMinimalLength(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		if got := Encode(c.v); !bytes.Equal(got, c.want) {
			t.Fatalf("Encode(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func TestTruncated(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x80}, {0xff, 0xff}, {0x80, 0x80, 0x80}} {
		_, _, err := Read(buf)
		if !iplderr.IsKind(err, iplderr.KindTruncated) {
			t.Fatalf("Read(%x) err = %v, want Truncated", buf, err)
		}
	}
}

func TestOverflow(t *testing.T) {
	// Eleven continuation bytes can never terminate within MaxLen.
	long := bytes.Repeat([]byte{0x80}, 11)
	if _, _, err := Read(long); !iplderr.IsKind(err, iplderr.KindOverflow) {
		t.Fatalf("Read(11 bytes) err = %v, want Overflow", err)
	}
	// Ten bytes whose tenth byte carries more than the one remaining bit.
	big := append(bytes.Repeat([]byte{0xff}, 9), 0x02)
	if _, _, err := Read(big); !iplderr.IsKind(err, iplderr.KindOverflow) {
		t.Fatalf("Read(2^65-ish) err = %v, want Overflow", err)
	}
	// MaxUint64 itself is fine: nine 0xff bytes then 0x01.
	max := append(bytes.Repeat([]byte{0xff}, 9), 0x01)
	v, n, err := Read(max)
	if err != nil || v != math.MaxUint64 || n != 10 {
		t.Fatalf("Read(max) = (%d, %d, %v)", v, n, err)
	}
}

func TestReadAtOffset(t *testing.T) {
	buf := []byte{0x00, 0x00, 0xac, 0x02, 0x7f}
	v, n, err := ReadAt(buf, 2)
	if err != nil || v != 300 || n != 2 {
		t.Fatalf("ReadAt = (%d, %d, %v), want (300, 2, nil)", v, n, err)
	}
}

func TestReadFrom(t *testing.T) {
	r := bytes.NewReader([]byte{0xac, 0x02, 0x05})
	v, n, err := ReadFrom(r)
	if err != nil || v != 300 || n != 2 {
		t.Fatalf("ReadFrom = (%d, %d, %v)", v, n, err)
	}
	v, _, err = ReadFrom(r)
	if err != nil || v != 5 {
		t.Fatalf("ReadFrom second = (%d, %v)", v, err)
	}
	if _, _, err := ReadFrom(r); err != io.EOF {
		t.Fatalf("ReadFrom at end = %v, want io.EOF", err)
	}

	// EOF mid-varint is Truncated, not a clean end.
	r = bytes.NewReader([]byte{0x80})
	if _, _, err := ReadFrom(r); !iplderr.IsKind(err, iplderr.KindTruncated) {
		t.Fatalf("ReadFrom(partial) err = %v, want Truncated", err)
	}
}
