package multibase

import (
	"bytes"
	"testing"

	"xdao.co/ipld/iplderr"
)

func TestEncodeVectors(t *testing.T) {
	cases := []struct {
		code byte
		data string
		want string
	}{
		{Base8, "yes mani !", "7362625631006654133464440102"},
		{Base64URL, "yes mani !", "ueWVzIG1hbmkgIQ"},
		{Base2, "a", "001100001"},
		{Base16, "yes mani !", "f796573206d616e692021"},
		{Base16Upper, "yes mani !", "F796573206D616E692021"},
		{Base32, "yes mani !", "bpfsxgidnmfxgsibb"},
		{Base32Upper, "yes mani !", "BPFSXGIDNMFXGSIBB"},
		{Base32Pad, "yes mani !", "cpfsxgidnmfxgsibb"},
		{Base36, "yes mani !", "k2lcpzo5yikidynfl"},
		{Base58BTC, "yes mani !", "z7paNL19xttacUY"},
		{Base64, "yes mani !", "meWVzIG1hbmkgIQ"},
		{Base64Pad, "yes mani !", "MeWVzIG1hbmkgIQ=="},
	}
	for _, c := range cases {
		got, err := Encode(c.code, []byte(c.data))
		if err != nil {
			t.Fatalf("Encode(%q, %q): %v", c.code, c.data, err)
		}
		if got != c.want {
			t.Fatalf("Encode(%q, %q) = %q, want %q", c.code, c.data, got, c.want)
		}
	}
}

func TestDecodeVectors(t *testing.T) {
	code, data, err := Decode("ueWVzIG1hbmkgIQ")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if code != Base64URL || string(data) != "yes mani !" {
		t.Fatalf("Decode = (%q, %q)", code, data)
	}

	code, data, err = Decode("zQ3shusJHhGZ21fxVrCSs4TNNYQp84yDcT7XhpR2thAvV26wB")
	if err != nil {
		t.Fatalf("Decode base58: %v", err)
	}
	want := []byte("\xe7\x01\x03\xe2@y~I\xd8W\xdb}\xfb\xb1\xc4uG\xd6ec\xf8]\xb3\x16\xd0;\x11S\x19\xcfX\xf8\xb5QB")
	if code != Base58BTC || !bytes.Equal(data, want) {
		t.Fatalf("Decode base58 = (%q, %x)", code, data)
	}

	// Upper-case base32 and base8 payloads from the reference test suite.
	if _, data, err = Decode("BPFSXGIDNMFXGSIBB"); err != nil || string(data) != "yes mani !" {
		t.Fatalf("Decode base32upper = (%q, %v)", data, err)
	}
	if _, data, err = Decode("7362625631006654133464440102"); err != nil || string(data) != "yes mani !" {
		t.Fatalf("Decode base8 = (%q, %v)", data, err)
	}
}

func TestRoundTripAllBases(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		[]byte("yes mani !"),
		{0xff, 0xfe, 0x00, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde},
	}
	for _, e := range Encodings() {
		for _, p := range payloads {
			s, err := Encode(e.Code, p)
			if err != nil {
				t.Fatalf("%s: Encode: %v", e.Name, err)
			}
			code, data, err := Decode(s)
			if err != nil {
				t.Fatalf("%s: Decode(%q): %v", e.Name, s, err)
			}
			if code != e.Code || !bytes.Equal(data, p) {
				t.Fatalf("%s: round trip of %x via %q = (%q, %x)", e.Name, p, s, code, data)
			}
		}
	}
}

func TestUnknownBase(t *testing.T) {
	if _, _, err := Decode("dddddd"); !iplderr.IsKind(err, iplderr.KindUnknownBase) {
		t.Fatalf("Decode unknown prefix err = %v, want UnknownBase", err)
	}
	if _, _, err := Decode(""); !iplderr.IsKind(err, iplderr.KindUnknownBase) {
		t.Fatalf("Decode empty err = %v, want UnknownBase", err)
	}
	if _, err := Encode('d', []byte("x")); !iplderr.IsKind(err, iplderr.KindUnknownBase) {
		t.Fatalf("Encode unknown code err = %v, want UnknownBase", err)
	}
}

func TestInvalidCharacter(t *testing.T) {
	cases := []string{
		"f0g",     // 'g' not in base16
		"01102",   // '2' not in base2
		"z0OIl",   // ambiguous characters excluded from base58btc
		"bA",      // upper-case char in lower-case base32
		"7368",    // '8' not in base8
		"mab\ncd", // control character in base64
	}
	for _, s := range cases {
		if _, _, err := Decode(s); !iplderr.IsKind(err, iplderr.KindInvalidCharacter) {
			t.Fatalf("Decode(%q) err = %v, want InvalidCharacter", s, err)
		}
	}
}

func TestInvalidPadding(t *testing.T) {
	cases := []string{
		"MeWVzIG1hbmkgIQ",   // base64pad without its padding
		"MeWVzIG1hbmkgIQ=",  // short padding
		"meWVzIG1hbmkgIQ==", // padding on an unpadded base
		"cmy",               // base32pad without its padding
	}
	for _, s := range cases {
		if _, _, err := Decode(s); !iplderr.IsKind(err, iplderr.KindInvalidPadding) {
			t.Fatalf("Decode(%q) err = %v, want InvalidPadding", s, err)
		}
	}
}

func TestIdentity(t *testing.T) {
	s, err := Encode(Identity, []byte("raw\x00bytes"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if s != "\x00raw\x00bytes" {
		t.Fatalf("Encode identity = %q", s)
	}
	code, data, err := Decode(s)
	if err != nil || code != Identity || string(data) != "raw\x00bytes" {
		t.Fatalf("Decode identity = (%q, %q, %v)", code, data, err)
	}
}
