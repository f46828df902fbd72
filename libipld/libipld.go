// Package libipld is the embedding surface of the codec stack. Every entry
// point converts internal panics into the error taxonomy so untrusted input
// can never take down a hosting process.
package libipld

import (
	"xdao.co/ipld/car"
	"xdao.co/ipld/cid"
	"xdao.co/ipld/dagcbor"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/iplderr"
	"xdao.co/ipld/multibase"
)

// DecodeCid parses a CID from its text form.
func DecodeCid(s string) (c cid.Cid, err error) {
	defer guard(&err, iplderr.KindMalformedCid)
	return cid.Parse(s)
}

// DecodeCidBytes parses a CID from its binary form.
func DecodeCidBytes(data []byte) (c cid.Cid, err error) {
	defer guard(&err, iplderr.KindMalformedCid)
	return cid.FromBytes(data)
}

// EncodeCid validates a text CID and returns it unchanged. Re-encoding an
// already-encoded CID is idempotent so callers can normalize blindly.
func EncodeCid(s string) (out string, err error) {
	defer guard(&err, iplderr.KindMalformedCid)
	if _, err := cid.Parse(s); err != nil {
		return "", err
	}
	return s, nil
}

// EncodeCidBytes parses a binary CID and returns its canonical text form.
func EncodeCidBytes(data []byte) (out string, err error) {
	defer guard(&err, iplderr.KindMalformedCid)
	c, err := cid.FromBytes(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// DecodeDagCbor decodes a single canonical DAG-CBOR value.
func DecodeDagCbor(data []byte) (v datamodel.Value, err error) {
	defer guard(&err, iplderr.KindNonCanonical)
	return dagcbor.Decode(data)
}

// DecodeDagCborMulti decodes a concatenation of canonical DAG-CBOR values.
func DecodeDagCborMulti(data []byte) (vs []datamodel.Value, err error) {
	defer guard(&err, iplderr.KindNonCanonical)
	return dagcbor.DecodeMulti(data)
}

// EncodeDagCbor serializes a value to canonical DAG-CBOR.
func EncodeDagCbor(v datamodel.Value) (data []byte, err error) {
	defer guard(&err, iplderr.KindNonCanonical)
	return dagcbor.Encode(v)
}

// DecodeMultibase decodes prefixed text and reports which base encoded it.
func DecodeMultibase(s string) (code byte, data []byte, err error) {
	defer guard(&err, iplderr.KindInvalidCharacter)
	return multibase.Decode(s)
}

// EncodeMultibase encodes data under the base named by code.
func EncodeMultibase(code byte, data []byte) (s string, err error) {
	defer guard(&err, iplderr.KindUnknownBase)
	return multibase.Encode(code, data)
}

// DecodeCar unpacks a CARv1 archive into its header and block table.
func DecodeCar(data []byte) (h car.Header, blocks map[cid.Cid][]byte, err error) {
	defer guard(&err, iplderr.KindMalformedCar)
	return car.Decode(data)
}

// guard converts a panic into a structured error of the given kind. A panic
// that already carries a taxonomy error keeps its kind.
func guard(err *error, kind iplderr.Kind) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && iplderr.KindOf(e) != "" {
		*err = e
		return
	}
	*err = iplderr.Newf(kind, "internal fault: %v", r)
}
