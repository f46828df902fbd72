package dagcbor

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"xdao.co/ipld/cid"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/iplderr"
)

// Decode parses exactly one canonical value from buf. Unconsumed bytes
// after the value fail with TrailingData.
func Decode(buf []byte) (datamodel.Value, error) {
	d := &decoder{buf: buf}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.off != len(buf) {
		return nil, iplderr.Atf(iplderr.KindTrailingData, d.off, "%d trailing bytes after value", len(buf)-d.off)
	}
	return v, nil
}

// DecodeMulti parses a concatenation of canonical values until buf is
// exhausted. A trailing partial value fails the whole call.
func DecodeMulti(buf []byte) ([]datamodel.Value, error) {
	dec := NewDecoder(buf)
	var out []datamodel.Value
	for {
		v, err := dec.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Decoder is a cursor over a buffer of concatenated values. It is
// restartable: Reset rewinds to the first value.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Next decodes the following value and advances the cursor by exactly the
// bytes consumed. It returns io.EOF once the buffer is exhausted.
func (d *Decoder) Next() (datamodel.Value, error) {
	if d.off == len(d.buf) {
		return nil, io.EOF
	}
	inner := &decoder{buf: d.buf, off: d.off}
	v, err := inner.value(0)
	if err != nil {
		return nil, err
	}
	d.off = inner.off
	return v, nil
}

// Reset rewinds the cursor to the start of the buffer.
func (d *Decoder) Reset() { d.off = 0 }

// Offset returns the cursor position in bytes.
func (d *Decoder) Offset() int { return d.off }

type decoder struct {
	buf []byte
	off int
}

// head reads the initial byte and its argument. For the length-bearing
// major types the argument must use the minimal width; major type 7 is
// returned raw since its info field selects simple values and float widths
// rather than a length.
func (d *decoder) head() (major byte, info byte, arg uint64, err error) {
	if d.off >= len(d.buf) {
		return 0, 0, 0, iplderr.At(iplderr.KindTruncated, d.off, "input ends before item head")
	}
	ib := d.buf[d.off]
	start := d.off
	d.off++
	major = ib >> 5
	info = ib & 0x1f

	if major == majorSimple {
		return major, info, 0, nil
	}

	switch {
	case info < 24:
		return major, info, uint64(info), nil
	case info == 24:
		arg, err = d.argBytes(start, 1)
		if err == nil && arg < 24 {
			err = iplderr.At(iplderr.KindNonCanonical, start, "non-minimal one-byte argument")
		}
	case info == 25:
		arg, err = d.argBytes(start, 2)
		if err == nil && arg <= math.MaxUint8 {
			err = iplderr.At(iplderr.KindNonCanonical, start, "non-minimal two-byte argument")
		}
	case info == 26:
		arg, err = d.argBytes(start, 4)
		if err == nil && arg <= math.MaxUint16 {
			err = iplderr.At(iplderr.KindNonCanonical, start, "non-minimal four-byte argument")
		}
	case info == 27:
		arg, err = d.argBytes(start, 8)
		if err == nil && arg <= math.MaxUint32 {
			err = iplderr.At(iplderr.KindNonCanonical, start, "non-minimal eight-byte argument")
		}
	case info == 31:
		err = iplderr.At(iplderr.KindNonCanonical, start, "indefinite-length item")
	default:
		err = iplderr.Atf(iplderr.KindNonCanonical, start, "reserved additional info %d", info)
	}
	if err != nil {
		return 0, 0, 0, err
	}
	return major, info, arg, nil
}

func (d *decoder) argBytes(start, n int) (uint64, error) {
	if d.off+n > len(d.buf) {
		return 0, iplderr.At(iplderr.KindTruncated, len(d.buf), "input ends inside item head")
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(d.buf[d.off+i])
	}
	d.off += n
	return v, nil
}

func (d *decoder) take(n uint64, what string) ([]byte, error) {
	if n > uint64(len(d.buf)-d.off) {
		return nil, iplderr.Atf(iplderr.KindTruncated, len(d.buf), "input ends inside %s", what)
	}
	b := d.buf[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

func (d *decoder) value(depth int) (datamodel.Value, error) {
	if depth > MaxDepth {
		return nil, iplderr.Atf(iplderr.KindDepthExceeded, d.off, "nesting deeper than %d", MaxDepth)
	}
	start := d.off
	major, info, arg, err := d.head()
	if err != nil {
		return nil, err
	}

	switch major {
	case majorUint:
		if arg > math.MaxInt64 {
			return nil, iplderr.Atf(iplderr.KindOverflow, start, "integer %d exceeds the signed 64-bit range", arg)
		}
		return datamodel.Int(arg), nil

	case majorNegInt:
		if arg > math.MaxInt64 {
			return nil, iplderr.Atf(iplderr.KindOverflow, start, "integer -%d-1 exceeds the signed 64-bit range", arg)
		}
		return datamodel.Int(-1 - int64(arg)), nil

	case majorBytes:
		b, err := d.take(arg, "byte string")
		if err != nil {
			return nil, err
		}
		// Decoded values never alias the caller's buffer.
		return datamodel.Bytes(append([]byte(nil), b...)), nil

	case majorText:
		b, err := d.take(arg, "text string")
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, iplderr.At(iplderr.KindInvalidCharacter, start, "text string is not valid UTF-8")
		}
		return datamodel.String(b), nil

	case majorList:
		return d.list(arg, depth)

	case majorMap:
		return d.mapping(arg, depth)

	case majorTag:
		if arg != linkTag {
			return nil, iplderr.Atf(iplderr.KindInvalidLink, start, "tag %d is not supported (only %d)", arg, linkTag)
		}
		return d.link()

	default: // majorSimple
		return d.simple(start, info)
	}
}

func (d *decoder) list(count uint64, depth int) (datamodel.Value, error) {
	// Every element takes at least one byte; a count beyond the remaining
	// input is truncated regardless of content, and this bound keeps a
	// hostile count from forcing a huge allocation.
	if count > uint64(len(d.buf)-d.off) {
		return nil, iplderr.Atf(iplderr.KindTruncated, len(d.buf), "list declares %d elements beyond end of input", count)
	}
	out := make(datamodel.List, 0, count)
	for i := uint64(0); i < count; i++ {
		el, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (d *decoder) mapping(count uint64, depth int) (datamodel.Value, error) {
	if count > uint64(len(d.buf)-d.off)/2 {
		return nil, iplderr.Atf(iplderr.KindTruncated, len(d.buf), "map declares %d entries beyond end of input", count)
	}
	out := make(datamodel.Map, count)
	var prev []byte
	for i := uint64(0); i < count; i++ {
		keyStart := d.off
		major, _, arg, err := d.head()
		if err != nil {
			return nil, err
		}
		if major != majorText {
			return nil, iplderr.At(iplderr.KindNonCanonical, keyStart, "map key is not a text string")
		}
		kb, err := d.take(arg, "map key")
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(kb) {
			return nil, iplderr.At(iplderr.KindInvalidCharacter, keyStart, "map key is not valid UTF-8")
		}
		if prev != nil {
			switch compareKeys(prev, kb) {
			case 0:
				return nil, iplderr.Atf(iplderr.KindNonCanonical, keyStart, "duplicate map key %q", kb)
			case 1:
				return nil, iplderr.Atf(iplderr.KindNonCanonical, keyStart, "map key %q out of canonical order", kb)
			}
		}
		prev = kb
		v, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[string(kb)] = v
	}
	return out, nil
}

// compareKeys orders keys the canonical way: by length, then bytewise.
func compareKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytesCompare(a, b)
}

func bytesCompare(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// link reads the byte-string payload of tag 42: an identity-multibase
// marker byte followed by a binary CID.
func (d *decoder) link() (datamodel.Value, error) {
	start := d.off
	major, _, arg, err := d.head()
	if err != nil {
		return nil, err
	}
	if major != majorBytes {
		return nil, iplderr.At(iplderr.KindInvalidLink, start, "link payload is not a byte string")
	}
	b, err := d.take(arg, "link payload")
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || b[0] != 0x00 {
		return nil, iplderr.At(iplderr.KindInvalidLink, start, "link payload lacks the identity multibase marker")
	}
	c, err := cid.FromBytes(b[1:])
	if err != nil {
		return nil, iplderr.WrapAt(iplderr.KindInvalidLink, start, "invalid CID in link", err)
	}
	return datamodel.Link(c), nil
}

func (d *decoder) simple(start int, info byte) (datamodel.Value, error) {
	switch info {
	case 20:
		return datamodel.Bool(false), nil
	case 21:
		return datamodel.Bool(true), nil
	case 22:
		return datamodel.Null{}, nil
	case 27:
		b, err := d.take(8, "double-precision float")
		if err != nil {
			return nil, err
		}
		return datamodel.Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case 25, 26:
		return nil, iplderr.At(iplderr.KindNonCanonical, start, "floats must use the 8-byte encoding")
	case 31:
		return nil, iplderr.At(iplderr.KindNonCanonical, start, "indefinite-length break outside a container")
	default:
		return nil, iplderr.Atf(iplderr.KindNonCanonical, start, "simple value %d is not part of the canonical form", info)
	}
}
