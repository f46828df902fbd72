// Package varint implements the unsigned LEB128 integers used to frame
// CID fields and CAR archive sections.
package varint

import (
	"io"

	"xdao.co/ipld/iplderr"
)

// MaxLen is the most bytes a 64-bit varint may occupy. The tenth byte can
// only contribute the single remaining high bit.
const MaxLen = 10

// Read decodes a varint from the start of buf. It returns the value and the
// number of bytes consumed.
func Read(buf []byte) (uint64, int, error) {
	return ReadAt(buf, 0)
}

// ReadAt decodes a varint from buf starting at off. It fails with Truncated
// if buf ends before a terminating byte, and with Overflow if the encoding
// runs past MaxLen bytes or the value does not fit in 64 bits.
func ReadAt(buf []byte, off int) (uint64, int, error) {
	var x uint64
	var s uint
	for i := 0; i < MaxLen; i++ {
		if off+i >= len(buf) {
			return 0, 0, iplderr.At(iplderr.KindTruncated, len(buf), "varint ends before terminating byte")
		}
		b := buf[off+i]
		if i == MaxLen-1 && b > 1 {
			return 0, 0, iplderr.At(iplderr.KindOverflow, off+i, "varint exceeds 64 bits")
		}
		if b < 0x80 {
			return x | uint64(b)<<s, i + 1, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, 0, iplderr.At(iplderr.KindOverflow, off+MaxLen, "varint longer than 10 bytes")
}

// ReadFrom decodes a varint from a byte stream. It returns io.EOF untouched
// when the stream is exhausted before the first byte, so framed readers can
// detect a clean end of input; EOF inside a varint is Truncated.
func ReadFrom(r io.ByteReader) (uint64, int, error) {
	var x uint64
	var s uint
	for i := 0; i < MaxLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && i == 0 {
				return 0, 0, io.EOF
			}
			return 0, 0, iplderr.Wrap(iplderr.KindTruncated, "varint ends before terminating byte", err)
		}
		if i == MaxLen-1 && b > 1 {
			return 0, 0, iplderr.New(iplderr.KindOverflow, "varint exceeds 64 bits")
		}
		if b < 0x80 {
			return x | uint64(b)<<s, i + 1, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, 0, iplderr.New(iplderr.KindOverflow, "varint longer than 10 bytes")
}

// Len returns the number of bytes the minimal encoding of v occupies.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Append appends the minimal-length encoding of v to dst.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Encode returns the minimal-length encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, Len(v)), v)
}
