// Package car reads and writes CARv1 archives: a varint-framed sequence of
// a DAG-CBOR header followed by CID-prefixed blocks.
package car

import (
	"bufio"
	"bytes"
	"io"

	"xdao.co/ipld/cid"
	"xdao.co/ipld/dagcbor"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/iplderr"
	"xdao.co/ipld/varint"
)

// Version is the only archive version this package accepts.
const Version = 1

// MaxFrameSize bounds a single varint-framed section. Frames claiming more
// are rejected as MalformedCar before any allocation.
const MaxFrameSize = 32 << 20

// Header is the decoded CARv1 archive header.
type Header struct {
	Version uint64
	Roots   []cid.Cid
}

// Block is one CID-addressed payload from an archive.
type Block struct {
	Cid  cid.Cid
	Data []byte
}

// Reader decodes a CARv1 archive from a stream. The header is consumed by
// NewReader; blocks are returned one at a time by Next.
type Reader struct {
	br     *bufio.Reader
	header Header
}

// NewReader reads and validates the archive header from r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	return &Reader{br: br, header: h}, nil
}

// Header returns the archive header decoded by NewReader.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next block in the archive. It returns io.EOF when the
// archive ends cleanly on a frame boundary; an archive that ends inside a
// frame fails with Truncated.
func (r *Reader) Next() (Block, error) {
	frame, err := readFrame(r.br)
	if err != nil {
		return Block{}, err
	}
	// CID parse failures keep their MalformedCid kind; the frame layout
	// around them is what MalformedCar covers.
	id, n, err := cid.DecodeFirst(frame)
	if err != nil {
		return Block{}, err
	}
	return Block{Cid: id, Data: frame[n:]}, nil
}

// Decode reads a complete archive from data. Blocks are keyed by CID; when
// an archive carries more than one frame for the same CID, the last one wins.
func Decode(data []byte) (Header, map[cid.Cid][]byte, error) {
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		return Header{}, nil, err
	}
	blocks := make(map[cid.Cid][]byte)
	for {
		b, err := r.Next()
		if err == io.EOF {
			return r.header, blocks, nil
		}
		if err != nil {
			return Header{}, nil, err
		}
		blocks[b.Cid] = b.Data
	}
}

func readHeader(br *bufio.Reader) (Header, error) {
	frame, err := readFrame(br)
	if err == io.EOF {
		return Header{}, iplderr.New(iplderr.KindMalformedCar, "archive is empty")
	}
	if err != nil {
		return Header{}, err
	}

	v, err := dagcbor.Decode(frame)
	if err != nil {
		return Header{}, iplderr.Wrap(iplderr.KindMalformedCar, "header is not canonical dag-cbor", err)
	}
	m, ok := v.(datamodel.Map)
	if !ok {
		return Header{}, iplderr.New(iplderr.KindMalformedCar, "header is not a map")
	}
	if len(m) != 2 {
		return Header{}, iplderr.Newf(iplderr.KindMalformedCar, "header has %d keys, want version and roots", len(m))
	}

	ver, ok := m["version"].(datamodel.Int)
	if !ok {
		return Header{}, iplderr.New(iplderr.KindMalformedCar, "header version is missing or not an integer")
	}
	if ver != Version {
		return Header{}, iplderr.Newf(iplderr.KindMalformedCar, "unsupported archive version %d", int64(ver))
	}

	rootsVal, ok := m["roots"].(datamodel.List)
	if !ok {
		return Header{}, iplderr.New(iplderr.KindMalformedCar, "header roots is missing or not a list")
	}
	roots := make([]cid.Cid, 0, len(rootsVal))
	for i, rv := range rootsVal {
		link, ok := rv.(datamodel.Link)
		if !ok {
			return Header{}, iplderr.Newf(iplderr.KindMalformedCar, "header root %d is not a link", i)
		}
		roots = append(roots, link.Cid())
	}

	return Header{Version: uint64(ver), Roots: roots}, nil
}

// readFrame reads one varint-framed section. It returns io.EOF untouched when
// the stream ends cleanly before the length prefix.
func readFrame(br *bufio.Reader) ([]byte, error) {
	size, _, err := varint.ReadFrom(br)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, iplderr.New(iplderr.KindMalformedCar, "zero-length frame")
	}
	if size > MaxFrameSize {
		return nil, iplderr.Newf(iplderr.KindMalformedCar, "frame of %d bytes exceeds limit", size)
	}
	frame := make([]byte, size)
	if _, err := io.ReadFull(br, frame); err != nil {
		return nil, iplderr.Wrap(iplderr.KindTruncated, "archive ends inside a frame", err)
	}
	return frame, nil
}
