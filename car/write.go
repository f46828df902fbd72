package car

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"xdao.co/ipld/cid"
	"xdao.co/ipld/dagcbor"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/varint"
)

// Writer emits a CARv1 archive. The header is written by NewWriter; blocks
// are appended in the order Put is called.
type Writer struct {
	w io.Writer
}

// NewWriter writes the archive header for the given roots to w.
func NewWriter(w io.Writer, roots []cid.Cid) (*Writer, error) {
	for i, r := range roots {
		if !r.Defined() {
			return nil, fmt.Errorf("car: root %d is undefined", i)
		}
	}
	hdr, err := encodeHeader(roots)
	if err != nil {
		return nil, err
	}
	if err := writeFrame(w, hdr); err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

// Put appends one block frame. The caller is responsible for id matching the
// digest of data.
func (w *Writer) Put(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return fmt.Errorf("car: undefined block CID")
	}
	idBytes := id.Bytes()
	if err := writeVarint(w.w, uint64(len(idBytes)+len(data))); err != nil {
		return err
	}
	if _, err := w.w.Write(idBytes); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

// Encode serializes a complete archive. The output is deterministic: blocks
// are written in lexicographic order of their text CIDs.
func Encode(roots []cid.Cid, blocks map[cid.Cid][]byte) ([]byte, error) {
	ids := make([]cid.Cid, 0, len(blocks))
	for id := range blocks {
		if !id.Defined() {
			return nil, fmt.Errorf("car: undefined block CID")
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var buf bytes.Buffer
	w, err := NewWriter(&buf, roots)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := w.Put(id, blocks[id]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeHeader(roots []cid.Cid) ([]byte, error) {
	list := make(datamodel.List, len(roots))
	for i, r := range roots {
		list[i] = datamodel.Link(r)
	}
	return dagcbor.Encode(datamodel.Map{
		"version": datamodel.Int(Version),
		"roots":   list,
	})
}

func writeFrame(w io.Writer, frame []byte) error {
	if err := writeVarint(w, uint64(len(frame))); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

func writeVarint(w io.Writer, v uint64) error {
	_, err := w.Write(varint.Encode(v))
	return err
}
