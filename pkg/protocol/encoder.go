package protocol

import (
	"encoding/binary"

	"github.com/vango-dev/vbind/pkg/dom"
)

// Encoder appends frame payload fields to a growing buffer. Integers are
// uvarints unless noted; strings and ID lists carry a uvarint length.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an encoder with room for a small patch batch.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the encoder and keeps its buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the encoded bytes. The slice is valid until the next
// Reset or write.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int { return len(e.buf) }

// WriteByte appends b. It never fails; the error return satisfies
// io.ByteWriter.
func (e *Encoder) WriteByte(b byte) error {
	e.buf = append(e.buf, b)
	return nil
}

// WriteUvarint appends v as an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// WriteString appends a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends 0x01 for true and 0x00 for false.
func (e *Encoder) WriteBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, v)
}

// WriteUint32 appends v in big-endian order, as used by frame headers.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

// WritePatchHeader appends the op byte and target node ID that start every
// encoded patch.
func (e *Encoder) WritePatchHeader(op dom.MutationOp, nodeID uint64) {
	e.buf = append(e.buf, byte(op))
	e.WriteUvarint(nodeID)
}

// WriteIDs appends a count followed by each node ID.
func (e *Encoder) WriteIDs(ids []uint64) {
	e.WriteUvarint(uint64(len(ids)))
	for _, id := range ids {
		e.WriteUvarint(id)
	}
}
