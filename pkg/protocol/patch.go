package protocol

import (
	"fmt"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// PatchesFrame is the batch of mutations one flush produced.
type PatchesFrame struct {
	Seq     uint64
	Patches []dom.Mutation
}

// Frame wraps the encoded batch in a FramePatches frame.
func (pf *PatchesFrame) Frame() *Frame {
	return &Frame{Type: FramePatches, Flags: FlagSequenced, Payload: EncodePatches(pf)}
}

// EncodePatches encodes a patches frame payload to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame payload using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))

	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, m *dom.Mutation) {
	e.WritePatchHeader(m.Op, m.NodeID)

	switch m.Op {
	case dom.OpSetText:
		e.WriteString(m.Value)

	case dom.OpSetAttr, dom.OpSetStyle:
		e.WriteString(m.Key)
		e.WriteString(m.Value)

	case dom.OpRemoveAttr, dom.OpRemoveStyle:
		e.WriteString(m.Key)

	case dom.OpInsertNode:
		e.WriteUvarint(uint64(m.Index))
		e.WriteString(m.Value)

	case dom.OpRemoveNode:
		// NodeID is sufficient

	case dom.OpSetProp:
		e.WriteString(m.Key)
		e.WriteBool(m.Bool)
	}
}

// DecodePatches decodes a patches frame payload. Failures are E401 errors
// wrapping the underlying cause.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	pf, err := DecodePatchesFrom(d)
	if err != nil {
		return nil, errors.New(errors.CodeProtocolDecode).
			WithDetailf("patches frame at byte %d", d.Position()).
			Wrap(err)
	}
	return pf, nil
}

// DecodePatchesFrom decodes a patches frame payload from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]dom.Mutation, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &PatchesFrame{
		Seq:     seq,
		Patches: patches,
	}, nil
}

func decodePatch(d *Decoder, m *dom.Mutation) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Op = dom.MutationOp(opByte)

	m.NodeID, err = d.ReadUvarint()
	if err != nil {
		return err
	}

	switch m.Op {
	case dom.OpSetText:
		m.Value, err = d.ReadString()

	case dom.OpSetAttr, dom.OpSetStyle:
		m.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		m.Value, err = d.ReadString()

	case dom.OpRemoveAttr, dom.OpRemoveStyle:
		m.Key, err = d.ReadString()

	case dom.OpInsertNode:
		var idx uint64
		idx, err = d.ReadUvarint()
		if err != nil {
			return err
		}
		m.Index = int(idx)
		m.Value, err = d.ReadString()

	case dom.OpRemoveNode:
		// No additional data

	case dom.OpSetProp:
		m.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		m.Bool, err = d.ReadBool()

	default:
		// Patches carry no length, so an unknown op cannot be skipped.
		return fmt.Errorf("protocol: unknown patch op 0x%02x", opByte)
	}

	return err
}

// SnapshotFrame carries the full markup of a tree as of flush Seq. IDs
// lists the node IDs of the markup in document order, elements and text
// nodes alike, so a client can address later patches.
type SnapshotFrame struct {
	Seq  uint64
	HTML string
	IDs  []uint64
}

// Frame wraps the snapshot in a FrameSnapshot frame.
func (sf *SnapshotFrame) Frame() *Frame {
	e := NewEncoder()
	e.WriteUvarint(sf.Seq)
	e.WriteString(sf.HTML)
	e.WriteIDs(sf.IDs)
	return &Frame{Type: FrameSnapshot, Flags: FlagSequenced, Payload: e.Bytes()}
}

// DecodeSnapshot decodes a snapshot frame payload.
func DecodeSnapshot(data []byte) (*SnapshotFrame, error) {
	d := NewDecoder(data)
	sf, err := decodeSnapshotFrom(d)
	if err != nil {
		return nil, errors.New(errors.CodeProtocolDecode).
			WithDetailf("snapshot frame at byte %d", d.Position()).
			Wrap(err)
	}
	return sf, nil
}

func decodeSnapshotFrom(d *Decoder) (*SnapshotFrame, error) {
	sf := &SnapshotFrame{}
	var err error
	if sf.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if sf.HTML, err = d.ReadString(); err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	sf.IDs = make([]uint64, count)
	for i := range sf.IDs {
		if sf.IDs[i], err = d.ReadUvarint(); err != nil {
			return nil, err
		}
	}
	return sf, nil
}
