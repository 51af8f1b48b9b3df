package protocol

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

func TestPatchEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		patch dom.Mutation
	}{
		{"set_text", dom.Mutation{Op: dom.OpSetText, NodeID: 1, Value: "Hello, World!"}},
		{"set_attr", dom.Mutation{Op: dom.OpSetAttr, NodeID: 2, Key: "class", Value: "msg msg-error"}},
		{"set_attr_line_break", dom.Mutation{Op: dom.OpSetAttr, NodeID: 2, Key: "title", Value: "line1\r\nline2"}},
		{"remove_attr", dom.Mutation{Op: dom.OpRemoveAttr, NodeID: 3, Key: "disabled"}},
		{"insert_node", dom.Mutation{Op: dom.OpInsertNode, NodeID: 4, Index: 2, Value: "<p>x</p>"}},
		{"remove_node", dom.Mutation{Op: dom.OpRemoveNode, NodeID: 5}},
		{"set_prop_true", dom.Mutation{Op: dom.OpSetProp, NodeID: 6, Key: "disabled", Bool: true}},
		{"set_prop_false", dom.Mutation{Op: dom.OpSetProp, NodeID: 6, Key: "readonly"}},
		{"set_style", dom.Mutation{Op: dom.OpSetStyle, NodeID: 7, Key: "display", Value: "none"}},
		{"remove_style", dom.Mutation{Op: dom.OpRemoveStyle, NodeID: 8, Key: "height"}},
		{"large_id", dom.Mutation{Op: dom.OpSetText, NodeID: 1 << 40, Value: ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := &PatchesFrame{Seq: 42, Patches: []dom.Mutation{tc.patch}}
			out, err := DecodePatches(EncodePatches(in))
			if err != nil {
				t.Fatalf("DecodePatches() error = %v", err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatchesFrameKeepsOrder(t *testing.T) {
	in := &PatchesFrame{Seq: 7, Patches: []dom.Mutation{
		{Op: dom.OpSetStyle, NodeID: 1, Key: "display", Value: "none"},
		{Op: dom.OpSetText, NodeID: 2, Value: "b"},
		{Op: dom.OpSetAttr, NodeID: 1, Key: "class", Value: "x"},
	}}

	f, err := DecodeFrame(in.Frame().Encode())
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if f.Type != FramePatches || !f.Flags.Has(FlagSequenced) {
		t.Errorf("frame = %v/%v, want Patches/Sequenced", f.Type, f.Flags)
	}
	out, err := DecodePatches(f.Payload)
	if err != nil {
		t.Fatalf("DecodePatches() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyPatchesFrame(t *testing.T) {
	data := EncodePatches(&PatchesFrame{Seq: 1})
	if len(data) != 2 {
		t.Errorf("encoded length = %d, want 2", len(data))
	}
	out, err := DecodePatches(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Seq != 1 || len(out.Patches) != 0 {
		t.Errorf("DecodePatches() = %+v, want seq 1 with no patches", out)
	}
}

func TestDecodePatchesErrors(t *testing.T) {
	full := EncodePatches(&PatchesFrame{Seq: 3, Patches: []dom.Mutation{
		{Op: dom.OpSetAttr, NodeID: 9, Key: "title", Value: "hello"},
	}})

	tests := []struct {
		name  string
		data  []byte
		cause error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"truncated", full[:len(full)-2], io.ErrUnexpectedEOF},
		{"unknown_op", []byte{0x01, 0x01, 0x7f, 0x01}, nil},
		{"bad_bool", []byte{0x01, 0x01, byte(dom.OpSetProp), 0x01, 0x00, 0x05}, ErrInvalidBool},
		{"count_overflow", []byte{0x01, 0x05, byte(dom.OpRemoveNode), 0x01}, io.ErrUnexpectedEOF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePatches(tc.data)
			if err == nil {
				t.Fatal("DecodePatches() error = nil")
			}
			if !stderrors.Is(err, errors.New(errors.CodeProtocolDecode)) {
				t.Errorf("error = %v, want E401", err)
			}
			if tc.cause != nil && !stderrors.Is(err, tc.cause) {
				t.Errorf("error = %v, want cause %v", err, tc.cause)
			}
		})
	}
}

func TestSnapshotFrame(t *testing.T) {
	in := &SnapshotFrame{Seq: 12, HTML: `<div title="a">b</div>`, IDs: []uint64{3, 4}}
	f, err := DecodeFrame(in.Frame().Encode())
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != FrameSnapshot {
		t.Errorf("Type = %v, want Snapshot", f.Type)
	}
	out, err := DecodeSnapshot(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeSnapshot([]byte{0x01, 0x09}); !stderrors.Is(err, errors.New(errors.CodeProtocolDecode)) {
		t.Errorf("DecodeSnapshot(truncated) error = %v, want E401", err)
	}
}
