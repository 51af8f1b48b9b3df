package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int
	}{
		{
			name:    "empty_payload",
			frame:   Frame{Type: FramePatches, Payload: []byte{}},
			wantLen: FrameHeaderSize,
		},
		{
			name:    "with_payload",
			frame:   Frame{Type: FramePatches, Flags: FlagSequenced, Payload: []byte{0x01, 0x02, 0x03}},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name:    "above_uint16",
			frame:   Frame{Type: FrameSnapshot, Payload: bytes.Repeat([]byte("x"), 70000)},
			wantLen: FrameHeaderSize + 70000,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.frame.Encode()
			if len(encoded) != tc.wantLen {
				t.Errorf("Encode() length = %d, want %d", len(encoded), tc.wantLen)
			}

			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			if decoded.Type != tc.frame.Type {
				t.Errorf("Type = %v, want %v", decoded.Type, tc.frame.Type)
			}
			if decoded.Flags != tc.frame.Flags {
				t.Errorf("Flags = %v, want %v", decoded.Flags, tc.frame.Flags)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("Payload length = %d, want %d", len(decoded.Payload), len(tc.frame.Payload))
			}
		})
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameSnapshot, []byte("<p></p>")),
		NewFrame(FramePatches, []byte{0x01, 0x00}),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}

	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("ReadFrame() #%d = %v %q, want %v %q", i, got.Type, got.Payload, want.Type, want.Payload)
		}
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() at end error = %v, want io.EOF", err)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x02, 0x00}); err != io.ErrUnexpectedEOF {
		t.Errorf("short header error = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := DecodeFrame([]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x05, 0x01}); err != io.ErrUnexpectedEOF {
		t.Errorf("short payload error = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := DecodeFrame([]byte{0x02, 0x00, 0x7f, 0xff, 0xff, 0xff}); err != ErrFrameTooLarge {
		t.Errorf("huge length error = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FrameSnapshot, "Snapshot"},
		{FramePatches, "Patches"},
		{FrameType(0xff), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.ft.String(); got != tc.want {
			t.Errorf("FrameType(%d).String() = %q, want %q", tc.ft, got, tc.want)
		}
	}
}

func TestDecoderVarint(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 35, ^uint64(0)}
	e := NewEncoder()
	for _, v := range values {
		e.WriteUvarint(v)
	}
	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint() error = %v", err)
		}
		if got != want {
			t.Errorf("ReadUvarint() = %d, want %d", got, want)
		}
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d, want 0", d.Remaining())
	}

	overflow := NewDecoder(bytes.Repeat([]byte{0xff}, 11))
	if _, err := overflow.ReadUvarint(); err != ErrVarintOverflow {
		t.Errorf("ReadUvarint(overflow) error = %v, want ErrVarintOverflow", err)
	}
}
