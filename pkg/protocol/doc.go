// Package protocol implements the binary wire format vbind uses to stream
// DOM mutations to a browser.
//
// Every flush of the update scheduler produces at most one PatchesFrame:
// the ordered list of effective DOM writes it made, tagged with the flush
// sequence number. A client that connects late first receives a
// SnapshotFrame holding the current markup of the tree.
//
// # Wire Format
//
// Messages are framed with a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Encoding
//
//   - Varint: compact encoding for node IDs, counts and sequence numbers
//   - Length-prefixed: strings prefixed with their varint length
//
// # Patches
//
// Each patch is an op byte, the target node ID and op-specific data.
// SetText, for example:
//
//	[Op: 0x01][NodeID: varint][Value: len-prefixed]
package protocol
