package dom

import "sync"

// MutationOp is the type of a recorded DOM write.
type MutationOp uint8

const (
	OpSetText     MutationOp = 0x01 // Update text content
	OpSetAttr     MutationOp = 0x02 // Set/update attribute
	OpRemoveAttr  MutationOp = 0x03 // Remove attribute
	OpInsertNode  MutationOp = 0x04 // Append child (Value holds its HTML)
	OpRemoveNode  MutationOp = 0x05 // Detach node
	OpSetProp     MutationOp = 0x09 // Set IDL boolean property
	OpSetStyle    MutationOp = 0x13 // Set style property
	OpRemoveStyle MutationOp = 0x14 // Remove style property
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsertNode:
		return "InsertNode"
	case OpRemoveNode:
		return "RemoveNode"
	case OpSetProp:
		return "SetProp"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	default:
		return "Unknown"
	}
}

// Mutation is one effective DOM write.
type Mutation struct {
	Op     MutationOp
	NodeID uint64 // Target node (parent for InsertNode)
	Key    string // Attribute, property or style name
	Value  string
	Bool   bool // For SetProp
	Index  int  // For InsertNode
}

// Recorder receives mutations from the subtree it is attached to.
type Recorder interface {
	Record(m Mutation)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Mutation)

// Record implements Recorder.
func (f RecorderFunc) Record(m Mutation) { f(m) }

// SetRecorder attaches r to n. Mutations anywhere in n's subtree are
// delivered to the nearest recorder. Pass nil to detach.
func (n *Node) SetRecorder(r Recorder) {
	n.recorder = r
}

func (n *Node) emit(m Mutation) {
	for p := n; p != nil; p = p.parent {
		if p.recorder != nil {
			p.recorder.Record(m)
			return
		}
	}
}

// Buffer is a Recorder that accumulates mutations until drained.
type Buffer struct {
	mu        sync.Mutex
	mutations []Mutation
}

// NewBuffer creates an empty mutation buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Record implements Recorder.
func (b *Buffer) Record(m Mutation) {
	b.mu.Lock()
	b.mutations = append(b.mutations, m)
	b.mu.Unlock()
}

// Len returns the number of buffered mutations.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mutations)
}

// Drain returns and clears the buffered mutations.
func (b *Buffer) Drain() []Mutation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.mutations
	b.mutations = nil
	return out
}
