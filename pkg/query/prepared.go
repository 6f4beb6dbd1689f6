package query

import "github.com/TankHQ/tank/pkg/value"

// Prepared is a statement compiled ahead of execution, holding a binding
// slot per placeholder.
type Prepared interface {
	// ClearBindings drops every bound value.
	ClearBindings()
	// Bind appends a value to the next free slot.
	Bind(v value.Value)
	// BindAt sets the zero-based slot, growing the slot list as needed.
	BindAt(index uint64, v value.Value)
	// Metadata returns the statement facts for mutation in place.
	Metadata() *QueryMetadata
	// Bindings returns the current slots in placeholder order.
	Bindings() []value.Value
}

// BoundStatement implements the binding bookkeeping of Prepared. Backends
// embed it and add their compiled statement handle.
type BoundStatement struct {
	meta  QueryMetadata
	slots []value.Value
}

// NewBoundStatement returns binding storage for a statement with the
// given facts.
func NewBoundStatement(meta QueryMetadata) BoundStatement {
	return BoundStatement{meta: meta}
}

func (b *BoundStatement) ClearBindings() { b.slots = b.slots[:0] }

func (b *BoundStatement) Bind(v value.Value) { b.slots = append(b.slots, v) }

func (b *BoundStatement) BindAt(index uint64, v value.Value) {
	for uint64(len(b.slots)) <= index {
		b.slots = append(b.slots, value.Null{})
	}
	b.slots[index] = v
}

func (b *BoundStatement) Metadata() *QueryMetadata { return &b.meta }

func (b *BoundStatement) Bindings() []value.Value { return b.slots }
