package emit

import "context"

// NullEmitter discards every event. Used when observability is not
// wanted, or as the matcher's zero-value default.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

// Emit discards event.
func (n *NullEmitter) Emit(Event) {}

// EmitBatch discards events.
func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (n *NullEmitter) Flush(context.Context) error { return nil }
