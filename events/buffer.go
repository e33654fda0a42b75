package events

import (
	"context"

	"github.com/paystar/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// Buffer collects the events of a single transaction. It is not safe for
// concurrent use.
type Buffer struct {
	events []Event
}

// Emit appends an event to the buffer.
func (b *Buffer) Emit(topic string, attrs ...common.KVPair) {
	b.events = append(b.events, Event{Topic: topic, Attributes: attrs})
}

// Mark returns a position that Rollback can return to.
func (b *Buffer) Mark() int {
	return len(b.events)
}

// Rollback drops all events emitted after the mark was taken.
func (b *Buffer) Rollback(mark int) {
	if mark < 0 || mark > len(b.events) {
		return
	}
	b.events = b.events[:mark]
}

// Events returns the buffered events in emission order.
func (b *Buffer) Events() []Event {
	return b.events
}

// Reset drops all events.
func (b *Buffer) Reset() {
	b.events = nil
}

type contextKey int

const bufferKey contextKey = 1

// WithBuffer returns a context carrying the buffer.
func WithBuffer(ctx custody.Context, b *Buffer) custody.Context {
	return context.WithValue(ctx, bufferKey, b)
}

// FromContext returns the buffer of the context, or nil.
func FromContext(ctx custody.Context) *Buffer {
	b, _ := ctx.Value(bufferKey).(*Buffer)
	return b
}

// Emit appends an event to the buffer of the context. Without a buffer the
// event is dropped.
func Emit(ctx custody.Context, topic string, attrs ...common.KVPair) {
	if b := FromContext(ctx); b != nil {
		b.Emit(topic, attrs...)
	}
}

// Mark returns the current position of the context buffer, or -1 if the
// context has no buffer.
func Mark(ctx custody.Context) int {
	if b := FromContext(ctx); b != nil {
		return b.Mark()
	}
	return -1
}

// Rollback drops the events of the context buffer emitted after mark.
func Rollback(ctx custody.Context, mark int) {
	if b := FromContext(ctx); b != nil {
		b.Rollback(mark)
	}
}
