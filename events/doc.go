/*
Package events collects notifications about the state transitions of the
extensions.

A handler emits an event through the Buffer stored in the context. The buffer
is marked before an operation and rolled back when the operation fails, so
only the events of successful operations are ever published. Once a
transaction is delivered, the application passes the buffered events to the
configured Sink.

Events carry no authority. They are a convenience for observers and must
never be read back by a state machine.
*/
package events
