package app

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/events"
)

// TxResult is the outcome of a delivered or checked transaction.
type TxResult struct {
	// Code is zero on success, the registered error code otherwise.
	Code uint32
	Log  string
	Data []byte
	// Events emitted by a successful transaction.
	Events []events.Event
	// Err is the, possibly redacted, error of a failed transaction.
	Err error
}

// IsOK returns true if the transaction succeeded.
func (r TxResult) IsOK() bool {
	return r.Code == 0 && r.Err == nil
}

// BlockResult is the outcome of a block delivered with DeliverBlock.
type BlockResult struct {
	Tick   custody.TickResult
	Txs    []TxResult
	Commit custody.CommitID
}
