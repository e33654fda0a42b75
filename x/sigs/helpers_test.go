package sigs

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/custodytest"
)

// StdTx is a signed transaction carrying a custodytest.Msg.
type StdTx struct {
	custodytest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ custody.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Tx: custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/msg", Serialized: payload}}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []custody.Condition
}

var _ custody.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.DeliverResult{}, nil
}
