package custodyd

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x/cash"
	"github.com/paystar/custody/x/escrow"
	"github.com/paystar/custody/x/installment"
	"github.com/paystar/custody/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterMsgs(cdc)
}

// RegisterMsgs registers every message this application routes under its
// path.
func RegisterMsgs(cdc *amino.Codec) {
	cdc.RegisterInterface((*custody.Msg)(nil), nil)
	for _, msg := range []custody.Msg{
		&cash.SendMsg{},
		&sigs.BumpSequenceMsg{},
		&escrow.InitializeMsg{},
		&escrow.SetAdminMsg{},
		&escrow.CreateMsg{},
		&escrow.ConfirmReceiptMsg{},
		&escrow.ReleaseMsg{},
		&escrow.DisputeMsg{},
		&escrow.ResolveDisputeMsg{},
		&installment.CreateMsg{},
		&installment.AcceptMsg{},
		&installment.PayMsg{},
		&installment.FinalizeMsg{},
		&installment.CancelMsg{},
	} {
		cdc.RegisterConcrete(msg, msg.Path(), nil)
	}
}

// Tx is a message together with the signatures authorizing it.
type Tx struct {
	Msg        custody.Msg          `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg custody.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it.
func TxDecoder(raw []byte) (custody.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "missing message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the encoding of the transaction without the
// signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Sign appends the signature of signer with the given nonce.
func (tx *Tx) Sign(signer sigs.Signer, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
