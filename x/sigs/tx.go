package sigs

import (
	"github.com/paystar/custody/crypto"
	"github.com/paystar/custody/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of everyone who signed the
	// transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the key and the nonce used to
// create it.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
