package sigs

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the nonce of the signer by the given value.
// The transaction itself increments the nonce by one, which is included in
// the increment.
type BumpSequenceMsg struct {
	Increment uint32 `json:"increment"`
}

var _ custody.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, msg)
}
