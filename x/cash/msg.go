package cash

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

// SendMsg moves coins from the source wallet to the destination wallet.
type SendMsg struct {
	Source      custody.Address `json:"source"`
	Destination custody.Address `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
