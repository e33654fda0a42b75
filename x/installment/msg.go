package installment

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
)

const (
	pathCreateMsg   = "installment/create"
	pathAcceptMsg   = "installment/accept"
	pathPayMsg      = "installment/pay"
	pathFinalizeMsg = "installment/finalize"
	pathCancelMsg   = "installment/cancel"
)

// CreateMsg proposes a new agreement. It must be signed by the buyer.
type CreateMsg struct {
	Buyer  custody.Address `json:"buyer"`
	Seller custody.Address `json:"seller"`
	// Total is the price. Its ticker is the payment token.
	Total coin.Coin `json:"total"`
	// DeadlineOffset is the number of seconds after the creation block
	// until which payments are accepted.
	DeadlineOffset int64           `json:"deadline_offset"`
	Arbitrator     custody.Address `json:"arbitrator"`
	Description    string          `json:"description"`
}

var _ custody.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := m.Arbitrator.Validate(); err != nil {
		return errors.Wrap(err, "arbitrator")
	}
	if err := m.Total.Validate(); err != nil {
		return errors.Wrap(err, "total")
	}
	if !m.Total.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "total must be positive")
	}
	if m.DeadlineOffset < 0 {
		return errors.Wrap(ErrInvalidTimestamp, "negative deadline offset")
	}
	if len(m.Description) > maxDescriptionSize {
		return errors.Wrapf(errors.ErrInput, "description longer than %d bytes", maxDescriptionSize)
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// AcceptMsg is the answer of the seller to a proposed agreement.
type AcceptMsg struct {
	Seller      custody.Address `json:"seller"`
	AgreementID uint64          `json:"agreement_id"`
	Accept      bool            `json:"accept"`
}

var _ custody.Msg = (*AcceptMsg)(nil)

func (AcceptMsg) Path() string {
	return pathAcceptMsg
}

func (m *AcceptMsg) Validate() error {
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	return validateID(m.AgreementID)
}

func (m *AcceptMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AcceptMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// PayMsg pays an installment of an accepted agreement.
type PayMsg struct {
	Buyer       custody.Address `json:"buyer"`
	AgreementID uint64          `json:"agreement_id"`
	Amount      coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*PayMsg)(nil)

func (PayMsg) Path() string {
	return pathPayMsg
}

func (m *PayMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	return validateID(m.AgreementID)
}

func (m *PayMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *PayMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// FinalizeMsg pays the collected total to the seller. It can be signed by
// the buyer or the seller.
type FinalizeMsg struct {
	Caller      custody.Address `json:"caller"`
	AgreementID uint64          `json:"agreement_id"`
}

var _ custody.Msg = (*FinalizeMsg)(nil)

func (FinalizeMsg) Path() string {
	return pathFinalizeMsg
}

func (m *FinalizeMsg) Validate() error {
	if err := m.Caller.Validate(); err != nil {
		return errors.Wrap(err, "caller")
	}
	return validateID(m.AgreementID)
}

func (m *FinalizeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *FinalizeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// CancelMsg cancels an accepted agreement and refunds the buyer. It must be
// signed by the seller.
type CancelMsg struct {
	Seller      custody.Address `json:"seller"`
	AgreementID uint64          `json:"agreement_id"`
}

var _ custody.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	return validateID(m.AgreementID)
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func validateID(id uint64) error {
	if id == 0 {
		return errors.Wrap(errors.ErrInput, "agreement id is required")
	}
	return nil
}
