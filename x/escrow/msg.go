package escrow

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
)

const (
	pathInitializeMsg     = "escrow/initialize"
	pathSetAdminMsg       = "escrow/set_admin"
	pathCreateMsg         = "escrow/create"
	pathConfirmReceiptMsg = "escrow/confirm_receipt"
	pathReleaseMsg        = "escrow/release"
	pathDisputeMsg        = "escrow/dispute"
	pathResolveDisputeMsg = "escrow/resolve_dispute"
)

// InitializeMsg sets the first escrow admin.
type InitializeMsg struct {
	Admin custody.Address `json:"admin"`
}

var _ custody.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	return errors.Wrap(m.Admin.Validate(), "admin")
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// SetAdminMsg replaces the escrow admin. It must be signed by the current
// admin.
type SetAdminMsg struct {
	Admin    custody.Address `json:"admin"`
	NewAdmin custody.Address `json:"new_admin"`
}

var _ custody.Msg = (*SetAdminMsg)(nil)

func (SetAdminMsg) Path() string {
	return pathSetAdminMsg
}

func (m *SetAdminMsg) Validate() error {
	if err := m.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return errors.Wrap(m.NewAdmin.Validate(), "new admin")
}

func (m *SetAdminMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SetAdminMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// CreateMsg locks the amount of the buyer in a new escrow.
type CreateMsg struct {
	Buyer       custody.Address  `json:"buyer"`
	Seller      custody.Address  `json:"seller"`
	Amount      coin.Coin        `json:"amount"`
	ReleaseTime custody.UnixTime `json:"release_time"`
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
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if m.ReleaseTime == 0 {
		return errors.Wrap(ErrInvalidReleaseTime, "release time is required")
	}
	return errors.Wrap(m.ReleaseTime.Validate(), "release time")
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ConfirmReceiptMsg is sent by the buyer once the goods were received.
type ConfirmReceiptMsg struct {
	Buyer    custody.Address `json:"buyer"`
	EscrowID uint64          `json:"escrow_id"`
}

var _ custody.Msg = (*ConfirmReceiptMsg)(nil)

func (ConfirmReceiptMsg) Path() string {
	return pathConfirmReceiptMsg
}

func (m *ConfirmReceiptMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	return validateID(m.EscrowID)
}

func (m *ConfirmReceiptMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ConfirmReceiptMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ReleaseMsg pays the seller of a releasable escrow. It can be sent by
// anyone.
type ReleaseMsg struct {
	EscrowID uint64 `json:"escrow_id"`
}

var _ custody.Msg = (*ReleaseMsg)(nil)

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

func (m *ReleaseMsg) Validate() error {
	return validateID(m.EscrowID)
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// DisputeMsg is sent by the buyer to stop the release of an escrow.
type DisputeMsg struct {
	Buyer    custody.Address `json:"buyer"`
	EscrowID uint64          `json:"escrow_id"`
	Reason   string          `json:"reason"`
}

var _ custody.Msg = (*DisputeMsg)(nil)

func (DisputeMsg) Path() string {
	return pathDisputeMsg
}

func (m *DisputeMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	return validateID(m.EscrowID)
}

func (m *DisputeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DisputeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ResolveDisputeMsg refunds the buyer of a disputed escrow. It must be
// signed by the admin.
type ResolveDisputeMsg struct {
	Admin    custody.Address `json:"admin"`
	EscrowID uint64          `json:"escrow_id"`
}

var _ custody.Msg = (*ResolveDisputeMsg)(nil)

func (ResolveDisputeMsg) Path() string {
	return pathResolveDisputeMsg
}

func (m *ResolveDisputeMsg) Validate() error {
	if err := m.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return validateID(m.EscrowID)
}

func (m *ResolveDisputeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ResolveDisputeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func validateID(id uint64) error {
	if id == 0 {
		return errors.Wrap(errors.ErrInput, "escrow id is required")
	}
	return nil
}
