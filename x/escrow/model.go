package escrow

import (
	"encoding/json"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
)

const (
	// BucketName is where we store the escrows.
	BucketName = "esc"

	maxReasonSize = 256
)

// Status is the state of an escrow.
type Status uint8

const (
	StatusActive Status = iota + 1
	StatusReleased
	StatusRefunded
	StatusDisputed
)

var statusNames = map[Status]string{
	StatusActive:   "active",
	StatusReleased: "released",
	StatusRefunded: "refunded",
	StatusDisputed: "disputed",
}

// transitions lists every allowed status change.
var transitions = map[Status][]Status{
	StatusActive:   {StatusReleased, StatusDisputed},
	StatusDisputed: {StatusRefunded},
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "invalid status %d", s)
	}
	return nil
}

// IsTerminal returns true if no transition leaves this status.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanBecome returns true if the escrow can move from s to next.
func (s Status) CanBecome(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "status must be a string")
	}
	for st, n := range statusNames {
		if n == name {
			*s = st
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown status %q", name)
}

// Escrow is the custody of a single payment from a buyer to a seller.
type Escrow struct {
	ID     uint64          `json:"id"`
	Buyer  custody.Address `json:"buyer"`
	Seller custody.Address `json:"seller"`
	// Amount is fixed at creation. Its ticker is the payment token.
	Amount      coin.Coin        `json:"amount"`
	ReleaseTime custody.UnixTime `json:"release_time"`
	Status      Status           `json:"status"`
	// DisputeReason is set once when the escrow is disputed.
	DisputeReason  string `json:"dispute_reason,omitempty"`
	BuyerConfirmed bool   `json:"buyer_confirmed"`
	// Address is the custody account holding the amount.
	Address custody.Address `json:"address"`
	// ReleaseTask is the id of the scheduled automatic release, if any.
	ReleaseTask []byte `json:"release_task,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, e)
}

func (e *Escrow) Validate() error {
	if e.ID == 0 {
		return errors.Wrap(errors.ErrModel, "missing id")
	}
	if err := e.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := e.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := e.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !e.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if e.ReleaseTime == 0 {
		return errors.Wrap(ErrInvalidReleaseTime, "release time is required")
	}
	if err := e.ReleaseTime.Validate(); err != nil {
		return errors.Wrap(err, "release time")
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	if len(e.DisputeReason) > maxReasonSize {
		return errors.Wrap(errors.ErrModel, "dispute reason too long")
	}
	if !e.Address.Equals(Condition(e.ID).Address()) {
		return errors.Wrap(errors.ErrModel, "custody address does not match id")
	}
	return nil
}

// Condition returns the condition of the custody account of the escrow with
// the given id.
func Condition(id uint64) custody.Condition {
	return custody.NewCondition("escrow", "seq", orm.EncodeSequence(id))
}

var escrowSeq = orm.NewSequence(BucketName, "id")

// Bucket stores escrows under their id, indexed by buyer and seller.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing escrows.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Escrow{},
			orm.WithIDSequence(escrowSeq),
			orm.WithIndex("buyer", idxBuyer, false),
			orm.WithIndex("seller", idxSeller, false),
		),
	}
}

// Get returns the escrow with the given id. ErrEscrowNotFound is returned
// if there is none.
func (b Bucket) Get(db custody.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	var e Escrow
	switch err := b.One(db, orm.EncodeSequence(id), &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrEscrowNotFound, "id %d", id)
	default:
		return nil, err
	}
}

// Save stores the escrow under its id.
func (b Bucket) Save(db custody.KVStore, e *Escrow) error {
	_, err := b.Put(db, orm.EncodeSequence(e.ID), e)
	return err
}

// ByBuyer returns all escrows paid by the given address.
func (b Bucket) ByBuyer(db custody.ReadOnlyKVStore, buyer custody.Address) ([]*Escrow, error) {
	var res []*Escrow
	if _, err := b.ByIndex(db, "buyer", buyer, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// BySeller returns all escrows paying the given address.
func (b Bucket) BySeller(db custody.ReadOnlyKVStore, seller custody.Address) ([]*Escrow, error) {
	var res []*Escrow
	if _, err := b.ByIndex(db, "seller", seller, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func toEscrow(m orm.Model) (*Escrow, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "cannot index %T", m)
	}
	return e, nil
}

func idxBuyer(m orm.Model) ([]byte, error) {
	e, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return e.Buyer, nil
}

func idxSeller(m orm.Model) ([]byte, error) {
	e, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return e.Seller, nil
}
