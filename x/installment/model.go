package installment

import (
	"encoding/json"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
)

const (
	// BucketName is where we store the agreements.
	BucketName = "inst"

	maxDescriptionSize = 1024
)

// State is the lifecycle stage of an agreement.
type State uint8

const (
	StateProposed State = iota + 1
	StateAccepted
	StateCanceled
	StateFinalized
)

var stateNames = map[State]string{
	StateProposed:  "proposed",
	StateAccepted:  "accepted",
	StateCanceled:  "canceled",
	StateFinalized: "finalized",
}

var transitions = map[State][]State{
	StateProposed: {StateAccepted},
	StateAccepted: {StateCanceled, StateFinalized},
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "invalid state %d", s)
	}
	return nil
}

// IsTerminal returns true if no transition leaves this state.
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanBecome returns true if an agreement can move from s to next.
func (s State) CanBecome(next State) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Require returns nil if s is the wanted state. Otherwise the returned
// error describes the current state.
func (s State) Require(want State) error {
	if s == want {
		return nil
	}
	switch s {
	case StateProposed:
		return ErrNotAccepted
	case StateAccepted:
		return ErrAlreadyAccepted
	case StateCanceled:
		return ErrCanceled
	case StateFinalized:
		return ErrFinalized
	}
	return errors.Wrapf(errors.ErrState, "invalid state %d", s)
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "state must be a string")
	}
	for st, n := range stateNames {
		if n == name {
			*s = st
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown state %q", name)
}

// Payment is a single installment paid into the custody account.
type Payment struct {
	Amount coin.Amount      `json:"amount"`
	Time   custody.UnixTime `json:"time"`
}

// Agreement is the custody of installments paid by a buyer to a seller.
type Agreement struct {
	ID         uint64          `json:"id"`
	Buyer      custody.Address `json:"buyer"`
	Seller     custody.Address `json:"seller"`
	Arbitrator custody.Address `json:"arbitrator"`
	// Total is the price of the agreement. Its ticker is the payment token.
	Total coin.Coin `json:"total"`
	// Paid is always the sum of the History amounts. It may exceed Total.
	Paid        coin.Amount      `json:"paid"`
	History     []Payment        `json:"history"`
	Deadline    custody.UnixTime `json:"deadline"`
	State       State            `json:"state"`
	Description string           `json:"description"`
	// Address is the custody account holding the payments.
	Address custody.Address `json:"address"`
}

var _ orm.Model = (*Agreement)(nil)

func (a *Agreement) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Agreement) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *Agreement) Validate() error {
	if a.ID == 0 {
		return errors.Wrap(errors.ErrModel, "missing id")
	}
	if err := a.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := a.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := a.Arbitrator.Validate(); err != nil {
		return errors.Wrap(err, "arbitrator")
	}
	if err := a.Total.Validate(); err != nil {
		return errors.Wrap(err, "total")
	}
	if !a.Total.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "total must be positive")
	}
	if err := a.Deadline.Validate(); err != nil {
		return errors.Wrap(err, "deadline")
	}
	if err := a.State.Validate(); err != nil {
		return err
	}
	if len(a.Description) > maxDescriptionSize {
		return errors.Wrap(errors.ErrModel, "description too long")
	}
	sum, err := paidSum(a.History)
	if err != nil {
		return err
	}
	if !sum.Equals(a.Paid) {
		return errors.Wrapf(errors.ErrModel, "paid %s but history sums to %s", a.Paid, sum)
	}
	if !a.Address.Equals(Condition(a.ID).Address()) {
		return errors.Wrap(errors.ErrModel, "custody address does not match id")
	}
	return nil
}

// IsAccepted returns true if the seller accepted the agreement. Finalized
// and canceled agreements were accepted before.
func (a *Agreement) IsAccepted() bool {
	return a.State != StateProposed
}

func (a *Agreement) IsFinalized() bool {
	return a.State == StateFinalized
}

func (a *Agreement) IsCanceled() bool {
	return a.State == StateCanceled
}

// PaidCoin returns the paid amount in the agreement token.
func (a *Agreement) PaidCoin() coin.Coin {
	return coin.Coin{Ticker: a.Total.Ticker, Amount: a.Paid}
}

func paidSum(history []Payment) (coin.Amount, error) {
	var sum coin.Amount
	for i, p := range history {
		if p.Amount.IsZero() {
			return sum, errors.Wrapf(errors.ErrModel, "payment %d is zero", i)
		}
		var err error
		if sum, err = sum.Add(p.Amount); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// Condition returns the condition of the custody account of the agreement
// with the given id.
func Condition(id uint64) custody.Condition {
	return custody.NewCondition("installment", "seq", orm.EncodeSequence(id))
}

var agreementSeq = orm.NewSequence(BucketName, "id")

// Bucket stores agreements under their id, indexed by buyer and seller.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing agreements.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Agreement{},
			orm.WithIDSequence(agreementSeq),
			orm.WithIndex("buyer", idxBuyer, false),
			orm.WithIndex("seller", idxSeller, false),
		),
	}
}

// Get returns the agreement with the given id. ErrAgreementNotFound is
// returned if there is none.
func (b Bucket) Get(db custody.ReadOnlyKVStore, id uint64) (*Agreement, error) {
	var a Agreement
	switch err := b.One(db, orm.EncodeSequence(id), &a); {
	case err == nil:
		return &a, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrAgreementNotFound, "id %d", id)
	default:
		return nil, err
	}
}

// Save stores the agreement under its id.
func (b Bucket) Save(db custody.KVStore, a *Agreement) error {
	_, err := b.Put(db, orm.EncodeSequence(a.ID), a)
	return err
}

// ByBuyer returns all agreements paid by the given address.
func (b Bucket) ByBuyer(db custody.ReadOnlyKVStore, buyer custody.Address) ([]*Agreement, error) {
	var res []*Agreement
	if _, err := b.ByIndex(db, "buyer", buyer, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// BySeller returns all agreements paying the given address.
func (b Bucket) BySeller(db custody.ReadOnlyKVStore, seller custody.Address) ([]*Agreement, error) {
	var res []*Agreement
	if _, err := b.ByIndex(db, "seller", seller, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func toAgreement(m orm.Model) (*Agreement, error) {
	a, ok := m.(*Agreement)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "cannot index %T", m)
	}
	return a, nil
}

func idxBuyer(m orm.Model) ([]byte, error) {
	a, err := toAgreement(m)
	if err != nil {
		return nil, err
	}
	return a.Buyer, nil
}

func idxSeller(m orm.Model) ([]byte, error) {
	a, err := toAgreement(m)
	if err != nil {
		return nil, err
	}
	return a.Seller, nil
}
