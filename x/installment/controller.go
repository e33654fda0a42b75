package installment

import (
	"strconv"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/x"
	"github.com/paystar/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

// Event topics published by the agreement transitions.
const (
	TopicCreated   = "agreement-created"
	TopicAccepted  = "accepted"
	TopicPaid      = "payment-made"
	TopicPublished = "agreement-published"
	TopicCanceled  = "canceled"
)

// Controller implements all installment operations.
type Controller struct {
	auth   x.Authenticator
	bank   cash.Controller
	bucket Bucket
}

// NewController returns a controller moving the installments with bank.
func NewController(auth x.Authenticator, bank cash.Controller) *Controller {
	return &Controller{
		auth:   auth,
		bank:   bank,
		bucket: NewBucket(),
	}
}

// Create stores a new proposed agreement and returns its id. The ticker of
// total is the payment token. The deadline is the current block time
// moved by deadlineOffset seconds. No funds are moved.
func (c *Controller) Create(
	ctx custody.Context,
	db custody.KVStore,
	seller, buyer custody.Address,
	total coin.Coin,
	deadlineOffset int64,
	arbitrator custody.Address,
	description string,
) (uint64, error) {
	if !c.auth.HasAddress(ctx, buyer) {
		return 0, errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	if err := total.Validate(); err != nil {
		return 0, errors.Wrap(err, "total")
	}
	if !total.IsPositive() {
		return 0, errors.Wrap(ErrInvalidAmount, "total must be positive")
	}
	if err := seller.Validate(); err != nil {
		return 0, errors.Wrap(err, "seller")
	}
	if buyer.Equals(seller) {
		return 0, ErrDuplicateUsers
	}
	if err := arbitrator.Validate(); err != nil {
		return 0, errors.Wrap(err, "arbitrator")
	}
	if arbitrator.Equals(buyer) || arbitrator.Equals(seller) {
		return 0, ErrArbitratorNotAllowed
	}
	if len(description) > maxDescriptionSize {
		return 0, errors.Wrapf(errors.ErrInput, "description longer than %d bytes", maxDescriptionSize)
	}
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	deadline, err := custody.AsUnixTime(now).AddSeconds(deadlineOffset)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTimestamp, "offset %d: %s", deadlineOffset, err)
	}

	id, err := agreementSeq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "sequence")
	}
	agreement := &Agreement{
		ID:          id,
		Buyer:       buyer,
		Seller:      seller,
		Arbitrator:  arbitrator,
		Total:       total,
		Deadline:    deadline,
		State:       StateProposed,
		Description: description,
		Address:     Condition(id).Address(),
	}
	if err := c.bucket.Save(db, agreement); err != nil {
		return 0, errors.Wrap(err, "save agreement")
	}
	events.Emit(ctx, TopicCreated,
		idAttr(id),
		events.Attr("buyer", buyer.String()),
		events.Attr("seller", seller.String()),
		events.Attr("total", total.String()),
		events.Attr("deadline", deadline.String()))
	return id, nil
}

// Accept records the answer of the seller to a proposed agreement. Not
// accepting leaves the agreement proposed.
func (c *Controller) Accept(ctx custody.Context, db custody.KVStore, seller custody.Address, accept bool, id uint64) error {
	if !c.auth.HasAddress(ctx, seller) {
		return errors.Wrap(errors.ErrUnauthorized, "seller signature missing")
	}
	agreement, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !agreement.Seller.Equals(seller) {
		return errors.Wrap(ErrNotAuthorized, "only the seller can accept")
	}
	if err := agreement.State.Require(StateProposed); err != nil {
		return err
	}
	if accept {
		if err := c.transition(db, agreement, StateAccepted); err != nil {
			return err
		}
	}
	events.Emit(ctx, TopicAccepted,
		idAttr(id),
		events.Attr("seller", seller.String()),
		events.Attr("accepted", strconv.FormatBool(accept)))
	return nil
}

// Pay moves amount of the buyer into the custody of an accepted agreement.
// The paid amount may exceed the total.
func (c *Controller) Pay(ctx custody.Context, db custody.KVStore, buyer custody.Address, amount coin.Coin, id uint64) error {
	if !c.auth.HasAddress(ctx, buyer) {
		return errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	agreement, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !agreement.Buyer.Equals(buyer) {
		return errors.Wrap(ErrNotAuthorized, "only the buyer can pay")
	}
	if err := agreement.State.Require(StateAccepted); err != nil {
		return err
	}
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return err
	}
	paidAt := custody.AsUnixTime(now)
	if paidAt >= agreement.Deadline {
		return errors.Wrapf(ErrDeadlinePassed, "deadline %s", agreement.Deadline)
	}
	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if !amount.SameType(agreement.Total) {
		return errors.Wrapf(ErrInvalidAmount, "agreement is paid in %s", agreement.Total.Ticker)
	}
	paid, err := agreement.Paid.Add(amount.Amount)
	if err != nil {
		return err
	}
	balance, err := c.bank.Balance(db, buyer)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	if !balance.Contains(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "cannot pay %s", amount)
	}
	if err := c.bank.MoveCoins(db, buyer, agreement.Address, amount); err != nil {
		return errors.Wrap(err, "lock funds")
	}

	agreement.History = append(agreement.History, Payment{Amount: amount.Amount, Time: paidAt})
	agreement.Paid = paid
	if err := c.bucket.Save(db, agreement); err != nil {
		return errors.Wrap(err, "save agreement")
	}
	events.Emit(ctx, TopicPaid,
		idAttr(id),
		events.Attr("buyer", buyer.String()),
		events.Attr("amount", amount.String()),
		events.Attr("paid", agreement.PaidCoin().String()))
	return nil
}

// Finalize pays the total to the seller once it was collected. Either party
// can finalize. Any amount paid above the total stays in custody.
func (c *Controller) Finalize(ctx custody.Context, db custody.KVStore, caller custody.Address, id uint64) error {
	if !c.auth.HasAddress(ctx, caller) {
		return errors.Wrap(errors.ErrUnauthorized, "caller signature missing")
	}
	agreement, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !agreement.Buyer.Equals(caller) && !agreement.Seller.Equals(caller) {
		return errors.Wrap(ErrNotAuthorized, "only the buyer or the seller can finalize")
	}
	if err := agreement.State.Require(StateAccepted); err != nil {
		return err
	}
	if !agreement.Paid.IsGTE(agreement.Total.Amount) {
		return errors.Wrapf(ErrAmountNotMet, "paid %s of %s", agreement.Paid, agreement.Total.Amount)
	}
	if err := c.bank.MoveCoins(db, agreement.Address, agreement.Seller, agreement.Total); err != nil {
		return errors.Wrap(err, "pay seller")
	}
	if err := c.transition(db, agreement, StateFinalized); err != nil {
		return err
	}
	events.Emit(ctx, TopicPublished,
		idAttr(id),
		events.Attr("seller", agreement.Seller.String()),
		events.Attr("amount", agreement.Total.String()))
	return nil
}

// CancelAndRefund cancels an accepted agreement and returns everything paid
// so far to the buyer. Only the seller can cancel.
func (c *Controller) CancelAndRefund(ctx custody.Context, db custody.KVStore, seller custody.Address, id uint64) error {
	if !c.auth.HasAddress(ctx, seller) {
		return errors.Wrap(errors.ErrUnauthorized, "seller signature missing")
	}
	agreement, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !agreement.Seller.Equals(seller) {
		return errors.Wrap(ErrNotAuthorized, "only the seller can cancel")
	}
	if err := agreement.State.Require(StateAccepted); err != nil {
		return err
	}
	refund := agreement.PaidCoin()
	if refund.IsPositive() {
		if err := c.bank.MoveCoins(db, agreement.Address, agreement.Buyer, refund); err != nil {
			return errors.Wrap(err, "refund buyer")
		}
	}
	if err := c.transition(db, agreement, StateCanceled); err != nil {
		return err
	}
	events.Emit(ctx, TopicCanceled,
		idAttr(id),
		events.Attr("buyer", agreement.Buyer.String()),
		events.Attr("refund", refund.String()))
	return nil
}

// Get returns the agreement with the given id or nil if there is none.
func (c *Controller) Get(db custody.ReadOnlyKVStore, id uint64) (*Agreement, error) {
	agreement, err := c.bucket.Get(db, id)
	if ErrAgreementNotFound.Is(err) {
		return nil, nil
	}
	return agreement, err
}

func (c *Controller) transition(db custody.KVStore, agreement *Agreement, next State) error {
	if !agreement.State.CanBecome(next) {
		return errors.Wrapf(errors.ErrState, "%s cannot become %s", agreement.State, next)
	}
	agreement.State = next
	if err := c.bucket.Save(db, agreement); err != nil {
		return errors.Wrap(err, "save agreement")
	}
	return nil
}

func idAttr(id uint64) common.KVPair {
	return events.Attr("id", strconv.FormatUint(id, 10))
}
