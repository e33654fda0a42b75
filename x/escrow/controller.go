package escrow

import (
	"strconv"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/gconf"
	"github.com/paystar/custody/x"
	"github.com/paystar/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

// Event topics published by the escrow transitions.
const (
	TopicCreated      = "created"
	TopicConfirmed    = "confirmed"
	TopicReleased     = "released"
	TopicDisputed     = "disputed"
	TopicRefunded     = "refunded"
	TopicAdminChanged = "admin-changed"
)

// Controller implements all escrow operations. Every caller argument must be
// authenticated by the authenticator the controller was created with.
type Controller struct {
	auth      x.Authenticator
	bank      cash.Controller
	scheduler custody.Scheduler
	bucket    Bucket
}

// NewController returns a controller moving the escrow funds with bank. If
// scheduler is not nil, the release of every created escrow is scheduled at
// its release time.
func NewController(auth x.Authenticator, bank cash.Controller, scheduler custody.Scheduler) *Controller {
	return &Controller{
		auth:      auth,
		bank:      bank,
		scheduler: scheduler,
		bucket:    NewBucket(),
	}
}

// Initialize sets the escrow admin. It fails if an admin is already set.
func (c *Controller) Initialize(ctx custody.Context, db custody.KVStore, admin custody.Address) error {
	if !c.auth.HasAddress(ctx, admin) {
		return errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	switch ok, err := gconf.Exists(db, confPkg); {
	case err != nil:
		return err
	case ok:
		return ErrAlreadyInitialized
	}
	if err := gconf.Save(db, confPkg, &Configuration{Admin: admin}); err != nil {
		return errors.Wrap(err, "save configuration")
	}
	return nil
}

// SetAdmin replaces the current admin with next.
func (c *Controller) SetAdmin(ctx custody.Context, db custody.KVStore, current, next custody.Address) error {
	if err := c.requireAdmin(ctx, db, current); err != nil {
		return err
	}
	if err := gconf.Save(db, confPkg, &Configuration{Admin: next}); err != nil {
		return errors.Wrap(err, "save configuration")
	}
	events.Emit(ctx, TopicAdminChanged,
		events.Attr("old_admin", current.String()),
		events.Attr("new_admin", next.String()))
	return nil
}

// Create locks amount of the buyer in a new escrow and returns its id.
// No escrow is created if the buyer cannot pay.
func (c *Controller) Create(ctx custody.Context, db custody.KVStore, buyer, seller custody.Address, amount coin.Coin, release custody.UnixTime) (uint64, error) {
	if !c.auth.HasAddress(ctx, buyer) {
		return 0, errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	if err := seller.Validate(); err != nil {
		return 0, errors.Wrap(err, "seller")
	}
	if err := amount.Validate(); err != nil {
		return 0, errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return 0, errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	if release <= custody.AsUnixTime(now) {
		return 0, errors.Wrapf(ErrInvalidReleaseTime, "%s is not in the future", release)
	}

	// The id is allocated only once the funds are locked.
	latest, err := escrowSeq.Latest(db)
	if err != nil {
		return 0, errors.Wrap(err, "sequence")
	}
	escrowAddr := Condition(latest + 1).Address()
	if err := c.bank.MoveCoins(db, buyer, escrowAddr, amount); err != nil {
		return 0, errors.Wrap(err, "lock funds")
	}
	id, err := escrowSeq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "sequence")
	}

	escrow := &Escrow{
		ID:          id,
		Buyer:       buyer,
		Seller:      seller,
		Amount:      amount,
		ReleaseTime: release,
		Status:      StatusActive,
		Address:     escrowAddr,
	}
	if c.scheduler != nil {
		escrow.ReleaseTask, err = c.scheduler.Schedule(db, release.Time(), nil, &ReleaseMsg{EscrowID: id})
		if err != nil {
			return 0, errors.Wrap(err, "schedule release")
		}
	}
	if err := c.bucket.Save(db, escrow); err != nil {
		return 0, errors.Wrap(err, "save escrow")
	}
	events.Emit(ctx, TopicCreated,
		idAttr(id),
		events.Attr("buyer", buyer.String()),
		events.Attr("seller", seller.String()),
		events.Attr("amount", amount.String()))
	return id, nil
}

// ConfirmReceipt marks the escrow as confirmed by the buyer, which allows
// releasing the funds before the release time. Confirming again is a no-op.
func (c *Controller) ConfirmReceipt(ctx custody.Context, db custody.KVStore, buyer custody.Address, id uint64) error {
	if !c.auth.HasAddress(ctx, buyer) {
		return errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	escrow, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !escrow.Buyer.Equals(buyer) {
		return ErrNotBuyer
	}
	if escrow.Status != StatusActive {
		return errors.Wrapf(ErrNotActive, "status %s", escrow.Status)
	}
	if escrow.BuyerConfirmed {
		return nil
	}
	escrow.BuyerConfirmed = true
	if err := c.bucket.Save(db, escrow); err != nil {
		return errors.Wrap(err, "save escrow")
	}
	events.Emit(ctx, TopicConfirmed, idAttr(id), events.Attr("buyer", buyer.String()))
	return nil
}

// ReleaseFunds pays the seller. Anyone can release an escrow once the
// release time has passed or the buyer confirmed the receipt.
func (c *Controller) ReleaseFunds(ctx custody.Context, db custody.KVStore, id uint64) error {
	escrow, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if escrow.Status != StatusActive {
		return errors.Wrapf(ErrNotActive, "status %s", escrow.Status)
	}
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return err
	}
	if escrow.ReleaseTime > custody.AsUnixTime(now) && !escrow.BuyerConfirmed {
		return errors.Wrapf(ErrReleaseTimeNotPassed, "release at %s", escrow.ReleaseTime)
	}
	if err := c.bank.MoveCoins(db, escrow.Address, escrow.Seller, escrow.Amount); err != nil {
		return errors.Wrap(err, "pay seller")
	}
	if err := c.transition(db, escrow, StatusReleased); err != nil {
		return err
	}
	events.Emit(ctx, TopicReleased,
		idAttr(id),
		events.Attr("seller", escrow.Seller.String()),
		events.Attr("amount", escrow.Amount.String()))
	return nil
}

// Dispute stops the release of an active escrow until the admin resolves it.
func (c *Controller) Dispute(ctx custody.Context, db custody.KVStore, buyer custody.Address, id uint64, reason string) error {
	if !c.auth.HasAddress(ctx, buyer) {
		return errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	escrow, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if !escrow.Buyer.Equals(buyer) {
		return ErrNotBuyer
	}
	if escrow.Status == StatusDisputed {
		return ErrAlreadyDisputed
	}
	if escrow.Status != StatusActive {
		return errors.Wrapf(ErrNotActive, "status %s", escrow.Status)
	}
	if len(reason) > maxReasonSize {
		return errors.Wrapf(errors.ErrInput, "reason longer than %d bytes", maxReasonSize)
	}
	escrow.DisputeReason = reason
	if err := c.transition(db, escrow, StatusDisputed); err != nil {
		return err
	}
	events.Emit(ctx, TopicDisputed,
		idAttr(id),
		events.Attr("buyer", buyer.String()),
		events.Attr("reason", reason))
	return nil
}

// ResolveDisputeAndRefund returns the funds of a disputed escrow to the
// buyer. Only the admin can resolve a dispute.
func (c *Controller) ResolveDisputeAndRefund(ctx custody.Context, db custody.KVStore, admin custody.Address, id uint64) error {
	if err := c.requireAdmin(ctx, db, admin); err != nil {
		return err
	}
	escrow, err := c.bucket.Get(db, id)
	if err != nil {
		return err
	}
	if escrow.Status != StatusDisputed {
		return errors.Wrapf(ErrNotDisputed, "status %s", escrow.Status)
	}
	if err := c.bank.MoveCoins(db, escrow.Address, escrow.Buyer, escrow.Amount); err != nil {
		return errors.Wrap(err, "refund buyer")
	}
	if err := c.transition(db, escrow, StatusRefunded); err != nil {
		return err
	}
	events.Emit(ctx, TopicRefunded,
		idAttr(id),
		events.Attr("buyer", escrow.Buyer.String()),
		events.Attr("amount", escrow.Amount.String()))
	return nil
}

// Get returns the escrow with the given id.
func (c *Controller) Get(db custody.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	return c.bucket.Get(db, id)
}

// transition changes the status and saves the escrow. Leaving the Active
// status cancels the scheduled release.
func (c *Controller) transition(db custody.KVStore, escrow *Escrow, next Status) error {
	if !escrow.Status.CanBecome(next) {
		return errors.Wrapf(errors.ErrState, "%s cannot become %s", escrow.Status, next)
	}
	if escrow.Status == StatusActive && escrow.ReleaseTask != nil && c.scheduler != nil {
		if err := c.scheduler.Delete(db, escrow.ReleaseTask); err != nil && !errors.ErrNotFound.Is(err) {
			return errors.Wrap(err, "cancel scheduled release")
		}
		escrow.ReleaseTask = nil
	}
	escrow.Status = next
	if err := c.bucket.Save(db, escrow); err != nil {
		return errors.Wrap(err, "save escrow")
	}
	return nil
}

func (c *Controller) requireAdmin(ctx custody.Context, db custody.ReadOnlyKVStore, admin custody.Address) error {
	if !c.auth.HasAddress(ctx, admin) {
		return errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	current, err := Admin(db)
	if err != nil {
		return errors.Wrap(err, "load admin")
	}
	if current == nil || !current.Equals(admin) {
		return ErrNotAdmin
	}
	return nil
}

func idAttr(id uint64) common.KVPair {
	return events.Attr("id", strconv.FormatUint(id, 10))
}
