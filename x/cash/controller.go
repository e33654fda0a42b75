package cash

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
)

// CoinMover moves coins between two addresses. A failed move changes
// nothing.
type CoinMover interface {
	MoveCoins(db custody.KVStore, src, dst custody.Address, amount coin.Coin) error
}

// Balancer reports the coins owned by an address.
type Balancer interface {
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error)
}

// Controller is the token ledger used by the custody extensions.
type Controller interface {
	CoinMover
	Balancer
}

// BaseController is a simple implementation of the Controller, backed by
// the wallet bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns all coins held by the given address. An unknown address
// holds nothing.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return w.Coins, nil
}

// MoveCoins removes amount from the src wallet and adds it to the dst
// wallet. ErrInsufficientAmount is returned when src does not hold enough.
func (c BaseController) MoveCoins(db custody.KVStore, src, dst custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "dst")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "src wallet")
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %s, need %s", sender.Coins, amount)
	}
	if src.Equals(dst) {
		return nil
	}
	recipient, err := c.bucket.Get(db, dst)
	if err != nil {
		return errors.Wrap(err, "dst wallet")
	}

	// Compute both wallets before writing so that a failure leaves the store
	// untouched.
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save src")
	}
	if err := c.bucket.Save(db, dst, recipient); err != nil {
		return errors.Wrap(err, "save dst")
	}
	return nil
}

// IssueCoins creates new coins in the dst wallet. It is used by the genesis
// initializer and in tests.
func (c BaseController) IssueCoins(db custody.KVStore, dst custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.bucket.Get(db, dst)
	if err != nil {
		return errors.Wrap(err, "wallet")
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dst, w)
}
