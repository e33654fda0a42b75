package cash

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
)

// BucketName is where we store the wallets.
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Validate requires all coins to be valid, sorted and positive.
func (w *Wallet) Validate() error {
	return w.Coins.Validate()
}

// Bucket stores a wallet under the address of its owner.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// Get returns the wallet of the given address. An unknown address has an
// empty wallet.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under the given address. An empty wallet is removed
// from the store.
func (b Bucket) Save(db custody.KVStore, addr custody.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if w.Coins.IsEmpty() {
		switch err := b.Delete(db, addr); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	_, err := b.Put(db, addr, w)
	return err
}
