package sigs

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/crypto"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the clients. The greatest nonce value that
// javascript can represent is 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// UserData is the state of a single signer.
type UserData struct {
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence < 0 || u.Sequence > maxSequenceValue {
		return errors.Wrap(ErrInvalidSequence, "out of range")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Wrap(ErrInvalidSequence, "needs Pubkey")
	}
	if u.Pubkey != nil {
		if err := u.Pubkey.Validate(); err != nil {
			return errors.Wrap(err, "pubkey")
		}
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores the UserData of every signer under its address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// Get returns the user stored under the given address or nil.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*UserData, error) {
	var u UserData
	switch err := b.One(db, addr, &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &UserData{Pubkey: pubkey}
	}
	return u, nil
}

// Save stores the user under the address of its public key.
func (b Bucket) Save(db custody.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "missing pubkey")
	}
	_, err := b.Put(db, u.Pubkey.Address(), u)
	return err
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. If the signer is unknown, nonce counting starts with
// zero.
func NextNonce(db custody.ReadOnlyKVStore, signer custody.Address) (int64, error) {
	u, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u == nil {
		return 0, nil
	}
	return u.Sequence, nil
}
