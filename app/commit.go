package app

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// cache wraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed custody.CommitKVStore
	deliver   custody.KVCacheWrap
	check     custody.KVCacheWrap
}

// NewCommitStore loads the latest version of the store and sets up the
// deliver and check caches.
func NewCommitStore(store custody.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (custody.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes deliver to the underlying store and commits it to disk.
// It then regenerates new deliver and check caches.
func (cs *CommitStore) Commit() (custody.CommitID, error) {
	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	// write the store to disk
	res, err := cs.committed.Commit()
	if err != nil {
		return res, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	// set up new caches
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() custody.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() custody.CacheableKVStore {
	return cs.deliver
}

// View returns a read only view of the last committed state. The returned
// function must be called to release the view.
func (cs *CommitStore) View() (custody.ReadOnlyKVStore, func()) {
	c := cs.committed.CacheWrap()
	return c, c.Discard
}

//------- storing chainID ---------

// _cs: is a prefix for framework internal data
const chainIDKey = "_cs:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv custody.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv custody.KVStore, chainID string) error {
	if !custody.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "chain id cannot be modified after genesis")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
