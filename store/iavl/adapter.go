// Package iavl persists the application state in a versioned iavl tree.
package iavl

import (
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages the committed iavl state.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore returns a store persisting in a goleveldb database named
// name in dir.
func NewCommitStore(dir, name string) *CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	return NewCommitStoreFromDB(db, DefaultCacheSize)
}

// NewMemCommitStore returns a store that keeps all versions in memory.
func NewMemCommitStore() *CommitStore {
	return NewCommitStoreFromDB(dbm.NewMemDB(), DefaultCacheSize)
}

// NewCommitStoreFromDB returns a store using given database.
func NewCommitStoreFromDB(db dbm.DB, cacheSize int) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
		db:   db,
	}
}

// Get returns the value of the last committed version.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves the working tree as the next version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the latest persisted version.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return nil
}

// LatestVersion returns the identifier of the latest saved version.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap returns a cache on top of the working tree. Writing the cache
// stages its changes for the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter exposes the working tree as a store.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// Close releases the database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// adapter reads and writes the uncommitted working tree.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	if value == nil {
		// The tree does not accept nil values.
		value = []byte{}
	}
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}
