package store

import "github.com/paystar/custody"

// Aliases of the storage interfaces, for shorter names in this package.
type (
	ReadOnlyKVStore  = custody.ReadOnlyKVStore
	SetDeleter       = custody.SetDeleter
	KVStore          = custody.KVStore
	Batch            = custody.Batch
	Iterator         = custody.Iterator
	CacheableKVStore = custody.CacheableKVStore
	KVCacheWrap      = custody.KVCacheWrap
	CommitKVStore    = custody.CommitKVStore
	CommitID         = custody.CommitID
)

// Model is a key value pair as read from a store.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a Model for the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
