package custody

// ReadOnlyKVStore is the read side of a key value store.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive, nil start or end means unbounded.
	// No writes may happen within a domain while an iterator exists
	// over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator is like Iterator but in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side of a key value store.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler operates on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that collects writes and applies them
	// all at once on Write.
	NewBatch() Batch
}

// Batch collects writes and applies them in order on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator allows to access a range of items.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//	    k, v := it.Key(), it.Value()
//	}
type Iterator interface {
	// Valid returns whether the current position is valid. Once invalid,
	// an iterator is invalid forever.
	Valid() bool

	// Next moves the cursor forward. It panics if the iterator is not
	// valid.
	Next()

	Key() []byte
	Value() []byte

	// Close releases the iterator.
	Close()
}

// CacheableKVStore is a KVStore that supports cache wrapping.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes, visible to all reads
// done through it. It works like an SQL savepoint: Write applies all cached
// changes to the parent store, Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is a store that persists its state in versions.
type CommitKVStore interface {
	// Get returns the value of the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a cache to perform changes on. Writing the cache
	// stages the changes for the next Commit.
	CacheWrap() KVCacheWrap

	// Commit persists the next version and returns its identifier.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version.
	LoadLatestVersion() error

	// LatestVersion returns the identifier of the latest persisted
	// version.
	LatestVersion() (CommitID, error)
}

// CommitID contains the version number and the merkle root of a committed
// state.
type CommitID struct {
	Version int64
	Hash    []byte
}
