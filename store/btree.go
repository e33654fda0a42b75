package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/paystar/custody/errors"
)

// DefaultFreeListSize is the number of free nodes kept for reuse by a btree.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a btree based CacheWrap to a KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// BTreeCacheWrap keeps all writes in an ordered btree on top of a read only
// store. All writes are also collected in a batch that is applied to the
// parent on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache wrap around kv. All writes go through
// the batch. free may be nil.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another btree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all changes to the parent store and resets this cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached changes. The cache can be reused afterwards.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.ops = nil
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return it.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown btree item: %T", it)
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown btree item: %T", it)
	}
}

// Iterator returns the cached changes merged with the parent content, in
// ascending order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectItems(b.bt, start, end), parent, true), nil
}

// ReverseIterator is like Iterator but in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectItems(b.bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, parent, false), nil
}

// collectItems returns a snapshot of all items within [start, end) in
// ascending order. Nil start or end is unbounded.
func collectItems(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// keyer is implemented by every item stored in the btree.
type keyer interface {
	btree.Item
	Key() []byte
}

type bkey struct {
	key []byte
}

func (k bkey) Key() []byte {
	return k.key
}

func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
