package store

import (
	"fmt"
)

// SliceIterator is an Iterator over an in memory, ordered list of models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

func (s *SliceIterator) Next() {
	s.assertValid()
	s.idx++
}

func (s *SliceIterator) Key() []byte {
	s.assertValid()
	return s.data[s.idx].Key
}

func (s *SliceIterator) Value() []byte {
	s.assertValid()
	return s.data[s.idx].Value
}

func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) assertValid() {
	if !s.Valid() {
		panic("passed end of slice")
	}
}

// EmptyKVStore never holds any data. It is the base layer of a memory only
// store.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch              { return NewNonAtomicBatch(e) }
func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// MemStore returns a store that keeps all data in memory. There is no
// persistence, use it for tests and dry runs.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is either a set or a delete operation.
type Op struct {
	kind  opKind
	key   []byte
	value []byte
}

// SetOp returns a set operation.
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp returns a delete operation.
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// Apply executes this operation on out.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		panic(fmt.Sprintf("unknown op kind: %d", o.kind))
	}
}

// NonAtomicBatch collects operations and executes them one by one on Write.
// Only use it on top of an in memory store, a failure in the middle of Write
// leaves a persistent store partially updated.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all collected operations and resets the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns all operations collected so far.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
