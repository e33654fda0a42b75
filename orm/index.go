package orm

import (
	"bytes"
	"sort"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// Indexer returns the index value of a model. A nil value means the model
// is not indexed.
type Indexer func(Model) ([]byte, error)

// Index maps index values to the primary keys of models.
type Index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

// NewIndex returns an index of the given bucket. A unique index fails with
// ErrDuplicate when two models produce the same value.
func NewIndex(bucket, name string, indexer Indexer, unique bool) Index {
	return Index{
		name:    name,
		prefix:  []byte("_i." + bucket + "_" + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

// Name returns the name of the index.
func (i Index) Name() string {
	return i.name
}

// Keys returns the sorted primary keys of all models indexed by value.
func (i Index) Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	ref, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return ref.Refs, nil
}

// Update moves the reference of pk from the index value of prev to the
// index value of next. Either model may be nil.
func (i Index) Update(db custody.KVStore, pk []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
	}
	if prev != nil && next != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}
	if prevVal != nil {
		if err := i.remove(db, prevVal, pk); err != nil {
			return err
		}
	}
	if nextVal != nil {
		if err := i.add(db, nextVal, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) add(db custody.KVStore, value, pk []byte) error {
	ref, err := i.load(db, value)
	if err != nil {
		return err
	}
	pos, found := search(ref.Refs, pk)
	if found {
		return nil
	}
	if i.unique && len(ref.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %q value %X", i.name, value)
	}
	ref.Refs = append(ref.Refs, nil)
	copy(ref.Refs[pos+1:], ref.Refs[pos:])
	ref.Refs[pos] = pk
	return i.save(db, value, ref)
}

func (i Index) remove(db custody.KVStore, value, pk []byte) error {
	ref, err := i.load(db, value)
	if err != nil {
		return err
	}
	pos, found := search(ref.Refs, pk)
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "index %q reference %X", i.name, pk)
	}
	ref.Refs = append(ref.Refs[:pos], ref.Refs[pos+1:]...)
	if len(ref.Refs) == 0 {
		return db.Delete(i.key(value))
	}
	return i.save(db, value, ref)
}

func (i Index) load(db custody.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.key(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var ref MultiRef
	if raw == nil {
		return &ref, nil
	}
	if err := ref.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "index %q: %s", i.name, err)
	}
	return &ref, nil
}

func (i Index) save(db custody.KVStore, value []byte, ref *MultiRef) error {
	raw, err := ref.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "index %q: %s", i.name, err)
	}
	return db.Set(i.key(value), raw)
}

func (i Index) key(value []byte) []byte {
	return append(append([]byte{}, i.prefix...), value...)
}

func search(refs [][]byte, pk []byte) (int, bool) {
	pos := sort.Search(len(refs), func(n int) bool {
		return bytes.Compare(refs[n], pk) >= 0
	})
	return pos, pos < len(refs) && bytes.Equal(refs[pos], pk)
}
