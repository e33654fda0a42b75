package orm

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// ModelIterator walks the models of a bucket in ascending key order.
// No writes may happen within the bucket while an iterator exists over it.
type ModelIterator struct {
	it     custody.Iterator
	prefix []byte
}

// LoadNext loads the current model into dest, returns its key and moves
// the iterator forward. ErrIteratorDone is returned once all models were
// consumed.
func (i *ModelIterator) LoadNext(dest Model) ([]byte, error) {
	if !i.it.Valid() {
		return nil, errors.ErrIteratorDone
	}
	key := i.it.Key()[len(i.prefix):]
	if err := dest.Unmarshal(i.it.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "unmarshal %X: %s", key, err)
	}
	i.it.Next()
	return key, nil
}

// Release frees the underlying store iterator.
func (i *ModelIterator) Release() {
	i.it.Close()
}

// IterAll returns an iterator over every model of the bucket.
func (mb *modelBucket) IterAll(db custody.ReadOnlyKVStore) (*ModelIterator, error) {
	it, err := db.Iterator(mb.prefix, prefixEnd(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &ModelIterator{it: it, prefix: mb.prefix}, nil
}

// prefixEnd returns the first key that does not start with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
