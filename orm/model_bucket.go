package orm

import (
	"reflect"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// ModelBucket stores models of a single kind.
type ModelBucket interface {
	// One loads the model stored under key into dest. It returns
	// ErrNotFound if no model is stored under key.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if a model is stored under key, ErrNotFound
	// otherwise.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// Put validates and saves m. If key is nil, the next value of the
	// bucket sequence is used. The key under which the model was saved
	// is returned.
	Put(db custody.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes the model stored under key. It returns ErrNotFound
	// if no model is stored under key.
	Delete(db custody.KVStore, key []byte) error

	// ByIndex loads all models referenced by the given index value into
	// destination, which must be a pointer to a slice of models or of
	// model pointers. The primary keys are returned in the same order.
	ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, destination interface{}) ([][]byte, error)

	// IterAll returns an iterator over all models of the bucket, in
	// ascending key order.
	IterAll(db custody.ReadOnlyKVStore) (*ModelIterator, error)
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds an index to the bucket.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.indexes[name] = NewIndex(mb.name, name, indexer, unique)
	}
}

// WithIDSequence sets the sequence used to allocate keys when Put is called
// with a nil key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

// NewModelBucket returns a bucket storing models of the same type as model.
// The name is the key prefix and must be unique in the application. By
// default keys are allocated from the "id" sequence of the bucket.
func NewModelBucket(name string, model Model, opts ...ModelBucketOption) ModelBucket {
	mt := reflect.TypeOf(model)
	if mt.Kind() != reflect.Ptr || mt.Elem().Kind() != reflect.Struct {
		panic("model must be a pointer to a struct")
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: mt.Elem(),
		idSeq:     NewSequence(name, "id"),
		indexes:   make(map[string]Index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
	idSeq     Sequence
	indexes   map[string]Index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.modelType) {
		return errors.Wrapf(errors.ErrType, "%T cannot hold %s", dest, mb.modelType)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "%s %X: %s", mb.name, key, err)
	}
	return nil
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.modelType) {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot be stored in %s", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if key == nil {
		next, err := mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
		key = next
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return nil, err
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return nil, err
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal: %s", err)
	}
	if raw == nil {
		// A zero value model encodes to nothing, but must still exist.
		raw = []byte{}
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return err
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, destination interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q in %s", indexName, mb.name)
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice")
	}
	slice := dest.Elem()
	elemType := slice.Type().Elem()
	ptrElems := elemType.Kind() == reflect.Ptr
	if (ptrElems && elemType.Elem() != mb.modelType) || (!ptrElems && elemType != mb.modelType) {
		return nil, errors.Wrapf(errors.ErrType, "%s cannot hold %s", slice.Type(), mb.modelType)
	}

	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		m := reflect.New(mb.modelType)
		if err := mb.One(db, key, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "index %q reference", indexName)
		}
		if ptrElems {
			slice = reflect.Append(slice, m)
		} else {
			slice = reflect.Append(slice, m.Elem())
		}
	}
	dest.Elem().Set(slice)
	return keys, nil
}

// load returns the model stored under key, or nil.
func (mb *modelBucket) load(db custody.ReadOnlyKVStore, key []byte) (Model, error) {
	m := reflect.New(mb.modelType).Interface().(Model)
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}
