package orm

import (
	"encoding/binary"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// Sequence is a counter stored in the database. Every returned value is
// greater than the previous one, both as a number and when comparing the
// encoded bytes. The first returned value is 1.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence stored under the key
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal increments the sequence and returns the new value encoded as 8
// bytes.
func (s Sequence) NextVal(db custody.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns the new value.
func (s Sequence) NextInt(db custody.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the value most recently returned by the sequence, or zero.
// It does not modify the sequence.
func (s Sequence) Latest(db custody.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db custody.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val+inc < val {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, raw, nil
}

// EncodeSequence returns the big endian representation of val.
func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}

// DecodeSequence is the reverse of EncodeSequence. Nil decodes to zero.
func DecodeSequence(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence value must be 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
