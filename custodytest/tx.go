package custodytest

import (
	"encoding/binary"

	"github.com/paystar/custody"
)

// Tx is a transaction carrying a single message.
type Tx struct {
	Msg custody.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a message with a configurable route.
type Msg struct {
	// RoutePath is returned by Path and used by the router.
	RoutePath string
	// Serialized is the binary form of this message.
	Serialized []byte
	// Err if set is returned by every method call.
	Err error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

// SequenceID returns the encoded value of the n-th sequence value, the key
// of the n-th model created in a bucket.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
