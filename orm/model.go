package orm

import (
	"github.com/paystar/custody"
	amino "github.com/tendermint/go-amino"
)

// Model is implemented by every entity stored in a ModelBucket.
type Model interface {
	custody.Persistent
	Validate() error
}

var cdc = amino.NewCodec()

// MultiRef is a sorted list of unique references, the value of an index
// entry.
type MultiRef struct {
	Refs [][]byte `json:"refs"`
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
