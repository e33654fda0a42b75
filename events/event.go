package events

import (
	"fmt"
	"strings"

	"github.com/paystar/custody/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Event is a single notification emitted by a handler.
type Event struct {
	Topic      string
	Attributes []common.KVPair
}

// Attr returns a string attribute.
func Attr(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

// BytesAttr returns an attribute with a binary value, for example an
// identifier.
func BytesAttr(key string, value []byte) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: value}
}

// Get returns the value of the first attribute with the given key.
func (e Event) Get(key string) ([]byte, bool) {
	for _, a := range e.Attributes {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Validate returns an error if the event cannot be published.
func (e Event) Validate() error {
	if e.Topic == "" {
		return errors.Wrap(errors.ErrEmpty, "topic")
	}
	for i, a := range e.Attributes {
		if len(a.Key) == 0 {
			return errors.Wrapf(errors.ErrEmpty, "attribute %d key", i)
		}
	}
	return nil
}

func (e Event) String() string {
	attrs := make([]string, len(e.Attributes))
	for i, a := range e.Attributes {
		attrs[i] = fmt.Sprintf("%s=%s", a.Key, printable(a.Value))
	}
	return fmt.Sprintf("%s{%s}", e.Topic, strings.Join(attrs, " "))
}

// printable returns the value as text when possible, hex otherwise.
func printable(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%X", b)
		}
	}
	return string(b)
}
