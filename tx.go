package custody

import (
	"reflect"

	"github.com/paystar/custody/errors"
)

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be marshaled and unmarshaled. Unmarshal requires a pointer
// receiver, which is why it is separated from Marshaller.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request to perform a state transition. It carries no
// authentication information, that is the job of the wrapping Tx.
type Msg interface {
	Persistent

	// Path is used by the router to find the handler. It must match
	// [0-9A-Za-z_\-/]+.
	Path() string

	// Validate performs stateless checks.
	Validate() error
}

// Tx is the data sent by a client. It includes the message and everything
// needed to authenticate the sender.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// TxDecoder parses bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message or "(missing)".
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message of tx into destination. Destination must be
// a pointer to the expected message type.
//
//	var msg CreateMsg
//	if err := custody.LoadMsg(tx, &msg); err != nil {
//	    return err
//	}
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := setMsg(msg, destination); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

func setMsg(msg Msg, destination interface{}) error {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if src.Type() != dest.Elem().Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(src)
	return nil
}
