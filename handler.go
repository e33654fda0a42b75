package custody

import (
	"encoding/json"
	"time"

	"github.com/paystar/custody/errors"
)

// Handler processes a group of messages, for example all escrow messages.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction without executing it.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality, like
// authentication or logging, to many handlers.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Ticker is called at the beginning of every block and executes delayed
// work.
type Ticker interface {
	Tick(ctx Context, db CacheableKVStore) (TickResult, error)
}

// Registry is the setup side of a router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	// Log is a human readable description.
	Log string
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	// Data is the binary result of the operation, for example the
	// identifier of a created record.
	Data []byte
	Log  string
}

// TickResult is returned by a Ticker.
type TickResult struct {
	// Executed holds the keys of the tasks executed in this tick.
	Executed [][]byte
}

// Options are the genesis options. Each extension reads its own key.
type Options map[string]json.RawMessage

// ReadOptions parses the JSON stored under key into obj. A missing key is
// not an error and leaves obj unchanged.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer initializes an extension from the genesis file.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}

// ChainInitializers runs all initializers in order.
type ChainInitializers []Initializer

var _ Initializer = ChainInitializers(nil)

func (c ChainInitializers) FromGenesis(opts Options, db KVStore) error {
	for _, in := range c {
		if err := in.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}

// Scheduler registers messages to be executed at a given time, in the name
// of the given conditions.
type Scheduler interface {
	// Schedule queues msg for execution at runAt and returns the task id.
	Schedule(db KVStore, runAt time.Time, auth []Condition, msg Msg) ([]byte, error)

	// Delete removes a queued task. It returns ErrNotFound if there is
	// no such task.
	Delete(db KVStore, taskID []byte) error
}
