package events

import (
	"sync"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// Sink receives the events of every successfully delivered transaction.
// The store is the one the transaction was delivered to; a sink may write
// to it and its writes are committed together with the transaction.
type Sink interface {
	Publish(ctx custody.Context, db custody.KVStore, evs []Event) error
}

// MultiSink publishes to all sinks in order.
type MultiSink []Sink

var _ Sink = MultiSink(nil)

func (m MultiSink) Publish(ctx custody.Context, db custody.KVStore, evs []Event) error {
	for _, s := range m {
		if err := s.Publish(ctx, db, evs); err != nil {
			return err
		}
	}
	return nil
}

// MemorySink keeps all published events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

var _ Sink = (*MemorySink)(nil)

func (m *MemorySink) Publish(ctx custody.Context, db custody.KVStore, evs []Event) error {
	m.mu.Lock()
	m.events = append(m.events, evs...)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of all events published so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Topics returns the topics of all events published so far.
func (m *MemorySink) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, len(m.events))
	for i, e := range m.events {
		topics[i] = e.Topic
	}
	return topics
}

// LogSink writes every event to the context logger.
type LogSink struct{}

var _ Sink = LogSink{}

func (LogSink) Publish(ctx custody.Context, db custody.KVStore, evs []Event) error {
	logger := custody.GetLogger(ctx)
	for _, e := range evs {
		logger.Info("event", "topic", e.Topic, "attrs", e.String())
	}
	return nil
}

// StoreSink persists events in the store, so that they can be listed after
// the block was committed.
type StoreSink struct {
	bucket orm.ModelBucket
}

var _ Sink = (*StoreSink)(nil)

// NewStoreSink returns a sink writing to the "evt" bucket.
func NewStoreSink() *StoreSink {
	return &StoreSink{bucket: orm.NewModelBucket("evt", &Record{})}
}

func (s *StoreSink) Publish(ctx custody.Context, db custody.KVStore, evs []Event) error {
	height, _ := custody.GetHeight(ctx)
	for _, e := range evs {
		if err := e.Validate(); err != nil {
			return errors.Wrapf(err, "event %q", e.Topic)
		}
		if _, err := s.bucket.Put(db, nil, NewRecord(height, e)); err != nil {
			return errors.Wrap(err, "save event")
		}
	}
	return nil
}

// List returns all persisted events in publication order. If topic is not
// empty, only events with that topic are returned.
func (s *StoreSink) List(db custody.ReadOnlyKVStore, topic string) ([]Record, error) {
	it, err := s.bucket.IterAll(db)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []Record
	for {
		var r Record
		switch _, err := it.LoadNext(&r); {
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, err
		}
		if topic == "" || r.Topic == topic {
			res = append(res, r)
		}
	}
}

// Record is the persisted form of an event.
type Record struct {
	Height     int64       `json:"height"`
	Topic      string      `json:"topic"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is the persisted form of an event attribute.
type Attribute struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// NewRecord returns the persisted form of the event emitted at the given
// height.
func NewRecord(height int64, e Event) *Record {
	attrs := make([]Attribute, len(e.Attributes))
	for i, a := range e.Attributes {
		attrs[i] = Attribute{Key: a.Key, Value: a.Value}
	}
	return &Record{Height: height, Topic: e.Topic, Attributes: attrs}
}

// Event returns the in memory form of the record.
func (r *Record) Event() Event {
	attrs := make([]common.KVPair, len(r.Attributes))
	for i, a := range r.Attributes {
		attrs[i] = common.KVPair{Key: a.Key, Value: a.Value}
	}
	return Event{Topic: r.Topic, Attributes: attrs}
}

func (r *Record) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *Record) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, r)
}

func (r *Record) Validate() error {
	if r.Height < 0 {
		return errors.Wrap(errors.ErrModel, "negative height")
	}
	return r.Event().Validate()
}
