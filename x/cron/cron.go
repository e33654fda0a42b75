package cron

import (
	"encoding/binary"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/orm"
)

// TaskMarshaler encodes a task. It is implemented by the application, which
// knows all message types.
type TaskMarshaler interface {
	// MarshalTask serialize given data into its binary format.
	MarshalTask(auth []custody.Condition, msg custody.Msg) ([]byte, error)

	// UnmarshalTask deserialize data (created using MarshalTask method)
	// from its binary representation into Go structures.
	UnmarshalTask([]byte) (auth []custody.Condition, msg custody.Msg, err error)
}

// NewScheduler returns a scheduler using the given encoding.
//
// Always use the same marshaler for ticker and scheduler.
func NewScheduler(enc TaskMarshaler) *Scheduler {
	return &Scheduler{enc: enc}
}

// Scheduler is the custody.Scheduler implementation.
type Scheduler struct {
	enc TaskMarshaler
}

var _ custody.Scheduler = (*Scheduler)(nil)

// Schedule queues the message for execution not earlier than runAt.
//
// Time granularity is second and runAt is rounded up. If another task is
// already scheduled for the same second, this task is delayed until the next
// free slot.
func (s *Scheduler) Schedule(db custody.KVStore, runAt time.Time, auth []custody.Condition, msg custody.Msg) ([]byte, error) {
	const granularity = time.Second
	if t := runAt.Truncate(granularity); !t.Equal(runAt) {
		runAt = t.Add(granularity)
	}

	raw, err := s.enc.MarshalTask(auth, msg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal task")
	}

	for {
		key := queueKey(runAt)
		if ok, err := db.Has(key); err != nil {
			return nil, errors.Wrap(err, "cannot check key existence")
		} else if ok {
			runAt = runAt.Add(granularity)
			continue
		}

		if err := db.Set(key, raw); err != nil {
			return nil, errors.Wrap(err, "cannot store in queue")
		}
		return key, nil
	}
}

func queueKey(t time.Time) []byte {
	rawTime := make([]byte, 8)
	// Zero time does not need to put any data as the bytes are already set
	// to zero.
	if !t.IsZero() {
		binary.BigEndian.PutUint64(rawTime, uint64(t.UnixNano()))
	}
	return append([]byte("_crontask:runat:"), rawTime...)
}

// Delete removes a queued task.
func (s *Scheduler) Delete(db custody.KVStore, taskID []byte) error {
	if ok, err := db.Has(taskID); err != nil {
		return errors.Wrap(err, "has")
	} else if !ok {
		return errors.Wrap(errors.ErrNotFound, "no task")
	}
	if err := db.Delete(taskID); err != nil {
		return errors.Wrap(err, "cannot delete")
	}
	return nil
}

// NewTicker returns a runner that delivers all due tasks with the given
// handler.
//
// Always use the same marshaler for ticker and scheduler.
func NewTicker(h custody.Handler, enc TaskMarshaler) *Ticker {
	return &Ticker{
		hn:      h,
		enc:     enc,
		results: NewTaskResultBucket(),
	}
}

// Ticker executes the queued tasks that are due.
type Ticker struct {
	hn      custody.Handler
	enc     TaskMarshaler
	results orm.ModelBucket
}

var _ custody.Ticker = (*Ticker)(nil)

// Tick processes all tasks due at the block time, oldest first. A task that
// fails is recorded as such and has no other effect. An error is returned
// only when the store cannot be updated.
func (t *Ticker) Tick(ctx custody.Context, db custody.CacheableKVStore) (custody.TickResult, error) {
	var result custody.TickResult

	now, err := custody.BlockTime(ctx)
	if err != nil {
		return result, errors.Wrap(err, "cannot get current time")
	}
	height, _ := custody.GetHeight(ctx)
	logger := custody.GetLogger(ctx).With("module", "cron")

	for {
		switch key, raw, err := peek(db, now); {
		case err == nil:
			res := TaskResult{
				Successful: true,
				ExecTime:   custody.AsUnixTime(now),
				ExecHeight: height,
			}

			// Each task is processed using its own cache instance
			// to ensure changes are atomic and task processing
			// independent.
			cache := db.CacheWrap()
			mark := events.Mark(ctx)

			if err := t.deliver(ctx, cache, raw); err != nil {
				cache.Discard()
				events.Rollback(ctx, mark)
				res.Successful = false
				res.Info = err.Error()
				logger.Info("task failed", "task", key, "err", err)
			} else {
				logger.Debug("task executed", "task", key)
			}

			if _, err := t.results.Put(cache, key, &res); err != nil {
				cache.Discard()
				return result, errors.Wrap(err, "cannot store result")
			}
			if err := cache.Delete(key); err != nil {
				cache.Discard()
				return result, errors.Wrap(err, "cannot delete task")
			}
			if err := cache.Write(); err != nil {
				return result, errors.Wrap(err, "cannot write cache")
			}
			result.Executed = append(result.Executed, key)
		case errors.ErrEmpty.Is(err):
			return result, nil
		default:
			return result, errors.Wrap(err, "cannot pop queue")
		}
	}
}

func (t *Ticker) deliver(ctx custody.Context, db custody.KVStore, raw []byte) (err error) {
	defer errors.Recover(&err)

	auth, msg, err := t.enc.UnmarshalTask(raw)
	if err != nil {
		return errors.Wrap(err, "cannot unmarshal task")
	}
	taskCtx := withAuth(ctx, auth)
	if _, err := t.hn.Deliver(taskCtx, db, &taskTx{msg: msg}); err != nil {
		return err
	}
	return nil
}

// peek reads from the queue a single task that reached its execution time and
// returns it encoded value and ID. It returns ErrEmpty if there is no message
// suitable for processing.
func peek(db custody.KVStore, now time.Time) (id, raw []byte, err error) {
	since := queueKey(time.Time{})
	// End is exclusive, a task scheduled exactly now is due.
	until := queueKey(now.Add(time.Nanosecond))
	it, err := db.Iterator(since, until)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	if !it.Valid() {
		return nil, nil, errors.ErrEmpty
	}
	return append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...), nil
}

// taskTx is a custody.Tx implementation created for running asynchronous
// tasks. It is a thin wrapper over the message.
type taskTx struct {
	msg custody.Msg
}

var _ custody.Tx = (*taskTx)(nil)

func (tx *taskTx) GetMsg() (custody.Msg, error) {
	return tx.msg, nil
}

func (tx *taskTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "task transaction is not serializable")
}

func (tx *taskTx) Marshal() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "task transaction is not serializable")
}
