package custodytest

import (
	"bytes"
	"sort"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// Cron is an in memory scheduler. Tick does not execute the messages, it
// only returns the ids of the due tasks and drops them from the queue.
type Cron struct {
	// Err if set is returned by Schedule and Delete.
	Err   error
	tasks []*crontask
	seq   uint64
}

type crontask struct {
	tid   []byte
	runAt time.Time
	auth  []custody.Condition
	msg   custody.Msg
}

var _ custody.Scheduler = (*Cron)(nil)
var _ custody.Ticker = (*Cron)(nil)

func (c *Cron) Schedule(db custody.KVStore, runAt time.Time, auth []custody.Condition, msg custody.Msg) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.seq++
	tid := SequenceID(c.seq)
	c.tasks = append(c.tasks, &crontask{
		tid:   tid,
		runAt: runAt,
		auth:  auth,
		msg:   msg,
	})
	// Tasks to be executed first are first.
	sort.SliceStable(c.tasks, func(i, j int) bool {
		return c.tasks[i].runAt.Before(c.tasks[j].runAt)
	})
	return tid, nil
}

func (c *Cron) Delete(db custody.KVStore, taskID []byte) error {
	if c.Err != nil {
		return c.Err
	}
	for i, t := range c.tasks {
		if bytes.Equal(t.tid, taskID) {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return nil
		}
	}
	return errors.Wrap(errors.ErrNotFound, "no task")
}

func (c *Cron) Tick(ctx custody.Context, db custody.CacheableKVStore) (custody.TickResult, error) {
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return custody.TickResult{}, err
	}
	var res custody.TickResult
	for _, t := range c.tasks {
		if t.runAt.After(now) {
			break
		}
		res.Executed = append(res.Executed, t.tid)
	}
	c.tasks = c.tasks[len(res.Executed):]
	return res, nil
}

// Scheduled returns the queued messages in execution order.
func (c *Cron) Scheduled() []custody.Msg {
	msgs := make([]custody.Msg, len(c.tasks))
	for i, t := range c.tasks {
		msgs[i] = t.msg
	}
	return msgs
}
