package custodyd

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x/cron"
)

// CronTask is a message scheduled for execution by the block ticker.
type CronTask struct {
	Auth []custody.Condition `json:"auth,omitempty"`
	Msg  custody.Msg         `json:"msg"`
}

// TaskMarshaler encodes cron tasks with the transaction codec, so any
// routed message can be scheduled.
type TaskMarshaler struct{}

var _ cron.TaskMarshaler = TaskMarshaler{}

func (TaskMarshaler) MarshalTask(auth []custody.Condition, msg custody.Msg) ([]byte, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "missing message")
	}
	return cdc.MarshalBinaryBare(&CronTask{Auth: auth, Msg: msg})
}

func (TaskMarshaler) UnmarshalTask(raw []byte) ([]custody.Condition, custody.Msg, error) {
	var t CronTask
	if err := cdc.UnmarshalBinaryBare(raw, &t); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if t.Msg == nil {
		return nil, nil, errors.Wrap(errors.ErrInput, "missing message")
	}
	return t.Auth, t.Msg, nil
}
