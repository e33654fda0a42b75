package cron

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
)

// TaskResult is the outcome of an executed task, stored under the task id.
type TaskResult struct {
	Successful bool             `json:"successful"`
	Info       string           `json:"info,omitempty"`
	ExecTime   custody.UnixTime `json:"exec_time"`
	ExecHeight int64            `json:"exec_height"`
}

var _ orm.Model = (*TaskResult)(nil)

func (t *TaskResult) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *TaskResult) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

func (t *TaskResult) Validate() error {
	if err := t.ExecTime.Validate(); err != nil {
		return errors.Wrap(err, "exec time")
	}
	if t.ExecHeight < 0 {
		return errors.Wrap(errors.ErrModel, "negative exec height")
	}
	if t.Successful && t.Info != "" {
		return errors.Wrap(errors.ErrModel, "info is set only for failed tasks")
	}
	return nil
}

// NewTaskResultBucket returns a bucket for storing task results.
func NewTaskResultBucket() orm.ModelBucket {
	return orm.NewModelBucket("crontr", &TaskResult{})
}

// LoadResult returns the result of the task with the given id.
// ErrNotFound is returned while the task was not executed.
func LoadResult(db custody.ReadOnlyKVStore, taskID []byte) (*TaskResult, error) {
	var res TaskResult
	if err := NewTaskResultBucket().One(db, taskID, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
