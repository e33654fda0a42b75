package utils

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
)

// Savepoint isolates all writes done inside of the call. They are written
// to the parent store only if the call succeeds. Events emitted by a failed
// call are dropped together with its writes.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{
		onCheck:   true,
		onDeliver: s.onDeliver,
	}
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{
		onCheck:   s.onCheck,
		onDeliver: true,
	}
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	cstore, ok := store.(custody.CacheableKVStore)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	mark := events.Mark(ctx)
	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		events.Rollback(ctx, mark)
		return nil, err
	}
	if err := cache.Write(); err != nil {
		events.Rollback(ctx, mark)
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	cstore, ok := store.(custody.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	mark := events.Mark(ctx)
	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		events.Rollback(ctx, mark)
		return nil, err
	}
	if err := cache.Write(); err != nil {
		events.Rollback(ctx, mark)
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
