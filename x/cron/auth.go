package cron

import (
	"context"

	"github.com/paystar/custody"
	"github.com/paystar/custody/x"
)

type ctxKey int

const (
	ctxKeyConditions ctxKey = iota
)

// withAuth returns a context instance with the conditions attached. Attached
// conditions are used for authentication by authenticator implementation from
// this package.
func withAuth(ctx custody.Context, cs []custody.Condition) custody.Context {
	if old, ok := ctx.Value(ctxKeyConditions).([]custody.Condition); ok {
		cs = append(cs, old...)
	}
	return context.WithValue(ctx, ctxKeyConditions, cs)
}

// Authenticator grants the conditions a task was scheduled with. Chain it
// with the signature authenticator in the application.
type Authenticator struct{}

var _ x.Authenticator = (*Authenticator)(nil)

func (Authenticator) GetConditions(ctx custody.Context) []custody.Condition {
	val, ok := ctx.Value(ctxKeyConditions).([]custody.Condition)
	if !ok {
		return nil
	}
	return val
}

func (a Authenticator) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
