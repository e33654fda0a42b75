package sigs

import (
	"context"

	"github.com/paystar/custody"
	"github.com/paystar/custody/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx custody.Context, signers []custody.Condition) custody.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx custody.Context) []custody.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]custody.Condition)
	return val
}

// HasAddress returns true if the given address signed the current
// transaction.
func (a Authenticate) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
