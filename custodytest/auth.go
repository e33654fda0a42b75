package custodytest

import (
	"context"
	"fmt"

	"github.com/paystar/custody"
	"github.com/paystar/custody/x"
)

// Auth is an x.Authenticator that authenticates a fixed set of conditions,
// referenced by Signer, Signers or both.
type Auth struct {
	// Signer is a shortcut for a single signer.
	Signer custody.Condition

	Signers []custody.Condition
}

var _ x.Authenticator = (*Auth)(nil)

func (a *Auth) GetConditions(custody.Context) []custody.Condition {
	conds := append([]custody.Condition{}, a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

func (a *Auth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is an x.Authenticator that reads the conditions from the
// context, so that a single handler instance can serve many signers.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

var _ x.Authenticator = (*CtxAuth)(nil)

type ctxAuthKey string

// SetConditions returns a context authenticating the given conditions.
func (a *CtxAuth) SetConditions(ctx custody.Context, permissions ...custody.Condition) custody.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx custody.Context) []custody.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]custody.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []custody.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
