package x

import (
	"github.com/paystar/custody"
)

// Authenticator extracts the authentication information from the context.
// It is passed into the handler constructors so that the signature scheme
// can be replaced, for example with a fixed set of conditions in tests.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the current
	// transaction.
	GetConditions(custody.Context) []custody.Condition

	// HasAddress returns true if any fulfilled condition has the given
	// address.
	HasAddress(custody.Context, custody.Address) bool
}

// MultiAuth chains many authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups a series of authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions combines the conditions of all authenticators, without
// duplicates.
func (m MultiAuth) GetConditions(ctx custody.Context) []custody.Condition {
	var res []custody.Condition
	for _, impl := range m.impls {
	next:
		for _, c := range impl.GetConditions(ctx) {
			for _, have := range res {
				if have.Equals(c) {
					continue next
				}
			}
			res = append(res, c)
		}
	}
	return res
}

// HasAddress returns true if any authenticator has the address.
func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx custody.Context, auth Authenticator) []custody.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]custody.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx custody.Context, auth Authenticator) custody.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// HasAllAddresses returns true if all required addresses are authenticated.
func HasAllAddresses(ctx custody.Context, auth Authenticator, required []custody.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n of the required addresses are
// authenticated.
func HasNAddresses(ctx custody.Context, auth Authenticator, required []custody.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

// AnyAddress returns the first of the given addresses that is
// authenticated, or nil.
func AnyAddress(ctx custody.Context, auth Authenticator, candidates ...custody.Address) custody.Address {
	for _, c := range candidates {
		if auth.HasAddress(ctx, c) {
			return c
		}
	}
	return nil
}
