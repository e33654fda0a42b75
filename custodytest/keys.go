package custodytest

import (
	"crypto/rand"
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a new random key.
func NewCondition() custody.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address.
func RandomAddr(t testing.TB) custody.Address {
	raw := make([]byte, custody.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := custody.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	return a
}
