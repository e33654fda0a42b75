// Package crypto provides the keys and signatures used to authenticate
// transactions.
package crypto

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	amino "github.com/tendermint/go-amino"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions produced by signatures.
const ExtensionName = "sigs"

var cdc = amino.NewCodec()

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Verify returns true if sig is a signature of message created with the
// private key matching this public key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition returns the condition this key authorizes.
func (p *PublicKey) Condition() custody.Condition {
	return custody.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the condition this key authorizes.
func (p *PublicKey) Address() custody.Address {
	return p.Condition().Address()
}

// Validate returns an error if the key is malformed.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// GenPrivKeyEd25519 returns a new random private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed deterministically returns a private key for the
// given 32 byte seed.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

// Sign returns the signature of message.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	return &Signature{Ed25519: ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)}, nil
}

// PublicKey returns the matching public key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

func (s *Signature) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}
