package sigs

import "github.com/paystar/custody/errors"

// ErrInvalidSequence is returned when the signature nonce does not match the
// nonce stored for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
