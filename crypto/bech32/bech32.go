// Package bech32 converts addresses from and to their bech32 text form.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/paystar/custody/errors"
)

// Decode returns the human readable part and the raw 8 bit payload of a
// bech32 string.
func Decode(raw string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32 decode: %s", err)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	return hrp, payload, nil
}

// Encode returns the bech32 representation of payload.
func Encode(hrp string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 encode: %s", err)
	}
	return raw, nil
}
