package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/paystar/custody/errors"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	require.NoError(t, err)

	hrp, payload, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, "tiov", hrp)
	require.Equal(t, want, payload)

	raw, err := Encode(hrp, payload)
	require.NoError(t, err)
	require.Equal(t, enc, raw)
}

func TestDecodeInvalid(t *testing.T) {
	cases := map[string]string{
		"no separator": "w3jhxapdwpshjmr0v9jqymqq4y",
		"bad checksum": "tiov1w3jhxapdwpshjmr0v9jqymqq4z",
		"mixed case":   "tiov1W3jhxapdwpshjmr0v9jqymqq4y",
		"empty":        "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(raw)
			require.True(t, errors.ErrInput.Is(err), "got %v", err)
		})
	}
}
