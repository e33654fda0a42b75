package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()
	require.NoError(t, public.Validate())

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)

	bz, err := sig.Marshal()
	require.NoError(t, err)
	bz2, err := sig2.Marshal()
	require.NoError(t, err)
	if bytes.Equal(bz, bz2) {
		t.Fatal("different signatures produce the same binary representation")
	}

	require.True(t, public.Verify(msg, sig))
	require.True(t, public.Verify(msg2, sig2))
	require.False(t, public.Verify(msg, sig2), "verified signature of the wrong message")

	other := GenPrivKeyEd25519().PublicKey()
	require.False(t, other.Verify(msg, sig), "verified signature with the wrong key")
	require.False(t, (*PublicKey)(nil).Verify(msg, sig))
	require.False(t, public.Verify(msg, nil))
}

func TestKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	require.Equal(t, a, b)
	require.True(t, a.PublicKey().Address().Equals(b.PublicKey().Address()))
	require.NoError(t, a.PublicKey().Condition().Validate())
}

func TestKeySerialization(t *testing.T) {
	private := GenPrivKeyEd25519()
	raw, err := private.Marshal()
	require.NoError(t, err)

	var loaded PrivateKey
	require.NoError(t, loaded.Unmarshal(raw))
	require.Equal(t, private.Ed25519, loaded.Ed25519)

	pub := private.PublicKey()
	raw, err = pub.Marshal()
	require.NoError(t, err)
	var loadedPub PublicKey
	require.NoError(t, loadedPub.Unmarshal(raw))
	require.True(t, pub.Address().Equals(loadedPub.Address()))
}

func TestInvalidKeys(t *testing.T) {
	require.Error(t, (&PublicKey{Ed25519: []byte{1, 2}}).Validate())
	_, err := (&PrivateKey{Ed25519: []byte{1}}).Sign([]byte("msg"))
	require.Error(t, err)
}
