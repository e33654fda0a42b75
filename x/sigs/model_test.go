package sigs

import (
	"testing"

	"github.com/paystar/custody/crypto"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndIncrementSequence(t *testing.T) {
	cases := map[string]struct {
		Sequence int64
		Expected int64
		WantErr  *errors.Error
		WantSeq  int64
	}{
		"match": {
			Sequence: 3,
			Expected: 3,
			WantSeq:  4,
		},
		"mismatch": {
			Sequence: 3,
			Expected: 2,
			WantErr:  ErrInvalidSequence,
			WantSeq:  3,
		},
		"overflow": {
			Sequence: maxSequenceValue,
			Expected: maxSequenceValue,
			WantErr:  errors.ErrOverflow,
			WantSeq:  maxSequenceValue,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			u := UserData{Sequence: tc.Sequence}
			err := u.CheckAndIncrementSequence(tc.Expected)
			if tc.WantErr != nil {
				require.True(t, tc.WantErr.Is(err), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.WantSeq, u.Sequence)
		})
	}
}

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	assert.NoError(t, (&UserData{}).Validate())
	assert.NoError(t, (&UserData{Pubkey: pub, Sequence: 9}).Validate())
	assert.True(t, ErrInvalidSequence.Is((&UserData{Sequence: 1}).Validate()))
	assert.True(t, ErrInvalidSequence.Is((&UserData{Pubkey: pub, Sequence: -1}).Validate()))
}

func TestBucketSaveGet(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	u, err := b.Get(db, pub.Address())
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = b.GetOrCreate(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Sequence)

	u.Sequence = 7
	require.NoError(t, b.Save(db, u))

	got, err := b.Get(db, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, u, got)

	assert.True(t, errors.ErrModel.Is(b.Save(db, &UserData{})))
}
