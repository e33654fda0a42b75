package sigs

import (
	"context"
	"testing"

	"github.com/paystar/custody/app"
	"github.com/paystar/custody/crypto"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpSequence(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	signer := priv.PublicKey().Condition()

	cases := map[string]struct {
		Stored    *UserData
		Increment uint32
		Signer    bool
		WantErr   *errors.Error
		WantSeq   int64
	}{
		"increment of one is done by the transaction": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 4},
			Increment: 1,
			Signer:    true,
			WantSeq:   4,
		},
		"increment by many": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 4},
			Increment: 100,
			Signer:    true,
			WantSeq:   103,
		},
		"zero increment": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 4},
			Increment: 0,
			Signer:    true,
			WantErr:   errors.ErrMsg,
		},
		"too big increment": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 4},
			Increment: maxSequenceIncrement + 1,
			Signer:    true,
			WantErr:   errors.ErrMsg,
		},
		"overflow": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: maxSequenceValue - 5},
			Increment: 10,
			Signer:    true,
			WantErr:   errors.ErrOverflow,
		},
		"unknown user": {
			Increment: 3,
			Signer:    true,
			WantErr:   errors.ErrNotFound,
		},
		"not signed": {
			Stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 4},
			Increment: 3,
			WantErr:   errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket()
			if tc.Stored != nil {
				require.NoError(t, b.Save(db, tc.Stored))
			}
			auth := &custodytest.Auth{}
			if tc.Signer {
				auth.Signer = signer
			}
			rt := app.NewRouter()
			RegisterRoutes(rt, auth)

			tx := &custodytest.Tx{Msg: &BumpSequenceMsg{Increment: tc.Increment}}
			ctx := context.Background()

			_, err := rt.Check(ctx, db, tx)
			if tc.WantErr != nil {
				require.True(t, tc.WantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			_, err = rt.Deliver(ctx, db, tx)
			require.NoError(t, err)

			n, err := NextNonce(db, signer.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.WantSeq, n)
		})
	}
}
