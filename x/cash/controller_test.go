package cash

import (
	"testing"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := custodytest.RandomAddr(t)

	balance, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.True(t, balance.IsEmpty())

	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(500, "FOO")))
	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(7, "BAR")))
	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(100, "FOO")))

	balance, err = ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(600), balance.Balance("FOO"))
	assert.Equal(t, coin.NewAmount(7), balance.Balance("BAR"))
	assert.Equal(t, "BAR", balance[0].Ticker)

	err = ctrl.IssueCoins(db, addr, coin.NewCoin(1, "bad"))
	assert.True(t, errors.ErrCurrency.Is(err))
}

func TestMoveCoins(t *testing.T) {
	alice := custodytest.RandomAddr(t)
	bob := custodytest.RandomAddr(t)

	cases := map[string]struct {
		src, dst    custody.Address
		amount      coin.Coin
		wantErr     *errors.Error
		wantAlice   coin.Amount
		wantBob     coin.Amount
		wantBobCash bool
	}{
		"move part": {
			src:         alice,
			dst:         bob,
			amount:      coin.NewCoin(300, "FOO"),
			wantAlice:   coin.NewAmount(700),
			wantBob:     coin.NewAmount(300),
			wantBobCash: true,
		},
		"move everything": {
			src:         alice,
			dst:         bob,
			amount:      coin.NewCoin(1000, "FOO"),
			wantAlice:   coin.NewAmount(0),
			wantBob:     coin.NewAmount(1000),
			wantBobCash: true,
		},
		"move to self": {
			src:       alice,
			dst:       alice,
			amount:    coin.NewCoin(1000, "FOO"),
			wantAlice: coin.NewAmount(1000),
		},
		"insufficient funds": {
			src:       alice,
			dst:       bob,
			amount:    coin.NewCoin(1001, "FOO"),
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: coin.NewAmount(1000),
		},
		"unknown currency": {
			src:       alice,
			dst:       bob,
			amount:    coin.NewCoin(1, "BAR"),
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: coin.NewAmount(1000),
		},
		"empty wallet": {
			src:       bob,
			dst:       alice,
			amount:    coin.NewCoin(1, "FOO"),
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: coin.NewAmount(1000),
		},
		"zero amount": {
			src:       alice,
			dst:       bob,
			amount:    coin.NewCoin(0, "FOO"),
			wantErr:   errors.ErrAmount,
			wantAlice: coin.NewAmount(1000),
		},
		"invalid destination": {
			src:       alice,
			dst:       custody.Address("short"),
			amount:    coin.NewCoin(1, "FOO"),
			wantErr:   errors.ErrInput,
			wantAlice: coin.NewAmount(1000),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(1000, "FOO")))

			err := ctrl.MoveCoins(db, tc.src, tc.dst, tc.amount)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			} else {
				require.NoError(t, err)
			}

			a, err := ctrl.Balance(db, alice)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlice, a.Balance("FOO"))

			b, err := ctrl.Balance(db, bob)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBob, b.Balance("FOO"))

			err = NewBucket().Has(db, bob)
			if tc.wantBobCash {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.ErrNotFound.Is(err))
			}
		})
	}
}

func TestEmptyWalletIsRemoved(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := custodytest.RandomAddr(t)
	bob := custodytest.RandomAddr(t)

	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(5, "FOO")))
	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(5, "FOO")))

	err := NewBucket().Has(db, alice)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}
