package custody

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)
	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// Changing the log info modifies the logger but not the height.
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetHeight(ctx2)
	assert.Equal(t, int64(7), val)

	assert.Panics(t, func() { GetChainID(ctx) })
	ctx2 = WithChainID(ctx, "my-chain")
	assert.Equal(t, "my-chain", GetChainID(ctx2))
	assert.Panics(t, func() { WithChainID(ctx2, "my-chain") })
	assert.Panics(t, func() { WithChainID(ctx, "no") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()

	_, err := BlockTime(ctx)
	require.Error(t, err)
	assert.Panics(t, func() { IsExpired(ctx, 1) })

	now := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, got)
	assert.Panics(t, func() { WithBlockTime(ctx, now) })

	unow := AsUnixTime(now)
	assert.True(t, IsExpired(ctx, unow-1))
	assert.True(t, IsExpired(ctx, unow), "expiration is inclusive")
	assert.False(t, IsExpired(ctx, unow+1))
}

func TestChainID(t *testing.T) {
	cases := []struct {
		chainID string
		valid   bool
	}{
		{"", false},
		{"foo", false},
		{"special", true},
		{"wish-YOU-88", true},
		{"invalid;;chars", false},
		{"this-chain-id-is-way-too-long", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidChainID(tc.chainID), tc.chainID)
	}
}
