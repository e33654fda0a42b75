package app

import (
	"testing"

	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &custodytest.Handler{}
	bad := &custodytest.Handler{
		CheckErr:   errors.ErrState,
		DeliverErr: errors.ErrState,
	}
	r.Handle("escrow/create", good)
	r.Handle("escrow/dispute", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("escrow/create", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	tx := func(path string) *custodytest.Tx {
		return &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: path}}
	}

	_, err := r.Check(nil, nil, tx("escrow/create"))
	require.NoError(t, err)
	_, err = r.Deliver(nil, nil, tx("escrow/create"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(nil, nil, tx("escrow/dispute"))
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(nil, nil, tx("escrow/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(nil, nil, tx("escrow/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(nil, nil, &custodytest.Tx{Err: errors.ErrMsg})
	assert.True(t, errors.ErrMsg.Is(err))

	assert.ElementsMatch(t, []string{"escrow/create", "escrow/dispute"}, r.Paths())
}
