package escrow

import (
	"testing"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/app"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/orm"
	"github.com/paystar/custody/x/cron"
	"github.com/paystar/custody/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	r := app.NewRouter()
	RegisterRoutes(r, f.auth, f.ctrl)

	deliver := func(signer custody.Condition, msg custody.Msg) (*custody.DeliverResult, error) {
		ctx := f.ctx()
		if signer != nil {
			ctx = f.ctx(signer)
		}
		tx := &custodytest.Tx{Msg: msg}
		if _, err := r.Check(ctx, f.db, tx); err != nil {
			return nil, err
		}
		return r.Deliver(ctx, f.db, tx)
	}

	res, err := deliver(f.buyer, &CreateMsg{
		Buyer:       f.buyer.Address(),
		Seller:      f.seller.Address(),
		Amount:      coin.NewCoin(250, ticker),
		ReleaseTime: custody.AsUnixTime(f.now.Add(time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, orm.EncodeSequence(1), res.Data)

	_, err = deliver(f.seller, &ConfirmReceiptMsg{Buyer: f.buyer.Address(), EscrowID: 1})
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

	_, err = deliver(f.buyer, &ReleaseMsg{EscrowID: 1})
	assert.True(t, ErrReleaseTimeNotPassed.Is(err), "unexpected error: %+v", err)

	_, err = deliver(f.buyer, &DisputeMsg{Buyer: f.buyer.Address(), EscrowID: 1, Reason: "late"})
	require.NoError(t, err)

	_, err = deliver(f.buyer, &ResolveDisputeMsg{Admin: f.admin.Address(), EscrowID: 1})
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

	_, err = deliver(f.admin, &ResolveDisputeMsg{Admin: f.admin.Address(), EscrowID: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, f.get(1).Status)

	next := custodytest.NewCondition()
	_, err = deliver(f.admin, &SetAdminMsg{Admin: f.admin.Address(), NewAdmin: next.Address()})
	require.NoError(t, err)

	_, err = deliver(next, &InitializeMsg{Admin: next.Address()})
	assert.True(t, ErrAlreadyInitialized.Is(err), "unexpected error: %+v", err)

	res, err = deliver(f.buyer, &CreateMsg{
		Buyer:       f.buyer.Address(),
		Seller:      f.seller.Address(),
		Amount:      coin.NewCoin(5, ticker),
		ReleaseTime: custody.AsUnixTime(f.now.Add(time.Hour)),
	})
	require.NoError(t, err)
	_, err = deliver(f.buyer, &ConfirmReceiptMsg{Buyer: f.buyer.Address(), EscrowID: 2})
	require.NoError(t, err)
	// Release is permissionless.
	_, err = deliver(nil, &ReleaseMsg{EscrowID: 2})
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(5), f.balance(f.seller.Address()))

	_, err = deliver(f.buyer, &ReleaseMsg{})
	assert.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}

func TestFailedDeliverLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.cron.Err = errors.Wrap(errors.ErrDatabase, "cron is down")

	r := app.NewRouter()
	RegisterRoutes(r, f.auth, f.ctrl)
	h := app.ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(r)

	before := dump(t, f.db)
	_, err := h.Deliver(f.ctx(f.buyer), f.db, &custodytest.Tx{Msg: &CreateMsg{
		Buyer:       f.buyer.Address(),
		Seller:      f.seller.Address(),
		Amount:      coin.NewCoin(250, ticker),
		ReleaseTime: custody.AsUnixTime(f.now.Add(time.Hour)),
	}})
	require.Error(t, err)
	assert.Equal(t, before, dump(t, f.db))
	assert.Empty(t, f.topics())
}

func TestAutomaticRelease(t *testing.T) {
	f := newFixture(t)
	enc := releaseTaskMarshaler{}
	f.ctrl = NewController(f.auth, f.bank, cron.NewScheduler(enc))

	r := app.NewRouter()
	RegisterRoutes(r, f.auth, f.ctrl)
	runner := cron.NewTicker(r, enc)

	released := f.create(100)
	disputed := f.create(200)
	require.NoError(t, f.ctrl.Dispute(f.ctx(f.buyer), f.db, f.buyer.Address(), disputed, "broken"))

	// Nothing is due yet.
	res, err := runner.Tick(f.ctx(), f.db)
	require.NoError(t, err)
	assert.Empty(t, res.Executed)

	f.now = f.now.Add(time.Hour)
	res, err = runner.Tick(f.ctx(), f.db)
	require.NoError(t, err)
	require.Len(t, res.Executed, 1)

	assert.Equal(t, StatusReleased, f.get(released).Status)
	assert.Equal(t, StatusDisputed, f.get(disputed).Status)
	assert.Equal(t, coin.NewAmount(100), f.balance(f.seller.Address()))

	result, err := cron.LoadResult(f.db, res.Executed[0])
	require.NoError(t, err)
	assert.True(t, result.Successful)
}

func TestAutomaticReleaseOfConfirmedEscrow(t *testing.T) {
	f := newFixture(t)
	enc := releaseTaskMarshaler{}
	f.ctrl = NewController(f.auth, f.bank, cron.NewScheduler(enc))
	r := app.NewRouter()
	RegisterRoutes(r, f.auth, f.ctrl)

	id := f.create(100)
	require.NoError(t, f.ctrl.ConfirmReceipt(f.ctx(f.buyer), f.db, f.buyer.Address(), id))
	require.NoError(t, f.ctrl.ReleaseFunds(f.ctx(), f.db, id))

	// The scheduled release was cancelled with the manual release.
	f.now = f.now.Add(time.Hour)
	res, err := cron.NewTicker(r, enc).Tick(f.ctx(), f.db)
	require.NoError(t, err)
	assert.Empty(t, res.Executed)
}

// releaseTaskMarshaler encodes tasks that carry a ReleaseMsg and no
// conditions.
type releaseTaskMarshaler struct{}

func (releaseTaskMarshaler) MarshalTask(auth []custody.Condition, msg custody.Msg) ([]byte, error) {
	if len(auth) != 0 {
		return nil, errors.Wrap(errors.ErrInput, "conditions not supported")
	}
	m, ok := msg.(*ReleaseMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return m.Marshal()
}

func (releaseTaskMarshaler) UnmarshalTask(raw []byte) ([]custody.Condition, custody.Msg, error) {
	var m ReleaseMsg
	if err := m.Unmarshal(raw); err != nil {
		return nil, nil, err
	}
	return nil, &m, nil
}
