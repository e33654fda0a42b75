package escrow

import (
	"context"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/coin"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/store"
	"github.com/paystar/custody/x/cash"
	"github.com/stretchr/testify/require"
)

const ticker = "PAY"

// fixture is a fresh store with a funded buyer and a configured admin.
type fixture struct {
	t      require.TestingT
	db     custody.CacheableKVStore
	bank   cash.BaseController
	auth   *custodytest.CtxAuth
	cron   *custodytest.Cron
	ctrl   *Controller
	events events.Buffer
	now    time.Time

	buyer, seller, admin custody.Condition
}

func newFixture(t require.TestingT) *fixture {
	f := &fixture{
		t:      t,
		db:     store.MemStore(),
		bank:   cash.NewController(),
		auth:   &custodytest.CtxAuth{Key: "escrow"},
		cron:   &custodytest.Cron{},
		now:    time.Unix(1600000000, 0).UTC(),
		buyer:  custodytest.NewCondition(),
		seller: custodytest.NewCondition(),
		admin:  custodytest.NewCondition(),
	}
	f.ctrl = NewController(f.auth, f.bank, f.cron)
	require.NoError(t, f.bank.IssueCoins(f.db, f.buyer.Address(), coin.NewCoin(10000, ticker)))
	require.NoError(t, f.ctrl.Initialize(f.ctx(f.admin), f.db, f.admin.Address()))
	return f
}

// ctx returns a context of the current block signed by the given
// conditions.
func (f *fixture) ctx(signers ...custody.Condition) custody.Context {
	ctx := custody.WithBlockTime(context.Background(), f.now)
	ctx = events.WithBuffer(ctx, &f.events)
	return f.auth.SetConditions(ctx, signers...)
}

func (f *fixture) balance(addr custody.Address) coin.Amount {
	coins, err := f.bank.Balance(f.db, addr)
	require.NoError(f.t, err)
	return coins.Balance(ticker)
}

// create opens an escrow of the buyer that is released in an hour.
func (f *fixture) create(amount uint64) uint64 {
	id, err := f.ctrl.Create(f.ctx(f.buyer), f.db, f.buyer.Address(), f.seller.Address(),
		coin.NewCoin(amount, ticker), custody.AsUnixTime(f.now.Add(time.Hour)))
	require.NoError(f.t, err)
	return id
}

func (f *fixture) get(id uint64) *Escrow {
	e, err := f.ctrl.Get(f.db, id)
	require.NoError(f.t, err)
	return e
}

func (f *fixture) topics() []string {
	var res []string
	for _, e := range f.events.Events() {
		res = append(res, e.Topic)
	}
	return res
}

// dump returns a copy of all key value pairs in the store.
func dump(t require.TestingT, db custody.ReadOnlyKVStore) map[string]string {
	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Close()
	res := make(map[string]string)
	for ; it.Valid(); it.Next() {
		res[string(it.Key())] = string(it.Value())
	}
	return res
}
