package installment

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

const (
	ticker = "PAY"
	day    = 24 * 60 * 60
)

type fixture struct {
	t      require.TestingT
	db     custody.CacheableKVStore
	bank   cash.BaseController
	auth   *custodytest.CtxAuth
	ctrl   *Controller
	events events.Buffer
	now    time.Time

	buyer, seller, arbitrator custody.Condition
}

// newFixture returns a fresh store where the buyer owns 1000 PAY.
func newFixture(t require.TestingT) *fixture {
	f := &fixture{
		t:          t,
		db:         store.MemStore(),
		bank:       cash.NewController(),
		auth:       &custodytest.CtxAuth{Key: "installment"},
		now:        time.Unix(1600000000, 0).UTC(),
		buyer:      custodytest.NewCondition(),
		seller:     custodytest.NewCondition(),
		arbitrator: custodytest.NewCondition(),
	}
	f.ctrl = NewController(f.auth, f.bank)
	require.NoError(t, f.bank.IssueCoins(f.db, f.buyer.Address(), coin.NewCoin(1000, ticker)))
	return f
}

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

// create proposes an agreement with a deadline in ten days.
func (f *fixture) create(total uint64) uint64 {
	id, err := f.ctrl.Create(f.ctx(f.buyer), f.db, f.seller.Address(), f.buyer.Address(),
		coin.NewCoin(total, ticker), 10*day, f.arbitrator.Address(), "bicycle")
	require.NoError(f.t, err)
	return id
}

// accepted returns an agreement accepted by the seller.
func (f *fixture) accepted(total uint64) uint64 {
	id := f.create(total)
	require.NoError(f.t, f.ctrl.Accept(f.ctx(f.seller), f.db, f.seller.Address(), true, id))
	return id
}

func (f *fixture) pay(id uint64, amount uint64) error {
	return f.ctrl.Pay(f.ctx(f.buyer), f.db, f.buyer.Address(), coin.NewCoin(amount, ticker), id)
}

func (f *fixture) get(id uint64) *Agreement {
	a, err := f.ctrl.Get(f.db, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, a, "agreement %d", id)
	return a
}

func (f *fixture) topics() []string {
	var res []string
	for _, e := range f.events.Events() {
		res = append(res, e.Topic)
	}
	return res
}

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
