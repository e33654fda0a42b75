package app

import (
	"context"
	"sync"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
	"github.com/tendermint/tendermint/libs/log"
)

// BaseApp delivers transactions in blocks on top of a CommitStore. It plays
// the role a consensus engine would play: every block is opened with a
// ledger time, transactions are delivered one at a time and the block is
// committed.
//
// BaseApp is safe for concurrent use. All calls are serialized.
type BaseApp struct {
	mu sync.Mutex

	name    string
	store   *CommitStore
	decoder custody.TxDecoder
	handler custody.Handler
	ticker  custody.Ticker
	sink    events.Sink
	logger  log.Logger
	debug   bool

	chainID string

	// baseContext contains context info that is valid for the
	// lifetime of this app (eg. chainID)
	baseContext custody.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), reset on BeginBlock
	blockContext custody.Context
}

// NewBaseApp loads the latest state of the store and returns an application
// delivering transactions decoded with decoder to handler.
func NewBaseApp(
	name string,
	store custody.CommitKVStore,
	decoder custody.TxDecoder,
	handler custody.Handler,
	logger log.Logger,
) (*BaseApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	b := &BaseApp{
		name:    name,
		store:   cs,
		decoder: decoder,
		handler: handler,
		logger:  logger.With("module", name),
	}
	b.baseContext = custody.WithLogger(context.Background(), b.logger)

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, errors.Wrap(err, "load chain id")
	}
	if chainID != "" {
		b.chainID = chainID
		b.baseContext = custody.WithChainID(b.baseContext, chainID)
	}
	return b, nil
}

// WithTicker sets the ticker called at the beginning of every block.
func (b *BaseApp) WithTicker(t custody.Ticker) *BaseApp {
	b.ticker = t
	return b
}

// WithSink sets the destination of the events of successful operations.
func (b *BaseApp) WithSink(s events.Sink) *BaseApp {
	b.sink = s
	return b
}

// WithDebug controls whether internal error details are returned.
func (b *BaseApp) WithDebug(debug bool) *BaseApp {
	b.debug = debug
	return b
}

// ChainID returns the chain id or an empty string if the application was
// not initialized yet.
func (b *BaseApp) ChainID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chainID
}

// InitChain initializes the state from the genesis and commits it. It can
// be called only once in the lifetime of the store.
func (b *BaseApp) InitChain(gen *Genesis, init custody.Initializer) (custody.CommitID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.chainID != "" {
		return custody.CommitID{}, errors.Wrapf(errors.ErrImmutable, "already initialized for chain %q", b.chainID)
	}
	if err := gen.Validate(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "invalid genesis")
	}

	cache := b.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return custody.CommitID{}, err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return custody.CommitID{}, errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "write genesis")
	}

	b.chainID = gen.ChainID
	b.baseContext = custody.WithChainID(b.baseContext, gen.ChainID)
	b.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return b.commit()
}

// BeginBlock opens a new block with the given ledger time and runs the
// ticker. Ticker events are published like the events of a transaction.
func (b *BaseApp) BeginBlock(now time.Time) (custody.TickResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.chainID == "" {
		return custody.TickResult{}, errors.Wrap(errors.ErrState, "not initialized")
	}
	if b.blockContext != nil {
		return custody.TickResult{}, errors.Wrap(errors.ErrState, "block already open")
	}
	last, err := b.store.CommitInfo()
	if err != nil {
		return custody.TickResult{}, errors.Wrap(err, "commit info")
	}
	height := last.Version + 1
	ctx := custody.WithHeight(b.baseContext, height)
	ctx = custody.WithBlockTime(ctx, now.UTC())
	b.blockContext = ctx
	b.logger.Debug("begin block", "height", height, "time", now.UTC())

	if b.ticker == nil {
		return custody.TickResult{}, nil
	}
	var buf events.Buffer
	tctx := custody.WithLogInfo(events.WithBuffer(ctx, &buf), "call", "begin_block")
	res, err := b.ticker.Tick(tctx, b.store.DeliverStore())
	if err != nil {
		return res, errors.Wrap(err, "tick")
	}
	if err := b.publish(tctx, b.store.DeliverStore(), buf.Events()); err != nil {
		return res, err
	}
	return res, nil
}

// DeliverTx executes the transaction in the current block. A failed
// transaction leaves no trace in the state and publishes no events.
func (b *BaseApp) DeliverTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.blockContext == nil {
		return b.failed(errors.Wrap(errors.ErrState, "no block open"))
	}
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return b.failed(err)
	}

	var buf events.Buffer
	ctx := custody.WithLogInfo(events.WithBuffer(b.blockContext, &buf),
		"call", "deliver_tx",
		"path", custody.GetPath(tx))

	cache := b.store.DeliverStore().CacheWrap()
	res, err := b.deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return b.failed(err)
	}
	if err := b.publish(ctx, cache, buf.Events()); err != nil {
		cache.Discard()
		return b.failed(err)
	}
	if err := cache.Write(); err != nil {
		return b.failed(errors.Wrap(err, "write transaction"))
	}
	return TxResult{
		Data:   res.Data,
		Log:    res.Log,
		Events: buf.Events(),
	}
}

// CheckTx validates the transaction against the check state. Changes done
// by a successful check are visible to the following checks until the next
// commit.
func (b *BaseApp) CheckTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return b.failed(err)
	}
	ctx := b.blockContext
	if ctx == nil {
		ctx = b.baseContext
	}
	ctx = custody.WithLogInfo(ctx, "call", "check_tx", "path", custody.GetPath(tx))
	res, err := b.check(ctx, b.store.CheckStore(), tx)
	if err != nil {
		return b.failed(err)
	}
	return TxResult{Log: res.Log}
}

// Commit closes the current block and persists its state.
func (b *BaseApp) Commit() (custody.CommitID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blockContext = nil
	return b.commit()
}

func (b *BaseApp) commit() (custody.CommitID, error) {
	id, err := b.store.Commit()
	if err != nil {
		return id, err
	}
	b.logger.Info("commit", "height", id.Version, "hash", id.Hash)
	return id, nil
}

// DeliverBlock opens a block, delivers all transactions and commits.
// Failing transactions do not fail the block, their errors are part of the
// result.
func (b *BaseApp) DeliverBlock(now time.Time, txs ...[]byte) (*BlockResult, error) {
	tick, err := b.BeginBlock(now)
	if err != nil {
		return nil, err
	}
	res := BlockResult{Tick: tick}
	for _, tx := range txs {
		res.Txs = append(res.Txs, b.DeliverTx(tx))
	}
	res.Commit, err = b.Commit()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// View calls fn with a read only view of the last committed state.
func (b *BaseApp) View(fn func(db custody.ReadOnlyKVStore) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	db, release := b.store.View()
	defer release()
	return fn(db)
}

// LatestVersion returns the identifier of the last committed state.
func (b *BaseApp) LatestVersion() (custody.CommitID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.CommitInfo()
}

func (b *BaseApp) publish(ctx custody.Context, db custody.KVStore, evs []events.Event) error {
	if b.sink == nil || len(evs) == 0 {
		return nil
	}
	if err := b.sink.Publish(ctx, db, evs); err != nil {
		return errors.Wrap(err, "publish events")
	}
	return nil
}

func (b *BaseApp) failed(err error) TxResult {
	code, log := errors.Info(err, b.debug)
	return TxResult{
		Code: code,
		Log:  log,
		Err:  errors.Redact(err, b.debug),
	}
}

// deliver calls the handler, turning a panic into an error.
func (b *BaseApp) deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (_ *custody.DeliverResult, err error) {
	defer errors.Recover(&err)
	return b.handler.Deliver(ctx, db, tx)
}

// check calls the handler, turning a panic into an error.
func (b *BaseApp) check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (_ *custody.CheckResult, err error) {
	defer errors.Recover(&err)
	return b.handler.Check(ctx, db, tx)
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	return tx, nil
}
