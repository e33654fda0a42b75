package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/custodytest"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathDecoder decodes the raw bytes as the message path.
func pathDecoder(raw []byte) (custody.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	return &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: string(raw)}}, nil
}

// writeEmitHandler writes its key and emits an event before returning err.
type writeEmitHandler struct {
	key string
	err error
}

func (h writeEmitHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return &custody.CheckResult{}, h.err
}

func (h writeEmitHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set([]byte(h.key), []byte("x")); err != nil {
		return nil, err
	}
	events.Emit(ctx, h.key, events.Attr("path", custody.GetPath(tx)))
	return &custody.DeliverResult{Data: []byte(h.key)}, h.err
}

type initWriter struct{}

func (initWriter) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var v string
	if err := opts.ReadOptions("value", &v); err != nil {
		return err
	}
	if v == "" {
		return errors.Wrap(errors.ErrEmpty, "value")
	}
	return db.Set([]byte("genesis"), []byte(v))
}

func newTestApp(t *testing.T, db custody.CommitKVStore) (*BaseApp, *events.MemorySink) {
	t.Helper()
	r := NewRouter()
	r.Handle("test/ok", writeEmitHandler{key: "ok"})
	r.Handle("test/fail", writeEmitHandler{key: "fail", err: errors.ErrState})
	r.Handle("test/panic", custodytest.PanicHandler{Value: "boom"})

	var sink events.MemorySink
	a, err := NewBaseApp("test", db, pathDecoder, r, nil)
	require.NoError(t, err)
	return a.WithSink(&sink), &sink
}

func testGenesis(value string) *Genesis {
	return &Genesis{
		ChainID:  "test-chain",
		AppState: custody.Options{"value": json.RawMessage(`"` + value + `"`)},
	}
}

func TestBaseAppLifecycle(t *testing.T) {
	db, cleanup := custodytest.CommitKVStore(t)
	defer cleanup()

	a, sink := newTestApp(t, db)

	_, err := a.BeginBlock(time.Now())
	require.True(t, errors.ErrState.Is(err), "block before init: %v", err)

	_, err = a.InitChain(testGenesis(""), initWriter{})
	require.True(t, errors.ErrEmpty.Is(err), "got %v", err)
	require.Equal(t, "", a.ChainID())

	id, err := a.InitChain(testGenesis("hello"), initWriter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.Equal(t, "test-chain", a.ChainID())

	_, err = a.InitChain(testGenesis("again"), initWriter{})
	require.True(t, errors.ErrImmutable.Is(err), "got %v", err)

	res := a.DeliverTx([]byte("test/ok"))
	require.True(t, errors.ErrState.Is(res.Err), "deliver without block: %v", res.Err)

	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	block, err := a.DeliverBlock(now,
		[]byte("test/ok"),
		[]byte("test/fail"),
		[]byte("test/panic"),
		[]byte("test/unknown"),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, block.Txs, 5)
	assert.Equal(t, int64(2), block.Commit.Version)

	assert.True(t, block.Txs[0].IsOK())
	assert.Equal(t, []byte("ok"), block.Txs[0].Data)
	require.Len(t, block.Txs[0].Events, 1)

	assert.Equal(t, errors.ErrState.Code(), block.Txs[1].Code)
	assert.Empty(t, block.Txs[1].Events)
	assert.Equal(t, errors.ErrPanic.Code(), block.Txs[2].Code)
	assert.Equal(t, errors.ErrNotFound.Code(), block.Txs[3].Code)
	assert.Equal(t, errors.ErrInput.Code(), block.Txs[4].Code)

	// Only the successful transaction published events.
	assert.Equal(t, []string{"ok"}, sink.Topics())

	err = a.View(func(db custody.ReadOnlyKVStore) error {
		for key, want := range map[string]bool{"genesis": true, "ok": true, "fail": false} {
			has, err := db.Has([]byte(key))
			require.NoError(t, err)
			assert.Equal(t, want, has, key)
		}
		return nil
	})
	require.NoError(t, err)

	// The application state survives a restart.
	reloaded, _ := newTestApp(t, db)
	assert.Equal(t, "test-chain", reloaded.ChainID())
	latest, err := reloaded.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, block.Commit, latest)
}

func TestBaseAppCheckTx(t *testing.T) {
	a, sink := newTestApp(t, iavl.NewMemCommitStore())
	_, err := a.InitChain(testGenesis("v"), initWriter{})
	require.NoError(t, err)

	assert.True(t, a.CheckTx([]byte("test/ok")).IsOK())
	assert.Equal(t, errors.ErrState.Code(), a.CheckTx([]byte("test/fail")).Code)
	assert.Empty(t, sink.Events())
}

// tickEmitter emits one event every tick.
type tickEmitter struct {
	ticks int
}

func (te *tickEmitter) Tick(ctx custody.Context, db custody.CacheableKVStore) (custody.TickResult, error) {
	te.ticks++
	events.Emit(ctx, "tick")
	return custody.TickResult{Executed: [][]byte{custodytest.SequenceID(uint64(te.ticks))}}, nil
}

func TestBaseAppTicker(t *testing.T) {
	a, sink := newTestApp(t, iavl.NewMemCommitStore())
	var te tickEmitter
	a.WithTicker(&te)
	_, err := a.InitChain(testGenesis("v"), initWriter{})
	require.NoError(t, err)

	now := time.Now()
	res, err := a.DeliverBlock(now)
	require.NoError(t, err)
	assert.Len(t, res.Tick.Executed, 1)

	_, err = a.BeginBlock(now)
	require.NoError(t, err)
	_, err = a.BeginBlock(now)
	require.True(t, errors.ErrState.Is(err), "got %v", err)
	_, err = a.Commit()
	require.NoError(t, err)

	assert.Equal(t, 2, te.ticks)
	assert.Equal(t, []string{"tick", "tick"}, sink.Topics())
}
