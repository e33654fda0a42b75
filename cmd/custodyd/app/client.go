package custodyd

import (
	"time"

	"github.com/paystar/custody"
	"github.com/paystar/custody/app"
	"github.com/paystar/custody/errors"
	"github.com/paystar/custody/x/sigs"
)

// SignTx signs msg with every signer using their next nonce in the last
// committed state.
func SignTx(base *app.BaseApp, msg custody.Msg, signers ...sigs.Signer) (*Tx, error) {
	tx := NewTx(msg)
	for _, s := range signers {
		var nonce int64
		err := base.View(func(db custody.ReadOnlyKVStore) error {
			var err error
			nonce, err = sigs.NextNonce(db, s.PublicKey().Address())
			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, "nonce")
		}
		if err := tx.Sign(s, base.ChainID(), nonce); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// Submit signs msg and delivers it alone in a new block at the given time.
// Cron tasks due at that time run before the transaction.
func Submit(base *app.BaseApp, now time.Time, msg custody.Msg, signers ...sigs.Signer) (app.TxResult, error) {
	tx, err := SignTx(base, msg, signers...)
	if err != nil {
		return app.TxResult{}, err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return app.TxResult{}, errors.Wrap(err, "marshal transaction")
	}
	block, err := base.DeliverBlock(now, raw)
	if err != nil {
		return app.TxResult{}, err
	}
	return block.Txs[0], nil
}
