/*
Package custodyd links together all the extensions into the custody
application: signed transactions, cash wallets, escrows and installment
agreements, with automatic escrow release run by the block ticker.
*/
package custodyd

import (
	"github.com/paystar/custody"
	"github.com/paystar/custody/app"
	"github.com/paystar/custody/events"
	"github.com/paystar/custody/x"
	"github.com/paystar/custody/x/cash"
	"github.com/paystar/custody/x/cron"
	"github.com/paystar/custody/x/escrow"
	"github.com/paystar/custody/x/installment"
	"github.com/paystar/custody/x/sigs"
	"github.com/paystar/custody/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator accepts public key signatures and the conditions of
// scheduled tasks.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, cron.Authenticator{})
}

// Chain returns the decorators wrapping every transaction: logging, panic
// recovery, signature verification and savepoints.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router dispatches all messages of the application. Escrow releases are
// scheduled with scheduler.
func Router(auth x.Authenticator, scheduler custody.Scheduler) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController()
	sigs.RegisterRoutes(r, auth)
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, escrow.NewController(auth, bank, scheduler))
	installment.RegisterRoutes(r, auth, installment.NewController(auth, bank))
	return r
}

// Initializers load the genesis state of all extensions.
func Initializers() custody.Initializer {
	return custody.ChainInitializers{
		cash.Initializer{},
		escrow.Initializer{},
	}
}

// EventSink persists the events of committed operations and logs them.
func EventSink() *events.StoreSink {
	return events.NewStoreSink()
}

// Application returns the custody application on top of the given store.
// Every block runs the due cron tasks before delivering transactions.
func Application(name string, store custody.CommitKVStore, logger log.Logger) (*app.BaseApp, error) {
	auth := Authenticator()
	enc := TaskMarshaler{}
	router := Router(auth, cron.NewScheduler(enc))

	base, err := app.NewBaseApp(name, store, TxDecoder, Chain().WithHandler(router), logger)
	if err != nil {
		return nil, err
	}
	ticker := cron.NewTicker(app.ChainDecorators(utils.NewLogging()).WithHandler(router), enc)
	return base.
		WithTicker(ticker).
		WithSink(events.MultiSink{EventSink(), events.LogSink{}}), nil
}
