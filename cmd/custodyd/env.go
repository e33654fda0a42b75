package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/paystar/custody/app"
	custodyd "github.com/paystar/custody/cmd/custodyd/app"
	"github.com/paystar/custody/crypto"
	"github.com/paystar/custody/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// ledgerFlags locate the local store.
type ledgerFlags struct {
	home     *string
	logLevel *string
}

func addLedgerFlags(fl *flag.FlagSet) ledgerFlags {
	return ledgerFlags{
		home: fl.String("home", env("CUSTODY_HOME", filepath.Join(os.Getenv("HOME"), ".custodyd")),
			"Directory of the ledger database. You can use CUSTODY_HOME environment variable to set it."),
		logLevel: fl.String("log-level", env("CUSTODY_LOG_LEVEL", "error"),
			"Minimal level of the logs written to stderr: debug, info, error or none."),
	}
}

func (l ledgerFlags) genesisPath() string {
	return filepath.Join(*l.home, "genesis.json")
}

// open returns the application on top of the ledger database. The returned
// function must be called to release the database.
func (l ledgerFlags) open() (*app.BaseApp, func(), error) {
	logger, err := newLogger(*l.logLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(*l.home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	store := iavl.NewCommitStore(*l.home, "custody")
	base, err := custodyd.Application("custodyd", store, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("cannot load application: %s", err)
	}
	return base, store.Close, nil
}

func newLogger(level string) (log.Logger, error) {
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

// txFlags are the flags of every command that delivers a signed
// transaction.
type txFlags struct {
	ledgerFlags
	key *string
	at  *time.Time
}

func addTxFlags(fl *flag.FlagSet) txFlags {
	return txFlags{
		ledgerFlags: addLedgerFlags(fl),
		key:         flKeyPath(fl),
		at:          flTime(fl, "time", "Ledger time of the block delivering the transaction, in RFC3339 format. Current time if not provided."),
	}
}

func flKeyPath(fl *flag.FlagSet) *string {
	return fl.String("key", env("CUSTODY_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".custodyd.priv.key")),
		"Path to the private key file that transaction should be signed with. You can use CUSTODY_PRIV_KEY environment variable to set it.")
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
