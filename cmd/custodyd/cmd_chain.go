package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/paystar/custody"
	"github.com/paystar/custody/app"
	custodyd "github.com/paystar/custody/cmd/custodyd/app"
	"github.com/paystar/custody/x/escrow"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Write the genesis file of a new ledger. Use init to load it.
	`)
	var (
		ledger    = addLedgerFlags(fl)
		chainIDFl = fl.String("chain-id", "custody-local", "Chain ID that every signature commits to.")
		adminFl   = flAddress(fl, "admin", "", "Optional escrow admin. Without it the admin is set with escrow-initialize.")
		accounts  accountsValue
	)
	fl.Var(&accounts, "fund", "Genesis wallet as <address>=<coin>. Can be repeated.")
	fl.Parse(args)

	gen, err := buildGenesis(*chainIDFl, *adminFl, accounts)
	if err != nil {
		return err
	}
	if err := app.WriteGenesis(ledger.genesisPath(), gen); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, ledger.genesisPath())
	return err
}

func buildGenesis(chainID string, admin custody.Address, accounts accountsValue) (*app.Genesis, error) {
	state := map[string]interface{}{
		"cash": []interface{}{},
	}
	if len(accounts) != 0 {
		state["cash"] = accounts
	}
	if len(admin) != 0 {
		state["conf"] = map[string]interface{}{
			"escrow": escrow.Configuration{Admin: admin},
		}
	}

	opts := make(custody.Options)
	for k, v := range state {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot serialize %q genesis: %s", k, err)
		}
		opts[k] = raw
	}
	return &app.Genesis{ChainID: chainID, AppState: opts}, nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Initialize the ledger from the genesis file. This can be done only once.
	`)
	ledger := addLedgerFlags(fl)
	fl.Parse(args)

	gen, err := app.LoadGenesis(ledger.genesisPath())
	if err != nil {
		return err
	}
	base, release, err := ledger.open()
	if err != nil {
		return err
	}
	defer release()

	id, err := base.InitChain(gen, custodyd.Initializers())
	if err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}
	return writeJSON(output, commitView(id))
}

func cmdTick(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	usage(fl, `
Deliver an empty block. Scheduled tasks due at the block time are executed.
	`)
	var (
		ledger = addLedgerFlags(fl)
		at     = flTime(fl, "time", "Ledger time of the block, in RFC3339 format. Current time if not provided.")
	)
	fl.Parse(args)

	base, release, err := ledger.open()
	if err != nil {
		return err
	}
	defer release()

	block, err := base.DeliverBlock(*at)
	if err != nil {
		return fmt.Errorf("cannot deliver block: %s", err)
	}
	executed := make([]string, len(block.Tick.Executed))
	for i, key := range block.Tick.Executed {
		executed[i] = hex.EncodeToString(key)
	}
	return writeJSON(output, struct {
		Commit   interface{} `json:"commit"`
		Executed []string    `json:"executed"`
	}{
		Commit:   commitView(block.Commit),
		Executed: executed,
	})
}

func commitView(id custody.CommitID) interface{} {
	return struct {
		Height int64  `json:"height"`
		Hash   string `json:"hash"`
	}{
		Height: id.Version,
		Hash:   hex.EncodeToString(id.Hash),
	}
}
